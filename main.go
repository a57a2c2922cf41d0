// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"go-marketplace/cache"
	"go-marketplace/config"
	"go-marketplace/controllers"
	"go-marketplace/paypal"
	"go-marketplace/routes"
	"go-marketplace/services"
	"go-marketplace/stores"
	"go-marketplace/utils"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	cfg := config.Load()

	// Set the JWT secret key
	utils.JwtKey = []byte(cfg.JWTSecret)

	// Initialize EmailService
	emailService := utils.NewEmailService()

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err = client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()
	db := client.Database(cfg.DBName)
	if err := stores.EnsureIndexes(context.TODO(), db); err != nil {
		log.Fatal(err)
	}

	// Connect to Redis for the PayPal token cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Username: cfg.RedisUsername,
		Password: cfg.RedisPassword,
	})
	tokenCache := cache.NewRedisTokenCache(redisClient)

	// Payment gateway
	paypalClient := paypal.NewClient(cfg.PaypalBaseURL, cfg.PaypalClientID, cfg.PaypalClientSecret, tokenCache)

	// Stores and services
	cartStore := stores.NewMongoCartStore(db)
	catalog := stores.NewMongoProductCatalog(db)
	orderStore := stores.NewMongoOrderStore(db)
	transactionStore := stores.NewMongoTransactionStore(db)
	cartService := services.NewCartService(cartStore, catalog, orderStore, transactionStore, paypalClient)
	historyService := services.NewHistoryService(orderStore, transactionStore)

	// Initialize controllers
	userController := controllers.NewUserController(db, emailService)
	cartController := controllers.NewCartController(cartService, emailService)
	orderController := controllers.NewOrderController(historyService)
	transactionController := controllers.NewTransactionController(historyService)

	// Set up the router
	router := mux.NewRouter()
	// Register routes
	routes.RegisterRoutes(router, userController, cartController, orderController, transactionController)

	// Start the server
	fmt.Printf("Server is running on port %s\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}
