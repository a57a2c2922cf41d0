// routes/routes.go
package routes

import (
	"go-marketplace/controllers"
	"go-marketplace/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, userController *controllers.UserController, cartController *controllers.CartController, orderController *controllers.OrderController, transactionController *controllers.TransactionController) {
	router.Use(middleware.MonitoringMiddleware)

	// Public routes
	router.HandleFunc("/register", userController.Register).Methods("POST")
	router.HandleFunc("/login", userController.Login).Methods("POST")
	router.HandleFunc("/verify", userController.VerifyEmail).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Protected routes
	protected := router.PathPrefix("/").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/profile", userController.GetProfile).Methods("GET")

	// Cart routes
	protected.HandleFunc("/carts", cartController.GetCart).Methods("GET")
	protected.HandleFunc("/carts/products/{productId}", cartController.AddProduct).Methods("POST")
	protected.HandleFunc("/carts/products/{productId}", cartController.RemoveProduct).Methods("DELETE")
	protected.HandleFunc("/carts/cod", cartController.CashCheckout).Methods("POST")
	protected.HandleFunc("/carts/paypal/create-order", cartController.PaypalCreateOrder).Methods("POST")
	protected.HandleFunc("/carts/paypal/capture-order", cartController.PaypalCaptureOrder).Methods("POST")

	// Ledger routes
	protected.HandleFunc("/orders", orderController.GetOrders).Methods("GET")
	protected.HandleFunc("/transactions", transactionController.GetTransactions).Methods("GET")
}
