package config

import (
	"os"
)

// Config carries every environment-backed setting the server needs.
type Config struct {
	Port               string
	MongoURI           string
	DBName             string
	JWTSecret          string
	RedisAddr          string
	RedisUsername      string
	RedisPassword      string
	PaypalBaseURL      string
	PaypalClientID     string
	PaypalClientSecret string
	PostmarkToken      string
	EmailSender        string
}

// Load reads the configuration from the environment, applying defaults that
// suit local development.
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8000"),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:             getEnv("DB_NAME", "marketplace"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisUsername:      getEnv("REDIS_USERNAME", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		PaypalBaseURL:      getEnv("PAYPAL_BASE_URL", "https://api-m.sandbox.paypal.com"),
		PaypalClientID:     getEnv("PAYPAL_CLIENT_ID", ""),
		PaypalClientSecret: getEnv("PAYPAL_CLIENT_SECRET", ""),
		PostmarkToken:      getEnv("POSTMARK_API_TOKEN", ""),
		EmailSender:        getEnv("EMAIL_SENDER", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
