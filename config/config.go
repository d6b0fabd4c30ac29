package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"
)

// Config holds all configuration for the pet nutrition scan service
type Config struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Server configuration
	Port           string
	TrustedProxies []string

	// Security
	JWTSecret string

	// OpenAI configuration
	OpenAIAPIKey string
	OpenAIModel  string

	// Stripe configuration
	StripeSecretKey      string
	StripePremiumPriceID string
	FrontendURL          string

	// RabbitMQ configuration (optional, analysis events)
	RabbitMQ RabbitMQConfig

	// Logging
	LogLevel string
}

// RabbitMQConfig holds the AMQP connection settings for analysis events
type RabbitMQConfig struct {
	Host       string
	Port       string
	User       string
	Password   string
	Exchange   string
	RoutingKey string
}

// GetAMQPURL builds the AMQP connection URL
func (r RabbitMQConfig) GetAMQPURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", r.User, r.Password, r.Host, r.Port)
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		// Database defaults
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "server"),
		DBPassword: getEnv("DB_PASSWORD", "secret_app"),
		DBName:     getEnv("DB_NAME", "petfood"),

		// Server defaults
		Port: getEnv("PORT", "8080"),

		// Security
		JWTSecret: getEnv("JWT_SECRET", ""),

		// OpenAI defaults
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o"),

		// Stripe
		StripeSecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
		StripePremiumPriceID: getEnv("STRIPE_PREMIUM_PRICE_ID", ""),
		FrontendURL:          getEnv("FRONTEND_URL", "http://localhost:3000"),

		RabbitMQ: RabbitMQConfig{
			Host:       getEnv("RABBITMQ_HOST", "localhost"),
			Port:       getEnv("RABBITMQ_PORT", "5672"),
			User:       getEnv("RABBITMQ_USER", "guest"),
			Password:   getEnv("RABBITMQ_PASSWORD", "guest"),
			Exchange:   getEnv("RABBITMQ_EXCHANGE", "petfood"),
			RoutingKey: getEnv("RABBITMQ_ANALYSIS_ROUTING_KEY", "analysis.completed"),
		},

		// Logging defaults
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// Trusted proxies default to localhost only
	if proxies := os.Getenv("TRUSTED_PROXIES"); proxies != "" {
		for _, proxy := range strings.Split(proxies, ",") {
			if trimmed := strings.TrimSpace(proxy); trimmed != "" {
				cfg.TrustedProxies = append(cfg.TrustedProxies, trimmed)
			}
		}
	} else {
		cfg.TrustedProxies = []string{"127.0.0.1", "::1"}
	}

	if cfg.StripeSecretKey == "" {
		log.Warn("STRIPE_SECRET_KEY not configured, subscription checks will resolve to unsubscribed")
	}
	if cfg.StripePremiumPriceID == "" {
		log.Warn("STRIPE_PREMIUM_PRICE_ID not configured, checkout creation will fail")
	}

	return cfg
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
