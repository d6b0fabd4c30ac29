package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet-nutrition-service/config"
	"pet-nutrition-service/database"
	"pet-nutrition-service/handlers"
	"pet-nutrition-service/metrics"
	"pet-nutrition-service/middleware"
	"pet-nutrition-service/openai"
	"pet-nutrition-service/rabbitmq"
	"pet-nutrition-service/service"
	"pet-nutrition-service/utils/stripe"

	"github.com/apex/log"
	"github.com/apex/log/handlers/text"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.SetHandler(text.New(os.Stderr))
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	// Validate required configuration
	if cfg.OpenAIAPIKey == "" {
		log.Fatal("OPENAI_API_KEY environment variable is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	// Initialize database
	db, err := database.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		log.Fatalf("Failed to initialize database schema: %v", err)
	}
	if err := db.SeedBreeds(); err != nil {
		log.Fatalf("Failed to seed breed reference data: %v", err)
	}

	// RabbitMQ is best-effort: analysis events are dropped when the
	// broker is unavailable, the pipeline itself keeps working.
	var publisher service.EventPublisher
	if pub, err := rabbitmq.NewPublisher(cfg.RabbitMQ.GetAMQPURL(), cfg.RabbitMQ.Exchange, cfg.RabbitMQ.RoutingKey); err != nil {
		log.WithError(err).Warn("RabbitMQ unavailable, analysis events disabled")
	} else {
		publisher = pub
		defer pub.Close()
	}

	metrics.Register()

	// Initialize service layer
	billing := stripe.NewClient(cfg)
	llmClient := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	analysisService := service.NewService(db, billing, llmClient, publisher)

	router := setupRouter(cfg, analysisService, db)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Infof("Starting HTTP server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

func setupRouter(cfg *config.Config, svc *service.Service, db *database.Database) *gin.Engine {
	router := gin.Default()
	router.SetTrustedProxies(cfg.TrustedProxies)

	router.Use(middleware.CORSMiddleware())

	h := handlers.NewHandlers(svc, db)

	router.GET("/health", h.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", h.HealthCheck)
		public.GET("/breeds", h.ListBreeds)
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		protected.POST("/pets", h.CreatePet)
		protected.GET("/pets", h.ListPets)
		protected.GET("/pets/:id/history", h.History)

		protected.POST("/analyze", h.Analyze)

		protected.GET("/quota", h.Quota)
		protected.GET("/subscription", h.Subscription)
		protected.POST("/checkout", h.CreateCheckout)
	}

	return router
}
