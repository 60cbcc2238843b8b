package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/openflock/backend/internal/auth"
	"github.com/openflock/backend/internal/cache"
	"github.com/openflock/backend/internal/config"
	"github.com/openflock/backend/internal/database"
	"github.com/openflock/backend/internal/feed"
	"github.com/openflock/backend/internal/handlers"
	"github.com/openflock/backend/internal/logger"
	"github.com/openflock/backend/internal/middleware"
	"github.com/openflock/backend/internal/notifications"
	"github.com/openflock/backend/internal/repository"
	"github.com/openflock/backend/internal/social"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg := config.Load()

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Close() }()

	if len(cfg.JWTSecret) == 0 {
		log.Fatalf("JWT_SECRET environment variable is required")
	}

	if err := database.Initialize(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() { _ = database.Close() }()

	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Stores
	users := repository.NewUserRepository(database.DB, cfg.StoreTimeout)
	posts := repository.NewPostRepository(database.DB, cfg.StoreTimeout)
	notifs := repository.NewNotificationRepository(database.DB, cfg.StoreTimeout)

	// Core services
	socialService := social.NewService(users, posts, notifs, nil)
	feedComposer := feed.NewComposer(users, posts)
	notifFeed := notifications.NewFeed(notifs)
	authService := auth.NewService([]byte(cfg.JWTSecret), users)

	h := handlers.NewHandlers(authService, socialService, feedComposer, notifFeed, users)

	// Redis is optional; the feed cache turns itself off without it
	redisClient, err := cache.NewRedisClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword)
	if err != nil {
		log.Printf("Warning: Redis unavailable, feed caching disabled: %v", err)
	} else {
		h.SetRedisClient(redisClient)
		defer func() { _ = redisClient.Close() }()
	}

	if os.Getenv("ENVIRONMENT") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.ZapLogger())
	router.Use(middleware.PrometheusMetrics())
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		if err := database.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}
