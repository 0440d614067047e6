package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"docuchat-backend/internal/ai"
	"docuchat-backend/internal/chat"
	"docuchat-backend/internal/config"
	"docuchat-backend/internal/logger"
	"docuchat-backend/internal/telemetry"
	"docuchat-backend/middleware"
	"docuchat-backend/routes"
	"docuchat-backend/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	shutdownTracer, err := telemetry.InitTracer("docuchat-backend")
	if err != nil {
		logger.Warn("Tracing disabled", "error", err)
	} else {
		defer shutdownTracer()
	}

	// Connect to MongoDB
	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()

	// Connect to Redis
	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer rdb.Close()

	// Asynq client for queueing large-document analysis
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer asynqClient.Close()

	// Remote analysis client plus the services built on it
	aiClient := ai.NewClient(ai.Options{
		BaseURL:      cfg.InferenceAPIURL,
		Token:        cfg.InferenceToken,
		SummaryModel: cfg.SummaryModel,
		AnswerModel:  cfg.AnswerModel,
		DialogModel:  cfg.DialogModel,
		Timeout:      time.Duration(cfg.InferenceTimeout) * time.Second,
	})
	analyzer := services.NewAnalyzerService(aiClient, cfg.MaxChunkTokens)
	mailer := services.NewEmailSender(cfg)

	sessionStore := chat.NewRedisStore(rdb, time.Duration(cfg.ChatSessionTTL)*time.Hour)
	engine := chat.NewEngine(sessionStore, aiClient)

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("docuchat-backend"))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RateLimitMiddleware(rdb, cfg))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})
	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := mongoClient.Ping(ctx, nil); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "mongo unavailable"})
			return
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "redis unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg, rdb)

	// Setup routes
	routes.SetupAuthRoutes(router, cfg, mongoClient, rdb, mailer)
	routes.SetupUserRoutes(router, cfg, mongoClient, rdb, engine, authMiddleware)
	routes.SetupDocumentRoutes(router, cfg, mongoClient, asynqClient, analyzer, authMiddleware)
	routes.SetupChatRoutes(router, cfg, mongoClient, engine, authMiddleware)

	// Background housekeeping
	db := mongoClient.Database(cfg.DBName)
	sweeper := services.NewSweeperService(cfg, db.Collection("documents"), db.Collection("chats"))
	if err := sweeper.Start(); err != nil {
		logger.Warn("Sweeper failed to start", "error", err)
	} else {
		defer sweeper.Stop()
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
