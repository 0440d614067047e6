package main

import (
	"context"
	"log"
	"time"

	"docuchat-backend/internal/ai"
	"docuchat-backend/internal/config"
	"docuchat-backend/internal/logger"
	"docuchat-backend/internal/queue"
	"docuchat-backend/services"

	"github.com/hibiken/asynq"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

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

	// Remote analysis client
	aiClient := ai.NewClient(ai.Options{
		BaseURL:      cfg.InferenceAPIURL,
		Token:        cfg.InferenceToken,
		SummaryModel: cfg.SummaryModel,
		AnswerModel:  cfg.AnswerModel,
		DialogModel:  cfg.DialogModel,
		Timeout:      time.Duration(cfg.InferenceTimeout) * time.Second,
	})
	analyzer := services.NewAnalyzerService(aiClient, cfg.MaxChunkTokens)

	// Redis options for Asynq
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	// Create Asynq server
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 20, // Process 20 tasks concurrently
			Queues: map[string]int{
				"critical": 6, // 60% of workers
				"default":  3, // 30% of workers
				"low":      1, // 10% of workers
			},
			StrictPriority: true,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("Task failed", "type", task.Type(), "error", err)
			}),
		},
	)

	// Create task processor
	documentsCol := mongoClient.Database(cfg.DBName).Collection("documents")
	processor := queue.NewTaskProcessor(documentsCol, analyzer)

	// Create mux and register handlers
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskAnalyzeDocument, processor.ProcessAnalyzeDocument)

	logger.Info("Starting worker", "concurrency", 20, "redis", redisOpt.Addr)

	// Start the server
	if err := server.Run(mux); err != nil {
		log.Fatal("Failed to start worker:", err)
	}
}
