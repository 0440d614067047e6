package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI            string
	DBName              string
	Port                string
	GinMode             string
	CORSOrigins         []string
	MaxFileSize         int64
	AllowedTypes        []string
	RateLimitReqs       int
	RateLimitWindow     int
	MaxChunkTokens      int
	QAChunkSize         int
	FileStorageDir      string
	SyncProcessingLimit int64

	// Redis Configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// JWT Token Secrets
	AccessSecret  string
	RefreshSecret string
	BcryptCost    int

	// Inference API Configuration
	InferenceAPIURL  string
	InferenceToken   string
	SummaryModel     string
	AnswerModel      string
	DialogModel      string
	InferenceTimeout int

	// Chat session lifetime in hours
	ChatSessionTTL int

	// Sweeper Configuration
	SweepIntervalMinutes int

	// SMTP Configuration
	SMTPHost string
	SMTPPort string `default:"587"`
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		MongoURI:            getEnv("MONGO_URI", "mongodb://localhost:27017/docuchat"),
		DBName:              getEnv("DB_NAME", "docuchat"),
		Port:                getEnv("PORT", "8080"),
		GinMode:             getEnv("GIN_MODE", "debug"),
		CORSOrigins:         strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),
		MaxFileSize:         getEnvInt64("MAX_FILE_SIZE", 10485760), // 10MB upload ceiling
		AllowedTypes:        strings.Split(getEnv("ALLOWED_FILE_TYPES", "application/pdf,text/plain,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"), ","),
		RateLimitReqs:       getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:     getEnvInt("RATE_LIMIT_WINDOW", 60),
		MaxChunkTokens:      getEnvInt("MAX_CHUNK_TOKENS", 1000),
		QAChunkSize:         getEnvInt("QA_CHUNK_SIZE", 3000),
		FileStorageDir:      getEnv("FILE_STORAGE_DIR", "./storage"),
		SyncProcessingLimit: getEnvInt64("SYNC_PROCESSING_LIMIT", 2097152), // 2MB, larger files analyze via the queue

		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		// JWT Token Secrets
		AccessSecret:  getEnv("ACCESS_SECRET", ""),
		RefreshSecret: getEnv("REFRESH_SECRET", ""),
		BcryptCost:    getEnvInt("BCRYPT_COST", 12),

		// Inference API Configuration
		InferenceAPIURL:  getEnv("INFERENCE_API_URL", "https://api-inference.huggingface.co/models"),
		InferenceToken:   getEnv("INFERENCE_API_TOKEN", ""),
		SummaryModel:     getEnv("SUMMARY_MODEL", "facebook/bart-large-cnn"),
		AnswerModel:      getEnv("ANSWER_MODEL", "google/flan-t5-base"),
		DialogModel:      getEnv("DIALOG_MODEL", "microsoft/DialoGPT-medium"),
		InferenceTimeout: getEnvInt("INFERENCE_TIMEOUT", 30),

		ChatSessionTTL: getEnvInt("CHAT_SESSION_TTL_HOURS", 24),

		SweepIntervalMinutes: getEnvInt("SWEEP_INTERVAL_MINUTES", 15),

		// SMTP Configuration
		SMTPHost: getEnv("SMTP_HOST", ""),
		SMTPPort: getEnv("SMTP_PORT", "587"),
		SMTPUser: getEnv("SMTP_USER", ""),
		SMTPPass: getEnv("SMTP_PASS", ""),
		SMTPFrom: getEnv("SMTP_FROM", ""),
	}

	// Validate required fields
	if cfg.AccessSecret == "" {
		return nil, fmt.Errorf("ACCESS_SECRET is required - set it in .env file")
	}

	if cfg.RefreshSecret == "" {
		return nil, fmt.Errorf("REFRESH_SECRET is required - set it in .env file")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
