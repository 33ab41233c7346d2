package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/apex/log"
	"github.com/joho/godotenv"
)

// Config holds everything the service reads from the environment.
type Config struct {
	// Server
	Port string

	// Database
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	// Auth
	JWTSecret string
	JWTTTL    time.Duration

	// OCR collaborator
	OCRProvider   string
	OCRServiceURL string
	OCRTimeout    time.Duration

	// Summarizer collaborator
	SummarizerProvider   string
	SummarizerServiceURL string
	SummarizerTimeout    time.Duration
	HuggingFaceToken     string
	HuggingFaceModel     string

	// Uploads and matching
	UploadDir      string
	UploadMaxBytes int64
	MatchTieBreak  string

	// AWS
	AWSRegion     string
	S3Bucket      string
	S3Region      string
	CloudFrontURL string
	SNSFCMArn     string
	SESEmail      string

	// RabbitMQ
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string

	// Rate limiting on the scan endpoint (requests per second per client IP)
	ScanRateLimit float64
	ScanRateBurst int

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using process environment")
	}

	return &Config{
		Port: getEnv("PORT", "5000"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", ""),
		DBName:      getEnv("DB_NAME", "scan2know"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTTTL:    getDurationEnv("JWT_TTL", 30*24*time.Hour),

		OCRProvider:   getEnv("OCR_PROVIDER", "http"),
		OCRServiceURL: getEnv("OCR_SERVICE_URL", "http://localhost:8000"),
		OCRTimeout:    getDurationEnv("OCR_TIMEOUT", 30*time.Second),

		SummarizerProvider:   getEnv("SUMMARIZER_PROVIDER", "http"),
		SummarizerServiceURL: getEnv("SUMMARIZER_SERVICE_URL", "http://localhost:8001"),
		SummarizerTimeout:    getDurationEnv("SUMMARIZER_TIMEOUT", 30*time.Second),
		HuggingFaceToken:     getEnv("HUGGINGFACE_TOKEN", ""),
		HuggingFaceModel:     getEnv("HUGGINGFACE_MODEL", "facebook/bart-large-cnn"),

		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		UploadMaxBytes: getInt64Env("UPLOAD_MAX_BYTES", 5*1024*1024),
		MatchTieBreak:  getEnv("MATCH_TIE_BREAK", "first"),

		AWSRegion:     getEnv("AWS_REGION", ""),
		S3Bucket:      getEnv("S3_BUCKET", ""),
		S3Region:      getEnv("S3_REGION", ""),
		CloudFrontURL: getEnv("CLOUDFRONT_URL", ""),
		SNSFCMArn:     getEnv("SNS_FCM_ARN", ""),
		SESEmail:      getEnv("SES_EMAIL", ""),

		AMQPURL:        getEnv("AMQP_URL", ""),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "scan2know"),
		AMQPRoutingKey: getEnv("AMQP_ROUTING_KEY", "scan.completed"),

		ScanRateLimit: getFloatEnv("SCAN_RATE_LIMIT", 1),
		ScanRateBurst: getIntEnv("SCAN_RATE_BURST", 5),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

// DSN builds the postgres connection string; DATABASE_URL wins when set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

// S3RegionOrDefault falls back to AWS_REGION.
func (c *Config) S3RegionOrDefault() string {
	if c.S3Region != "" {
		return c.S3Region
	}
	return c.AWSRegion
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
		log.Warnf("invalid integer for %s: %q, using %d", key, value, defaultValue)
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseInt(value, 10, 64); err == nil {
			return v
		}
		log.Warnf("invalid integer for %s: %q, using %d", key, value, defaultValue)
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
		log.Warnf("invalid number for %s: %q, using %v", key, value, defaultValue)
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Warnf("invalid duration for %s: %q, using %s", key, value, defaultValue)
	}
	return defaultValue
}
