package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DatabasePath string
	LogLevel     string

	// S3
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3UseSSL          bool

	// OCR service
	OCRAPIKey   string
	OCREndpoint string
	OCRLanguage string

	// VIN decode registry
	VINDecodeURL string

	// Upload limits
	MaxFileSize int64
	MaxFiles    int
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DatabasePath:      getEnv("DATABASE_PATH", "data/extractions.db"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		S3Endpoint:        getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", "minioadmin"),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", "minioadmin"),
		S3BucketName:      getEnv("S3_BUCKET_NAME", "release-forms"),
		S3UseSSL:          getEnv("S3_USE_SSL", "false") == "true",
		OCRAPIKey:         getEnv("OCR_API_KEY", ""),
		OCREndpoint:       getEnv("OCR_ENDPOINT", ""),
		OCRLanguage:       getEnv("OCR_LANGUAGE", "eng"),
		VINDecodeURL:      getEnv("VIN_DECODE_URL", ""),
		MaxFileSize:       getEnvAsInt64("MAX_FILE_SIZE", 10*1024*1024),
		MaxFiles:          getEnvAsInt("MAX_FILES", 10),
	}

	// A missing OCR key is not a startup error: text-only deployments never
	// touch the OCR service. The client raises it if OCR is actually needed.

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}
