package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	OTLP      OTLPConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	LogLevel  string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

type OTLPConfig struct {
	Endpoint      string
	ServiceName   string
	Environment   string
	ExportEnabled bool
}

// StorageConfig selects where uploaded images go. Driver is "disk" or "s3".
type StorageConfig struct {
	Driver       string
	ImageDir     string
	MaxImageSize int64
	URLPrefix    string
	S3Region     string
	S3Bucket     string
	S3Prefix     string
	S3Endpoint   string
}

type RateLimitConfig struct {
	UploadsPerMinute int
	Burst            int
}

type CORSConfig struct {
	AllowedOrigins []string
}

// LoadConfig loads configuration from environment variables. Values from a
// .env file in the working directory are used when the variable is unset.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 30),
		},
		OTLP: OTLPConfig{
			Endpoint:      getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName:   getEnv("OTEL_SERVICE_NAME", "product-catalog-api"),
			Environment:   getEnv("OTEL_ENVIRONMENT", "development"),
			ExportEnabled: getEnvAsBool("OTEL_EXPORT_ENABLED", true),
		},
		Storage: StorageConfig{
			Driver:       strings.ToLower(getEnv("IMAGE_STORAGE", "disk")),
			ImageDir:     getEnv("IMAGE_DIR", "wwwroot/img"),
			MaxImageSize: int64(getEnvAsInt("IMAGE_MAX_BYTES", 2*1024*1024)),
			URLPrefix:    getEnv("IMAGE_URL_PREFIX", "/img"),
			S3Region:     getEnv("AWS_REGION", "us-east-1"),
			S3Bucket:     getEnv("AWS_S3_BUCKET", ""),
			S3Prefix:     getEnv("AWS_S3_PREFIX", "img"),
			S3Endpoint:   getEnv("AWS_S3_ENDPOINT", ""),
		},
		RateLimit: RateLimitConfig{
			UploadsPerMinute: getEnvAsInt("UPLOAD_RATE_PER_MINUTE", 30),
			Burst:            getEnvAsInt("UPLOAD_RATE_BURST", 10),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	switch c.Storage.Driver {
	case "disk":
		if c.Storage.ImageDir == "" {
			return fmt.Errorf("IMAGE_DIR is required for disk storage")
		}
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("AWS_S3_BUCKET is required for s3 storage")
		}
	default:
		return fmt.Errorf("invalid image storage: %s (must be disk or s3)", c.Storage.Driver)
	}

	if c.Storage.MaxImageSize <= 0 {
		return fmt.Errorf("IMAGE_MAX_BYTES must be positive")
	}

	if c.RateLimit.UploadsPerMinute <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("upload rate limit and burst must be positive")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
