package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values
type Config struct {
	// Server configuration
	Port        int    `json:"port"`
	Environment string `json:"environment"`

	// MongoDB configuration
	MongoURI      string `json:"mongo_uri"`
	MongoDatabase string `json:"mongo_database"`

	// Redis configuration
	RedisURI      string `json:"redis_uri"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`

	// Collection names
	ReservationCollection  string `json:"mongo_reservation_collection"`
	VerificationCollection string `json:"mongo_verification_collection"`

	// SMTP configuration
	SMTPHost     string        `json:"smtp_host"`
	SMTPPort     int           `json:"smtp_port"`
	SMTPUser     string        `json:"smtp_user"`
	SMTPPassword string        `json:"-"`
	EmailFrom    string        `json:"email_from"`
	EmailTimeout time.Duration `json:"email_timeout"`

	// Admin authentication
	JWTSecret string `json:"-"`

	// Verification code configuration
	VerificationCodeTTL time.Duration `json:"verification_code_ttl"`

	// Tracing configuration
	TracingEnabled  bool   `json:"tracing_enabled"`
	TracingEndpoint string `json:"tracing_endpoint"`
}

var (
	AppConfig *Config
)

// IsProduction reports whether the service runs with production semantics
// (no in-memory database fallback).
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// LoadConfig loads configuration from environment variables. A .env file in
// the working directory is honored when present.
func LoadConfig() error {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnvOrDefault("PORT", "8080"))
	if err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	smtpPort, err := strconv.Atoi(getEnvOrDefault("SMTP_PORT", "587"))
	if err != nil {
		return fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	emailTimeout, err := time.ParseDuration(getEnvOrDefault("EMAIL_TIMEOUT", "10s"))
	if err != nil {
		return fmt.Errorf("invalid EMAIL_TIMEOUT: %w", err)
	}

	codeTTL, err := time.ParseDuration(getEnvOrDefault("VERIFICATION_CODE_TTL", "10m"))
	if err != nil {
		return fmt.Errorf("invalid VERIFICATION_CODE_TTL: %w", err)
	}

	environment := getEnvOrDefault("ENVIRONMENT", "development")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		if environment == "production" {
			return fmt.Errorf("JWT_SECRET environment variable is required in production")
		}
		jwtSecret = "development-secret"
	}

	AppConfig = &Config{
		// Server configuration
		Port:        port,
		Environment: environment,

		// MongoDB configuration
		MongoURI:      getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnvOrDefault("MONGODB_DATABASE", "delbi_restaurant"),

		// Redis configuration
		RedisURI:      getEnvOrDefault("REDIS_URI", "localhost:6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,

		// Collection names
		ReservationCollection:  getEnvOrDefault("MONGODB_RESERVATION_COLLECTION", "Reservation"),
		VerificationCollection: getEnvOrDefault("MONGODB_VERIFICATION_COLLECTION", "VerificationCodes"),

		// SMTP configuration
		SMTPHost:     getEnvOrDefault("SMTP_HOST", ""),
		SMTPPort:     smtpPort,
		SMTPUser:     getEnvOrDefault("SMTP_USER", ""),
		SMTPPassword: getEnvOrDefault("SMTP_PASSWORD", ""),
		EmailFrom:    getEnvOrDefault("EMAIL_FROM", "reservations@delbirestaurant.com"),
		EmailTimeout: emailTimeout,

		// Admin authentication
		JWTSecret: jwtSecret,

		// Verification code configuration
		VerificationCodeTTL: codeTTL,

		// Tracing configuration
		TracingEnabled:  getEnvOrDefault("TRACING_ENABLED", "false") == "true",
		TracingEndpoint: getEnvOrDefault("TRACING_ENDPOINT", "localhost:4317"),
	}

	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
