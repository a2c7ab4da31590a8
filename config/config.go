package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Twilio configuration
	TwilioAccountSID string
	TwilioAuthToken  string
	// ServicePhoneNumber is the number the gateway sends from (E.164).
	// Inbound messages from this number are delivery echoes and are ignored.
	ServicePhoneNumber string

	// AI chat backend endpoint
	AIBackendURL string

	// AutoProvisionUsers creates a user row on first contact from an
	// unknown phone number instead of rejecting the log.
	AutoProvisionUsers bool

	// SMSTestMode makes the webhook return a JSON echo instead of sending
	// a real outbound message. Also overridable per request via ?mode=test.
	SMSTestMode bool
}

// LoadConfig creates a new Config instance from environment variables
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	// Local development keeps credentials in a .env file
	if env == Development {
		_ = godotenv.Load()
	}

	cfg := &Config{
		ServerPort: getEnvOrDefault("SERVER_PORT", "8080"),
		ServerHost: getEnvOrDefault("SERVER_HOST", "0.0.0.0"),

		DBHost:     getEnvOrDefault("DB_HOST", "localhost"),
		DBPort:     getEnvOrDefault("DB_PORT", "5432"),
		DBUser:     getEnvOrDefault("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnvOrDefault("DB_NAME", "hannah_sms"),
		DBSSLMode:  getEnvOrDefault("DB_SSL_MODE", "disable"),

		RedisHost:     getEnvOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisURL:      os.Getenv("REDIS_URL"),

		TwilioAccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
		ServicePhoneNumber: os.Getenv("TWILIO_PHONE_NUMBER"),

		AIBackendURL: os.Getenv("AI_BACKEND_URL"),

		AutoProvisionUsers: getEnvBool("AUTO_PROVISION_USERS", false),
		SMSTestMode:        getEnvBool("SMS_TEST_MODE", false),
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value %q: %w", dbStr, err)
		}
		cfg.RedisDB = db
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
