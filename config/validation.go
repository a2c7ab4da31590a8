package config

import (
	"fmt"
	"os"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// requiredCredentials are fatal if absent in any environment. A gateway
// without transport or AI credentials cannot answer a single message, so
// startup fails fast instead of degrading per request.
var requiredCredentials = []struct {
	field string
	env   string
}{
	{"TwilioAccountSID", "TWILIO_ACCOUNT_SID"},
	{"TwilioAuthToken", "TWILIO_AUTH_TOKEN"},
	{"ServicePhoneNumber", "TWILIO_PHONE_NUMBER"},
	{"AIBackendURL", "AI_BACKEND_URL"},
}

// productionRequired must additionally be set explicitly in production;
// development falls back to localhost defaults.
var productionRequired = []string{
	"DB_HOST",
	"DB_PORT",
	"DB_USER",
	"DB_PASSWORD",
	"DB_NAME",
	"REDIS_HOST",
	"REDIS_PORT",
}

// ValidateConfig checks that the configuration can actually run the gateway
func ValidateConfig(cfg *Config) error {
	var errors []string

	values := map[string]string{
		"TwilioAccountSID":   cfg.TwilioAccountSID,
		"TwilioAuthToken":    cfg.TwilioAuthToken,
		"ServicePhoneNumber": cfg.ServicePhoneNumber,
		"AIBackendURL":       cfg.AIBackendURL,
	}

	for _, req := range requiredCredentials {
		if values[req.field] == "" {
			errors = append(errors, fmt.Sprintf("required environment variable %s is not set", req.env))
		}
	}

	if cfg.ServicePhoneNumber != "" && !strings.HasPrefix(cfg.ServicePhoneNumber, "+") {
		errors = append(errors, "TWILIO_PHONE_NUMBER must be in E.164 format (leading +)")
	}

	if cfg.AIBackendURL != "" && !strings.HasPrefix(cfg.AIBackendURL, "http") {
		errors = append(errors, "AI_BACKEND_URL must be an http(s) URL")
	}

	if IsProduction() {
		for _, env := range productionRequired {
			if os.Getenv(env) == "" {
				errors = append(errors, fmt.Sprintf("%s must be set explicitly in production", env))
			}
		}
		if cfg.RedisURL == "" && cfg.RedisPassword == "" {
			errors = append(errors, "REDIS_URL or REDIS_PASSWORD is required in production")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
