package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "secret")
	t.Setenv("TWILIO_PHONE_NUMBER", "+15555550000")
	t.Setenv("AI_BACKEND_URL", "http://localhost:9000/chat")
}

func TestLoadConfig(t *testing.T) {
	t.Run("loads with defaults once credentials are set", func(t *testing.T) {
		setRequiredCredentials(t)

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.ServerPort)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "hannah_sms", cfg.DBName)
		assert.Equal(t, "localhost", cfg.RedisHost)
		assert.Equal(t, "+15555550000", cfg.ServicePhoneNumber)
		assert.False(t, cfg.AutoProvisionUsers)
		assert.False(t, cfg.SMSTestMode)
	})

	t.Run("fails without Twilio credentials", func(t *testing.T) {
		setRequiredCredentials(t)
		t.Setenv("TWILIO_ACCOUNT_SID", "")

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "TWILIO_ACCOUNT_SID")
	})

	t.Run("fails without an AI backend URL", func(t *testing.T) {
		setRequiredCredentials(t)
		t.Setenv("AI_BACKEND_URL", "")

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "AI_BACKEND_URL")
	})

	t.Run("rejects a phone number without a leading plus", func(t *testing.T) {
		setRequiredCredentials(t)
		t.Setenv("TWILIO_PHONE_NUMBER", "15555550000")

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "E.164")
	})

	t.Run("rejects a non-http AI backend URL", func(t *testing.T) {
		setRequiredCredentials(t)
		t.Setenv("AI_BACKEND_URL", "localhost:9000")

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "http")
	})

	t.Run("rejects a malformed REDIS_DB", func(t *testing.T) {
		setRequiredCredentials(t)
		t.Setenv("REDIS_DB", "not-a-number")

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "REDIS_DB")
	})

	t.Run("reads feature flags", func(t *testing.T) {
		setRequiredCredentials(t)
		t.Setenv("AUTO_PROVISION_USERS", "true")
		t.Setenv("SMS_TEST_MODE", "true")
		t.Setenv("REDIS_DB", "3")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.True(t, cfg.AutoProvisionUsers)
		assert.True(t, cfg.SMSTestMode)
		assert.Equal(t, 3, cfg.RedisDB)
	})

	t.Run("production requires explicit infrastructure settings", func(t *testing.T) {
		setRequiredCredentials(t)
		t.Setenv("ENV", "production")

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_HOST")
	})
}

func TestGetEnvironment(t *testing.T) {
	t.Run("CI variable wins", func(t *testing.T) {
		t.Setenv("CI", "true")
		t.Setenv("ENV", "production")
		assert.Equal(t, CI, GetEnvironment())
	})

	t.Run("defaults to development", func(t *testing.T) {
		t.Setenv("CI", "")
		t.Setenv("ENV", "")
		assert.Equal(t, Development, GetEnvironment())
	})
}
