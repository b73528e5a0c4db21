package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"users-api/internal/config"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", strings.Repeat("s", 32))
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.HTTPAddr)
	assert.Equal(t, "users-api", cfg.Issuer)
	assert.Equal(t, []string{"users-api-clients"}, cfg.Audience)
	assert.Equal(t, "users", cfg.DynamoTable)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadMissingSecretFails(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWTSecret")
}

func TestLoadShortSecretFails(t *testing.T) {
	t.Setenv("JWT_SECRET", "too-short")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("DYNAMODB_TABLE", "users-staging")
	t.Setenv("DYNAMODB_ENDPOINT", "http://localhost:8000")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "users-staging", cfg.DynamoTable)
	assert.Equal(t, "http://localhost:8000", cfg.DynamoEndpoint)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := config.Load()
	assert.Error(t, err)
}
