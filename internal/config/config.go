// Package config loads and validates service configuration from the
// environment. There are no fallback secrets: a missing or weak JWT_SECRET
// stops the process at startup.
package config

import (
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/joho/godotenv"
)

// minSecretLength guards against trivially brute-forceable HMAC keys.
const minSecretLength = 32

// Config holds everything the server needs to start. JWTSecret is required;
// the rest has working defaults for local development.
type Config struct {
	HTTPAddr  string
	JWTSecret string
	Issuer    string
	Audience  []string

	AWSRegion      string
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoEndpoint string // set to target DynamoDB Local
	DynamoTable    string

	LogLevel  string
	LogFormat string
}

// Load reads .env if present, then the environment, and validates the
// result.
func Load() (*Config, error) {
	// .env is a development convenience; absence is not an error
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:       getenv("HTTP_ADDR", ":3000"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		Issuer:         getenv("JWT_ISSUER", "users-api"),
		Audience:       []string{getenv("JWT_AUDIENCE", "users-api-clients")},
		AWSRegion:      getenv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID: os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey:   os.Getenv("AWS_SECRET_ACCESS_KEY"),
		DynamoEndpoint: os.Getenv("DYNAMODB_ENDPOINT"),
		DynamoTable:    getenv("DYNAMODB_TABLE", "users"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		LogFormat:      getenv("LOG_FORMAT", "text"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate enforces the startup invariants.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.HTTPAddr, validation.Required),
		validation.Field(&c.JWTSecret, validation.Required, validation.Length(minSecretLength, 0)),
		validation.Field(&c.Issuer, validation.Required),
		validation.Field(&c.DynamoTable, validation.Required),
		validation.Field(&c.AWSRegion, validation.Required),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.LogFormat, validation.In("text", "json")),
	)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
