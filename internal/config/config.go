// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// CORS origin allowed to call the API (the storefront).
	CORSOrigin string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// S3-compatible object storage (image uploads, lead attachments)
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// Identity provider: token verification material and the privileged
	// admin API used to set custom claims.
	AuthSecret       string
	AuthIssuer       string
	IdentityEndpoint string
	IdentityAPIKey   string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A local .env file is applied first
// when present. Returns an error if critical values are missing in
// production mode.
func Load() (*Config, error) {
	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		Host:       envOrDefault("APP_HOST", "0.0.0.0"),
		Port:       envOrDefault("APP_PORT", "8080"),
		Env:        envOrDefault("APP_ENV", "development"),
		CORSOrigin: envOrDefault("CORS_ORIGIN", "http://localhost:3000"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "solarsite"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "solarsite"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "eu-central-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "solarsite-media"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		AuthSecret:       os.Getenv("AUTH_SECRET"),
		AuthIssuer:       envOrDefault("AUTH_ISSUER", "solarsite-identity"),
		IdentityEndpoint: os.Getenv("IDENTITY_ENDPOINT"),
		IdentityAPIKey:   os.Getenv("IDENTITY_API_KEY"),
	}

	if cfg.AuthSecret == "" {
		if cfg.Env == "production" {
			return nil, fmt.Errorf("AUTH_SECRET must be set in production")
		}
		// Dev fallback so the server starts without setup. Tokens signed
		// with this secret are worthless outside a local machine.
		cfg.AuthSecret = "dev-secret"
	}

	if cfg.Env == "production" && cfg.DBPassword == "changeme" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
