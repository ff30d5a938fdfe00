// Package config reads the server's settings from environment variables.
//
// main.go loads a .env file first (godotenv), so local development can keep
// everything in one file while production sets real environment variables.
// Every setting has a default except JWT_SECRET.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage drivers.
const (
	StorageDisk = "disk"
	StorageS3   = "s3"
)

const defaultMaxUploadBytes int64 = 10 << 20

type Config struct {
	Port        int
	Environment string // "dev" or "prod"
	DBPath      string
	CORSOrigins []string

	JWTSecret string
	TokenTTL  time.Duration

	StorageDriver  string
	StorageDir     string // disk driver
	PublicBaseURL  string // prefix of URLs returned for disk uploads
	MaxUploadBytes int64

	S3Bucket    string
	S3Region    string
	S3Endpoint  string // empty for AWS, set for MinIO and friends
	S3AccessKey string
	S3SecretKey string

	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// Load reads the environment and validates the result.
func Load() (*Config, error) {
	port, err := getInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	ttl, err := getDuration("TOKEN_TTL", time.Hour)
	if err != nil {
		return nil, err
	}
	maxUpload, err := getInt64("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:        port,
		Environment: getEnv("ENVIRONMENT", "dev"),
		DBPath:      getEnv("DB_PATH", "data/reviews.db"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),

		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  ttl,

		StorageDriver:  strings.ToLower(getEnv("STORAGE_DRIVER", StorageDisk)),
		StorageDir:     getEnv("STORAGE_DIR", "data/files"),
		PublicBaseURL:  strings.TrimRight(getEnv("PUBLIC_BASE_URL", fmt.Sprintf("http://localhost:%d", port)), "/"),
		MaxUploadBytes: maxUpload,

		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),

		GitHubClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		GitHubClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		GitHubCallbackURL:  getEnv("GITHUB_CALLBACK_URL", fmt.Sprintf("http://localhost:%d/v1/auth/github/callback", port)),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting the server cannot start with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: PORT %d out of range", c.Port)
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("config: JWT_SECRET must be set to at least 16 characters")
	}
	if c.TokenTTL <= 0 {
		return errors.New("config: TOKEN_TTL must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("config: MAX_UPLOAD_BYTES must be positive")
	}

	switch c.StorageDriver {
	case StorageDisk:
		if c.StorageDir == "" {
			return errors.New("config: STORAGE_DIR is required for the disk driver")
		}
	case StorageS3:
		if c.S3Bucket == "" {
			return errors.New("config: S3_BUCKET is required for the s3 driver")
		}
		if (c.S3AccessKey == "") != (c.S3SecretKey == "") {
			return errors.New("config: S3_ACCESS_KEY and S3_SECRET_KEY must be set together")
		}
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	return nil
}

// IsProd reports whether the server runs in production mode.
func (c *Config) IsProd() bool { return c.Environment == "prod" }

// GitHubEnabled reports whether both GitHub OAuth credentials are set.
func (c *Config) GitHubEnabled() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a number", key, raw)
	}
	return v, nil
}

func getInt64(key string, defaultValue int64) (int64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a number", key, raw)
	}
	return v, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a duration (e.g. 1h, 30m)", key, raw)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
