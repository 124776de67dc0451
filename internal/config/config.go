package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/jhunter5/Backend/internal/retry"
)

// Config holds all configuration for the application.
type Config struct {
	// Environment
	RunMode string // Set via flag, not env

	// MongoDB
	MongoURI    string
	MongoDbName string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Server
	ApiPort        string
	ServiceApiPort string
	RequestTimeout time.Duration

	// Identity provider
	AuthDomain       string
	AuthClientID     string
	AuthClientSecret string
	AuthAudience     string
	JwtSecret        string

	// AWS S3
	AwsAccessKeyID     string
	AwsSecretAccessKey string
	AwsRegion          string
	AwsS3Bucket        string
	ImageMaxDimension  int
	ImageMaxSizeMB     int
	UploadConcurrency  int

	// Upstream retry policy (identity provider and object storage)
	UpstreamMaxRetries  int
	UpstreamBaseBackoff time.Duration

	// Contracts
	ContractSweepCron string
	LockTTL           time.Duration

	// Rate Limiting Defaults
	RateLimitBucketSize int
	RateLimitRefillRate int // tokens per second
}

// Load configuration from environment variables.
// RunMode needs to be passed in as it comes from command-line flags.
func Load(runMode string) (*Config, error) {
	// Load .env file, ignoring errors if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		RunMode: runMode,
	}

	var err error

	getEnv := func(key, defaultValue string) string {
		if value, exists := os.LookupEnv(key); exists && value != "" {
			return value
		}
		return defaultValue
	}

	getRequiredEnv := func(key string) (string, error) {
		value, exists := os.LookupEnv(key)
		if !exists || strings.TrimSpace(value) == "" {
			return "", fmt.Errorf("missing required environment variable: %s", key)
		}
		return value, nil
	}

	required := []struct {
		key  string
		dest *string
	}{
		{"MONGO_URI", &cfg.MongoURI},
		{"API_PORT", &cfg.ApiPort},
		{"AWS_BUCKET_NAME", &cfg.AwsS3Bucket},
		{"AWS_BUCKET_REGION", &cfg.AwsRegion},
		{"AWS_PUBLIC_KEY", &cfg.AwsAccessKeyID},
		{"AWS_SECRET_KEY", &cfg.AwsSecretAccessKey},
		{"AUTH_DOMAIN", &cfg.AuthDomain},
		{"AUTH_CLIENT", &cfg.AuthClientID},
		{"AUTH_SECRET", &cfg.AuthClientSecret},
	}
	for _, r := range required {
		*r.dest, err = getRequiredEnv(r.key)
		if err != nil {
			return nil, err
		}
	}

	if err := validatePort(cfg.ApiPort); err != nil {
		return nil, fmt.Errorf("invalid API_PORT: %w", err)
	}
	if !strings.HasPrefix(cfg.MongoURI, "mongodb://") && !strings.HasPrefix(cfg.MongoURI, "mongodb+srv://") {
		return nil, fmt.Errorf("invalid MONGO_URI: unsupported scheme")
	}
	cfg.AuthDomain = strings.TrimSuffix(strings.TrimPrefix(cfg.AuthDomain, "https://"), "/")

	cfg.MongoDbName = getEnv("MONGO_DB_NAME", "rentals")
	cfg.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.ServiceApiPort = getEnv("SERVICE_API_PORT", "12345")
	if err := validatePort(cfg.ServiceApiPort); err != nil {
		return nil, fmt.Errorf("invalid SERVICE_API_PORT: %w", err)
	}
	cfg.AuthAudience = getEnv("AUTH_AUDIENCE", "https://"+cfg.AuthDomain+"/api/v2/")
	cfg.JwtSecret = getEnv("JWT_SECRET", "")
	cfg.ContractSweepCron = getEnv("CONTRACT_SWEEP_CRON", "@hourly")

	cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	requestTimeoutSeconds, err := strconv.ParseInt(getEnv("REQUEST_TIMEOUT_SECONDS", "15"), 10, 64)
	if err != nil || requestTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT_SECONDS: %q", getEnv("REQUEST_TIMEOUT_SECONDS", ""))
	}
	cfg.RequestTimeout = time.Duration(requestTimeoutSeconds) * time.Second

	cfg.UpstreamMaxRetries, err = strconv.Atoi(getEnv("UPSTREAM_MAX_RETRIES", "3"))
	if err != nil || cfg.UpstreamMaxRetries < 0 {
		return nil, fmt.Errorf("invalid UPSTREAM_MAX_RETRIES: %q", getEnv("UPSTREAM_MAX_RETRIES", ""))
	}

	backoffMillis, err := strconv.ParseInt(getEnv("UPSTREAM_BASE_BACKOFF_MS", "100"), 10, 64)
	if err != nil || backoffMillis <= 0 {
		return nil, fmt.Errorf("invalid UPSTREAM_BASE_BACKOFF_MS: %q", getEnv("UPSTREAM_BASE_BACKOFF_MS", ""))
	}
	cfg.UpstreamBaseBackoff = time.Duration(backoffMillis) * time.Millisecond

	cfg.UploadConcurrency, err = strconv.Atoi(getEnv("UPLOAD_CONCURRENCY", "4"))
	if err != nil || cfg.UploadConcurrency <= 0 {
		return nil, fmt.Errorf("invalid UPLOAD_CONCURRENCY: %q", getEnv("UPLOAD_CONCURRENCY", ""))
	}

	cfg.ImageMaxDimension, err = strconv.Atoi(getEnv("IMAGE_MAX_DIMENSION", "2048"))
	if err != nil {
		return nil, fmt.Errorf("invalid IMAGE_MAX_DIMENSION: %w", err)
	}

	cfg.ImageMaxSizeMB, err = strconv.Atoi(getEnv("IMAGE_MAX_SIZE_MB", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid IMAGE_MAX_SIZE_MB: %w", err)
	}

	lockTTLSeconds, err := strconv.ParseInt(getEnv("LOCK_TTL_SECONDS", "10"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid LOCK_TTL_SECONDS: %w", err)
	}
	cfg.LockTTL = time.Duration(lockTTLSeconds) * time.Second

	cfg.RateLimitBucketSize, err = strconv.Atoi(getEnv("RATE_LIMIT_BUCKET_SIZE", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BUCKET_SIZE: %w", err)
	}
	cfg.RateLimitRefillRate, err = strconv.Atoi(getEnv("RATE_LIMIT_REFILL_RATE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_REFILL_RATE: %w", err)
	}

	return cfg, nil
}

func validatePort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil {
		return err
	}
	if n < 1 || n > 65535 {
		return fmt.Errorf("port %d out of range", n)
	}
	return nil
}

// UpstreamPolicy is the retry policy for identity provider and object storage calls.
func (c *Config) UpstreamPolicy() retry.Policy {
	return retry.Policy{
		MaxRetries: c.UpstreamMaxRetries,
		BaseDelay:  c.UpstreamBaseBackoff,
		MaxDelay:   c.UpstreamBaseBackoff * 32,
	}
}
