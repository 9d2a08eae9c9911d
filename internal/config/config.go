// Package config provides configuration management for the application.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// Config holds the application configuration.
type Config struct {
	Port             string
	AllowedOrigin    string
	AWSRegion        string
	S3Bucket         string
	CloudfrontDomain string
	LogLevel         string
	MaxFitTries      int
	PuzzleTTL        time.Duration
	BatchWorkers     int
	BedrockModelID   string
	// WordlistDir holds extra themes, one <theme>.txt per theme.
	WordlistDir string
	// RateLimit is the number of generating requests allowed per client
	// per minute.
	RateLimit int
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		AllowedOrigin:    getEnv("ALLOWED_ORIGIN", "http://localhost:5173"),
		AWSRegion:        getEnv("AWS_REGION", "ap-northeast-1"),
		S3Bucket:         getEnv("S3_BUCKET", ""),
		CloudfrontDomain: getEnv("CLOUDFRONT_DOMAIN", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		BedrockModelID:   getEnv("BEDROCK_MODEL_ID", "anthropic.claude-3-haiku-20240307-v1:0"),
		WordlistDir:      getEnv("WORDLIST_DIR", ""),
	}

	var err error
	cfg.MaxFitTries, err = strconv.Atoi(getEnv("MAX_FIT_TRIES", "1000"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse MAX_FIT_TRIES: %w", err)
	}
	cfg.BatchWorkers, err = strconv.Atoi(getEnv("BATCH_WORKERS", "4"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse BATCH_WORKERS: %w", err)
	}
	cfg.RateLimit, err = strconv.Atoi(getEnv("RATE_LIMIT", "60"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse RATE_LIMIT: %w", err)
	}
	cfg.PuzzleTTL, err = time.ParseDuration(getEnv("PUZZLE_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse PUZZLE_TTL: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration and reports every problem found.
func (c *Config) Validate() error {
	var err error

	if _, e := strconv.Atoi(c.Port); e != nil {
		err = multierr.Append(err, errors.New("invalid port: must be a number"))
	}
	if _, e := logrus.ParseLevel(c.LogLevel); e != nil {
		err = multierr.Append(err, fmt.Errorf("invalid log level: %q", c.LogLevel))
	}
	if c.MaxFitTries <= 0 {
		err = multierr.Append(err, errors.New("invalid max fit tries: must be positive"))
	}
	if c.BatchWorkers <= 0 {
		err = multierr.Append(err, errors.New("invalid batch workers: must be positive"))
	}
	if c.RateLimit <= 0 {
		err = multierr.Append(err, errors.New("invalid rate limit: must be positive"))
	}
	if c.PuzzleTTL <= 0 {
		err = multierr.Append(err, errors.New("invalid puzzle ttl: must be positive"))
	}

	return err
}

// Level returns the logrus level for LogLevel, falling back to info.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
