package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	FetchTimeout       time.Duration
	DetectionTimeout   time.Duration
	MaxRequestBodySize int64

	// Cloud detection service. Detection falls back to the on-device
	// pipeline when unset or unreachable.
	CloudEndpoint string
	CloudTimeout  time.Duration

	// Azure capture archive. Blob access stays disabled when the
	// account is unset.
	AzureAccountName string
	AzureAccountKey  string

	// Measurement reference values. Zero selects the shipped defaults.
	IrisDiameterMM      float64
	AnisocoriaThreshold float64

	// Batch screening concurrency. Zero selects one worker per CPU.
	BatchWorkers int
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// CloudEnabled reports whether a cloud detection endpoint is
// configured.
func (c *Config) CloudEnabled() bool {
	return strings.TrimSpace(c.CloudEndpoint) != ""
}

// AzureEnabled reports whether blob archive access is configured.
func (c *Config) AzureEnabled() bool {
	return strings.TrimSpace(c.AzureAccountName) != "" && strings.TrimSpace(c.AzureAccountKey) != ""
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		FetchTimeout:       parseDurationOrDefault("FETCH_TIMEOUT", 15*time.Second),
		DetectionTimeout:   parseDurationOrDefault("DETECTION_TIMEOUT", 20*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 10*1024*1024), // 10MB

		CloudEndpoint: os.Getenv("CLOUD_DETECT_ENDPOINT"),
		CloudTimeout:  parseDurationOrDefault("CLOUD_DETECT_TIMEOUT", 10*time.Second),

		AzureAccountName: os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureAccountKey:  os.Getenv("AZURE_STORAGE_KEY"),

		IrisDiameterMM:      parseFloatOrDefault("IRIS_DIAMETER_MM", 0),
		AnisocoriaThreshold: parseFloatOrDefault("ANISOCORIA_THRESHOLD", 0),

		BatchWorkers: int(parseIntOrDefault("BATCH_WORKERS", 0)),
	}

	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.RequestTimeout <= 0 || cfg.FetchTimeout <= 0 || cfg.DetectionTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s, detection=%s)",
			cfg.RequestTimeout, cfg.FetchTimeout, cfg.DetectionTimeout)
	}
	if cfg.IrisDiameterMM < 0 || cfg.AnisocoriaThreshold < 0 {
		return nil, fmt.Errorf("measurement references must be >= 0 (got iris=%f, threshold=%f)",
			cfg.IrisDiameterMM, cfg.AnisocoriaThreshold)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
