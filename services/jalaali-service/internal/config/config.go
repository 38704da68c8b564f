package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"metargb/jalaali/shared/pkg/calendar"
	"metargb/jalaali/shared/pkg/db"
	"metargb/jalaali/shared/pkg/jalaali"
)

type Config struct {
	HTTPPort         string
	GRPCPort         string
	DB               db.Config
	RedisURL         string
	TemplateCacheTTL time.Duration
	HijriAdjustment  int
	DefaultSeparator string
	ThrottleRequests int
	ThrottlePeriod   time.Duration
	LogLevel         string
}

// Load reads the service configuration from the environment
func Load() (*Config, error) {
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "3306"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	ttl, err := time.ParseDuration(getEnv("TEMPLATE_CACHE_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid TEMPLATE_CACHE_TTL: %w", err)
	}

	adjustment, err := strconv.Atoi(getEnv("HIJRI_ADJUSTMENT", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid HIJRI_ADJUSTMENT: %w", err)
	}
	if adjustment < calendar.MinHijriAdjustment || adjustment > calendar.MaxHijriAdjustment {
		return nil, fmt.Errorf("invalid HIJRI_ADJUSTMENT: %d is outside [%d, %d]",
			adjustment, calendar.MinHijriAdjustment, calendar.MaxHijriAdjustment)
	}

	throttleRequests, err := strconv.Atoi(getEnv("THROTTLE_REQUESTS", "120"))
	if err != nil {
		return nil, fmt.Errorf("invalid THROTTLE_REQUESTS: %w", err)
	}

	throttlePeriod, err := time.ParseDuration(getEnv("THROTTLE_PERIOD", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid THROTTLE_PERIOD: %w", err)
	}

	return &Config{
		HTTPPort: getEnv("HTTP_PORT", "8060"),
		GRPCPort: getEnv("GRPC_PORT", "50060"),
		DB: db.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "root"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_DATABASE", "metargb_db"),
		},
		RedisURL:         redisURL(),
		TemplateCacheTTL: ttl,
		HijriAdjustment:  adjustment,
		DefaultSeparator: getEnv("DEFAULT_SEPARATOR", jalaali.DefaultSeparatorPattern),
		ThrottleRequests: throttleRequests,
		ThrottlePeriod:   throttlePeriod,
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}, nil
}

// redisURL prefers REDIS_URL and otherwise builds one from its parts
func redisURL() string {
	if url := getEnv("REDIS_URL", ""); url != "" {
		return url
	}

	host := getEnv("REDIS_HOST", "localhost")
	port := getEnv("REDIS_PORT", "6379")
	password := getEnv("REDIS_PASSWORD", "")
	database := getEnv("REDIS_DB", "0")
	if password != "" {
		return fmt.Sprintf("redis://:%s@%s:%s/%s", password, host, port, database)
	}
	return fmt.Sprintf("redis://%s:%s/%s", host, port, database)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
