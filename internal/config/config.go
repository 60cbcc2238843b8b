package config

import (
	"os"
	"time"
)

// Config carries process configuration resolved once at startup and passed
// into constructors; components never read the environment themselves.
type Config struct {
	Port      string
	JWTSecret string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	LogLevel string
	LogFile  string

	// Upper bound for any single store call
	StoreTimeout time.Duration
}

// Load resolves configuration from the environment
func Load() *Config {
	return &Config{
		Port:          getEnvOrDefault("PORT", "8787"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		RedisHost:     getEnvOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:       getEnvOrDefault("LOG_FILE", "server.log"),
		StoreTimeout:  getDurationOrDefault("STORE_TIMEOUT", 5*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
