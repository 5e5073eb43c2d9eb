package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port         string
	Env          string
	PostgresUrl  string
	MongoURI     string
	JWTSecret    string
	SyncInterval time.Duration
	CacheTTL     time.Duration
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("ENV", "development"),
		PostgresUrl:  getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:     getEnv("MONGO_URI", ""),
		JWTSecret:    getEnv("JWT_SECRET", "supersecretjwtkey"),
		SyncInterval: getDurationEnv("SYNC_INTERVAL_MINUTES", 60),
		CacheTTL:     getDurationEnv("ANALYTICS_CACHE_MINUTES", 5),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultMinutes int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil && minutes > 0 {
			return time.Duration(minutes) * time.Minute
		}
	}
	return time.Duration(defaultMinutes) * time.Minute
}
