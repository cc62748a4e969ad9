package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the server wiring needs. Values come from
// the environment, with a .env file honored when present.
type Config struct {
	HTTPAddr      string
	MySQLDSN      string
	RedisAddr     string
	WorkerCount   int
	QueueSize     int
	TransitionTTL time.Duration
}

func Load() Config {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	return Config{
		HTTPAddr:      getString("HTTP_ADDR", ":8080"),
		MySQLDSN:      getString("MYSQL_DSN", "root:root@tcp(localhost:3306)/cafeteria?parseTime=true&multiStatements=true"),
		RedisAddr:     getString("REDIS_ADDR", "localhost:6379"),
		WorkerCount:   getInt("AUDIT_WORKER_COUNT", 4),
		QueueSize:     getInt("AUDIT_QUEUE_SIZE", 1024),
		TransitionTTL: getDuration("TRANSITION_TTL", 10*time.Second),
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
