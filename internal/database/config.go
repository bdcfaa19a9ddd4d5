package database

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	NotifyPolicyAlways = "always"
	NotifyPolicyDedupe = "dedupe"
)

type Config struct {
	HTTPAddr string

	MongoURI   string
	DBName     string
	TxnEnabled bool

	RedisURL      string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// LowStockNotifyPolicy controls whether a low-stock read appends a new
	// notification every time ("always") or only while no unread alert
	// exists for the product ("dedupe").
	LowStockNotifyPolicy string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		MongoURI:             getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:               getEnv("MONGO_DB", "marketplace"),
		TxnEnabled:           getEnvAsBool("MONGO_TXN_ENABLED", false),
		RedisURL:             getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		RedisDB:              getEnvAsInt("REDIS_DB", 0),
		CacheTTL:             time.Duration(getEnvAsInt("CACHE_TTL_SEC", 300)) * time.Second,
		LowStockNotifyPolicy: getEnv("LOW_STOCK_NOTIFY_POLICY", NotifyPolicyDedupe),
	}

	if cfg.CacheTTL <= 0 {
		return nil, fmt.Errorf("CACHE_TTL_SEC must be > 0")
	}
	switch cfg.LowStockNotifyPolicy {
	case NotifyPolicyAlways, NotifyPolicyDedupe:
	default:
		return nil, fmt.Errorf("invalid LOW_STOCK_NOTIFY_POLICY %q", cfg.LowStockNotifyPolicy)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
