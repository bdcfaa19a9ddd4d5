package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "marketplace", cfg.DBName)
	assert.False(t, cfg.TxnEnabled)
	assert.Equal(t, "localhost:6379", cfg.RedisURL)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, NotifyPolicyDedupe, cfg.LowStockNotifyPolicy)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("MONGO_DB", "marketplace_test")
	t.Setenv("MONGO_TXN_ENABLED", "true")
	t.Setenv("CACHE_TTL_SEC", "60")
	t.Setenv("LOW_STOCK_NOTIFY_POLICY", NotifyPolicyAlways)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, "marketplace_test", cfg.DBName)
	assert.True(t, cfg.TxnEnabled)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, NotifyPolicyAlways, cfg.LowStockNotifyPolicy)
}

func TestLoadConfigInvalidPolicy(t *testing.T) {
	t.Setenv("LOW_STOCK_NOTIFY_POLICY", "sometimes")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigUnparsableIntFallsBack(t *testing.T) {
	t.Setenv("CACHE_TTL_SEC", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
}
