package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8081", cfg.ServerPort)
	assert.Equal(t, "http://localhost:8081", cfg.BaseURL)
	assert.Equal(t, 7, cfg.ShortCodeLength)
	assert.Equal(t, 5, cfg.AllocationRetries)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SHORT_CODE_LENGTH", "9")
	t.Setenv("ALLOCATION_RETRIES", "10")
	t.Setenv("CACHE_TTL_SECONDS", "120")
	t.Setenv("BASE_URL", "https://sl.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.ShortCodeLength)
	assert.Equal(t, 10, cfg.AllocationRetries)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "https://sl.example.com", cfg.BaseURL)
}

func TestLoadConfig_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("SHORT_CODE_LENGTH", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.ShortCodeLength)
}

func TestValidate_CodeLengthBounds(t *testing.T) {
	t.Setenv("SHORT_CODE_LENGTH", "6")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("SHORT_CODE_LENGTH", "13")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestValidate_ProductionRequiresDBPassword(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DB_PASSWORD", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidate_AllocationRetries(t *testing.T) {
	t.Setenv("ALLOCATION_RETRIES", "0")

	_, err := LoadConfig()
	assert.Error(t, err)
}
