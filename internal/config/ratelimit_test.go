package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadRateLimitConfigDefaults(t *testing.T) {
	cfg := LoadRateLimitConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 60, cfg.Limit)
	assert.Equal(t, time.Minute, cfg.Window)
	assert.Equal(t, "rl", cfg.Prefix)
}

func TestLoadRateLimitConfigClampsSubSecondWindow(t *testing.T) {
	t.Setenv("RATE_LIMIT_WINDOW", "500ms")
	cfg := LoadRateLimitConfig()
	assert.Equal(t, time.Second, cfg.Window)
}

func TestLoadRateLimitConfigClampsNonPositiveValues(t *testing.T) {
	t.Setenv("RATE_LIMIT_WINDOW", "-1m")
	t.Setenv("RATE_LIMIT_LIMIT", "0")
	cfg := LoadRateLimitConfig()
	assert.Equal(t, time.Minute, cfg.Window)
	assert.Equal(t, 1, cfg.Limit)
}
