package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://api.example.test/api/")
	t.Setenv("API_TIMEOUT", "")
	t.Setenv("RATE_LIMIT_PER_MIN", "not-a-number")

	cfg := Load()

	assert.Equal(t, "http://api.example.test/api", cfg.APIBaseURL)
	assert.Equal(t, 60*time.Second, cfg.APITimeout)
	assert.Equal(t, 120, cfg.RateLimitPerMin)
	assert.Equal(t, "memory", cfg.SessionBackend)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("MOCKAPI_SEED", "false")
	t.Setenv("ACCESS_TTL", "garbage")

	cfg := Load()

	assert.Equal(t, 5*time.Second, cfg.APITimeout)
	assert.False(t, cfg.Seed)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
}

func TestLocation(t *testing.T) {
	assert.Equal(t, time.Local, App{Timezone: "Local"}.Location())
	assert.Equal(t, time.Local, App{Timezone: "Nowhere/Unknown"}.Location())
	assert.Equal(t, "UTC", App{Timezone: "UTC"}.Location().String())
}
