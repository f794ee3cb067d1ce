package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := loadConfig()
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 0.4, cfg.SearchThreshold)
	assert.Equal(t, 0.55, cfg.LocalThreshold)
	assert.Equal(t, 0.62, cfg.GlobalThreshold)
	assert.Equal(t, "quran-simple", cfg.PreloadEdition)
	assert.True(t, cfg.PreloadEnabled)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SEARCH_THRESHOLD", "0.5")
	t.Setenv("CACHE_TTL", "30m")
	t.Setenv("PRELOAD_ENABLED", "false")
	t.Setenv("UPSTREAM_TIMEOUT", "not-a-duration")

	cfg := loadConfig()
	assert.Equal(t, 0.5, cfg.SearchThreshold)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.False(t, cfg.PreloadEnabled)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
}

func TestParseCORSOrigins(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, parseCORSOrigins(`["a","b"]`))
	assert.Equal(t, []string{"http://x", "http://y"}, parseCORSOrigins(" http://x, ,http://y "))
}
