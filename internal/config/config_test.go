package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SITE_JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddress())
	require.Equal(t, 12*time.Hour, cfg.JWTTokenTTL)
	require.Equal(t, 30*time.Second, cfg.FeedCacheTTL)
	require.Equal(t, 5, cfg.ContactRateLimitMax)
	require.Equal(t, time.Minute, cfg.ContactRateLimitWindow)
	require.Equal(t, "site.contact.submitted", cfg.NATSContactSubject)
	require.False(t, cfg.SeedEnabled)
	require.Equal(t, "*", cfg.CORSAllowOrigins)
	require.False(t, cfg.AccessLog)
	require.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SITE_JWT_SECRET", "secret")
	t.Setenv("SITE_APP_PORT", ":9090")
	t.Setenv("SITE_APP_ENV", "production")
	t.Setenv("SITE_ACTIVITY_FEED_TTL", "2m")
	t.Setenv("SITE_RATE_LIMIT_CONTACT_MAX", "3")
	t.Setenv("SITE_CORS_ALLOW_ORIGINS", "https://example.com")
	t.Setenv("SITE_HTTP_ACCESS_LOG", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddress())
	require.Equal(t, 2*time.Minute, cfg.FeedCacheTTL)
	require.Equal(t, 3, cfg.ContactRateLimitMax)
	require.Equal(t, "https://example.com", cfg.CORSAllowOrigins)
	require.True(t, cfg.AccessLog)
	require.True(t, cfg.IsProduction())
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("SITE_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	t.Setenv("SITE_JWT_SECRET", "secret")
	t.Setenv("SITE_ANALYTICS_CACHE_TTL", "soon")

	_, err := Load()
	require.ErrorContains(t, err, "analytics.cache_ttl")
}

func TestLoadSeedNeedsToken(t *testing.T) {
	t.Setenv("SITE_JWT_SECRET", "secret")
	t.Setenv("SITE_SEED_ENABLED", "true")
	t.Setenv("SITE_SEED_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
}
