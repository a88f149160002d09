package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	LogLevel               string
	CORSAllowOrigins       string
	AccessLog              bool
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	NATSContactSubject     string
	JWTSecret              string
	JWTTokenTTL            time.Duration
	FeedCacheTTL           time.Duration
	AnalyticsCacheTTL      time.Duration
	ContactDedupeTTL       time.Duration
	ContactRateLimitMax    int
	ContactRateLimitWindow time.Duration
	SeedEnabled            bool
	SeedToken              string
	AdminUsername          string
	AdminEmail             string
	AdminPassword          string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SITE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Company Site API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("http.access_log", false)
	v.SetDefault("nats.contact_subject", "site.contact.submitted")
	v.SetDefault("jwt.ttl", "12h")
	v.SetDefault("activity.feed_ttl", "30s")
	v.SetDefault("analytics.cache_ttl", "5m")
	v.SetDefault("contact.dedupe_ttl", "5m")
	v.SetDefault("rate_limit.contact_max", 5)
	v.SetDefault("rate_limit.contact_window", "1m")
	v.SetDefault("seed.enabled", false)
	v.SetDefault("admin.username", "admin")

	durations := map[string]time.Duration{}
	for _, key := range []string{"jwt.ttl", "activity.feed_ttl", "analytics.cache_ttl", "contact.dedupe_ttl", "rate_limit.contact_window"} {
		parsed, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", key, err)
		}
		durations[key] = parsed
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		LogLevel:               strings.ToLower(v.GetString("log.level")),
		CORSAllowOrigins:       v.GetString("cors.allow_origins"),
		AccessLog:              v.GetBool("http.access_log"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		NATSContactSubject:     v.GetString("nats.contact_subject"),
		JWTSecret:              v.GetString("jwt.secret"),
		JWTTokenTTL:            durations["jwt.ttl"],
		FeedCacheTTL:           durations["activity.feed_ttl"],
		AnalyticsCacheTTL:      durations["analytics.cache_ttl"],
		ContactDedupeTTL:       durations["contact.dedupe_ttl"],
		ContactRateLimitMax:    v.GetInt("rate_limit.contact_max"),
		ContactRateLimitWindow: durations["rate_limit.contact_window"],
		SeedEnabled:            v.GetBool("seed.enabled"),
		SeedToken:              v.GetString("seed.token"),
		AdminUsername:          v.GetString("admin.username"),
		AdminEmail:             v.GetString("admin.email"),
		AdminPassword:          v.GetString("admin.password"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.SeedEnabled && cfg.SeedToken == "" {
		return Config{}, fmt.Errorf("seed token must be provided when seeding is enabled")
	}

	if cfg.ContactRateLimitMax <= 0 {
		cfg.ContactRateLimitMax = 5
	}

	return cfg, nil
}
