package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Quiz source drivers.
const (
	QuizSourceHTTP     = "http"
	QuizSourceDatabase = "database"
)

// Config holds runtime configuration values for the analytics service.
type Config struct {
	AppName          string
	AppEnv           string
	AppPort          string        `validate:"required"`
	LogLevel         string        `validate:"oneof=trace debug info warn error fatal panic disabled"`
	QuizSourceDriver string        `validate:"oneof=http database"`
	QuizAPIURL       string        `validate:"required_if=QuizSourceDriver http,omitempty,url"`
	QuizAPITimeout   time.Duration `validate:"gte=0"`
	DatabaseURL      string        `validate:"required_if=QuizSourceDriver database"`
	RedisURL         string
	QuizCacheTTL     time.Duration `validate:"gte=0"`
	JWTSecret        string        `validate:"required"`
	CORSOrigins      string
	LeaderboardSize  int           `validate:"min=1,max=50"`
	FetchConcurrency int           `validate:"min=1,max=64"`
	RollupPolicy     string        `validate:"oneof=source most_recent"`
	Timezone         string
	NATSURL          string        `validate:"omitempty,url"`
	NATSSubject      string
	RateLimitMax     int           `validate:"min=1"`
	RateLimitWindow  time.Duration `validate:"gt=0"`
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Location resolves the configured timezone used for zone-less timestamps.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Load reads configuration values from environment variables and an optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("FLASHMIND")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "FlashMind Analytics API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("quiz_source.driver", QuizSourceHTTP)
	v.SetDefault("quiz_api.timeout", "10s")
	v.SetDefault("quiz_cache.ttl", "2m")
	v.SetDefault("cors.origins", "*")
	v.SetDefault("analytics.leaderboard_size", 5)
	v.SetDefault("analytics.fetch_concurrency", 8)
	v.SetDefault("analytics.rollup_policy", "source")
	v.SetDefault("analytics.timezone", "Local")
	v.SetDefault("nats.subject", "flashmind.analytics.dashboard")
	v.SetDefault("rate_limit.max", 30)
	v.SetDefault("rate_limit.window", "1m")

	cfg := Config{
		AppName:          v.GetString("app.name"),
		AppEnv:           v.GetString("app.env"),
		AppPort:          v.GetString("app.port"),
		LogLevel:         strings.ToLower(v.GetString("log.level")),
		QuizSourceDriver: strings.ToLower(v.GetString("quiz_source.driver")),
		QuizAPIURL:       v.GetString("quiz_api.url"),
		QuizAPITimeout:   v.GetDuration("quiz_api.timeout"),
		DatabaseURL:      v.GetString("database.url"),
		RedisURL:         v.GetString("redis.url"),
		QuizCacheTTL:     v.GetDuration("quiz_cache.ttl"),
		JWTSecret:        v.GetString("jwt.secret"),
		CORSOrigins:      v.GetString("cors.origins"),
		LeaderboardSize:  v.GetInt("analytics.leaderboard_size"),
		FetchConcurrency: v.GetInt("analytics.fetch_concurrency"),
		RollupPolicy:     strings.ToLower(v.GetString("analytics.rollup_policy")),
		Timezone:         v.GetString("analytics.timezone"),
		NATSURL:          v.GetString("nats.url"),
		NATSSubject:      v.GetString("nats.subject"),
		RateLimitMax:     v.GetInt("rate_limit.max"),
		RateLimitWindow:  v.GetDuration("rate_limit.window"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return Config{}, fmt.Errorf("invalid analytics timezone: %w", err)
	}

	return cfg, nil
}
