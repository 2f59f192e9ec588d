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
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	RedisURL          string
	NATSURL           string
	JWTSecret         string
	WikiAPIEndpoint   string
	WikiUserAgent     string
	WikiTimeout       time.Duration
	AggregateCacheTTL time.Duration
	SubmitRateLimit   int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("FOUNTAIN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Fountain API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("wiki.api_endpoint", "https://ru.wikipedia.org/w/api.php")
	v.SetDefault("wiki.user_agent", "Fountain/1.0 (editathon contest service)")
	v.SetDefault("wiki.timeout", "30s")
	v.SetDefault("aggregate.cache_ttl", "5m")
	v.SetDefault("submit.rate_limit", 10)

	wikiTimeout, err := time.ParseDuration(v.GetString("wiki.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid wiki timeout: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("aggregate.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid aggregate cache ttl: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		NATSURL:           v.GetString("nats.url"),
		JWTSecret:         v.GetString("jwt.secret"),
		WikiAPIEndpoint:   v.GetString("wiki.api_endpoint"),
		WikiUserAgent:     v.GetString("wiki.user_agent"),
		WikiTimeout:       wikiTimeout,
		AggregateCacheTTL: cacheTTL,
		SubmitRateLimit:   v.GetInt("submit.rate_limit"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.SubmitRateLimit <= 0 {
		cfg.SubmitRateLimit = 10
	}

	return cfg, nil
}
