package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents runtime configuration for the service. Everything is
// sourced from the environment; Load applies defaults and validates the
// pieces the process cannot run without.
type Config struct {
	Env           string
	ServerAddress string
	PersonaPath   string

	Provider string
	APIKey   string

	ChatModel             string
	ReplyMaxTokens        int
	SuggestionMaxTokens   int
	ReplyTemperature      float32
	SuggestionTemperature float32

	RedisAddr     string
	RedisUsername string
	RedisPassword string
	RedisDB       int

	MinWorkers        int
	MaxWorkers        int
	QueueSize         int
	WorkerIdleTimeout time.Duration
}

// Production reports whether the deployment mode enables rate limiting.
func (c *Config) Production() bool {
	return c.Env == "production"
}

// Load builds the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Env:           envOr("APP_ENV", "development"),
		ServerAddress: envOr("SERVER_ADDRESS", ":8090"),
		PersonaPath:   envOr("PERSONA_PATH", "recruiter_context.yaml"),
		Provider:      envOr("AI_PROVIDER", "openai"),
		ChatModel:     envOr("CHAT_MODEL", "gpt-4o-mini"),
		RedisAddr:     envOr("REDIS_ADDR", "127.0.0.1:6379"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}

	var err error
	if cfg.ReplyMaxTokens, err = envInt("REPLY_MAX_TOKENS", 500); err != nil {
		return nil, err
	}
	if cfg.SuggestionMaxTokens, err = envInt("SUGGESTION_MAX_TOKENS", 180); err != nil {
		return nil, err
	}
	if cfg.ReplyTemperature, err = envFloat("REPLY_TEMPERATURE", 0.7); err != nil {
		return nil, err
	}
	if cfg.SuggestionTemperature, err = envFloat("SUGGESTION_TEMPERATURE", 0.7); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = envInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.MinWorkers, err = envInt("MIN_WORKERS", 2); err != nil {
		return nil, err
	}
	if cfg.MaxWorkers, err = envInt("MAX_WORKERS", 16); err != nil {
		return nil, err
	}
	if cfg.QueueSize, err = envInt("QUEUE_SIZE", 64); err != nil {
		return nil, err
	}
	idleMinutes, err := envInt("WORKER_IDLE_TIMEOUT", 5)
	if err != nil {
		return nil, err
	}
	cfg.WorkerIdleTimeout = time.Duration(idleMinutes) * time.Minute

	cfg.APIKey = os.Getenv(credentialVar(cfg.Provider))
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s must be set for provider %s", credentialVar(cfg.Provider), cfg.Provider)
	}

	return cfg, nil
}

func credentialVar(provider string) string {
	switch provider {
	case "claude":
		return "ANTHROPIC_API_KEY"
	case "gemini":
		return "GEMINI_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, fallback float32) (float32, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return float32(f), nil
}
