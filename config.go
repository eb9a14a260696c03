package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,default=8080"`
	MongoURI  string `env:"MONGO_URI,default=mongodb://localhost:27017"`
	MongoDB   string `env:"MONGO_DB,default=gaiaeye"`
	JWTSecret string `env:"JWT_SECRET,default=change_me"`

	// Statistics provider (satellite imagery reduction service)
	ProviderURI string        `env:"PROVIDER_URL,default=http://127.0.0.1:8000"`
	RedisAddr   string        `env:"REDIS_ADDR"` // empty disables the statistics cache
	CacheTTL    time.Duration `env:"STATS_CACHE_TTL,default=1h"`

	// Narration backend (any OpenAI-compatible endpoint; Ollama by default)
	OllamaURL   string `env:"OLLAMA_URL,default=http://localhost:11434/v1"`
	OllamaModel string `env:"OLLAMA_MODEL,default=qwen2.5:7b"`

	// Optional YAML overlay for scoring weights and alert thresholds
	EngineConfigPath string `env:"ENGINE_CONFIG"`

	ZoneCount int    `env:"ZONE_COUNT,default=3"`
	LogLevel  string `env:"LOG_LEVEL,default=info"`
}

func loadConfig(ctx context.Context) (Config, error) {
	_ = godotenv.Load() // missing .env is fine

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	if cfg.ZoneCount < 2 {
		return Config{}, fmt.Errorf("ZONE_COUNT must be at least 2, got %d", cfg.ZoneCount)
	}
	return cfg, nil
}
