package main

import (
	"context"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(context.Background())
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.MongoDB != "gaiaeye" {
		t.Errorf("mongo db = %q, want gaiaeye", cfg.MongoDB)
	}
	if cfg.CacheTTL != time.Hour {
		t.Errorf("cache ttl = %v, want 1h", cfg.CacheTTL)
	}
	if cfg.ZoneCount != 3 {
		t.Errorf("zone count = %d, want 3", cfg.ZoneCount)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("OLLAMA_MODEL", "llama3.1:8b")
	t.Setenv("ZONE_COUNT", "5")

	cfg, err := loadConfig(context.Background())
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Port != "9000" || cfg.OllamaModel != "llama3.1:8b" || cfg.ZoneCount != 5 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoadConfigRejectsBadZoneCount(t *testing.T) {
	t.Setenv("ZONE_COUNT", "1")
	if _, err := loadConfig(context.Background()); err == nil {
		t.Error("ZONE_COUNT=1 accepted")
	}
}
