package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/moneykeeper_test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Expected default env development, got %s", cfg.Env)
	}
	if cfg.RateLimitPerMinute != 100 {
		t.Errorf("Expected default rate limit 100, got %d", cfg.RateLimitPerMinute)
	}
	if cfg.RateLimitBurst != 10 {
		t.Errorf("Expected default burst 10, got %d", cfg.RateLimitBurst)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("Unexpected default CORS origins: %v", cfg.CORSOrigins)
	}
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Error("Expected an error when DATABASE_URL is missing")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/moneykeeper_test")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://app.example.com,https://admin.example.com")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "50")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Port)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("Expected 2 CORS origins, got %v", cfg.CORSOrigins)
	}
	if cfg.RateLimitPerMinute != 50 {
		t.Errorf("Expected rate limit 50, got %d", cfg.RateLimitPerMinute)
	}
}
