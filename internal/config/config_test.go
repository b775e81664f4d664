package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.AppEnv != "development" {
		t.Errorf("expected development env, got %s", cfg.AppEnv)
	}
	if cfg.AppPort != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.AppPort)
	}
	if cfg.CustomerTable != "CUSTOMER_TABLE" {
		t.Errorf("unexpected customer table %s", cfg.CustomerTable)
	}
	if cfg.InteractionTable != "INTERACTION_TABLE" {
		t.Errorf("unexpected interaction table %s", cfg.InteractionTable)
	}
	if cfg.APIKeySecretName != "shared-api-key" {
		t.Errorf("unexpected secret name %s", cfg.APIKeySecretName)
	}
	if cfg.AuthCacheTTL != 5*time.Minute {
		t.Errorf("unexpected auth cache TTL %s", cfg.AuthCacheTTL)
	}
	if cfg.TrackerTimeout != 10*time.Second {
		t.Errorf("unexpected tracker timeout %s", cfg.TrackerTimeout)
	}
	if cfg.CacheEnabled() {
		t.Error("cache should be disabled without REDIS_URL")
	}
	if !cfg.IsDevelopment() || cfg.IsProduction() {
		t.Error("default env should read as development")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("CUSTOMER_TABLE", "customers-prod")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("AUTH_CACHE_TTL", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if !cfg.IsProduction() {
		t.Error("expected production env")
	}
	if cfg.AppPort != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.AppPort)
	}
	if cfg.CustomerTable != "customers-prod" {
		t.Errorf("unexpected customer table %s", cfg.CustomerTable)
	}
	if !cfg.CacheEnabled() {
		t.Error("cache should be enabled with REDIS_URL set")
	}
	if cfg.AuthCacheTTL != 30*time.Second {
		t.Errorf("unexpected auth cache TTL %s", cfg.AuthCacheTTL)
	}
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("APP_PORT", "not-a-port")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric port")
	}
}
