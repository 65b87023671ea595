package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/rcarvalho-pb/biller_gateway-go/internal/config"
)

func TestLoad_WithoutFile_ShouldApplyDefaults(t *testing.T) {
	cfg, err := config.Load(viper.New(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.HTTP.Addr)
	}
	if cfg.Breaker.FailureThreshold != 5 {
		t.Fatalf("unexpected failure threshold %d", cfg.Breaker.FailureThreshold)
	}
	if cfg.Breaker.Cooldown != 30*time.Second {
		t.Fatalf("unexpected cooldown %s", cfg.Breaker.Cooldown)
	}
	if cfg.Outbox.PollInterval != 5*time.Second {
		t.Fatalf("unexpected poll interval %s", cfg.Outbox.PollInterval)
	}
	if cfg.Storage.SQLitePath != "billergw.db" {
		t.Fatalf("unexpected sqlite path %q", cfg.Storage.SQLitePath)
	}
}

func TestLoad_ShouldResolveEnvironmentOverrides(t *testing.T) {
	t.Setenv("BILLERGW_HTTP_ADDR", ":9999")
	t.Setenv("BILLERGW_BILLERS_ROCKETGATE_ENDPOINT", "https://rg.example/v1")
	t.Setenv("BILLERGW_BREAKER_COOLDOWN", "45s")

	cfg, err := config.Load(viper.New(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTP.Addr != ":9999" {
		t.Fatalf("expected env override, got %q", cfg.HTTP.Addr)
	}
	if cfg.Billers.Rocketgate != "https://rg.example/v1" {
		t.Fatalf("expected env endpoint, got %q", cfg.Billers.Rocketgate)
	}
	if cfg.Breaker.Cooldown != 45*time.Second {
		t.Fatalf("expected 45s cooldown, got %s", cfg.Breaker.Cooldown)
	}
}

func TestLoad_WhenFileIsMissing_ShouldReturnError(t *testing.T) {
	if _, err := config.Load(viper.New(), "/does/not/exist.yaml"); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
