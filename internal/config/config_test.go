package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != 8001 {
		t.Errorf("Expected default port 8001, got %d", cfg.Port)
	}
	if cfg.MinFetchGap != 150*time.Millisecond {
		t.Errorf("Expected 150ms fetch gap, got %s", cfg.MinFetchGap)
	}
	if cfg.RequestTimeout != 20*time.Second {
		t.Errorf("Expected 20s request timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.CacheTTL != time.Hour {
		t.Errorf("Expected 1h cache TTL, got %s", cfg.CacheTTL)
	}
	if len(cfg.Funds) == 0 {
		t.Error("Expected a non-empty fund registry")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("EDGAR_MIN_FETCH_GAP", "300ms")
	t.Setenv("DEV_MODE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Port)
	}
	if cfg.MinFetchGap != 300*time.Millisecond {
		t.Errorf("Expected 300ms fetch gap, got %s", cfg.MinFetchGap)
	}
	if !cfg.DevMode {
		t.Error("Expected dev mode on")
	}
}

func TestValidateRejectsBadCIK(t *testing.T) {
	cfg := &Config{
		EdgarUserAgent: "FundWatch test@example.com",
		DatabasePath:   "./data/test.db",
		Funds:          []Fund{{Name: "Short CIK", ShortName: "S", CIK: "12345"}},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for a non-padded CIK")
	}
}

func TestValidateRequiresUserAgent(t *testing.T) {
	cfg := &Config{
		DatabasePath: "./data/test.db",
		Funds:        DefaultFunds,
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error when the user agent is empty")
	}
}

func TestDefaultFundCIKsArePadded(t *testing.T) {
	for _, f := range DefaultFunds {
		if len(f.CIK) != 10 {
			t.Errorf("Fund %s has a malformed CIK %q", f.Name, f.CIK)
		}
	}
}
