package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.BatchSize != 50 {
		t.Errorf("BatchSize = %d, want 50", cfg.BatchSize)
	}
	if cfg.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.MaxAttempts)
	}
	if cfg.StuckTimeout != 15*time.Minute {
		t.Errorf("StuckTimeout = %v, want 15m", cfg.StuckTimeout)
	}
	if cfg.DispatchCron != "* * * * *" {
		t.Errorf("DispatchCron = %q", cfg.DispatchCron)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DISPATCH_BATCH_SIZE", "10")
	t.Setenv("DISPATCH_MAX_ATTEMPTS", "5")
	t.Setenv("DISPATCH_STUCK_TIMEOUT", "30m")

	cfg := Load()
	if cfg.BatchSize != 10 || cfg.MaxAttempts != 5 || cfg.StuckTimeout != 30*time.Minute {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestDSN(t *testing.T) {
	cfg := Config{DBUser: "app", DBPass: "secret", DBHost: "db", DBPort: "5432", DBName: "outreach"}
	want := "postgres://app:secret@db:5432/outreach?sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
