package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.Environment != "development" {
		t.Errorf("expected development environment, got %s", cfg.Server.Environment)
	}
	if !cfg.Features.ProfileEnabled {
		t.Error("profile feature should default on")
	}
	if cfg.Admin.StreamInterval != 10*time.Second {
		t.Errorf("expected 10s stream interval, got %v", cfg.Admin.StreamInterval)
	}
}

func TestLoad_OverridesFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("FEATURE_PROFILE", "false")
	t.Setenv("ADMIN_STREAM_INTERVAL", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Features.ProfileEnabled {
		t.Error("expected profile feature off")
	}
	if cfg.Admin.StreamInterval != 2*time.Second {
		t.Errorf("expected 2s interval, got %v", cfg.Admin.StreamInterval)
	}
}

func TestLoad_ProductionRequiresStreamSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("ADMIN_STREAM_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing stream secret in production")
	}

	t.Setenv("ADMIN_STREAM_SECRET", "hunter2-but-longer")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Admin.StreamTicketSecret == "" {
		t.Error("expected secret loaded")
	}
}

func TestDSNAndAddr(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "rotomdex", SSLMode: "disable"}
	want := "postgres://u:p@db:5432/rotomdex?sslmode=disable"
	if got := db.DSN(); got != want {
		t.Errorf("DSN: got %s, want %s", got, want)
	}

	r := RedisConfig{Host: "cache", Port: 6379}
	if got := r.Addr(); got != "cache:6379" {
		t.Errorf("Addr: got %s", got)
	}
}
