package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("DB_HOST", "db.internal")
	os.Setenv("DB_PORT", "5433")
	os.Setenv("DB_NAME", "catalog")
	os.Setenv("DB_USER", "svc")
	os.Setenv("DB_PASSWORD", "secret")
	os.Setenv("REDIS_HOST", "cache.internal")
	os.Setenv("REDIS_PORT", "6380")
	defer func() {
		for _, k := range []string{"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD", "REDIS_HOST", "REDIS_PORT"} {
			os.Unsetenv(k)
		}
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != "5000" {
		t.Errorf("expected default server port 5000, got %s", cfg.Server.Port)
	}
	if cfg.Cache.TTL != 300*time.Second {
		t.Errorf("expected default cache TTL 300s, got %s", cfg.Cache.TTL)
	}
	if cfg.Redis.Addr() != "cache.internal:6380" {
		t.Errorf("unexpected redis addr: %s", cfg.Redis.Addr())
	}

	want := "host=db.internal port=5433 user=svc password=secret dbname=catalog sslmode=disable"
	if got := cfg.Database.DSN(); got != want {
		t.Errorf("unexpected DSN:\n got %s\nwant %s", got, want)
	}
}

func TestDatabaseURLOverridesDSN(t *testing.T) {
	os.Setenv("DATABASE_URL", "sqlite://:memory:")
	defer os.Unsetenv("DATABASE_URL")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if got := cfg.Database.DSN(); got != "sqlite://:memory:" {
		t.Errorf("expected DATABASE_URL to win, got %s", got)
	}
}
