package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("SESSION_TTL_HOURS", "")
	t.Setenv("DEMO_USERS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.StoreDriver != "memory" {
		t.Errorf("StoreDriver = %q", cfg.StoreDriver)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if cfg.DemoCredentials["demo"] != "demo" {
		t.Errorf("DemoCredentials = %v", cfg.DemoCredentials)
	}
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when JWT_SECRET is empty")
	}
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STORE_DRIVER", "postgres")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown store driver")
	}
}

func TestParseCredentials(t *testing.T) {
	creds := parseCredentials("alice:pw1, bob:pw2,broken,:empty")
	if len(creds) != 2 {
		t.Fatalf("creds = %v", creds)
	}
	if creds["alice"] != "pw1" || creds["bob"] != "pw2" {
		t.Fatalf("creds = %v", creds)
	}
}
