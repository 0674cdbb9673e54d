package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.BaseURL != "http://localhost:5000" {
		t.Errorf("unexpected default base URL %q", cfg.Server.BaseURL)
	}
	if cfg.Timer.SyncInterval != 60*time.Second {
		t.Errorf("unexpected default sync interval %v", cfg.Timer.SyncInterval)
	}
	if cfg.Billing.Currency != "USD" {
		t.Errorf("unexpected default currency %q", cfg.Billing.Currency)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.BaseURL = "https://pm.example.com"
	cfg.Timer.InactivityMinutes = 15
	cfg.Billing.DefaultGroupBy = "project"
	cfg.Billing.DefaultTaxRate = 0.0825

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Server.BaseURL != "https://pm.example.com" {
		t.Errorf("base URL not round-tripped: %q", loaded.Server.BaseURL)
	}
	if loaded.Timer.InactivityMinutes != 15 {
		t.Errorf("inactivity minutes not round-tripped: %d", loaded.Timer.InactivityMinutes)
	}
	if loaded.Billing.DefaultGroupBy != "project" {
		t.Errorf("group-by not round-tripped: %q", loaded.Billing.DefaultGroupBy)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := "server:\n  base_url: https://pm.example.com\n"
	if err := os.WriteFile(path, []byte(partial), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.BaseURL != "https://pm.example.com" {
		t.Errorf("explicit value lost: %q", cfg.Server.BaseURL)
	}
	if cfg.Timer.InactivityMinutes != 30 {
		t.Errorf("unset fields must keep defaults, got %d", cfg.Timer.InactivityMinutes)
	}
}

func TestInactivityTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timer.InactivityMinutes = 45
	if got := cfg.InactivityTimeout(); got != 45*time.Minute {
		t.Errorf("expected 45m, got %v", got)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Cache.Path = filepath.Join(dir, "deep", "nested", "cache.db")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "deep", "nested")); err != nil {
		t.Errorf("cache directory not created: %v", err)
	}
}
