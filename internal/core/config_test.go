package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Storage.Backend != "azure" {
		t.Errorf("backend = %q", cfg.Storage.Backend)
	}
	if cfg.Storage.Container != "permit-attachments" {
		t.Errorf("container = %q", cfg.Storage.Container)
	}
	if cfg.Ingest.HeaderRow != -1 {
		t.Errorf("header_row = %d, want adaptive (-1)", cfg.Ingest.HeaderRow)
	}
	if cfg.Ingest.ScanWindow != 10 {
		t.Errorf("scan_window = %d, want 10", cfg.Ingest.ScanWindow)
	}
	if cfg.CacheTTL() != 10*time.Minute {
		t.Errorf("ttl = %v, want 10m", cfg.CacheTTL())
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.Backend != "azure" {
		t.Errorf("backend = %q", cfg.Storage.Backend)
	}
}

func TestLoadConfig_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	content := "storage:\n  backend: memory\n  container: test-alarms\ncache:\n  ttl: 1m\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("backend = %q", cfg.Storage.Backend)
	}
	if cfg.Storage.Container != "test-alarms" {
		t.Errorf("container = %q", cfg.Storage.Container)
	}
	if cfg.CacheTTL() != time.Minute {
		t.Errorf("ttl = %v", cfg.CacheTTL())
	}
	// Untouched sections keep defaults.
	if cfg.Ingest.ScanWindow != 10 {
		t.Errorf("scan_window = %d", cfg.Ingest.ScanWindow)
	}
}

func TestLoadConfig_ConnectionStringFromEnv(t *testing.T) {
	t.Setenv("PIDWS_STORAGE_CONNECTION_STRING", "UseDevelopmentStorage=true")
	t.Setenv("PIDWS_STORAGE_CONTAINER", "env-container")
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.ConnectionString != "UseDevelopmentStorage=true" {
		t.Errorf("connection string not picked up from env")
	}
	if cfg.Storage.Container != "env-container" {
		t.Errorf("container = %q", cfg.Storage.Container)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	cfg := DefaultConfig()
	cfg.Cache.TTL = "5m"
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.CacheTTL() != 5*time.Minute {
		t.Errorf("ttl = %v, want 5m", loaded.CacheTTL())
	}
}

func TestCacheTTL_InvalidFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.TTL = "not a duration"
	if cfg.CacheTTL() != 10*time.Minute {
		t.Errorf("ttl = %v, want 10m fallback", cfg.CacheTTL())
	}
}
