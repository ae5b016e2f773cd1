package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
platforms_file: /etc/mbedls/platforms.yaml
platforms:
  "0240": FRDM_K64F
registry:
  backend: sysfs
  sysfs_root: /tmp/sys
server:
  cache_ttl: 5s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log_level = %q", cfg.LogLevel)
	}
	if cfg.Platforms["0240"] != "FRDM_K64F" {
		t.Fatalf("platforms = %v", cfg.Platforms)
	}
	if cfg.Registry.SysfsRoot != "/tmp/sys" || cfg.Registry.Backend != BackendSysfs {
		t.Fatalf("registry = %+v", cfg.Registry)
	}
	if cfg.Server.CacheTTL != 5*time.Second {
		t.Fatalf("cache_ttl = %v", cfg.Server.CacheTTL)
	}
	// Untouched fields keep their defaults
	if cfg.Registry.Controller != "AppleUSBXHCI" || cfg.Server.Listen != "127.0.0.1:8642" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := writeConfig(t, "registry: [unterminated")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

func TestLoadUnknownBackend(t *testing.T) {
	path := writeConfig(t, "registry:\n  backend: udev\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "udev") {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestDefaultIsCopy(t *testing.T) {
	d := Default()
	d.LogLevel = "trace"
	if Default().LogLevel != "info" {
		t.Fatalf("default config mutated")
	}
}

func TestBackendOS(t *testing.T) {
	cfg := Default()
	if got := cfg.BackendOS("linux"); got != "linux" {
		t.Fatalf("auto on linux = %q", got)
	}
	cfg.Registry.Backend = BackendIOReg
	if got := cfg.BackendOS("linux"); got != "darwin" {
		t.Fatalf("ioreg = %q", got)
	}
	cfg.Registry.Backend = BackendSysfs
	if got := cfg.BackendOS("darwin"); got != "linux" {
		t.Fatalf("sysfs = %q", got)
	}
}

func TestLoadServerOptions(t *testing.T) {
	path := writeConfig(t, `
server:
  listen: ":9000"
  cors_origins: ["http://localhost:5173"]
  sync_schedule: "@every 1m"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Listen != ":9000" || cfg.Server.SyncSchedule != "@every 1m" {
		t.Fatalf("server = %+v", cfg.Server)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "http://localhost:5173" {
		t.Fatalf("cors = %v", cfg.Server.CORSOrigins)
	}
}
