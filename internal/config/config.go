package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/EmuxEvans/mbed-ls/internal/cache"
)

type Config struct {
	LogLevel string `yaml:"log_level,omitempty"`

	// PlatformsFile is an optional YAML map of target id prefix to platform name
	PlatformsFile string            `yaml:"platforms_file,omitempty"`
	Platforms     map[string]string `yaml:"platforms,omitempty"`

	Registry  Registry  `yaml:"registry"`
	Inventory Inventory `yaml:"inventory"`
	Server    Server    `yaml:"server"`
}

type Registry struct {
	// Backend: "auto", "ioreg" or "sysfs"
	Backend    string `yaml:"backend,omitempty"`
	Controller string `yaml:"controller,omitempty"`
	SysfsRoot  string `yaml:"sysfs_root,omitempty"`
}

type Inventory struct {
	Path string `yaml:"path,omitempty"`
}

type Server struct {
	Listen   string        `yaml:"listen,omitempty"`
	CacheTTL time.Duration `yaml:"cache_ttl,omitempty"`

	// CORSOrigins enables CORS for browser dashboards when non-empty
	CORSOrigins []string `yaml:"cors_origins,omitempty"`

	// SyncSchedule is a cron expression ("@every 30s") for recording
	// enumerations into the inventory while serving. Empty disables it.
	SyncSchedule string `yaml:"sync_schedule,omitempty"`
}

// defaultConfig provides baseline settings; every field can be overridden
var defaultConfig = Config{
	LogLevel: "info",
	Registry: Registry{
		Backend:    BackendAuto,
		Controller: "AppleUSBXHCI",
		SysfsRoot:  "/sys",
	},
	Inventory: Inventory{
		Path: "/var/lib/mbedls/inventory.db",
	},
	Server: Server{
		Listen:   "127.0.0.1:8642",
		CacheTTL: cache.TTLBoards,
	},
}

// Default returns a copy of the built-in configuration
func Default() *Config {
	cfg := defaultConfig
	return &cfg
}

// Load reads the config at path. An empty path searches the default
// locations; when none exists the defaults are used.
func Load(path string) (*Config, error) {
	if path == "" {
		// Try default locations
		candidates := []string{
			"/etc/mbedls/config.yaml",
			filepath.Join(os.Getenv("HOME"), ".config/mbedls/config.yaml"),
			"config.yaml",
		}
		for _, c := range candidates {
			if _, err := os.Stat(c); err == nil {
				path = c
				break
			}
		}
	}

	cfg := Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills every zero field from defaultConfig
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = defaultConfig.LogLevel
	}
	if c.Registry.Backend == "" {
		c.Registry.Backend = defaultConfig.Registry.Backend
	}
	if c.Registry.Controller == "" {
		c.Registry.Controller = defaultConfig.Registry.Controller
	}
	if c.Registry.SysfsRoot == "" {
		c.Registry.SysfsRoot = defaultConfig.Registry.SysfsRoot
	}
	if c.Inventory.Path == "" {
		c.Inventory.Path = defaultConfig.Inventory.Path
	}
	if c.Server.Listen == "" {
		c.Server.Listen = defaultConfig.Server.Listen
	}
	if c.Server.CacheTTL == 0 {
		c.Server.CacheTTL = defaultConfig.Server.CacheTTL
	}
}

func (c *Config) validate() error {
	switch c.Registry.Backend {
	case BackendAuto, BackendIOReg, BackendSysfs:
	default:
		return fmt.Errorf("unknown registry backend %q (want auto, ioreg or sysfs)", c.Registry.Backend)
	}
	if c.Server.CacheTTL < 0 {
		return fmt.Errorf("server.cache_ttl must not be negative")
	}
	return nil
}
