// Package config loads engine settings from a TOML file with environment
// variable overrides.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"pagemeter/fault"
	"pagemeter/snmp"
)

// FileName is the config file searched for when no explicit path is given.
const FileName = "pagemeter.toml"

// Config is the full engine configuration.
type Config struct {
	Community    string `toml:"community"`
	TimeoutMS    int    `toml:"timeout_ms"`
	Retries      int    `toml:"retries"`
	Port         uint16 `toml:"port"`
	Concurrency  int    `toml:"concurrency"`
	DefaultRange string `toml:"default_range"`
	LogLevel     string `toml:"log_level"`
}

// Default returns the settings used when no file or overrides exist.
func Default() Config {
	return Config{
		Community:   "public",
		TimeoutMS:   2000,
		Retries:     1,
		Port:        snmp.DefaultPort,
		Concurrency: 24,
		LogLevel:    "info",
	}
}

// Load reads configuration. An explicit path must exist and parse; an
// empty path searches the usual locations and quietly falls back to
// defaults when nothing is found. Environment overrides apply last.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	} else if _, err := os.Stat(path); err != nil {
		return cfg, fault.NewStorageLoad(path, err)
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fault.NewStorageLoad(path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// findConfigFile checks the working directory, the user config directory,
// and /etc, in that order.
func findConfigFile() string {
	var candidates []string
	if wd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(wd, FileName))
	}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "pagemeter", FileName))
	}
	candidates = append(candidates, filepath.Join("/etc/pagemeter", FileName))

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SNMP_COMMUNITY"); v != "" {
		cfg.Community = v
	}
	if v := os.Getenv("SNMP_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMS = n
		}
	}
	if v := os.Getenv("SNMP_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Retries = n
		}
	}
	if v := os.Getenv("PAGEMETER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// ClientConfig converts the settings into transport defaults.
func (c Config) ClientConfig() snmp.ClientConfig {
	return snmp.ClientConfig{
		Community: c.Community,
		Timeout:   time.Duration(c.TimeoutMS) * time.Millisecond,
		Retries:   c.Retries,
	}
}
