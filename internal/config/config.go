package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Service  ServiceConfig
	Download DownloadConfig
	History  HistoryConfig
	UI       UIConfig
}

// ServiceConfig holds trip service settings.
type ServiceConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// DownloadConfig holds guide download settings.
type DownloadConfig struct {
	Dir string
}

// HistoryConfig holds the trip history database location.
type HistoryConfig struct {
	Path string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DefaultMode string `mapstructure:"default_mode"`
}

// Load reads configuration from file and env. Env var overrides use prefix TRIPDECK_.
func Load() (Config, error) {
	v := viper.New()

	home := os.Getenv("HOME")
	v.SetDefault("service.base_url", "http://localhost:8000")
	v.SetDefault("service.timeout_seconds", 30)
	v.SetDefault("download.dir", defaultDownloadDir(home))
	v.SetDefault("history.path", filepath.Join(home, ".local", "share", "tripdeck", "history.db"))
	v.SetDefault("ui.default_mode", "DRIVE")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("TRIPDECK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "tripdeck"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TRIPDECK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return Normalize(c), nil
}

// Normalize fills defaults for missing values and trims the base URL so URL
// derivation never produces doubled slashes.
func Normalize(c Config) Config {
	c.Service.BaseURL = strings.TrimRight(strings.TrimSpace(c.Service.BaseURL), "/")
	if c.Service.BaseURL == "" {
		c.Service.BaseURL = "http://localhost:8000"
	}
	if c.Service.TimeoutSeconds < 0 {
		c.Service.TimeoutSeconds = 0
	}
	if c.Download.Dir == "" {
		c.Download.Dir = "."
	}
	c.UI.DefaultMode = strings.ToUpper(strings.TrimSpace(c.UI.DefaultMode))
	if c.UI.DefaultMode == "" {
		c.UI.DefaultMode = "DRIVE"
	}
	return c
}

// defaultDownloadDir prefers ~/Downloads when it exists, else the cwd.
func defaultDownloadDir(home string) string {
	if home != "" {
		dl := filepath.Join(home, "Downloads")
		if fi, err := os.Stat(dl); err == nil && fi.IsDir() {
			return dl
		}
	}
	return "."
}
