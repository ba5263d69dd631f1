// Package config provides configuration management for the
// flame-analysis CLI.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Report  ReportConfig  `mapstructure:"report"`
	History HistoryConfig `mapstructure:"history"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
}

// ReportConfig holds default report parameters, overridable per run
// from the command line.
type ReportConfig struct {
	TopN       int     `mapstructure:"top_n"`
	MinPercent float64 `mapstructure:"min_percent"`
	GroupBy    string  `mapstructure:"group_by"`
	SortBy     string  `mapstructure:"sort_by"`
}

// HistoryConfig holds run-history database configuration.
type HistoryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Type     string `mapstructure:"type"` // sqlite, mysql or postgres
	Path     string `mapstructure:"path"` // sqlite only
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// StorageConfig holds archive storage configuration.
type StorageConfig struct {
	Type      string `mapstructure:"type"` // cos or local
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	Domain    string `mapstructure:"domain"`
	Scheme    string `mapstructure:"scheme"`
	LocalPath string `mapstructure:"local_path"` // for local storage
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from the specified file path. An empty path
// searches the standard locations; a missing file falls back to
// defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/flame-analysis")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// No config file anywhere, defaults apply.
		} else if os.IsNotExist(err) {
			// Explicit path that does not exist, defaults apply.
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("FLAME")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from raw content (useful for
// testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("report.top_n", 50)
	v.SetDefault("report.min_percent", 0.0)
	v.SetDefault("report.group_by", "function")
	v.SetDefault("report.sort_by", "samples")

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.type", "sqlite")
	v.SetDefault("history.path", "./flame-analysis.db")
	v.SetDefault("history.port", 0)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "./archive")

	v.SetDefault("log.level", "info")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Report.TopN < 1 {
		return fmt.Errorf("report top_n must be at least 1")
	}
	if c.Report.MinPercent < 0 || c.Report.MinPercent > 100 {
		return fmt.Errorf("report min_percent must be between 0 and 100")
	}

	switch c.History.Type {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported history database type: %s", c.History.Type)
	}
	if c.History.Type != "sqlite" && c.History.Host == "" && c.History.Enabled {
		return fmt.Errorf("history database host is required for %s", c.History.Type)
	}

	// Storage config validation is delegated to the storage package.
	return nil
}
