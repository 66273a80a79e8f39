package config

import (
	"os"

	"github.com/roach88/balancelog/internal/block"
)

// Default values for configuration.
const (
	DefaultDatabase  = "summary.db"
	DefaultLogFile   = "summary.log"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

// Environment variable names.
const (
	EnvDatabase  = "BALANCELOG_DB"
	EnvLogFile   = "BALANCELOG_LOG_FILE"
	EnvLogLevel  = "BALANCELOG_LOG_LEVEL"
	EnvLogFormat = "BALANCELOG_LOG_FORMAT"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DefaultDatabase,
		LogFile:  DefaultLogFile,
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Patterns: block.DefaultPatterns(),
	}
}

// applyDefaults fills fields a config file left empty.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Database == "" {
		c.Database = d.Database
	}
	if c.LogFile == "" {
		c.LogFile = d.LogFile
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	c.Patterns = c.Patterns.WithDefaults()
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if v := os.Getenv(EnvDatabase); v != "" {
		c.Database = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
}
