// Package config loads balancelog configuration from YAML or CUE files.
package config

import "github.com/roach88/balancelog/internal/block"

// Config is the complete balancelog configuration.
type Config struct {
	// Database is the SQLite file holding summaries and the ledger.
	Database string `yaml:"database" json:"database"`

	// LogFile is the log to ingest.
	LogFile string `yaml:"log_file" json:"log_file"`

	Log LogConfig `yaml:"log" json:"log"`

	// Patterns overrides the summary block patterns. Unset fields keep the
	// defaults.
	Patterns block.Patterns `yaml:"patterns" json:"patterns"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}
