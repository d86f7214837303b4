// Package config loads the bollhav CLI configuration.
//
// Values are layered from lowest to highest precedence: built-in defaults,
// the project config file (bollhav.yaml), BOLLHAV_* environment variables and
// explicitly set command-line flags.
package config

import (
	sharedcfg "github.com/leapstack-labs/bollhav/internal/config"
)

// CatalogConfig is an alias for the shared catalog configuration.
type CatalogConfig = sharedcfg.CatalogConfig

// Config holds all CLI configuration options.
type Config struct {
	ModelsDir string        `koanf:"models_dir"`
	Catalog   CatalogConfig `koanf:"catalog"`
	Output    string        `koanf:"output"`
	Verbose   bool          `koanf:"verbose"`
	LogLevel  string        `koanf:"log_level"`

	// ProjectRoot is the directory relative paths were resolved against.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultModelsDir     = sharedcfg.DefaultModelsDir
	DefaultCatalogDriver = sharedcfg.DefaultCatalogDriver
	DefaultCatalogDSN    = sharedcfg.DefaultCatalogDSN
	DefaultLogLevel      = sharedcfg.DefaultLogLevel
	DefaultOutput        = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)
