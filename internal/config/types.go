// Package config provides the project configuration types shared by the CLI
// and other tooling.
package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/bollhav/internal/catalog"
)

// ProjectConfig is the content of a bollhav.yaml file.
type ProjectConfig struct {
	ModelsDir string         `koanf:"models_dir"`
	Catalog   *CatalogConfig `koanf:"catalog"`
}

// ApplyDefaults fills unset fields.
func (c *ProjectConfig) ApplyDefaults() {
	if c.ModelsDir == "" {
		c.ModelsDir = DefaultModelsDir
	}
	if c.Catalog == nil {
		c.Catalog = &CatalogConfig{}
	}
	c.Catalog.ApplyDefaults()
}

// CatalogConfig selects the catalog database models are published to.
type CatalogConfig struct {
	Driver string `koanf:"driver"` // sqlite, postgres
	DSN    string `koanf:"dsn"`    // file path, ":memory:" or connection string
}

// Validate checks the driver and DSN.
func (c *CatalogConfig) Validate() error {
	switch strings.ToLower(c.Driver) {
	case catalog.DriverSQLite:
	case catalog.DriverPostgres:
		if c.DSN == "" {
			return fmt.Errorf("catalog dsn is required for the %s driver", catalog.DriverPostgres)
		}
	default:
		return &catalog.UnknownDriverError{Driver: c.Driver}
	}
	return nil
}

// CatalogOptions converts c to the catalog's connection settings.
func (c *CatalogConfig) CatalogOptions() catalog.Config {
	return catalog.Config{Driver: strings.ToLower(c.Driver), DSN: c.DSN}
}
