package config

// Default configuration values.
const (
	DefaultModelsDir     = "models"
	DefaultCatalogDriver = "sqlite"
	DefaultCatalogDSN    = ".bollhav/catalog.db"
	DefaultLogLevel      = "warn"
)

// ApplyDefaults fills unset catalog fields.
func (c *CatalogConfig) ApplyDefaults() {
	if c.Driver == "" {
		c.Driver = DefaultCatalogDriver
	}
	if c.DSN == "" && c.Driver == DefaultCatalogDriver {
		c.DSN = DefaultCatalogDSN
	}
}
