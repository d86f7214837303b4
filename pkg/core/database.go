package core

import "strings"

// Database identifies the storage kind a model targets.
// The zero value means the model declares no storage kind.
type Database string

// Database constants.
const (
	DatabasePostgres Database = "POSTGRES"
	// DatabaseParquet is the columnar-file storage kind.
	DatabaseParquet Database = "PARQUET"
)

// AllDatabases returns every storage kind in declaration order.
func AllDatabases() []Database {
	return []Database{DatabasePostgres, DatabaseParquet}
}

// String returns the string representation of the database kind.
func (d Database) String() string {
	return string(d)
}

// IsSet reports whether a storage kind was declared.
func (d Database) IsSet() bool {
	return d != ""
}

// IsValid reports whether d is a known storage kind.
func (d Database) IsValid() bool {
	switch d {
	case DatabasePostgres, DatabaseParquet:
		return true
	default:
		return false
	}
}

// ParseDatabase converts a string to a Database value (case-insensitive).
// Returns the database and true if valid, or the zero value and false if invalid.
func ParseDatabase(s string) (Database, bool) {
	d := Database(strings.ToUpper(strings.TrimSpace(s)))
	if !d.IsValid() {
		return "", false
	}
	return d, true
}
