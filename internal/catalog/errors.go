package catalog

import "fmt"

// NotFoundError reports a model that is not in the catalog.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("model %q not found in catalog", e.Name)
}

// UnknownDriverError reports an unsupported catalog driver.
type UnknownDriverError struct {
	Driver string
}

func (e *UnknownDriverError) Error() string {
	return fmt.Sprintf("unknown catalog driver %q (supported: %s, %s)", e.Driver, DriverSQLite, DriverPostgres)
}
