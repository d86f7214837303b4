// Package column describes destination columns for each storage kind.
//
// Every kind embeds Base by value and implements Column. The set of kinds is
// closed: PostgresColumn and ParquetColumn are the only implementations, and
// callers dispatch on them with a type switch.
package column

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/bollhav/pkg/core"
)

// Column is a validated destination column descriptor.
type Column interface {
	// Kind returns the storage kind this column belongs to.
	Kind() core.Database
	// Attrs returns the attributes shared by every kind.
	Attrs() Base
	// String returns a stable human-readable rendering.
	String() string

	sealed()
}

// Base holds the attributes shared by every column kind.
type Base struct {
	// Name identifies the column; it must be non-empty.
	Name string
	// NotNull marks the column as non-nullable. Columns are nullable by default.
	NotNull bool
	// Order is an optional position hint.
	Order *int
	// Sensitive marks the column as carrying sensitive data.
	Sensitive bool
	// Description is optional free text.
	Description string
}

// Nullable reports whether the column accepts nulls.
func (b Base) Nullable() bool {
	return !b.NotNull
}

func (b Base) validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return &core.ColumnValidationError{
			Column:  b.Name,
			Rule:    core.ColumnRuleNameRequired,
			Message: "name must not be empty",
		}
	}
	return nil
}

func (b Base) clone() Base {
	b.Order = cloneInt(b.Order)
	return b
}

// fields renders the base attributes in a fixed order.
func (b Base) fields() []string {
	parts := []string{
		fmt.Sprintf("name=%q", b.Name),
		fmt.Sprintf("nullable=%t", b.Nullable()),
		"order=" + formatInt(b.Order),
		fmt.Sprintf("sensitive=%t", b.Sensitive),
	}
	if b.Description != "" {
		parts = append(parts, fmt.Sprintf("description=%q", b.Description))
	}
	return parts
}

// Int returns a pointer to n, for the optional integer attributes.
func Int(n int) *int {
	return &n
}

// Names returns the names of cols in order.
func Names(cols []Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Attrs().Name
	}
	return names
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func formatInt(p *int) string {
	if p == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *p)
}

// Clone returns a deep copy of c.
func Clone(c Column) Column {
	switch col := c.(type) {
	case PostgresColumn:
		col.Base = col.Base.clone()
		col.Precision = cloneInt(col.Precision)
		col.Scale = cloneInt(col.Scale)
		col.Length = cloneInt(col.Length)
		return col
	case ParquetColumn:
		col.Base = col.Base.clone()
		col.Length = cloneInt(col.Length)
		col.Precision = cloneInt(col.Precision)
		col.Scale = cloneInt(col.Scale)
		return col
	default:
		return c
	}
}

// Validate checks c against the rules of its kind and returns the normalized
// copy, with defaults applied. Columns built as struct literals pass through
// here before a model accepts them.
func Validate(c Column) (Column, error) {
	switch col := c.(type) {
	case PostgresColumn:
		return NewPostgres(col)
	case ParquetColumn:
		return NewParquet(col)
	case nil:
		return nil, &core.ColumnValidationError{
			Rule:    core.ColumnRuleNameRequired,
			Message: "column is nil",
		}
	default:
		return c, nil
	}
}

// Equal reports whether a and b are the same kind with identical attributes.
func Equal(a, b Column) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Kind() == b.Kind() && a.String() == b.String()
}
