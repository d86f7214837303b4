package column

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/bollhav/pkg/core"
)

// ParquetType is a Parquet physical type.
type ParquetType string

// Parquet physical types.
const (
	ParquetBoolean ParquetType = "BOOLEAN"
	ParquetInt32   ParquetType = "INT32"
	ParquetInt64   ParquetType = "INT64"
	// ParquetInt96 is deprecated and kept for legacy files only.
	ParquetInt96             ParquetType = "INT96"
	ParquetFloat             ParquetType = "FLOAT"
	ParquetDouble            ParquetType = "DOUBLE"
	ParquetByteArray         ParquetType = "BYTE_ARRAY"
	ParquetFixedLenByteArray ParquetType = "FIXED_LEN_BYTE_ARRAY"
)

// AllParquetTypes returns the Parquet vocabulary in declaration order.
func AllParquetTypes() []ParquetType {
	return []ParquetType{
		ParquetBoolean,
		ParquetInt32,
		ParquetInt64,
		ParquetInt96,
		ParquetFloat,
		ParquetDouble,
		ParquetByteArray,
		ParquetFixedLenByteArray,
	}
}

// IsValid reports whether t is a Parquet physical type.
func (t ParquetType) IsValid() bool {
	switch t {
	case ParquetBoolean, ParquetInt32, ParquetInt64, ParquetInt96,
		ParquetFloat, ParquetDouble, ParquetByteArray, ParquetFixedLenByteArray:
		return true
	default:
		return false
	}
}

// SupportsDecimal reports whether t may carry a DECIMAL annotation.
func (t ParquetType) SupportsDecimal() bool {
	switch t {
	case ParquetInt32, ParquetInt64, ParquetFixedLenByteArray:
		return true
	default:
		return false
	}
}

// ParseParquetType converts a string to a ParquetType (case-insensitive).
func ParseParquetType(s string) (ParquetType, bool) {
	t := ParquetType(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.IsValid()
}

// ParquetColumn describes a column of a Parquet file.
// Precision and Scale form a DECIMAL annotation and are set together.
type ParquetColumn struct {
	Base
	// DataType defaults to BYTE_ARRAY when empty.
	DataType  ParquetType
	Length    *int
	Precision *int
	Scale     *int
}

// NewParquet validates c and returns an independent copy with defaults applied.
// Nothing is returned when any rule fails.
func NewParquet(c ParquetColumn) (ParquetColumn, error) {
	if err := c.Base.validate(); err != nil {
		return ParquetColumn{}, err
	}
	if c.DataType == "" {
		c.DataType = ParquetByteArray
	}
	if !c.DataType.IsValid() {
		return ParquetColumn{}, c.fail(core.ColumnRuleUnknownDataType,
			fmt.Sprintf("unknown parquet data type %q", string(c.DataType)))
	}
	if c.DataType == ParquetFixedLenByteArray && c.Length == nil {
		return ParquetColumn{}, c.fail(core.ColumnRuleFixedLengthRequired,
			"FIXED_LEN_BYTE_ARRAY requires length")
	}

	hasDecimal := c.Precision != nil || c.Scale != nil
	if hasDecimal && !c.DataType.SupportsDecimal() {
		return ParquetColumn{}, c.fail(core.ColumnRuleDecimalType,
			fmt.Sprintf("precision/scale (DECIMAL annotation) only valid on INT32, INT64, or FIXED_LEN_BYTE_ARRAY, not %s", c.DataType))
	}
	if hasDecimal && (c.Precision == nil || c.Scale == nil) {
		return ParquetColumn{}, c.fail(core.ColumnRuleDecimalPair,
			"precision and scale must both be set for DECIMAL annotation")
	}

	c.Base = c.Base.clone()
	c.Length = cloneInt(c.Length)
	c.Precision = cloneInt(c.Precision)
	c.Scale = cloneInt(c.Scale)
	return c, nil
}

// MustParquet is like NewParquet but panics on error.
// It is intended for package-level fixtures and tests.
func MustParquet(c ParquetColumn) ParquetColumn {
	col, err := NewParquet(c)
	if err != nil {
		panic(err)
	}
	return col
}

func (c ParquetColumn) fail(rule core.ColumnRule, msg string) error {
	return &core.ColumnValidationError{Column: c.Name, Rule: rule, Message: msg}
}

// Kind returns core.DatabaseParquet.
func (c ParquetColumn) Kind() core.Database {
	return core.DatabaseParquet
}

// Attrs returns the shared column attributes.
func (c ParquetColumn) Attrs() Base {
	return c.Base
}

// String renders the column; unset optional attributes are omitted.
func (c ParquetColumn) String() string {
	parts := append(c.Base.fields(), "data_type="+string(c.DataType))
	if c.Length != nil {
		parts = append(parts, fmt.Sprintf("length=%d", *c.Length))
	}
	if c.Precision != nil {
		parts = append(parts, fmt.Sprintf("precision=%d", *c.Precision))
	}
	if c.Scale != nil {
		parts = append(parts, fmt.Sprintf("scale=%d", *c.Scale))
	}
	return "ParquetColumn(" + strings.Join(parts, ", ") + ")"
}

func (ParquetColumn) sealed() {}
