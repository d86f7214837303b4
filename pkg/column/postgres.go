package column

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/bollhav/pkg/core"
)

// PostgresType is a PostgreSQL column storage type.
type PostgresType string

// PostgreSQL storage types.
const (
	// Numeric
	PostgresSmallint        PostgresType = "SMALLINT"
	PostgresInt2            PostgresType = "INT2"
	PostgresInteger         PostgresType = "INTEGER"
	PostgresInt4            PostgresType = "INT4"
	PostgresBigint          PostgresType = "BIGINT"
	PostgresInt8            PostgresType = "INT8"
	PostgresDecimal         PostgresType = "DECIMAL"
	PostgresNumeric         PostgresType = "NUMERIC"
	PostgresReal            PostgresType = "REAL"
	PostgresFloat4          PostgresType = "FLOAT4"
	PostgresDoublePrecision PostgresType = "DOUBLE PRECISION"
	PostgresFloat8          PostgresType = "FLOAT8"
	PostgresSmallserial     PostgresType = "SMALLSERIAL"
	PostgresSerial          PostgresType = "SERIAL"
	PostgresBigserial       PostgresType = "BIGSERIAL"

	// Monetary
	PostgresMoney PostgresType = "MONEY"

	// Character
	PostgresChar             PostgresType = "CHAR"
	PostgresCharacterVarying PostgresType = "CHARACTER VARYING"
	PostgresVarchar          PostgresType = "VARCHAR"
	PostgresText             PostgresType = "TEXT"

	// Binary
	PostgresBytea PostgresType = "BYTEA"

	// Date/Time
	PostgresTimestamp   PostgresType = "TIMESTAMP"
	PostgresTimestamptz PostgresType = "TIMESTAMPTZ"
	PostgresDate        PostgresType = "DATE"
	PostgresTime        PostgresType = "TIME"
	PostgresTimetz      PostgresType = "TIMETZ"
	PostgresInterval    PostgresType = "INTERVAL"

	// Boolean
	PostgresBoolean PostgresType = "BOOLEAN"

	// Geometric
	PostgresPoint   PostgresType = "POINT"
	PostgresLine    PostgresType = "LINE"
	PostgresLseg    PostgresType = "LSEG"
	PostgresBox     PostgresType = "BOX"
	PostgresPath    PostgresType = "PATH"
	PostgresPolygon PostgresType = "POLYGON"
	PostgresCircle  PostgresType = "CIRCLE"

	// Network
	PostgresCidr     PostgresType = "CIDR"
	PostgresInet     PostgresType = "INET"
	PostgresMacaddr  PostgresType = "MACADDR"
	PostgresMacaddr8 PostgresType = "MACADDR8"

	// Bit string
	PostgresBit    PostgresType = "BIT"
	PostgresVarbit PostgresType = "VARBIT"

	// Text search
	PostgresTsvector PostgresType = "TSVECTOR"
	PostgresTsquery  PostgresType = "TSQUERY"

	PostgresUUID  PostgresType = "UUID"
	PostgresXML   PostgresType = "XML"
	PostgresJSON  PostgresType = "JSON"
	PostgresJSONB PostgresType = "JSONB"

	// Range
	PostgresInt4range PostgresType = "INT4RANGE"
	PostgresInt8range PostgresType = "INT8RANGE"
	PostgresNumrange  PostgresType = "NUMRANGE"
	PostgresTsrange   PostgresType = "TSRANGE"
	PostgresTstzrange PostgresType = "TSTZRANGE"
	PostgresDaterange PostgresType = "DATERANGE"

	// Multirange (Postgres 14+)
	PostgresInt4multirange PostgresType = "INT4MULTIRANGE"
	PostgresInt8multirange PostgresType = "INT8MULTIRANGE"
	PostgresNummultirange  PostgresType = "NUMMULTIRANGE"
	PostgresTsmultirange   PostgresType = "TSMULTIRANGE"
	PostgresTstzmultirange PostgresType = "TSTZMULTIRANGE"
	PostgresDatemultirange PostgresType = "DATEMULTIRANGE"
)

var postgresTypes = []PostgresType{
	PostgresSmallint, PostgresInt2, PostgresInteger, PostgresInt4, PostgresBigint, PostgresInt8,
	PostgresDecimal, PostgresNumeric, PostgresReal, PostgresFloat4, PostgresDoublePrecision, PostgresFloat8,
	PostgresSmallserial, PostgresSerial, PostgresBigserial,
	PostgresMoney,
	PostgresChar, PostgresCharacterVarying, PostgresVarchar, PostgresText,
	PostgresBytea,
	PostgresTimestamp, PostgresTimestamptz, PostgresDate, PostgresTime, PostgresTimetz, PostgresInterval,
	PostgresBoolean,
	PostgresPoint, PostgresLine, PostgresLseg, PostgresBox, PostgresPath, PostgresPolygon, PostgresCircle,
	PostgresCidr, PostgresInet, PostgresMacaddr, PostgresMacaddr8,
	PostgresBit, PostgresVarbit,
	PostgresTsvector, PostgresTsquery,
	PostgresUUID, PostgresXML, PostgresJSON, PostgresJSONB,
	PostgresInt4range, PostgresInt8range, PostgresNumrange, PostgresTsrange, PostgresTstzrange, PostgresDaterange,
	PostgresInt4multirange, PostgresInt8multirange, PostgresNummultirange,
	PostgresTsmultirange, PostgresTstzmultirange, PostgresDatemultirange,
}

var postgresTypeSet = func() map[PostgresType]bool {
	set := make(map[PostgresType]bool, len(postgresTypes))
	for _, t := range postgresTypes {
		set[t] = true
	}
	return set
}()

// AllPostgresTypes returns the PostgreSQL vocabulary in declaration order.
func AllPostgresTypes() []PostgresType {
	out := make([]PostgresType, len(postgresTypes))
	copy(out, postgresTypes)
	return out
}

// IsValid reports whether t belongs to the PostgreSQL vocabulary.
func (t PostgresType) IsValid() bool {
	return postgresTypeSet[t]
}

// ParsePostgresType converts a string to a PostgresType (case-insensitive,
// inner whitespace collapsed so "double   precision" is accepted).
func ParsePostgresType(s string) (PostgresType, bool) {
	t := PostgresType(strings.ToUpper(strings.Join(strings.Fields(s), " ")))
	return t, t.IsValid()
}

// PostgresColumn describes a column of a PostgreSQL table.
type PostgresColumn struct {
	Base
	// DataType defaults to TEXT when empty.
	DataType   PostgresType
	PrimaryKey bool
	Unique     bool
	Precision  *int
	Scale      *int
	Length     *int
}

// NewPostgres validates c and returns an independent copy with defaults applied.
// Nothing is returned when any rule fails.
func NewPostgres(c PostgresColumn) (PostgresColumn, error) {
	if err := c.Base.validate(); err != nil {
		return PostgresColumn{}, err
	}
	if c.DataType == "" {
		c.DataType = PostgresText
	}
	if !c.DataType.IsValid() {
		return PostgresColumn{}, &core.ColumnValidationError{
			Column:  c.Name,
			Rule:    core.ColumnRuleUnknownDataType,
			Message: fmt.Sprintf("unknown postgres data type %q", string(c.DataType)),
		}
	}
	if c.PrimaryKey && c.Nullable() {
		return PostgresColumn{}, &core.ColumnValidationError{
			Column:  c.Name,
			Rule:    core.ColumnRulePrimaryKeyNullable,
			Message: "primary key cannot be nullable",
		}
	}

	c.Base = c.Base.clone()
	c.Precision = cloneInt(c.Precision)
	c.Scale = cloneInt(c.Scale)
	c.Length = cloneInt(c.Length)
	return c, nil
}

// MustPostgres is like NewPostgres but panics on error.
// It is intended for package-level fixtures and tests.
func MustPostgres(c PostgresColumn) PostgresColumn {
	col, err := NewPostgres(c)
	if err != nil {
		panic(err)
	}
	return col
}

// Kind returns core.DatabasePostgres.
func (c PostgresColumn) Kind() core.Database {
	return core.DatabasePostgres
}

// Attrs returns the shared column attributes.
func (c PostgresColumn) Attrs() Base {
	return c.Base
}

func (c PostgresColumn) String() string {
	parts := append(c.Base.fields(),
		"data_type="+string(c.DataType),
		fmt.Sprintf("primary_key=%t", c.PrimaryKey),
		fmt.Sprintf("unique=%t", c.Unique),
		"precision="+formatInt(c.Precision),
		"scale="+formatInt(c.Scale),
		"length="+formatInt(c.Length),
	)
	return "PostgresColumn(" + strings.Join(parts, ", ") + ")"
}

func (PostgresColumn) sealed() {}
