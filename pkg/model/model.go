// Package model builds validated pipeline model definitions.
//
// A Model names a source dataset and describes the destination it is written
// to: columns, write semantics and scheduling metadata. Models are built once
// with New, validated in full, and never mutated afterwards.
package model

import (
	"slices"

	"github.com/leapstack-labs/bollhav/pkg/column"
	"github.com/leapstack-labs/bollhav/pkg/core"
)

// Model is an immutable pipeline model definition.
type Model struct {
	name          string
	sourceEntity  string
	table         string
	schema        string
	database      core.Database
	columns       []column.Column
	modelType     core.ModelType
	writeMode     core.WriteMode
	tags          []string
	cron          string
	batchSize     core.BatchSize
	enabled       bool
	debug         bool
	description   string
	sourceDSN     string
	sourceQuery   string
	partitionedBy []string
	sensitive     bool
	extra         Extra
}

// New validates the supplied attributes and returns the model.
//
// Invariants are checked in a fixed order and the first violation is
// returned; nothing is built on failure. Model invariants fail with
// *core.ValidationError, a bad cron expression with *core.InvalidScheduleError.
func New(name, sourceEntity string, opts ...Option) (*Model, error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(s)
	}

	if err := validate(name, s); err != nil {
		return nil, err
	}

	batchSize, err := inferBatchSize(name, s.cron)
	if err != nil {
		return nil, err
	}

	extra, err := resolveExtra(name, s.extra)
	if err != nil {
		return nil, err
	}

	m := &Model{
		name:          name,
		sourceEntity:  sourceEntity,
		table:         s.table,
		schema:        s.schema,
		database:      s.database,
		columns:       cloneColumns(s.columns),
		modelType:     s.modelType,
		writeMode:     s.writeMode,
		tags:          slices.Clone(s.tags),
		cron:          s.cron,
		batchSize:     batchSize,
		enabled:       s.enabled,
		debug:         s.debug,
		description:   s.description,
		sourceDSN:     s.sourceDSN,
		sourceQuery:   s.sourceQuery,
		partitionedBy: slices.Clone(s.partitionedBy),
		extra:         extra,
	}
	m.sensitive = anySensitive(m.columns)
	return m, nil
}

// Name returns the model's identifier.
func (m *Model) Name() string { return m.name }

// SourceEntity returns where the model's data is read from.
func (m *Model) SourceEntity() string { return m.sourceEntity }

// Table returns the destination table name.
func (m *Model) Table() string { return m.table }

// Schema returns the destination schema name.
func (m *Model) Schema() string { return m.schema }

// Database returns the targeted storage kind; "" when absent.
func (m *Model) Database() core.Database { return m.database }

// Columns returns a copy of the destination columns. The result is nil when
// no columns were supplied and empty (non-nil) when an empty set was supplied.
func (m *Model) Columns() []column.Column { return cloneColumns(m.columns) }

// HasColumns reports whether a column set was supplied.
func (m *Model) HasColumns() bool { return m.columns != nil }

// Column returns the column with the given name.
func (m *Model) Column(name string) (column.Column, bool) {
	for _, c := range m.columns {
		if c.Attrs().Name == name {
			return column.Clone(c), true
		}
	}
	return nil, false
}

// ModelType returns TABLE or VIEW.
func (m *Model) ModelType() core.ModelType { return m.modelType }

// WriteMode returns how new data is merged into the destination.
func (m *Model) WriteMode() core.WriteMode { return m.writeMode }

// Tags returns a copy of the model's labels; nil when absent.
func (m *Model) Tags() []string { return slices.Clone(m.tags) }

// Cron returns the source schedule; "" when absent.
func (m *Model) Cron() string { return m.cron }

// BatchSize returns the granularity derived from Cron; "" when absent or
// unclassified.
func (m *Model) BatchSize() core.BatchSize { return m.batchSize }

// Enabled reports whether the model is enabled.
func (m *Model) Enabled() bool { return m.enabled }

// Debug reports whether the debug flag is set.
func (m *Model) Debug() bool { return m.debug }

// Description returns the free-text description; "" when absent.
func (m *Model) Description() string { return m.description }

// SourceDSN returns the source connection string; "" when absent.
func (m *Model) SourceDSN() string { return m.sourceDSN }

// SourceQuery returns the source query; "" when absent.
func (m *Model) SourceQuery() string { return m.sourceQuery }

// PartitionedBy returns a copy of the partition column names; nil when absent.
func (m *Model) PartitionedBy() []string { return slices.Clone(m.partitionedBy) }

// Sensitive reports whether any column carries sensitive data.
func (m *Model) Sensitive() bool { return m.sensitive }

// Extra returns the resolved extension metadata.
func (m *Model) Extra() Extra {
	return Extra{keys: m.extra.Keys(), values: m.extra.Map()}
}

// Equal reports whether m and other have identical fields, derived ones
// included. A nil model equals only another nil model.
func (m *Model) Equal(other *Model) bool {
	if m == nil || other == nil {
		return m == nil && other == nil
	}
	return m.name == other.name &&
		m.sourceEntity == other.sourceEntity &&
		m.table == other.table &&
		m.schema == other.schema &&
		m.database == other.database &&
		columnsEqual(m.columns, other.columns) &&
		m.modelType == other.modelType &&
		m.writeMode == other.writeMode &&
		optionalEqual(m.tags, other.tags) &&
		m.cron == other.cron &&
		m.batchSize == other.batchSize &&
		m.enabled == other.enabled &&
		m.debug == other.debug &&
		m.description == other.description &&
		m.sourceDSN == other.sourceDSN &&
		m.sourceQuery == other.sourceQuery &&
		optionalEqual(m.partitionedBy, other.partitionedBy) &&
		m.sensitive == other.sensitive &&
		m.extra.Equal(other.extra)
}

func anySensitive(cols []column.Column) bool {
	for _, c := range cols {
		if c.Attrs().Sensitive {
			return true
		}
	}
	return false
}

func cloneColumns(cols []column.Column) []column.Column {
	if cols == nil {
		return nil
	}
	out := make([]column.Column, len(cols))
	for i, c := range cols {
		out[i] = column.Clone(c)
	}
	return out
}

func columnsEqual(a, b []column.Column) bool {
	if (a == nil) != (b == nil) || len(a) != len(b) {
		return false
	}
	for i := range a {
		if !column.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// optionalEqual distinguishes an absent list from a supplied empty one.
func optionalEqual(a, b []string) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return slices.Equal(a, b)
}
