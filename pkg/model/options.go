package model

import (
	"github.com/leapstack-labs/bollhav/pkg/column"
	"github.com/leapstack-labs/bollhav/pkg/core"
)

// Option configures a Model under construction.
type Option func(*settings)

// settings collects options before validation; nothing here is observable
// until New succeeds.
type settings struct {
	table         string
	schema        string
	database      core.Database
	columns       []column.Column
	modelType     core.ModelType
	writeMode     core.WriteMode
	tags          []string
	cron          string
	enabled       bool
	debug         bool
	description   string
	sourceDSN     string
	sourceQuery   string
	partitionedBy []string
	extra         []extraEntry
}

func defaultSettings() *settings {
	return &settings{
		modelType: core.ModelTypeTable,
		writeMode: core.WriteModeAppend,
		enabled:   true,
	}
}

// WithTable sets the destination table name.
func WithTable(table string) Option {
	return func(s *settings) { s.table = table }
}

// WithSchema sets the destination schema name.
func WithSchema(schema string) Option {
	return func(s *settings) { s.schema = schema }
}

// WithDatabase sets the storage kind the model targets.
// Columns must be supplied as well.
func WithDatabase(db core.Database) Option {
	return func(s *settings) { s.database = db }
}

// WithColumns sets the destination columns. Calling it with no arguments
// still marks the column set as supplied.
func WithColumns(cols ...column.Column) Option {
	return func(s *settings) {
		s.columns = make([]column.Column, 0, len(cols))
		s.columns = append(s.columns, cols...)
	}
}

// WithModelType sets the model type (default TABLE).
func WithModelType(t core.ModelType) Option {
	return func(s *settings) { s.modelType = t }
}

// WithWriteMode sets the write mode (default APPEND).
func WithWriteMode(m core.WriteMode) Option {
	return func(s *settings) { s.writeMode = m }
}

// WithView is shorthand for a VIEW model with the VIEW write mode.
func WithView() Option {
	return func(s *settings) {
		s.modelType = core.ModelTypeView
		s.writeMode = core.WriteModeView
	}
}

// WithTags sets the model's labels. Calling it with no arguments marks the
// tag list as supplied but empty.
func WithTags(tags ...string) Option {
	return func(s *settings) {
		s.tags = make([]string, 0, len(tags))
		s.tags = append(s.tags, tags...)
	}
}

// WithCron sets the source schedule. The batch size is derived from it.
func WithCron(expr string) Option {
	return func(s *settings) { s.cron = expr }
}

// WithEnabled sets whether the model is enabled (default true).
func WithEnabled(enabled bool) Option {
	return func(s *settings) { s.enabled = enabled }
}

// WithDebug sets the debug flag (default false).
func WithDebug(debug bool) Option {
	return func(s *settings) { s.debug = debug }
}

// WithDescription sets a free-text description.
func WithDescription(description string) Option {
	return func(s *settings) { s.description = description }
}

// WithSourceDSN sets the source connection string.
func WithSourceDSN(dsn string) Option {
	return func(s *settings) { s.sourceDSN = dsn }
}

// WithSourceQuery sets the query used to read the source.
func WithSourceQuery(query string) Option {
	return func(s *settings) { s.sourceQuery = query }
}

// WithPartitionedBy sets the partition columns. Every name must be one of
// the model's columns.
func WithPartitionedBy(cols ...string) Option {
	return func(s *settings) {
		s.partitionedBy = make([]string, 0, len(cols))
		s.partitionedBy = append(s.partitionedBy, cols...)
	}
}

// WithExtra attaches an extra metadata entry. A value of type Resolver, or a
// plain func(map[string]any) (any, error), is treated as a resolver and
// replaced by its result during construction.
// Supplying a key again replaces the earlier value in place.
func WithExtra(key string, value any) Option {
	return func(s *settings) {
		switch fn := value.(type) {
		case Resolver:
			s.setExtra(extraEntry{key: key, resolver: fn})
		case func(map[string]any) (any, error):
			s.setExtra(extraEntry{key: key, resolver: fn})
		default:
			s.setExtra(extraEntry{key: key, value: value})
		}
	}
}

// WithResolver attaches an extra entry whose value is computed from the
// static extra entries during construction.
func WithResolver(key string, fn Resolver) Option {
	return func(s *settings) { s.setExtra(extraEntry{key: key, resolver: fn}) }
}

func (s *settings) setExtra(e extraEntry) {
	for i := range s.extra {
		if s.extra[i].key == e.key {
			s.extra[i] = e
			return
		}
	}
	s.extra = append(s.extra, e)
}
