package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/bollhav/pkg/column"
	"github.com/leapstack-labs/bollhav/pkg/model"
)

// Entry is a published model as stored in the catalog.
type Entry struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	SourceEntity  string         `json:"source_entity"`
	Table         string         `json:"table"`
	Schema        string         `json:"schema"`
	Database      string         `json:"database"`
	ModelType     string         `json:"model_type"`
	WriteMode     string         `json:"write_mode"`
	Cron          string         `json:"cron"`
	BatchSize     string         `json:"batch_size"`
	Enabled       bool           `json:"enabled"`
	Debug         bool           `json:"debug"`
	Description   string         `json:"description"`
	SourceQuery   string         `json:"source_query"`
	PartitionedBy []string       `json:"partitioned_by"`
	Sensitive     bool           `json:"sensitive"`
	Extra         map[string]any `json:"extra"`
	// Definition is the model's String() at publish time, source DSN redacted.
	Definition  string        `json:"definition"`
	PublishedAt time.Time     `json:"published_at"`
	Tags        []string      `json:"tags"`
	Columns     []ColumnEntry `json:"columns"`
}

// ColumnEntry is one published column. The kind-specific attributes are
// zero when the column's kind has no such attribute.
type ColumnEntry struct {
	Position    int    `json:"position"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	DataType    string `json:"data_type"`
	Nullable    bool   `json:"nullable"`
	Sensitive   bool   `json:"sensitive"`
	Description string `json:"description"`
	PrimaryKey  bool   `json:"primary_key"`
	Unique      bool   `json:"unique"`
	Length      *int   `json:"length,omitempty"`
	Precision   *int   `json:"precision,omitempty"`
	Scale       *int   `json:"scale,omitempty"`
}

// columnEntry flattens a column descriptor to its catalog row.
func columnEntry(pos int, c column.Column) ColumnEntry {
	attrs := c.Attrs()
	e := ColumnEntry{
		Position:    pos,
		Name:        attrs.Name,
		Kind:        string(c.Kind()),
		Nullable:    attrs.Nullable(),
		Sensitive:   attrs.Sensitive,
		Description: attrs.Description,
	}
	switch col := c.(type) {
	case column.PostgresColumn:
		e.DataType = string(col.DataType)
		e.PrimaryKey = col.PrimaryKey
		e.Unique = col.Unique
		e.Length, e.Precision, e.Scale = col.Length, col.Precision, col.Scale
	case column.ParquetColumn:
		e.DataType = string(col.DataType)
		e.Length, e.Precision, e.Scale = col.Length, col.Precision, col.Scale
	}
	return e
}

// encodeJSON marshals the list-valued and extra fields of m.
func encodeJSON(m *model.Model) (partitions, extra string, err error) {
	parts := m.PartitionedBy()
	if parts == nil {
		parts = []string{}
	}
	p, err := json.Marshal(parts)
	if err != nil {
		return "", "", fmt.Errorf("encoding partitioned_by: %w", err)
	}
	e, err := json.Marshal(m.Extra().Map())
	if err != nil {
		return "", "", fmt.Errorf("encoding extra: %w", err)
	}
	return string(p), string(e), nil
}

// definition renders m with the source DSN redacted.
func definition(m *model.Model) string {
	s := m.String()
	if dsn := m.SourceDSN(); dsn != "" {
		s = strings.Replace(s, "source_dsn="+strconv.Quote(dsn), `source_dsn="<redacted>"`, 1)
	}
	return s
}
