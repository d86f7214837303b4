package commands

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/bollhav/pkg/column"
	"github.com/leapstack-labs/bollhav/pkg/model"
)

// modelView is the JSON shape of a model. The source DSN is never included.
type modelView struct {
	Name          string         `json:"name"`
	SourceEntity  string         `json:"source_entity"`
	Table         string         `json:"table,omitempty"`
	Schema        string         `json:"schema,omitempty"`
	Database      string         `json:"database,omitempty"`
	ModelType     string         `json:"model_type"`
	WriteMode     string         `json:"write_mode"`
	Cron          string         `json:"cron,omitempty"`
	BatchSize     string         `json:"batch_size,omitempty"`
	Enabled       bool           `json:"enabled"`
	Debug         bool           `json:"debug"`
	Sensitive     bool           `json:"sensitive"`
	Description   string         `json:"description,omitempty"`
	HasSourceDSN  bool           `json:"has_source_dsn"`
	SourceQuery   string         `json:"source_query,omitempty"`
	Tags          []string       `json:"tags"`
	PartitionedBy []string       `json:"partitioned_by"`
	Columns       []columnView   `json:"columns"`
	Extra         map[string]any `json:"extra"`
	File          string         `json:"file,omitempty"`

	extraText string
}

type columnView struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Nullable    bool   `json:"nullable"`
	Sensitive   bool   `json:"sensitive"`
	Description string `json:"description,omitempty"`
	Attributes  string `json:"attributes,omitempty"`
}

func newModelView(m *model.Model, file string) modelView {
	v := modelView{
		Name:          m.Name(),
		SourceEntity:  m.SourceEntity(),
		Table:         m.Table(),
		Schema:        m.Schema(),
		Database:      string(m.Database()),
		ModelType:     string(m.ModelType()),
		WriteMode:     string(m.WriteMode()),
		Cron:          m.Cron(),
		BatchSize:     string(m.BatchSize()),
		Enabled:       m.Enabled(),
		Debug:         m.Debug(),
		Sensitive:     m.Sensitive(),
		Description:   m.Description(),
		HasSourceDSN:  m.SourceDSN() != "",
		SourceQuery:   m.SourceQuery(),
		Tags:          orEmpty(m.Tags()),
		PartitionedBy: orEmpty(m.PartitionedBy()),
		Columns:       []columnView{},
		Extra:         m.Extra().Map(),
		File:          file,
		extraText:     m.Extra().String(),
	}
	for _, c := range m.Columns() {
		v.Columns = append(v.Columns, newColumnView(c))
	}
	return v
}

func newColumnView(c column.Column) columnView {
	attrs := c.Attrs()
	v := columnView{
		Name:        attrs.Name,
		Nullable:    attrs.Nullable(),
		Sensitive:   attrs.Sensitive,
		Description: attrs.Description,
	}
	var extra []string
	switch col := c.(type) {
	case column.PostgresColumn:
		v.Type = string(col.DataType)
		if col.PrimaryKey {
			extra = append(extra, "primary key")
		}
		if col.Unique {
			extra = append(extra, "unique")
		}
		extra = append(extra, sizeAttrs(col.Length, col.Precision, col.Scale)...)
	case column.ParquetColumn:
		v.Type = string(col.DataType)
		extra = append(extra, sizeAttrs(col.Length, col.Precision, col.Scale)...)
	}
	v.Attributes = strings.Join(extra, ", ")
	return v
}

func sizeAttrs(length, precision, scale *int) []string {
	var out []string
	if length != nil {
		out = append(out, "length="+strconv.Itoa(*length))
	}
	if precision != nil {
		out = append(out, "precision="+strconv.Itoa(*precision))
	}
	if scale != nil {
		out = append(out, "scale="+strconv.Itoa(*scale))
	}
	return out
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
