package model

import (
	"fmt"
	"strings"
)

// String renders every field in a fixed order. It is meant for diffs and
// debugging, not as a serialization format.
func (m *Model) String() string {
	if m == nil {
		return "Model(nil)"
	}
	fields := []string{
		fmt.Sprintf("name=%q", m.name),
		fmt.Sprintf("source_entity=%q", m.sourceEntity),
		fmt.Sprintf("table=%q", m.table),
		fmt.Sprintf("schema=%q", m.schema),
		"database=" + formatOptional(string(m.database)),
		"columns=" + m.formatColumns(),
		"model_type=" + string(m.modelType),
		"write_mode=" + string(m.writeMode),
		"tags=" + formatStrings(m.tags),
		"cron=" + formatQuoted(m.cron),
		"batch_size=" + formatOptional(string(m.batchSize)),
		fmt.Sprintf("enabled=%t", m.enabled),
		fmt.Sprintf("debug=%t", m.debug),
		"description=" + formatQuoted(m.description),
		"source_dsn=" + formatQuoted(m.sourceDSN),
		"source_query=" + formatQuoted(m.sourceQuery),
		"partitioned_by=" + formatStrings(m.partitionedBy),
		fmt.Sprintf("sensitive=%t", m.sensitive),
		"extra=" + m.extra.String(),
	}
	return "Model(" + strings.Join(fields, ", ") + ")"
}

func (m *Model) formatColumns() string {
	if m.columns == nil {
		return "none"
	}
	parts := make([]string, len(m.columns))
	for i, c := range m.columns {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatOptional(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func formatQuoted(s string) string {
	if s == "" {
		return "none"
	}
	return fmt.Sprintf("%q", s)
}

func formatStrings(ss []string) string {
	if ss == nil {
		return "none"
	}
	quoted := make([]string, len(ss))
	for i, s := range ss {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
