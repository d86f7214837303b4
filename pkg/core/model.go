package core

import "strings"

// ModelType represents how a model is materialized at its destination.
type ModelType string

// Model type constants.
const (
	ModelTypeTable ModelType = "TABLE"
	ModelTypeView  ModelType = "VIEW"
)

// AllModelTypes returns every model type in declaration order.
func AllModelTypes() []ModelType {
	return []ModelType{ModelTypeTable, ModelTypeView}
}

// String returns the string representation of the model type.
func (t ModelType) String() string {
	return string(t)
}

// IsValid reports whether t is a known model type.
func (t ModelType) IsValid() bool {
	switch t {
	case ModelTypeTable, ModelTypeView:
		return true
	default:
		return false
	}
}

// ParseModelType converts a string to a ModelType value (case-insensitive).
// Returns the model type and true if valid, or ModelTypeTable and false if invalid.
func ParseModelType(s string) (ModelType, bool) {
	t := ModelType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return ModelTypeTable, false
	}
	return t, true
}

// WriteMode describes how new data is merged into the destination.
type WriteMode string

// Write mode constants.
const (
	// WriteModeAppend inserts new rows and keeps existing ones.
	WriteModeAppend WriteMode = "APPEND"
	// WriteModeTruncateInsert empties the destination before inserting.
	WriteModeTruncateInsert WriteMode = "TRUNCATE_INSERT"
	// WriteModeOverwriteInsert replaces the rows of the batch being written.
	WriteModeOverwriteInsert WriteMode = "OVERWRITE_INSERT"
	// WriteModeMerge upserts rows into the destination.
	WriteModeMerge WriteMode = "MERGE"
	// WriteModeView is the only mode allowed for views; nothing is written.
	WriteModeView WriteMode = "VIEW"
)

// AllWriteModes returns every write mode in declaration order.
func AllWriteModes() []WriteMode {
	return []WriteMode{
		WriteModeAppend,
		WriteModeTruncateInsert,
		WriteModeOverwriteInsert,
		WriteModeMerge,
		WriteModeView,
	}
}

// String returns the string representation of the write mode.
func (m WriteMode) String() string {
	return string(m)
}

// IsValid reports whether m is a known write mode.
func (m WriteMode) IsValid() bool {
	switch m {
	case WriteModeAppend, WriteModeTruncateInsert, WriteModeOverwriteInsert, WriteModeMerge, WriteModeView:
		return true
	default:
		return false
	}
}

// ParseWriteMode converts a string to a WriteMode value (case-insensitive).
// Returns the write mode and true if valid, or WriteModeAppend and false if invalid.
func ParseWriteMode(s string) (WriteMode, bool) {
	m := WriteMode(strings.ToUpper(strings.TrimSpace(s)))
	if !m.IsValid() {
		return WriteModeAppend, false
	}
	return m, true
}
