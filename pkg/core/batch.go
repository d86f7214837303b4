package core

import "strings"

// BatchSize is a coarse classification of how often a model's schedule runs.
// The zero value means no classification applies.
type BatchSize string

// Batch size constants, coarsest first.
const (
	BatchSizeYearly  BatchSize = "YEARLY"
	BatchSizeMonthly BatchSize = "MONTHLY"
	BatchSizeWeekly  BatchSize = "WEEKLY"
	BatchSizeDaily   BatchSize = "DAILY"
	BatchSizeHourly  BatchSize = "HOURLY"
	// BatchSizeSubhourly is part of the vocabulary but is not produced by
	// schedule inference.
	BatchSizeSubhourly BatchSize = "SUBHOURLY"
)

// AllBatchSizes returns every batch size in declaration order.
func AllBatchSizes() []BatchSize {
	return []BatchSize{
		BatchSizeYearly,
		BatchSizeMonthly,
		BatchSizeWeekly,
		BatchSizeDaily,
		BatchSizeHourly,
		BatchSizeSubhourly,
	}
}

// String returns the string representation of the batch size.
func (b BatchSize) String() string {
	return string(b)
}

// IsSet reports whether a classification is present.
func (b BatchSize) IsSet() bool {
	return b != ""
}

// IsValid reports whether b is a known batch size.
func (b BatchSize) IsValid() bool {
	switch b {
	case BatchSizeYearly, BatchSizeMonthly, BatchSizeWeekly, BatchSizeDaily, BatchSizeHourly, BatchSizeSubhourly:
		return true
	default:
		return false
	}
}

// ParseBatchSize converts a string to a BatchSize value (case-insensitive).
func ParseBatchSize(s string) (BatchSize, bool) {
	b := BatchSize(strings.ToUpper(strings.TrimSpace(s)))
	if !b.IsValid() {
		return "", false
	}
	return b, true
}
