package core

import (
	"fmt"
	"strings"
)

// =============================================================================
// Model validation
// =============================================================================

// Rule names a cross-field invariant checked while constructing a model.
type Rule string

// Model invariants, in the order they are checked.
const (
	RuleUnknownModelType       Rule = "unknown_model_type"
	RuleUnknownWriteMode       Rule = "unknown_write_mode"
	RuleViewRequiresViewMode   Rule = "view_requires_view_write_mode"
	RuleTableForbidsViewMode   Rule = "table_forbids_view_write_mode"
	RuleUnknownDatabase        Rule = "unknown_database"
	RuleColumnsRequired        Rule = "columns_required"
	RuleDatabaseRequired       Rule = "database_required"
	RuleColumnKindMismatch     Rule = "column_kind_mismatch"
	RuleDuplicateColumn        Rule = "duplicate_column"
	RuleUnknownPartitionColumn Rule = "unknown_partition_column"
	RuleInvalidExtraKey        Rule = "invalid_extra_key"
	RuleInvalidExtraValue      Rule = "invalid_extra_value"
	RuleExtraResolverFailed    Rule = "extra_resolver_failed"
)

// ValidationError reports a model invariant violated during construction.
type ValidationError struct {
	Model   string
	Rule    Rule
	Message string
	// Columns lists the offending column names, when the rule concerns columns.
	Columns []string
	// Err is the underlying cause, if any (e.g. a failing extra resolver).
	Err error
}

func (e *ValidationError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("model %q: %s", e.Model, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// =============================================================================
// Column validation
// =============================================================================

// ColumnRule names a column descriptor invariant.
type ColumnRule string

// Column invariants.
const (
	ColumnRuleNameRequired         ColumnRule = "name_required"
	ColumnRuleUnknownDataType      ColumnRule = "unknown_data_type"
	ColumnRulePrimaryKeyNullable   ColumnRule = "primary_key_nullable"
	ColumnRuleFixedLengthRequired  ColumnRule = "fixed_length_required"
	ColumnRuleDecimalType          ColumnRule = "decimal_type"
	ColumnRuleDecimalPair          ColumnRule = "decimal_pair"
	ColumnRuleUnsupportedAttribute ColumnRule = "unsupported_attribute"
)

// ColumnValidationError reports a column descriptor that failed its kind's rules.
type ColumnValidationError struct {
	Column  string
	Rule    ColumnRule
	Message string
	// Model is the owning model, once the column is attached to one.
	Model string
}

func (e *ColumnValidationError) Error() string {
	return fmt.Sprintf("column %q: %s", e.Column, e.Message)
}

// =============================================================================
// Schedules
// =============================================================================

// InvalidScheduleError reports a cron expression that is not a valid
// 5-field schedule.
type InvalidScheduleError struct {
	Expr string
	Err  error
}

func (e *InvalidScheduleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid cron expression %q: %v", e.Expr, e.Err)
	}
	return fmt.Sprintf("invalid cron expression %q", e.Expr)
}

func (e *InvalidScheduleError) Unwrap() error {
	return e.Err
}

// QuoteNames renders names as a bracketed, quoted list for error messages.
func QuoteNames(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
