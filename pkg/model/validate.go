package model

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/bollhav/pkg/batching"
	"github.com/leapstack-labs/bollhav/pkg/column"
	"github.com/leapstack-labs/bollhav/pkg/core"
)

// validate checks the cross-field invariants in order and returns the first
// violation.
func validate(name string, s *settings) error {
	checks := []func(string, *settings) error{
		checkVocabulary,
		checkViewCompatibility,
		checkDatabaseColumns,
		checkColumnSet,
		checkPartitions,
	}
	for _, check := range checks {
		if err := check(name, s); err != nil {
			return err
		}
	}
	return nil
}

func checkVocabulary(name string, s *settings) error {
	if !s.modelType.IsValid() {
		return &core.ValidationError{
			Model:   name,
			Rule:    core.RuleUnknownModelType,
			Message: fmt.Sprintf("unknown model type %q", string(s.modelType)),
		}
	}
	if !s.writeMode.IsValid() {
		return &core.ValidationError{
			Model:   name,
			Rule:    core.RuleUnknownWriteMode,
			Message: fmt.Sprintf("unknown write mode %q", string(s.writeMode)),
		}
	}
	if s.database.IsSet() && !s.database.IsValid() {
		return &core.ValidationError{
			Model:   name,
			Rule:    core.RuleUnknownDatabase,
			Message: fmt.Sprintf("unknown database %q", string(s.database)),
		}
	}
	return nil
}

func checkViewCompatibility(name string, s *settings) error {
	isView := s.modelType == core.ModelTypeView
	viewMode := s.writeMode == core.WriteModeView
	switch {
	case isView && !viewMode:
		return &core.ValidationError{
			Model:   name,
			Rule:    core.RuleViewRequiresViewMode,
			Message: fmt.Sprintf("model_type VIEW requires write_mode VIEW, got %s", s.writeMode),
		}
	case !isView && viewMode:
		return &core.ValidationError{
			Model:   name,
			Rule:    core.RuleTableForbidsViewMode,
			Message: fmt.Sprintf("write_mode VIEW is only valid for model_type VIEW, got %s", s.modelType),
		}
	}
	return nil
}

func checkDatabaseColumns(name string, s *settings) error {
	hasDatabase := s.database.IsSet()
	hasColumns := s.columns != nil
	switch {
	case hasDatabase && !hasColumns:
		return &core.ValidationError{
			Model:   name,
			Rule:    core.RuleColumnsRequired,
			Message: fmt.Sprintf("database %s is set but columns are missing", s.database),
		}
	case !hasDatabase && hasColumns:
		return &core.ValidationError{
			Model:   name,
			Rule:    core.RuleDatabaseRequired,
			Message: "columns are set but database is missing",
		}
	}
	return nil
}

func checkColumnSet(name string, s *settings) error {
	var mismatched []string
	for _, c := range s.columns {
		if c == nil || c.Kind() != s.database {
			mismatched = append(mismatched, columnName(c))
		}
	}
	if len(mismatched) > 0 {
		return &core.ValidationError{
			Model:   name,
			Rule:    core.RuleColumnKindMismatch,
			Message: fmt.Sprintf("columns %s do not match database %s", core.QuoteNames(mismatched), s.database),
			Columns: mismatched,
		}
	}

	for i, c := range s.columns {
		normalized, err := column.Validate(c)
		if err != nil {
			var colErr *core.ColumnValidationError
			if errors.As(err, &colErr) {
				colErr.Model = name
			}
			return fmt.Errorf("model %q: %w", name, err)
		}
		s.columns[i] = normalized
	}

	seen := make(map[string]bool, len(s.columns))
	var dups []string
	for _, c := range s.columns {
		n := c.Attrs().Name
		if seen[n] {
			dups = append(dups, n)
			continue
		}
		seen[n] = true
	}
	if len(dups) > 0 {
		return &core.ValidationError{
			Model:   name,
			Rule:    core.RuleDuplicateColumn,
			Message: fmt.Sprintf("duplicate column names %s", core.QuoteNames(dups)),
			Columns: dups,
		}
	}
	return nil
}

func checkPartitions(name string, s *settings) error {
	if len(s.partitionedBy) == 0 || len(s.columns) == 0 {
		return nil
	}
	known := make(map[string]bool, len(s.columns))
	for _, n := range column.Names(s.columns) {
		known[n] = true
	}
	var unknown []string
	for _, p := range s.partitionedBy {
		if !known[p] {
			unknown = append(unknown, p)
		}
	}
	if len(unknown) > 0 {
		return &core.ValidationError{
			Model:   name,
			Rule:    core.RuleUnknownPartitionColumn,
			Message: fmt.Sprintf("partitioned_by columns %s not found in columns", core.QuoteNames(unknown)),
			Columns: unknown,
		}
	}
	return nil
}

// inferBatchSize derives the batch size from a non-empty cron expression.
func inferBatchSize(name, cron string) (core.BatchSize, error) {
	if cron == "" {
		return "", nil
	}
	size, err := batching.Infer(cron)
	if err != nil {
		return "", fmt.Errorf("model %q: %w", name, err)
	}
	return size, nil
}

func columnName(c column.Column) string {
	if c == nil {
		return "<nil>"
	}
	return c.Attrs().Name
}
