package loader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/bollhav/internal/starlark"
	"github.com/leapstack-labs/bollhav/pkg/column"
	"github.com/leapstack-labs/bollhav/pkg/core"
	"github.com/leapstack-labs/bollhav/pkg/model"
)

// build turns a decoded document into a validated model.
func (l *Loader) build(doc *modelDoc) (*model.Model, error) {
	if strings.TrimSpace(doc.Name) == "" {
		return nil, ErrNameRequired
	}

	opts := []model.Option{
		model.WithTable(doc.Table),
		model.WithSchema(doc.Schema),
		model.WithCron(strings.TrimSpace(doc.Cron)),
		model.WithDebug(doc.Debug),
		model.WithDescription(doc.Description),
		model.WithSourceDSN(doc.SourceDSN),
		model.WithSourceQuery(doc.SourceQuery),
	}
	if doc.ModelType != "" {
		opts = append(opts, model.WithModelType(core.ModelType(normalize(doc.ModelType))))
	}
	if doc.WriteMode != "" {
		opts = append(opts, model.WithWriteMode(core.WriteMode(normalize(doc.WriteMode))))
	}
	if doc.Enabled != nil {
		opts = append(opts, model.WithEnabled(*doc.Enabled))
	}
	if doc.hasTags {
		opts = append(opts, model.WithTags(doc.Tags...))
	}
	if len(doc.PartitionedBy) > 0 {
		opts = append(opts, model.WithPartitionedBy(doc.PartitionedBy...))
	}

	db := core.Database(normalize(doc.Database))
	if db.IsSet() {
		opts = append(opts, model.WithDatabase(db))
	}
	if doc.hasColumns {
		cols, err := buildColumns(doc.Name, db, doc.Columns)
		if err != nil {
			return nil, err
		}
		opts = append(opts, model.WithColumns(cols...))
	}

	this := starlark.ThisInfo{Name: doc.Name, SourceEntity: doc.SourceEntity}
	for _, key := range doc.extraKeys {
		value := doc.Extra[key]
		expr, ok := exprValue(value)
		if !ok {
			opts = append(opts, model.WithExtra(key, value))
			continue
		}
		resolver, err := l.evaluator.Resolver(this, expr)
		if err != nil {
			return nil, fmt.Errorf("model %q: extra %q: %w", doc.Name, key, err)
		}
		opts = append(opts, model.WithResolver(key, resolver))
	}

	return model.New(doc.Name, doc.SourceEntity, opts...)
}

// buildColumns builds columns of the kind selected by db.
func buildColumns(modelName string, db core.Database, docs []columnDoc) ([]column.Column, error) {
	switch db {
	case core.DatabasePostgres, core.DatabaseParquet:
	case "":
		return nil, &core.ValidationError{
			Model:   modelName,
			Rule:    core.RuleDatabaseRequired,
			Message: "columns are set but database is missing",
		}
	default:
		return nil, &core.ValidationError{
			Model:   modelName,
			Rule:    core.RuleUnknownDatabase,
			Message: fmt.Sprintf("unknown database %q", string(db)),
		}
	}

	cols := make([]column.Column, 0, len(docs))
	for _, d := range docs {
		base := column.Base{
			Name:        d.Name,
			NotNull:     d.Nullable != nil && !*d.Nullable,
			Order:       d.Order,
			Sensitive:   d.Sensitive,
			Description: d.Description,
		}

		var (
			col column.Column
			err error
		)
		if db == core.DatabasePostgres {
			dataType, _ := column.ParsePostgresType(d.Type)
			col, err = column.NewPostgres(column.PostgresColumn{
				Base:       base,
				DataType:   dataType,
				PrimaryKey: d.PrimaryKey,
				Unique:     d.Unique,
				Precision:  d.Precision,
				Scale:      d.Scale,
				Length:     d.Length,
			})
		} else {
			if d.PrimaryKey || d.Unique {
				return nil, columnError(modelName, &core.ColumnValidationError{
					Column:  d.Name,
					Rule:    core.ColumnRuleUnsupportedAttribute,
					Message: "primary_key and unique are not supported for PARQUET columns",
				})
			}
			dataType, _ := column.ParseParquetType(d.Type)
			col, err = column.NewParquet(column.ParquetColumn{
				Base:      base,
				DataType:  dataType,
				Length:    d.Length,
				Precision: d.Precision,
				Scale:     d.Scale,
			})
		}
		if err != nil {
			return nil, columnError(modelName, err)
		}
		cols = append(cols, col)
	}
	return cols, nil
}

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// columnError attaches the owning model to a column failure.
func columnError(modelName string, err error) error {
	var colErr *core.ColumnValidationError
	if errors.As(err, &colErr) {
		colErr.Model = modelName
	}
	return fmt.Errorf("model %q: %w", modelName, err)
}
