package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/bollhav/pkg/model"
)

const modelColumns = `id, name, source_entity, table_name, schema_name, database_kind,
	model_type, write_mode, cron, batch_size, enabled, debug, description,
	source_query, partitioned_by, sensitive, extra, definition, published_at`

// Publish upserts models by name in a single transaction. Columns and tags
// of an existing entry are replaced. The source DSN is never stored.
func (c *Catalog) Publish(ctx context.Context, models ...*model.Model) error {
	if len(models) == 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	publishedAt := c.now()
	for _, m := range models {
		if err := c.publishOne(ctx, tx, m, publishedAt); err != nil {
			return rollback(tx, fmt.Errorf("failed to publish %q: %w", m.Name(), err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	c.logger.Info("published models", "count", len(models))
	return nil
}

func (c *Catalog) publishOne(ctx context.Context, tx *sql.Tx, m *model.Model, publishedAt time.Time) error {
	partitions, extra, err := encodeJSON(m)
	if err != nil {
		return err
	}

	var id string
	err = tx.QueryRowContext(ctx, c.rebind(`SELECT id FROM models WHERE name = ?`), m.Name()).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = uuid.New().String()
		_, err = tx.ExecContext(ctx, c.rebind(`INSERT INTO models (`+modelColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			id, m.Name(), m.SourceEntity(), m.Table(), m.Schema(), string(m.Database()),
			string(m.ModelType()), string(m.WriteMode()), m.Cron(), string(m.BatchSize()),
			m.Enabled(), m.Debug(), m.Description(), m.SourceQuery(),
			partitions, m.Sensitive(), extra, definition(m), publishedAt,
		)
		if err != nil {
			return fmt.Errorf("insert model: %w", err)
		}
	case err != nil:
		return fmt.Errorf("lookup model: %w", err)
	default:
		_, err = tx.ExecContext(ctx, c.rebind(`UPDATE models SET
			source_entity = ?, table_name = ?, schema_name = ?, database_kind = ?,
			model_type = ?, write_mode = ?, cron = ?, batch_size = ?, enabled = ?,
			debug = ?, description = ?, source_query = ?, partitioned_by = ?,
			sensitive = ?, extra = ?, definition = ?, published_at = ?
			WHERE id = ?`),
			m.SourceEntity(), m.Table(), m.Schema(), string(m.Database()),
			string(m.ModelType()), string(m.WriteMode()), m.Cron(), string(m.BatchSize()),
			m.Enabled(), m.Debug(), m.Description(), m.SourceQuery(), partitions,
			m.Sensitive(), extra, definition(m), publishedAt, id,
		)
		if err != nil {
			return fmt.Errorf("update model: %w", err)
		}
		if _, err := tx.ExecContext(ctx, c.rebind(`DELETE FROM model_columns WHERE model_id = ?`), id); err != nil {
			return fmt.Errorf("clear columns: %w", err)
		}
		if _, err := tx.ExecContext(ctx, c.rebind(`DELETE FROM model_tags WHERE model_id = ?`), id); err != nil {
			return fmt.Errorf("clear tags: %w", err)
		}
	}

	for i, col := range m.Columns() {
		e := columnEntry(i, col)
		_, err := tx.ExecContext(ctx, c.rebind(`INSERT INTO model_columns
			(model_id, position, name, kind, data_type, nullable, sensitive, description,
			is_primary_key, is_unique, type_length, type_precision, type_scale)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			id, e.Position, e.Name, e.Kind, e.DataType, e.Nullable, e.Sensitive, e.Description,
			e.PrimaryKey, e.Unique, e.Length, e.Precision, e.Scale,
		)
		if err != nil {
			return fmt.Errorf("insert column %q: %w", e.Name, err)
		}
	}

	for i, tag := range m.Tags() {
		_, err := tx.ExecContext(ctx, c.rebind(`INSERT INTO model_tags (model_id, position, tag) VALUES (?, ?, ?)`),
			id, i, tag)
		if err != nil {
			return fmt.Errorf("insert tag %q: %w", tag, err)
		}
	}
	return nil
}

// Get returns the published entry for name.
func (c *Catalog) Get(ctx context.Context, name string) (*Entry, error) {
	row := c.db.QueryRowContext(ctx, c.rebind(`SELECT `+modelColumns+` FROM models WHERE name = ?`), name)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get model: %w", err)
	}

	if e.Columns, err = c.columns(ctx, e.ID); err != nil {
		return nil, err
	}
	if e.Tags, err = c.tags(ctx, e.ID); err != nil {
		return nil, err
	}
	return e, nil
}

// List returns every published entry ordered by name.
func (c *Catalog) List(ctx context.Context) ([]*Entry, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT `+modelColumns+` FROM models ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan model: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	_ = rows.Close()

	for _, e := range entries {
		if e.Columns, err = c.columns(ctx, e.ID); err != nil {
			return nil, err
		}
		if e.Tags, err = c.tags(ctx, e.ID); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// Delete removes the entry for name together with its columns and tags.
func (c *Catalog) Delete(ctx context.Context, name string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	var id string
	err = tx.QueryRowContext(ctx, c.rebind(`SELECT id FROM models WHERE name = ?`), name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return rollback(tx, &NotFoundError{Name: name})
	}
	if err != nil {
		return rollback(tx, fmt.Errorf("failed to look up model: %w", err))
	}

	for _, q := range []string{
		`DELETE FROM model_columns WHERE model_id = ?`,
		`DELETE FROM model_tags WHERE model_id = ?`,
		`DELETE FROM models WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, c.rebind(q), id); err != nil {
			return rollback(tx, fmt.Errorf("failed to delete model: %w", err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	c.logger.Info("deleted model", "name", name)
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var (
		e                 Entry
		partitions, extra string
	)
	err := row.Scan(
		&e.ID, &e.Name, &e.SourceEntity, &e.Table, &e.Schema, &e.Database,
		&e.ModelType, &e.WriteMode, &e.Cron, &e.BatchSize, &e.Enabled, &e.Debug,
		&e.Description, &e.SourceQuery, &partitions, &e.Sensitive, &extra,
		&e.Definition, &e.PublishedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(partitions), &e.PartitionedBy); err != nil {
		return nil, fmt.Errorf("decoding partitioned_by: %w", err)
	}
	if err := json.Unmarshal([]byte(extra), &e.Extra); err != nil {
		return nil, fmt.Errorf("decoding extra: %w", err)
	}
	return &e, nil
}

func (c *Catalog) columns(ctx context.Context, modelID string) ([]ColumnEntry, error) {
	rows, err := c.db.QueryContext(ctx, c.rebind(`SELECT position, name, kind, data_type, nullable, sensitive, description,
		is_primary_key, is_unique, type_length, type_precision, type_scale
		FROM model_columns WHERE model_id = ? ORDER BY position`), modelID)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cols []ColumnEntry
	for rows.Next() {
		var col ColumnEntry
		if err := rows.Scan(&col.Position, &col.Name, &col.Kind, &col.DataType,
			&col.Nullable, &col.Sensitive, &col.Description,
			&col.PrimaryKey, &col.Unique, &col.Length, &col.Precision, &col.Scale); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

func (c *Catalog) tags(ctx context.Context, modelID string) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, c.rebind(`SELECT tag FROM model_tags WHERE model_id = ? ORDER BY position`), modelID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}
