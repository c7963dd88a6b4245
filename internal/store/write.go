package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/roach88/relq/internal/entity"
	"github.com/roach88/relq/internal/ir"
	"github.com/roach88/relq/internal/querysql"
)

// ErrSchemaMismatch is returned when a table already exists with a
// different definition than the entity being created.
var ErrSchemaMismatch = errors.New("table exists with a different definition")

// CreateTables creates a table for each entity, in order, inside one
// transaction. Creating a table again with the same definition is a no-op.
func (s *Store) CreateTables(ctx context.Context, entities ...entity.Entity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	defer tx.Rollback()

	for _, e := range entities {
		if err := createTable(ctx, tx, e); err != nil {
			return fmt.Errorf("create table %s: %w", e.TableName(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

func createTable(ctx context.Context, tx *sql.Tx, e entity.Entity) error {
	fp, err := ir.Fingerprint(ir.DomainSchema, definition(e))
	if err != nil {
		return err
	}

	var existing string
	err = tx.QueryRowContext(ctx, `SELECT fingerprint FROM relq_tables WHERE name = ?`, e.TableName()).Scan(&existing)
	switch {
	case err == nil:
		if existing != fp {
			return ErrSchemaMismatch
		}
		return nil
	case !errors.Is(err, sql.ErrNoRows):
		return err
	}

	ddl, err := createTableSQL(e)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO relq_tables (name, fingerprint) VALUES (?, ?)`, e.TableName(), fp)
	return err
}

// Insert writes the row m into its entity's table.
// Uses INSERT OR IGNORE - rows with duplicate primary keys are silently skipped.
// Columns m carries no value for are left to their default (NULL).
func Insert[E entity.Entity](ctx context.Context, s *Store, m entity.ModelOf[E]) error {
	e := m.Entity()
	q := querysql.SQLite.Quote

	var (
		cols   []string
		values []any
	)
	for _, c := range e.Columns() {
		v, ok := m.Value(c)
		if !ok {
			continue
		}
		if err := entity.CheckValue(c, v); err != nil {
			return fmt.Errorf("insert %s: %w", e.TableName(), err)
		}
		native, err := ir.Native(v)
		if err != nil {
			return fmt.Errorf("insert %s: %s: %w", e.TableName(), c, err)
		}
		cols = append(cols, q(c.Name))
		values = append(values, native)
	}
	if len(cols) == 0 {
		return fmt.Errorf("insert %s: no column values", e.TableName())
	}

	query, args, err := sq.Insert(q(e.TableName())).
		Options("OR IGNORE").
		Columns(cols...).
		Values(values...).
		PlaceholderFormat(sq.Question).
		ToSql()
	if err != nil {
		return fmt.Errorf("insert %s: %w", e.TableName(), err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", e.TableName(), err)
	}
	return nil
}
