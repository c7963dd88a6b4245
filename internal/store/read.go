package store

import (
	"context"
	"fmt"

	"github.com/roach88/relq/internal/ir"
	"github.com/roach88/relq/internal/queryir"
	"github.com/roach88/relq/internal/querysql"
)

// Select compiles stmt for SQLite, runs it and returns every row keyed by
// result column name. Projections without an alias are keyed by bare
// column name, so statements that project two tables should alias them.
//
// Returns an empty slice (not nil) if no rows match.
func (s *Store) Select(ctx context.Context, stmt queryir.Select) ([]ir.Object, error) {
	query, args, err := querysql.NewSQLCompiler(querysql.SQLite).Compile(stmt)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", stmt.From, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", stmt.From, err)
	}

	out := []ir.Object{}
	for rows.Next() {
		values := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", stmt.From, err)
		}
		row, err := unmarshalRow(names, values)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", stmt.From, err)
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", stmt.From, err)
	}

	return out, nil
}

// Tables returns the names of tables created through CreateTables, sorted.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM relq_tables ORDER BY name COLLATE BINARY ASC`)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}
	return names, nil
}
