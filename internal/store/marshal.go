package store

import (
	"fmt"
	"strings"

	"github.com/roach88/relq/internal/entity"
	"github.com/roach88/relq/internal/ir"
	"github.com/roach88/relq/internal/querysql"
)

// sqliteType maps a column type to its SQLite storage class.
func sqliteType(t entity.ColumnType) (string, error) {
	switch t {
	case entity.TypeInt, entity.TypeBool:
		return "INTEGER", nil
	case entity.TypeText, entity.TypeUUID:
		return "TEXT", nil
	default:
		return "", fmt.Errorf("unsupported column type %q", t)
	}
}

// createTableSQL renders the CREATE TABLE statement for e.
func createTableSQL(e entity.Entity) (string, error) {
	q := querysql.SQLite.Quote

	var defs []string
	for _, c := range e.Columns() {
		typ, err := sqliteType(c.Type)
		if err != nil {
			return "", fmt.Errorf("%s: %w", c, err)
		}
		defs = append(defs, q(c.Name)+" "+typ)
	}
	if len(defs) == 0 {
		return "", fmt.Errorf("%s: no columns", e.TableName())
	}

	if pk := e.PrimaryKey(); len(pk) > 0 {
		names := make([]string, len(pk))
		for i, c := range pk {
			names[i] = q(c.Name)
		}
		defs = append(defs, "PRIMARY KEY ("+strings.Join(names, ", ")+")")
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", q(e.TableName()), strings.Join(defs, ", ")), nil
}

// definition is the canonical form of an entity's table definition.
func definition(e entity.Entity) map[string]any {
	cols := make([]any, len(e.Columns()))
	for i, c := range e.Columns() {
		cols[i] = []any{c.Name, string(c.Type)}
	}
	pk := make([]any, len(e.PrimaryKey()))
	for i, c := range e.PrimaryKey() {
		pk[i] = c.Name
	}
	return map[string]any{
		"table":       e.TableName(),
		"columns":     cols,
		"primary_key": pk,
	}
}

// unmarshalRow converts scanned driver values to an ir.Object keyed by
// result column name.
func unmarshalRow(names []string, values []any) (ir.Object, error) {
	row := make(ir.Object, len(names))
	for i, name := range names {
		v, err := ir.FromAny(values[i])
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", name, err)
		}
		row[name] = v
	}
	return row, nil
}
