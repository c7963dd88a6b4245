package schema

import (
	"fmt"
	"slices"

	"github.com/roach88/relq/internal/entity"
	"github.com/roach88/relq/internal/ir"
)

// Table is an entity declared at runtime in a CUE schema.
//
// Tables are immutable after load; every accessor returns copies.
type Table struct {
	name    string
	columns []entity.Column
	pk      []entity.Column
}

// NewTable builds a table from ordered column declarations and the names of
// its primary key columns.
func NewTable(name string, columns []entity.Column, primaryKey []string) (*Table, error) {
	t := &Table{name: name}
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if seen[c.Name] {
			return nil, fmt.Errorf("%s.%s declared twice", name, c.Name)
		}
		seen[c.Name] = true
		c.Table = name
		t.columns = append(t.columns, c)
	}
	for _, key := range primaryKey {
		c, ok := t.Column(key)
		if !ok {
			return nil, fmt.Errorf("primary key %s.%s: %w", name, key, entity.ErrUnknownColumn)
		}
		t.pk = append(t.pk, c)
	}
	return t, nil
}

// TableName returns the declared table name.
func (t *Table) TableName() string { return t.name }

// Columns returns a copy of the table's columns in declaration order.
func (t *Table) Columns() []entity.Column { return slices.Clone(t.columns) }

// PrimaryKey returns a copy of the primary key columns, empty for keyless tables.
func (t *Table) PrimaryKey() []entity.Column { return slices.Clone(t.pk) }

// Column looks up a column by name.
func (t *Table) Column(name string) (entity.Column, bool) {
	for _, c := range t.columns {
		if c.Name == name {
			return c, true
		}
	}
	return entity.Column{}, false
}

// Record builds a model row of t.
func (t *Table) Record(values ir.Object) (entity.Record[*Table], error) {
	return entity.NewRecord(t, values)
}

// KeyRecord builds a model row of t carrying only its primary key value.
// The value is converted to the key column's type: uuid keys are parsed and
// normalised, int keys accept integer strings.
func (t *Table) KeyRecord(key any) (entity.Record[*Table], error) {
	pk, err := entity.SinglePrimaryKey(t)
	if err != nil {
		return entity.Record[*Table]{}, err
	}
	v, err := entity.ParseValue(pk, key)
	if err != nil {
		return entity.Record[*Table]{}, err
	}
	return t.Record(ir.NewObject(ir.O(pk.Name, v)))
}

func (t *Table) definition() map[string]any {
	cols := make([]any, len(t.columns))
	for i, c := range t.columns {
		cols[i] = map[string]any{"name": c.Name, "type": string(c.Type)}
	}
	pk := make([]any, len(t.pk))
	for i, c := range t.pk {
		pk[i] = c.Name
	}
	return map[string]any{"name": t.name, "columns": cols, "primary_key": pk}
}
