package entity

import (
	"fmt"

	"github.com/roach88/relq/internal/ir"
)

// Model is a concrete row of some entity.
type Model interface {
	// Table returns the table the row belongs to.
	Table() string

	// Value returns the row's value for c. The boolean is false when c is
	// not a column of this row's table or the row carries no value for it.
	Value(c Column) (ir.Value, bool)
}

// ModelOf is a Model whose entity type is known statically.
type ModelOf[E Entity] interface {
	Model
	Entity() E
}

// KeyValue reads the single primary key value of m. A NULL key is an error.
func KeyValue[E Entity](m ModelOf[E]) (Column, ir.Value, error) {
	pk, err := SinglePrimaryKey(m.Entity())
	if err != nil {
		return Column{}, nil, err
	}
	v, ok := m.Value(pk)
	if !ok {
		return Column{}, nil, fmt.Errorf("%s: %w", pk, ErrMissingValue)
	}
	if ir.IsNull(v) {
		return Column{}, nil, fmt.Errorf("%s: %w", pk, ErrNullKey)
	}
	if err := CheckValue(pk, v); err != nil {
		return Column{}, nil, err
	}
	return pk, v, nil
}

// Record is a map-backed model for entities without a hand-written row type.
// Records are values: With returns a modified copy.
type Record[E Entity] struct {
	entity E
	values ir.Object
}

// NewRecord builds a record of e. Every key of values must name a declared
// column and every value must fit its column type.
func NewRecord[E Entity](e E, values ir.Object) (Record[E], error) {
	copied := make(ir.Object, len(values))
	for _, name := range values.SortedKeys() {
		c, ok := Lookup(e, name)
		if !ok {
			return Record[E]{}, fmt.Errorf("%s.%s: %w", e.TableName(), name, ErrUnknownColumn)
		}
		if err := CheckValue(c, values[name]); err != nil {
			return Record[E]{}, err
		}
		copied[name] = values[name]
	}
	return Record[E]{entity: e, values: copied}, nil
}

// MustRecord is like NewRecord but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustRecord[E Entity](e E, values ir.Object) Record[E] {
	r, err := NewRecord(e, values)
	if err != nil {
		panic(err)
	}
	return r
}

// Entity returns the record's entity.
func (r Record[E]) Entity() E {
	return r.entity
}

// Table returns the record's table name.
func (r Record[E]) Table() string {
	return r.entity.TableName()
}

// Value returns the record's value for c.
func (r Record[E]) Value(c Column) (ir.Value, bool) {
	if c.Table != r.entity.TableName() {
		return nil, false
	}
	v, ok := r.values[c.Name]
	return v, ok
}

// Values returns a copy of the record's column values.
func (r Record[E]) Values() ir.Object {
	out := make(ir.Object, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// With returns a copy of r with column name set to v.
func (r Record[E]) With(name string, v ir.Value) (Record[E], error) {
	values := r.Values()
	values[name] = v
	return NewRecord(r.entity, values)
}
