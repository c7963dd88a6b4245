package relation

import (
	"errors"
	"fmt"

	"github.com/roach88/relq/internal/entity"
)

var (
	// ErrTableMismatch is returned when a declared column does not belong to
	// the entity it is declared for.
	ErrTableMismatch = errors.New("column belongs to another table")

	// ErrDuplicateRelation is returned when two relations are declared for
	// the same ordered pair of tables.
	ErrDuplicateRelation = errors.New("duplicate relation")
)

// Through describes the intermediate table of a many-to-many relation.
// From is matched against the relation's From column and To against the
// relation's To column.
type Through struct {
	Table string
	From  entity.Column
	To    entity.Column
}

// Relation describes how two tables are linked by column equality.
//
// Without Via, the relation is a direct foreign key: From = To.
// With Via, it is two hops: From = Via.From, then Via.To = To.
type Relation struct {
	From entity.Column
	To   entity.Column
	Via  *Through
}

// Hop is one column equality along a relation.
type Hop struct {
	From entity.Column
	To   entity.Column
}

// Hops expands r into its ordered column equalities, source side first.
func (r Relation) Hops() []Hop {
	if r.Via == nil {
		return []Hop{{From: r.From, To: r.To}}
	}
	return []Hop{
		{From: r.From, To: r.Via.From},
		{From: r.Via.To, To: r.To},
	}
}

// SourceTable returns the table the relation starts from.
func (r Relation) SourceTable() string {
	return r.From.Table
}

// TargetTable returns the table the relation leads to.
func (r Relation) TargetTable() string {
	return r.To.Table
}

// IsThrough reports whether r passes through an intermediate table.
func (r Relation) IsThrough() bool {
	return r.Via != nil
}

// Reverse returns the relation walked from target to source.
func (r Relation) Reverse() Relation {
	rev := Relation{From: r.To, To: r.From}
	if r.Via != nil {
		rev.Via = &Through{Table: r.Via.Table, From: r.Via.To, To: r.Via.From}
	}
	return rev
}

// String renders r for diagnostics:
//
//	cake.id -> fruit.cake_id
//	cake.id -> cake_filling(cake_id, filling_id) -> filling.id
func (r Relation) String() string {
	if r.Via == nil {
		return fmt.Sprintf("%s -> %s", r.From, r.To)
	}
	return fmt.Sprintf("%s -> %s(%s, %s) -> %s", r.From, r.Via.Table, r.Via.From.Name, r.Via.To.Name, r.To)
}

func (r Relation) clone() Relation {
	if r.Via != nil {
		via := *r.Via
		r.Via = &via
	}
	return r
}

// check verifies that every column of r belongs to the table it is used for.
func (r Relation) check(from, to, via entity.Entity) error {
	if err := checkColumn("from", from, r.From); err != nil {
		return err
	}
	if err := checkColumn("to", to, r.To); err != nil {
		return err
	}
	if r.Via == nil {
		return nil
	}
	if r.Via.Table != via.TableName() {
		return fmt.Errorf("via table %q declared for %s: %w", r.Via.Table, via.TableName(), ErrTableMismatch)
	}
	if err := checkColumn("via.from", via, r.Via.From); err != nil {
		return err
	}
	return checkColumn("via.to", via, r.Via.To)
}

func checkColumn(role string, e entity.Entity, c entity.Column) error {
	if c.Table != e.TableName() {
		return fmt.Errorf("%s column %s declared for %s: %w", role, c, e.TableName(), ErrTableMismatch)
	}
	if !entity.Has(e, c) {
		return fmt.Errorf("%s column %s: %w", role, c, entity.ErrUnknownColumn)
	}
	return nil
}
