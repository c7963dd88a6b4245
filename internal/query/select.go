package query

import (
	"slices"

	"github.com/roach88/relq/internal/entity"
	"github.com/roach88/relq/internal/joins"
	"github.com/roach88/relq/internal/queryir"
	"github.com/roach88/relq/internal/relation"
)

// Select is an immutable SELECT over the entity E.
//
// Every method returns a new Select and leaves its receiver untouched, so a
// partially built query can be shared and extended in several directions:
//
//	base := query.Find(Cake{}).LeftJoin(CakeFruits)
//	cherries := base.Filter(queryir.Contains(FruitName, "cherry"))
//	first := base.Limit(1)
//
// The zero value is not useful; use Find.
type Select[E entity.Entity] struct {
	root   E
	joins  []queryir.JoinClause
	where  []queryir.Predicate
	orders []queryir.Order
	limit  uint64
	offset uint64
}

// Find starts a Select rooted at root, projecting all of its columns.
func Find[E entity.Entity](root E) Select[E] {
	return Select[E]{root: root}
}

// Root returns the entity the select is rooted at.
func (s Select[E]) Root() E {
	return s.root
}

// Selected returns the entities whose columns the select projects.
func (s Select[E]) Selected() []entity.Entity {
	return []entity.Entity{s.root}
}

// Joins returns a copy of the accumulated join clauses in append order.
func (s Select[E]) Joins() []queryir.JoinClause {
	return slices.Clone(s.joins)
}

// Filter adds predicates to the WHERE clause. Multiple calls are ANDed.
func (s Select[E]) Filter(preds ...queryir.Predicate) Select[E] {
	for _, p := range preds {
		if p != nil {
			s.where = append(slices.Clip(s.where), p)
		}
	}
	return s
}

// OrderBy appends an ORDER BY term.
func (s Select[E]) OrderBy(c entity.Column, dir queryir.Direction) Select[E] {
	s.orders = append(slices.Clip(s.orders), queryir.Order{Column: c, Direction: dir})
	return s
}

// Limit sets the maximum number of rows. Zero removes the limit.
func (s Select[E]) Limit(n uint64) Select[E] {
	s.limit = n
	return s
}

// Offset sets the number of rows to skip. Zero removes the offset.
func (s Select[E]) Offset(n uint64) Select[E] {
	s.offset = n
	return s
}

// LeftJoin joins the target of rel, keeping every row of the statement.
func (s Select[E]) LeftJoin(rel relation.Outgoing[E]) Select[E] {
	return s.join(joins.Compile(queryir.JoinLeft, rel.Relation()))
}

// RightJoin joins the target of rel, keeping every row of the target.
func (s Select[E]) RightJoin(rel relation.Outgoing[E]) Select[E] {
	return s.join(joins.Compile(queryir.JoinRight, rel.Relation()))
}

// InnerJoin joins the target of rel, keeping only matching rows.
func (s Select[E]) InnerJoin(rel relation.Outgoing[E]) Select[E] {
	return s.join(joins.Compile(queryir.JoinInner, rel.Relation()))
}

// ReverseJoin inner joins the source of rel, a relation declared towards E.
//
//	query.Find(Fruit{}).ReverseJoin(CakeFruits)
//	  SELECT ... FROM fruit INNER JOIN cake ON cake.id = fruit.cake_id
func (s Select[E]) ReverseJoin(rel relation.Incoming[E]) Select[E] {
	return s.join(joins.CompileReverse(queryir.JoinInner, rel.Relation()))
}

func (s Select[E]) join(clauses []queryir.JoinClause) Select[E] {
	s.joins = append(slices.Clip(s.joins), clauses...)
	return s
}

// Statement returns the statement the select describes.
func (s Select[E]) Statement() queryir.Select {
	return s.statement(projectAll(s.root, ""))
}

// Fingerprint returns a stable hash of the statement. Two selects built
// differently but describing the same statement share a fingerprint.
func (s Select[E]) Fingerprint() (string, error) {
	return s.Statement().Fingerprint()
}

func (s Select[E]) statement(columns []queryir.Projection) queryir.Select {
	return queryir.Select{
		From:    s.root.TableName(),
		Columns: columns,
		Joins:   slices.Clone(s.joins),
		Filter:  conjunction(s.where),
		OrderBy: slices.Clone(s.orders),
		Limit:   s.limit,
		Offset:  s.offset,
	}
}

func projectAll(e entity.Entity, prefix string) []queryir.Projection {
	cols := e.Columns()
	out := make([]queryir.Projection, len(cols))
	for i, c := range cols {
		out[i] = queryir.Projection{Column: c}
		if prefix != "" {
			out[i].Alias = prefix + c.Name
		}
	}
	return out
}

func conjunction(preds []queryir.Predicate) queryir.Predicate {
	switch len(preds) {
	case 0:
		return nil
	case 1:
		return preds[0]
	default:
		return queryir.AllOf(preds...)
	}
}
