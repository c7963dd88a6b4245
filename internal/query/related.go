package query

import (
	"fmt"
	"strings"

	"github.com/roach88/relq/internal/entity"
	"github.com/roach88/relq/internal/ir"
	"github.com/roach88/relq/internal/joins"
	"github.com/roach88/relq/internal/queryir"
	"github.com/roach88/relq/internal/relation"
)

// Column alias prefixes used by SelectTwo projections.
const (
	LeftPrefix  = "A_"
	RightPrefix = "B_"
)

// SelectTwo is an immutable SELECT projecting the columns of E and R.
// Since R is reached through a left join, its columns may all be NULL.
type SelectTwo[E, R entity.Entity] struct {
	base    Select[E]
	related R
}

// LeftJoinAndSelect left joins the target of rel and adds it to the
// projection. Root columns are aliased with LeftPrefix, related columns
// with RightPrefix.
func LeftJoinAndSelect[E, R entity.Entity](s Select[E], rel relation.Link[E, R]) SelectTwo[E, R] {
	return SelectTwo[E, R]{
		base:    s.join(joins.Compile(queryir.JoinLeft, rel.Relation())),
		related: rel.To(),
	}
}

// Root returns the entity the select is rooted at.
func (s SelectTwo[E, R]) Root() E {
	return s.base.root
}

// Related returns the left-joined entity.
func (s SelectTwo[E, R]) Related() R {
	return s.related
}

// Selected returns the root and related entities.
func (s SelectTwo[E, R]) Selected() []entity.Entity {
	return []entity.Entity{s.base.root, s.related}
}

// Joins returns a copy of the accumulated join clauses in append order.
func (s SelectTwo[E, R]) Joins() []queryir.JoinClause {
	return s.base.Joins()
}

// Filter adds predicates to the WHERE clause. Multiple calls are ANDed.
func (s SelectTwo[E, R]) Filter(preds ...queryir.Predicate) SelectTwo[E, R] {
	s.base = s.base.Filter(preds...)
	return s
}

// OrderBy appends an ORDER BY term.
func (s SelectTwo[E, R]) OrderBy(c entity.Column, dir queryir.Direction) SelectTwo[E, R] {
	s.base = s.base.OrderBy(c, dir)
	return s
}

// Limit sets the maximum number of rows. Zero removes the limit.
func (s SelectTwo[E, R]) Limit(n uint64) SelectTwo[E, R] {
	s.base = s.base.Limit(n)
	return s
}

// Offset sets the number of rows to skip. Zero removes the offset.
func (s SelectTwo[E, R]) Offset(n uint64) SelectTwo[E, R] {
	s.base = s.base.Offset(n)
	return s
}

// Statement returns the statement the select describes.
func (s SelectTwo[E, R]) Statement() queryir.Select {
	columns := append(projectAll(s.base.root, LeftPrefix), projectAll(s.related, RightPrefix)...)
	return s.base.statement(columns)
}

// Fingerprint returns a stable hash of the statement.
func (s SelectTwo[E, R]) Fingerprint() (string, error) {
	return s.Statement().Fingerprint()
}

// Pair is one result row of a SelectTwo, keyed by column name.
// Right is nil when the left join found no related row.
type Pair struct {
	Left  ir.Object
	Right ir.Object
}

// Split separates a row keyed by SelectTwo aliases into its two sides.
// Columns absent from row read as Null.
func (s SelectTwo[E, R]) Split(row ir.Object) Pair {
	left := pick(row, s.base.root, LeftPrefix)
	right := pick(row, s.related, RightPrefix)

	matched := false
	for _, v := range right {
		if !ir.IsNull(v) {
			matched = true
			break
		}
	}
	if !matched {
		right = nil
	}
	return Pair{Left: left, Right: right}
}

func pick(row ir.Object, e entity.Entity, prefix string) ir.Object {
	out := make(ir.Object, len(e.Columns()))
	for _, c := range e.Columns() {
		v, ok := row[prefix+c.Name]
		if !ok || v == nil {
			v = ir.Null{}
		}
		out[c.Name] = v
	}
	return out
}

// BelongsTo restricts s to rows related to model m along rel, a relation
// declared from R to E. It filters on R's primary key column:
//
//	BelongsTo(query.Find(Fruit{}).ReverseJoin(CakeFruits), CakeFruits, CakeModel{ID: 12})
//	  ... WHERE cake.id = 12
//
// BelongsTo adds no join. The statement must already have R's table in
// scope, as FindRelatedTo arranges; otherwise rendering fails.
//
// R must declare exactly one primary key column: ErrNoPrimaryKey and
// ErrCompositeKey from package entity are returned otherwise. A model
// without a key value, or with a NULL one, fails with ErrMissingValue or
// ErrNullKey. s is never returned unfiltered.
func BelongsTo[E, R entity.Entity](s Select[E], rel relation.Link[R, E], m entity.ModelOf[R]) (Select[E], error) {
	pk, v, err := entity.KeyValue(m)
	if err != nil {
		return Select[E]{}, fmt.Errorf("belongs to %s: %w", rel.Relation().SourceTable(), err)
	}
	if pk.Table != rel.Relation().SourceTable() {
		return Select[E]{}, fmt.Errorf("belongs to %s: model of table %q", rel.Relation().SourceTable(), pk.Table)
	}
	return s.Filter(queryir.Eq(pk, v)), nil
}

// FindRelated selects the entities R related to E along rel, rooted at R
// and inner joined back to E.
func FindRelated[E, R entity.Entity](rel relation.Link[E, R]) Select[R] {
	return Find(rel.To()).ReverseJoin(rel)
}

// FindRelatedTo selects the entities R related to the model m along rel.
//
//	FindRelatedTo(CakeFruits, CakeModel{ID: 12})
//	  SELECT fruit.id, fruit.name, fruit.cake_id FROM fruit
//	  INNER JOIN cake ON cake.id = fruit.cake_id WHERE cake.id = 12
func FindRelatedTo[E, R entity.Entity](rel relation.Link[E, R], m entity.ModelOf[E]) (Select[R], error) {
	return BelongsTo(FindRelated(rel), rel, m)
}

// String renders the select's joins for diagnostics.
func (s Select[E]) String() string {
	var b strings.Builder
	b.WriteString("FROM ")
	b.WriteString(s.root.TableName())
	for _, j := range s.joins {
		b.WriteByte(' ')
		b.WriteString(j.String())
	}
	return b.String()
}
