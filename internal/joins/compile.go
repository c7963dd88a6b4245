// Package joins turns relation descriptors into ordered join clauses.
//
// Compile walks a relation forward, joining each hop's target table.
// CompileReverse walks it backward, joining each hop's source table, for
// builders rooted at the relation's target. Both are pure and return fresh
// slices; every clause of one call uses the same join kind.
package joins

import (
	"github.com/roach88/relq/internal/queryir"
	"github.com/roach88/relq/internal/relation"
)

// Compile emits the clauses that join rel's target onto a statement
// rooted at (or already joined to) rel's source table.
//
//	cake.id -> fruit.cake_id
//	  LEFT JOIN fruit ON cake.id = fruit.cake_id
//
//	cake.id -> cake_filling(cake_id, filling_id) -> filling.id
//	  LEFT JOIN cake_filling ON cake.id = cake_filling.cake_id
//	  LEFT JOIN filling ON cake_filling.filling_id = filling.id
func Compile(kind queryir.JoinKind, rel relation.Relation) []queryir.JoinClause {
	hops := rel.Hops()
	clauses := make([]queryir.JoinClause, 0, len(hops))
	for _, h := range hops {
		clauses = append(clauses, queryir.JoinClause{
			Kind:  kind,
			Table: h.To.Table,
			On:    queryir.ColEq(h.From, h.To),
		})
	}
	return clauses
}

// CompileReverse emits the clauses that join rel's source onto a statement
// rooted at rel's target table. Conditions keep the relation's orientation.
//
//	cake.id -> fruit.cake_id, rooted at fruit
//	  INNER JOIN cake ON cake.id = fruit.cake_id
//
//	cake.id -> cake_filling(cake_id, filling_id) -> filling.id, rooted at filling
//	  INNER JOIN cake_filling ON cake_filling.filling_id = filling.id
//	  INNER JOIN cake ON cake.id = cake_filling.cake_id
func CompileReverse(kind queryir.JoinKind, rel relation.Relation) []queryir.JoinClause {
	hops := rel.Hops()
	clauses := make([]queryir.JoinClause, 0, len(hops))
	for i := len(hops) - 1; i >= 0; i-- {
		h := hops[i]
		clauses = append(clauses, queryir.JoinClause{
			Kind:  kind,
			Table: h.From.Table,
			On:    queryir.ColEq(h.From, h.To),
		})
	}
	return clauses
}
