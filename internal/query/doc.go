// Package query builds relation-aware SELECT statements.
//
// A Select[E] is rooted at entity E and accumulates join clauses and
// predicates. Joins take relation capabilities instead of hand-written
// conditions, and the Go type checker rejects a relation that was not
// declared in the required direction:
//
//	s := query.Find(Cake{}).
//	    LeftJoin(CakeFruits).                       // Link[Cake, Fruit]
//	    Filter(queryir.Contains(FruitName, "cherry"))
//
//	r := query.Find(Fruit{}).ReverseJoin(CakeFruits) // Link[Cake, Fruit] is Incoming[Fruit]
//
// Operations that introduce a second entity type are package functions,
// since Go methods cannot declare their own type parameters:
// LeftJoinAndSelect, BelongsTo, FindRelated and FindRelatedTo.
//
// Builders are values. Methods never modify their receiver or any slice it
// shares with another builder, so builders may be shared freely across
// goroutines.
//
// Statement returns the dialect-free queryir.Select; package querysql
// renders it.
package query
