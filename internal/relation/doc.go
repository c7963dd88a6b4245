// Package relation declares how entities are linked.
//
// A Relation is an immutable descriptor: a source column, a target column and
// an optional intermediate table for many-to-many links. A Link[From, To]
// wraps a Relation with the static types of both entities, which is what
// lets builders reject undeclared joins at compile time:
//
//	var CakeFruits = relation.Must(relation.New(Cake{}, Fruit{}, CakeID, FruitCakeID))
//
//	query.Find(Cake{}).LeftJoin(CakeFruits)    // compiles: Link[Cake, Fruit] is Outgoing[Cake]
//	query.Find(Fruit{}).LeftJoin(CakeFruits)   // does not compile
//	query.Find(Fruit{}).ReverseJoin(CakeFruits) // compiles: Link[Cake, Fruit] is Incoming[Fruit]
//
// Declarations are validated when constructed: every column must belong to
// the entity it is declared for and be one of that entity's columns.
// Go cannot forbid two declarations for the same pair of types, so callers
// that keep a set of links run CheckUnique over it.
package relation
