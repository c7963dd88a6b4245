// Package entity describes tables to the query layer.
//
// An Entity names its table and enumerates its columns and primary key
// columns. Column values are identifiers bound to exactly one table; they are
// comparable and safe to use as map keys. A Model is a concrete row of an
// entity, read by relation-aware filters to obtain key values.
//
// Entities declared in Go are usually zero-size struct types:
//
//	type Cake struct{}
//
//	func (Cake) TableName() string { return "cake" }
//
//	var (
//	    CakeID   = entity.Col[Cake]("id", entity.TypeInt)
//	    CakeName = entity.Col[Cake]("name", entity.TypeText)
//	)
//
//	func (Cake) Columns() []entity.Column    { return []entity.Column{CakeID, CakeName} }
//	func (Cake) PrimaryKey() []entity.Column { return []entity.Column{CakeID} }
//
// Only single-column primary keys can drive relation filters. Composite keys
// are rejected with ErrCompositeKey rather than silently truncated.
package entity
