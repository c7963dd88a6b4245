// Package schema loads entities and relations declared in CUE files.
//
// A schema directory holds one CUE package with two top-level structs:
//
//	entity: cake: {
//		columns: {id: "int", name: "text"}
//		primary_key: ["id"]
//	}
//	relation: cake_fruit: {from: "cake.id", to: "fruit.cake_id"}
//
// Loading checks the files against built-in CUE definitions, compiles every
// entity into a *Table and resolves every relation into a typed link
// between tables. A Catalog is only returned when every declaration is
// valid, so lookups on it fail only for undeclared names.
package schema
