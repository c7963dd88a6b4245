// Package queryir provides the dialect-free statement representation that
// relation-aware builders produce and SQL backends render.
//
// ARCHITECTURE:
//
//	[query builders] → [queryir.Select] → [querysql (MySQL, PostgreSQL, SQLite)]
//
// A Select is plain data: root table, projections, ordered join clauses, a
// predicate tree, ORDER BY terms and LIMIT/OFFSET. Builders append to it and
// backends walk it; neither side needs to know about the other.
//
// SEALED INTERFACES:
//
// Predicate is a sealed interface using the marker method pattern. Only types
// in this package implement it, so backends can switch over every case:
//
//	switch p := pred.(type) {
//	case queryir.Equals:
//	    // column = literal
//	case queryir.ColumnEquals:
//	    // column = column
//	...
//	}
//
// Literal values are ir.Value types (no floats), so a statement always has a
// canonical encoding; see Canonical.
//
// JOIN ORDER:
//
// Join clauses are kept in append order. A clause's ON condition may
// reference any table joined before it; Validate enforces this.
package queryir
