// Package plan describes queries as YAML and builds them against a schema
// catalog.
//
// A plan names a root table and a list of steps, each one builder
// operation:
//
//	name: fruits_of_cake
//	root: fruit
//	steps:
//	  - reverse_join: cake
//	  - belongs_to: {entity: cake, key: 12}
//
// Build resolves every step through the catalog and the query package, so a
// plan can only use relations the schema declares. Render compiles the
// result for a SQL dialect; RenderWithGolden compares it to a golden file.
package plan
