package schema

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/roach88/relq/internal/entity"
	"github.com/roach88/relq/internal/ir"
	"github.com/roach88/relq/internal/relation"
)

var (
	// ErrNoRelation is returned when no relation is declared for an ordered
	// pair of tables.
	ErrNoRelation = errors.New("no relation declared")

	// ErrUnknownTable is returned when a name does not match a declared table.
	ErrUnknownTable = errors.New("unknown table")
)

// Link is a relation between runtime-declared tables.
type Link = relation.Link[*Table, *Table]

// Declaration is a named relation of a catalog.
type Declaration struct {
	Name string
	Link Link
}

// Catalog holds the tables and relations of a loaded schema.
//
// Relations are keyed by their ordered pair of table names. A relation from
// cake to fruit does not imply one from fruit to cake; the reverse must be
// declared separately.
type Catalog struct {
	tables map[string]*Table
	decls  []Declaration
	byPair map[[2]string]int
}

// NewCatalog resolves relation declarations against tables.
// It fails on the first unresolvable reference or duplicate pair.
func NewCatalog(tables []*Table, rels []RelationDecl) (*Catalog, error) {
	c, err := newCatalog(tables)
	if err != nil {
		return nil, err
	}
	for _, decl := range rels {
		if err := c.add(decl); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func newCatalog(tables []*Table) (*Catalog, error) {
	c := &Catalog{
		tables: make(map[string]*Table, len(tables)),
		byPair: make(map[[2]string]int),
	}
	for _, t := range tables {
		if _, dup := c.tables[t.TableName()]; dup {
			return nil, fmt.Errorf("table %s declared twice", t.TableName())
		}
		c.tables[t.TableName()] = t
	}
	return c, nil
}

// add resolves decl and registers it. The catalog is unchanged on error.
func (c *Catalog) add(decl RelationDecl) error {
	link, err := c.resolve(decl)
	if err != nil {
		return fmt.Errorf("relation %s: %w", decl.Name, err)
	}
	pair := [2]string{link.From().TableName(), link.To().TableName()}
	if i, dup := c.byPair[pair]; dup {
		return fmt.Errorf("relation %s: %w", decl.Name, relation.CheckUnique(c.decls[i].Link, link))
	}
	c.byPair[pair] = len(c.decls)
	c.decls = append(c.decls, Declaration{Name: decl.Name, Link: link})
	return nil
}

func (c *Catalog) resolve(decl RelationDecl) (Link, error) {
	from, fromCol, err := c.column(decl.From)
	if err != nil {
		return Link{}, err
	}
	to, toCol, err := c.column(decl.To)
	if err != nil {
		return Link{}, err
	}
	if decl.Via == nil {
		return relation.New(from, to, fromCol, toCol)
	}

	via, err := c.Table(decl.Via.Table)
	if err != nil {
		return Link{}, err
	}
	viaFromTable, viaFrom, err := c.column(decl.Via.From)
	if err != nil {
		return Link{}, err
	}
	viaToTable, viaTo, err := c.column(decl.Via.To)
	if err != nil {
		return Link{}, err
	}
	if viaFromTable != via || viaToTable != via {
		return Link{}, fmt.Errorf("via columns %s and %s must belong to %s: %w",
			decl.Via.From, decl.Via.To, via.TableName(), relation.ErrTableMismatch)
	}
	return relation.Many(from, to, via, fromCol, viaFrom, viaTo, toCol)
}

// column resolves a "table.column" reference.
func (c *Catalog) column(ref string) (*Table, entity.Column, error) {
	tableName, colName, ok := splitRef(ref)
	if !ok {
		return nil, entity.Column{}, fmt.Errorf("malformed column reference %q", ref)
	}
	t, err := c.Table(tableName)
	if err != nil {
		return nil, entity.Column{}, err
	}
	col, ok := t.Column(colName)
	if !ok {
		return nil, entity.Column{}, fmt.Errorf("%s: %w", ref, entity.ErrUnknownColumn)
	}
	return t, col, nil
}

// Table returns the table with the given name.
func (c *Catalog) Table(name string) (*Table, error) {
	t, ok := c.tables[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownTable)
	}
	return t, nil
}

// Column resolves a "table.column" reference.
func (c *Catalog) Column(ref string) (entity.Column, error) {
	_, col, err := c.column(ref)
	return col, err
}

// Tables returns every table sorted by name.
func (c *Catalog) Tables() []*Table {
	out := make([]*Table, 0, len(c.tables))
	for _, t := range c.tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TableName() < out[j].TableName() })
	return out
}

// Declarations returns every relation in declaration order.
func (c *Catalog) Declarations() []Declaration {
	return slices.Clone(c.decls)
}

// Link returns the relation declared from table from to table to.
// It returns ErrNoRelation when the pair is not declared, including when only
// the opposite direction is.
func (c *Catalog) Link(from, to string) (Link, error) {
	if _, err := c.Table(from); err != nil {
		return Link{}, err
	}
	if _, err := c.Table(to); err != nil {
		return Link{}, err
	}
	i, ok := c.byPair[[2]string{from, to}]
	if !ok {
		return Link{}, fmt.Errorf("%s -> %s: %w", from, to, ErrNoRelation)
	}
	return c.decls[i].Link, nil
}

// Fingerprint returns a content hash of the catalog that is independent of
// declaration order within files.
func (c *Catalog) Fingerprint() (string, error) {
	tables := make(map[string]any, len(c.tables))
	for name, t := range c.tables {
		tables[name] = t.definition()
	}
	rels := make(map[string]any, len(c.decls))
	for _, d := range c.decls {
		rels[d.Name] = d.Link.String()
	}
	return ir.Fingerprint(ir.DomainSchema, map[string]any{
		"tables":    tables,
		"relations": rels,
	})
}
