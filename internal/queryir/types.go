package queryir

import (
	"fmt"
	"strings"

	"github.com/roach88/relq/internal/entity"
	"github.com/roach88/relq/internal/ir"
)

// Predicate represents a filter or join condition.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in backend compilers.
//
// Predicate types:
//   - Equals: column = literal
//   - ColumnEquals: column = column (join conditions)
//   - Like: column LIKE pattern
//   - IsNull: column IS NULL
//   - And, Or: conjunction and disjunction
//   - Not: negation
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Equals compares a column to a literal value.
//
//	Equals{Column: cake.id, Value: ir.Int(12)}   ->   cake.id = 12
//
// A Null value compiles to IS NULL, since "= NULL" never matches.
type Equals struct {
	Column entity.Column
	Value  ir.Value
}

func (Equals) predicateNode() {}

// ColumnEquals compares two columns. Join clauses use it for their ON
// condition, with Left on the relation's source side.
type ColumnEquals struct {
	Left  entity.Column
	Right entity.Column
}

func (ColumnEquals) predicateNode() {}

// Like matches a text column against a LIKE pattern.
// Patterns built by Contains, StartsWith and EndsWith escape % and _.
type Like struct {
	Column  entity.Column
	Pattern string
}

func (Like) predicateNode() {}

// IsNull matches rows where Column is NULL.
type IsNull struct {
	Column entity.Column
}

func (IsNull) predicateNode() {}

// And is true when all Predicates are true. Empty means always true.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Or is true when any of Predicates is true. Empty means always false.
type Or struct {
	Predicates []Predicate
}

func (Or) predicateNode() {}

// Not negates a predicate.
type Not struct {
	Predicate Predicate
}

func (Not) predicateNode() {}

// Eq builds an Equals predicate.
func Eq(c entity.Column, v ir.Value) Equals {
	return Equals{Column: c, Value: v}
}

// ColEq builds a ColumnEquals predicate.
func ColEq(left, right entity.Column) ColumnEquals {
	return ColumnEquals{Left: left, Right: right}
}

// Contains matches columns containing s.
func Contains(c entity.Column, s string) Like {
	return Like{Column: c, Pattern: "%" + escapeLike(s) + "%"}
}

// StartsWith matches columns beginning with s.
func StartsWith(c entity.Column, s string) Like {
	return Like{Column: c, Pattern: escapeLike(s) + "%"}
}

// EndsWith matches columns ending with s.
func EndsWith(c entity.Column, s string) Like {
	return Like{Column: c, Pattern: "%" + escapeLike(s)}
}

// Null builds an IsNull predicate.
func Null(c entity.Column) IsNull {
	return IsNull{Column: c}
}

// AllOf builds an And predicate, dropping nil entries.
func AllOf(preds ...Predicate) And {
	return And{Predicates: compact(preds)}
}

// AnyOf builds an Or predicate, dropping nil entries.
func AnyOf(preds ...Predicate) Or {
	return Or{Predicates: compact(preds)}
}

// Negate builds a Not predicate.
func Negate(p Predicate) Not {
	return Not{Predicate: p}
}

func compact(preds []Predicate) []Predicate {
	out := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// JoinKind determines which unmatched rows a join preserves.
type JoinKind string

const (
	JoinInner JoinKind = "INNER"
	JoinLeft  JoinKind = "LEFT"
	JoinRight JoinKind = "RIGHT"
)

// ParseJoinKind converts "inner", "left" or "right" (any case) to a JoinKind.
func ParseJoinKind(s string) (JoinKind, error) {
	switch JoinKind(strings.ToUpper(s)) {
	case JoinInner:
		return JoinInner, nil
	case JoinLeft:
		return JoinLeft, nil
	case JoinRight:
		return JoinRight, nil
	default:
		return "", fmt.Errorf("invalid join kind %q: must be one of inner, left, right", s)
	}
}

// JoinClause joins Table using On.
//
// Clause order within a Select is significant: a clause may reference any
// table joined before it, so builders only ever append.
type JoinClause struct {
	Kind  JoinKind
	Table string
	On    ColumnEquals
}

// String renders the clause in an unquoted, dialect-free form for
// diagnostics: "LEFT JOIN fruit ON cake.id = fruit.cake_id".
func (j JoinClause) String() string {
	return fmt.Sprintf("%s JOIN %s ON %s = %s", j.Kind, j.Table, j.On.Left, j.On.Right)
}

// Projection is one selected column with an optional result alias.
type Projection struct {
	Column entity.Column
	Alias  string
}

// Direction is an ORDER BY direction.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// ParseDirection converts "asc" or "desc" (any case) to a Direction.
// The empty string means Asc.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToUpper(s)) {
	case "", Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	default:
		return "", fmt.Errorf("invalid order direction %q: must be asc or desc", s)
	}
}

// Order is one ORDER BY term.
type Order struct {
	Column    entity.Column
	Direction Direction
}

// Select is a complete SELECT statement.
//
// Semantics:
//
//	SELECT <columns> FROM <from> <joins...> WHERE <filter>
//	ORDER BY <order> LIMIT <limit> OFFSET <offset>
//
// Filter nil means no WHERE clause; Limit and Offset zero mean unset.
type Select struct {
	From    string
	Columns []Projection
	Joins   []JoinClause
	Filter  Predicate
	OrderBy []Order
	Limit   uint64
	Offset  uint64
}

// Tables returns the root table followed by joined tables in join order.
func (s Select) Tables() []string {
	tables := make([]string, 0, len(s.Joins)+1)
	tables = append(tables, s.From)
	for _, j := range s.Joins {
		tables = append(tables, j.Table)
	}
	return tables
}
