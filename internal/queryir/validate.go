package queryir

import (
	"fmt"
)

// ValidationResult contains scope analysis of a statement.
type ValidationResult struct {
	// Valid is false when the statement cannot be rendered as correct SQL:
	// a column refers to a table that is not in scope where it is used.
	Valid bool

	// Errors lists the problems that make the statement invalid.
	Errors []string

	// Warnings lists legal but suspicious constructs, such as a table that
	// is joined more than once without an alias.
	Warnings []string
}

// Err returns the validation errors as a single error, or nil.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return fmt.Errorf("invalid statement: %v", r.Errors)
}

// Validate checks that every column of sel refers to a table in scope.
//
// Scope rules:
//  1. The root table is in scope everywhere.
//  2. A join clause's ON condition may reference its own table and any
//     table joined before it.
//  3. Projections, filters and ORDER BY terms may reference any joined table.
//  4. A statement must project at least one column.
//
// Validate is a pure function with no side effects.
func Validate(sel Select) ValidationResult {
	v := &validator{
		scope:    map[string]bool{},
		errors:   []string{},
		warnings: []string{},
	}
	v.validateSelect(sel)

	return ValidationResult{
		Valid:    len(v.errors) == 0,
		Errors:   v.errors,
		Warnings: v.warnings,
	}
}

// validator accumulates problems during traversal.
type validator struct {
	scope    map[string]bool
	errors   []string
	warnings []string
}

func (v *validator) addError(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validateSelect(sel Select) {
	if sel.From == "" {
		v.addError("empty FROM table")
	}
	v.scope[sel.From] = true

	for i, j := range sel.Joins {
		v.validateJoin(i, j)
	}

	if len(sel.Columns) == 0 {
		v.addError("no columns selected")
	}
	aliases := map[string]bool{}
	for _, p := range sel.Columns {
		v.checkColumn("projection", p.Column.Table, p.Column.String())
		if p.Alias == "" {
			continue
		}
		if aliases[p.Alias] {
			v.addError("duplicate column alias %q", p.Alias)
		}
		aliases[p.Alias] = true
	}

	if sel.Filter != nil {
		v.validatePredicate(sel.Filter)
	}

	for _, o := range sel.OrderBy {
		v.checkColumn("order by", o.Column.Table, o.Column.String())
	}
}

func (v *validator) validateJoin(i int, j JoinClause) {
	switch j.Kind {
	case JoinInner, JoinLeft, JoinRight:
	default:
		v.addError("join %d: unknown join kind %q", i, j.Kind)
	}
	if j.Table == "" {
		v.addError("join %d: empty table", i)
	}
	if v.scope[j.Table] {
		v.addWarning("join %d: table %q is already in scope", i, j.Table)
	}
	v.scope[j.Table] = true

	where := fmt.Sprintf("join %d (%s)", i, j.Table)
	v.checkColumn(where, j.On.Left.Table, j.On.Left.String())
	v.checkColumn(where, j.On.Right.Table, j.On.Right.String())
	if j.On.Left.Table != j.Table && j.On.Right.Table != j.Table {
		v.addError("%s: ON condition does not reference the joined table", where)
	}
}

func (v *validator) checkColumn(where, table, name string) {
	if !v.scope[table] {
		v.addError("%s: column %s refers to table %q which is not in scope", where, name, table)
	}
}

func (v *validator) validatePredicate(p Predicate) {
	if p == nil {
		v.addError("nil predicate")
		return
	}

	switch pred := p.(type) {
	case Equals:
		v.checkColumn("filter", pred.Column.Table, pred.Column.String())
		if pred.Value == nil {
			v.addError("filter: column %s compared to a nil value", pred.Column)
		}
	case ColumnEquals:
		v.checkColumn("filter", pred.Left.Table, pred.Left.String())
		v.checkColumn("filter", pred.Right.Table, pred.Right.String())
	case Like:
		v.checkColumn("filter", pred.Column.Table, pred.Column.String())
	case IsNull:
		v.checkColumn("filter", pred.Column.Table, pred.Column.String())
	case And:
		for _, sub := range pred.Predicates {
			v.validatePredicate(sub)
		}
	case Or:
		for _, sub := range pred.Predicates {
			v.validatePredicate(sub)
		}
	case Not:
		v.validatePredicate(pred.Predicate)
	default:
		v.addError("unknown predicate type: %T", p)
	}
}
