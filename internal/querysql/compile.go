package querysql

import (
	"fmt"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/roach88/relq/internal/entity"
	"github.com/roach88/relq/internal/ir"
	"github.com/roach88/relq/internal/queryir"
)

// SQLCompiler compiles queryir statements to parameterized SQL through
// squirrel.
//
// Statements are validated before rendering: a column that refers to a
// table not in scope is an error, never broken SQL.
// All values are parameterized; CompileInline exists for display only.
type SQLCompiler struct {
	dialect Dialect
}

// NewSQLCompiler creates a compiler for the given dialect.
func NewSQLCompiler(d Dialect) *SQLCompiler {
	return &SQLCompiler{dialect: d}
}

// Dialect returns the compiler's dialect.
func (c *SQLCompiler) Dialect() Dialect {
	return c.dialect
}

// Compile converts a statement to parameterized SQL.
// Returns (sql, params, error) tuple.
func (c *SQLCompiler) Compile(sel queryir.Select) (string, []any, error) {
	return c.compile(sel, c.dialect.placeholder)
}

func (c *SQLCompiler) compile(sel queryir.Select, placeholder sq.PlaceholderFormat) (string, []any, error) {
	if err := queryir.Validate(sel).Err(); err != nil {
		return "", nil, fmt.Errorf("compile %s: %w", sel.From, err)
	}

	builder := sq.Select(c.compileColumns(sel.Columns)...).
		From(c.dialect.Quote(sel.From))

	for _, j := range sel.Joins {
		builder = builder.JoinClause(c.compileJoin(j))
	}

	where, err := c.compileWhere(sel.Filter)
	if err != nil {
		return "", nil, fmt.Errorf("compile filter: %w", err)
	}
	for _, w := range where {
		builder = builder.Where(w)
	}

	if len(sel.OrderBy) > 0 {
		builder = builder.OrderBy(c.compileOrder(sel.OrderBy)...)
	}
	if sel.Limit > 0 {
		builder = builder.Limit(sel.Limit)
	}
	if sel.Offset > 0 {
		builder = builder.Offset(sel.Offset)
	}

	sql, params, err := builder.PlaceholderFormat(placeholder).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("render %s: %w", sel.From, err)
	}
	if params == nil {
		params = []any{}
	}
	return sql, params, nil
}

// CompileInline renders the statement with values written as SQL literals.
// The result is for logs and CLI output; execute Compile's output instead.
func (c *SQLCompiler) CompileInline(sel queryir.Select) (string, error) {
	sql, params, err := c.compile(sel, sq.Question)
	if err != nil {
		return "", err
	}

	// Placeholders only occur outside quoted identifiers and string literals.
	var b strings.Builder
	var quote byte
	next := 0
	for i := 0; i < len(sql); i++ {
		ch := sql[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == c.dialect.quote[0] || ch == '\'':
			quote = ch
		case ch == '?' && next < len(params):
			b.WriteString(literal(params[next]))
			next++
			continue
		}
		b.WriteByte(ch)
	}
	if next != len(params) {
		return "", fmt.Errorf("inline %s: %d placeholders for %d params", sel.From, next, len(params))
	}
	return b.String(), nil
}

func literal(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'"
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprintf("'%v'", val)
	}
}

// column renders table.name with both parts quoted.
func (c *SQLCompiler) column(col entity.Column) string {
	if col.Table == "" {
		return c.dialect.Quote(col.Name)
	}
	return c.dialect.Quote(col.Table) + "." + c.dialect.Quote(col.Name)
}

// compileColumns renders projections: "`cake`.`id` AS `A_id`".
func (c *SQLCompiler) compileColumns(cols []queryir.Projection) []string {
	out := make([]string, len(cols))
	for i, p := range cols {
		out[i] = c.column(p.Column)
		if p.Alias != "" {
			out[i] += " AS " + c.dialect.Quote(p.Alias)
		}
	}
	return out
}

// compileJoin renders "LEFT JOIN `fruit` ON `cake`.`id` = `fruit`.`cake_id`".
func (c *SQLCompiler) compileJoin(j queryir.JoinClause) string {
	return fmt.Sprintf("%s JOIN %s ON %s = %s",
		j.Kind, c.dialect.Quote(j.Table), c.column(j.On.Left), c.column(j.On.Right))
}

func (c *SQLCompiler) compileOrder(orders []queryir.Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		dir := o.Direction
		if dir == "" {
			dir = queryir.Asc
		}
		out[i] = c.column(o.Column) + " " + string(dir)
	}
	return out
}

// compileWhere splits a top-level conjunction into separate WHERE terms,
// which squirrel joins with AND without wrapping parentheses.
func (c *SQLCompiler) compileWhere(p queryir.Predicate) ([]sq.Sqlizer, error) {
	if p == nil {
		return nil, nil
	}
	if and, ok := p.(queryir.And); ok && len(and.Predicates) > 0 {
		out := make([]sq.Sqlizer, 0, len(and.Predicates))
		for _, sub := range and.Predicates {
			s, err := c.compilePredicate(sub)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	}
	s, err := c.compilePredicate(p)
	if err != nil {
		return nil, err
	}
	return []sq.Sqlizer{s}, nil
}

// compilePredicate converts a predicate to a squirrel condition.
func (c *SQLCompiler) compilePredicate(p queryir.Predicate) (sq.Sqlizer, error) {
	switch pred := p.(type) {
	case queryir.Equals:
		param, err := ir.Native(pred.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pred.Column, err)
		}
		// A nil param renders IS NULL.
		return sq.Eq{c.column(pred.Column): param}, nil
	case queryir.ColumnEquals:
		return sq.Expr(c.column(pred.Left) + " = " + c.column(pred.Right)), nil
	case queryir.Like:
		if c.dialect.likeEscape != "" {
			return sq.Expr(c.column(pred.Column)+" LIKE ?"+c.dialect.likeEscape, pred.Pattern), nil
		}
		return sq.Like{c.column(pred.Column): pred.Pattern}, nil
	case queryir.IsNull:
		return sq.Eq{c.column(pred.Column): nil}, nil
	case queryir.And:
		subs, err := c.compilePredicates(pred.Predicates)
		if err != nil {
			return nil, err
		}
		return sq.And(subs), nil
	case queryir.Or:
		subs, err := c.compilePredicates(pred.Predicates)
		if err != nil {
			return nil, err
		}
		return sq.Or(subs), nil
	case queryir.Not:
		sub, err := c.compilePredicate(pred.Predicate)
		if err != nil {
			return nil, err
		}
		sql, args, err := sub.ToSql()
		if err != nil {
			return nil, err
		}
		return sq.Expr("NOT ("+sql+")", args...), nil
	default:
		return nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (c *SQLCompiler) compilePredicates(preds []queryir.Predicate) ([]sq.Sqlizer, error) {
	out := make([]sq.Sqlizer, 0, len(preds))
	for _, p := range preds {
		s, err := c.compilePredicate(p)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
