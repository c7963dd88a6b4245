package plan

import (
	"bytes"
	"fmt"

	"github.com/roach88/relq/internal/ir"
	"github.com/roach88/relq/internal/querysql"
	"github.com/roach88/relq/internal/schema"
)

// Rendered is a plan compiled to SQL for one dialect.
type Rendered struct {
	Plan        string `json:"plan"`
	Dialect     string `json:"dialect"`
	SQL         string `json:"sql"`
	Args        []any  `json:"args"`
	Inline      string `json:"inline"`
	Fingerprint string `json:"fingerprint"`
}

// Render builds p against c and compiles it for d.
// If d is the zero Dialect, the plan's own dialect is used, then mysql.
func Render(p *Plan, c *schema.Catalog, d querysql.Dialect) (*Rendered, error) {
	if d.Name == "" {
		name := p.Dialect
		if name == "" {
			name = querysql.MySQL.Name
		}
		var err error
		if d, err = querysql.ParseDialect(name); err != nil {
			return nil, fmt.Errorf("plan %s: %w", p.Name, err)
		}
	}

	stmt, err := Build(p, c)
	if err != nil {
		return nil, err
	}

	compiler := querysql.NewSQLCompiler(d)
	sql, args, err := compiler.Compile(stmt)
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", p.Name, err)
	}
	inline, err := compiler.CompileInline(stmt)
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", p.Name, err)
	}
	fp, err := stmt.Fingerprint()
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", p.Name, err)
	}

	return &Rendered{
		Plan:        p.Name,
		Dialect:     d.Name,
		SQL:         sql,
		Args:        args,
		Inline:      inline,
		Fingerprint: fp,
	}, nil
}

// Snapshot returns the dialect-specific part of r in a stable text form:
//
//	plan: cake_with_fruit
//	dialect: mysql
//	sql: SELECT ...
//	args: [12,"%cherry%"]
//
// Args use canonical JSON. The fingerprint is left out so that snapshots
// stay readable and reviewable by hand.
func (r *Rendered) Snapshot() ([]byte, error) {
	args, err := ir.MarshalCanonical(r.Args)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", r.Plan, err)
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "plan: %s\n", r.Plan)
	fmt.Fprintf(&b, "dialect: %s\n", r.Dialect)
	fmt.Fprintf(&b, "sql: %s\n", r.SQL)
	fmt.Fprintf(&b, "args: %s\n", args)
	return b.Bytes(), nil
}
