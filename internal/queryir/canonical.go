package queryir

import (
	"fmt"
	"strconv"

	"github.com/roach88/relq/internal/entity"
	"github.com/roach88/relq/internal/ir"
)

// Fingerprint hashes the canonical form of s.
func (s Select) Fingerprint() (string, error) {
	c, err := s.Canonical()
	if err != nil {
		return "", err
	}
	return ir.Fingerprint(ir.DomainStatement, c)
}

// Canonical converts s into a tree of maps, slices and ir values that
// ir.MarshalCanonical accepts. Two statements with the same structure
// produce byte-identical canonical JSON.
func (s Select) Canonical() (map[string]any, error) {
	columns := make([]any, len(s.Columns))
	for i, p := range s.Columns {
		columns[i] = map[string]any{
			"column": canonicalColumn(p.Column),
			"alias":  p.Alias,
		}
	}

	joins := make([]any, len(s.Joins))
	for i, j := range s.Joins {
		joins[i] = map[string]any{
			"kind":  string(j.Kind),
			"table": j.Table,
			"on":    []any{canonicalColumn(j.On.Left), canonicalColumn(j.On.Right)},
		}
	}

	orders := make([]any, len(s.OrderBy))
	for i, o := range s.OrderBy {
		orders[i] = map[string]any{
			"column": canonicalColumn(o.Column),
			"dir":    string(o.Direction),
		}
	}

	out := map[string]any{
		"from":    s.From,
		"columns": columns,
		"joins":   joins,
		"order":   orders,
		"limit":   strconv.FormatUint(s.Limit, 10),
		"offset":  strconv.FormatUint(s.Offset, 10),
		"filter":  nil,
	}
	if s.Filter != nil {
		filter, err := canonicalPredicate(s.Filter)
		if err != nil {
			return nil, err
		}
		out["filter"] = filter
	}
	return out, nil
}

func canonicalColumn(c entity.Column) string {
	return c.String()
}

func canonicalPredicate(p Predicate) (map[string]any, error) {
	switch pred := p.(type) {
	case Equals:
		if pred.Value == nil {
			return nil, fmt.Errorf("equals %s: nil value", pred.Column)
		}
		return map[string]any{"eq": []any{canonicalColumn(pred.Column), pred.Value}}, nil
	case ColumnEquals:
		return map[string]any{"col_eq": []any{canonicalColumn(pred.Left), canonicalColumn(pred.Right)}}, nil
	case Like:
		return map[string]any{"like": []any{canonicalColumn(pred.Column), pred.Pattern}}, nil
	case IsNull:
		return map[string]any{"is_null": canonicalColumn(pred.Column)}, nil
	case And:
		subs, err := canonicalPredicates(pred.Predicates)
		if err != nil {
			return nil, err
		}
		return map[string]any{"and": subs}, nil
	case Or:
		subs, err := canonicalPredicates(pred.Predicates)
		if err != nil {
			return nil, err
		}
		return map[string]any{"or": subs}, nil
	case Not:
		sub, err := canonicalPredicate(pred.Predicate)
		if err != nil {
			return nil, err
		}
		return map[string]any{"not": sub}, nil
	case nil:
		return nil, fmt.Errorf("nil predicate")
	default:
		return nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func canonicalPredicates(preds []Predicate) ([]any, error) {
	out := make([]any, len(preds))
	for i, p := range preds {
		c, err := canonicalPredicate(p)
		if err != nil {
			return nil, fmt.Errorf("predicate[%d]: %w", i, err)
		}
		out[i] = c
	}
	return out, nil
}
