package plan

import (
	"fmt"

	"github.com/roach88/relq/internal/entity"
	"github.com/roach88/relq/internal/query"
	"github.com/roach88/relq/internal/queryir"
	"github.com/roach88/relq/internal/relation"
	"github.com/roach88/relq/internal/schema"
)

type (
	tableSelect    = query.Select[*schema.Table]
	tableSelectTwo = query.SelectTwo[*schema.Table, *schema.Table]
)

// Build applies p's steps to a select rooted at p.Root and returns the
// resulting statement. Every table, column and relation is resolved against
// c; an undeclared relation fails with schema.ErrNoRelation.
func Build(p *Plan, c *schema.Catalog) (queryir.Select, error) {
	root, err := c.Table(p.Root)
	if err != nil {
		return queryir.Select{}, fmt.Errorf("plan %s: root: %w", p.Name, err)
	}

	b := &builder{catalog: c, sel: query.Find(root)}
	for i, step := range p.Steps {
		kind, err := step.Kind()
		if err != nil {
			return queryir.Select{}, fmt.Errorf("plan %s: steps[%d]: %w", p.Name, i, err)
		}
		if err := b.apply(kind, step); err != nil {
			return queryir.Select{}, fmt.Errorf("plan %s: steps[%d] %s: %w", p.Name, i, kind, err)
		}
	}
	return b.statement(), nil
}

// builder tracks the select being built. Once select_related runs, the
// two-entity select replaces the single one.
type builder struct {
	catalog *schema.Catalog
	sel     tableSelect
	two     *tableSelectTwo
}

func (b *builder) root() string {
	return b.sel.Root().TableName()
}

func (b *builder) statement() queryir.Select {
	if b.two != nil {
		return b.two.Statement()
	}
	return b.sel.Statement()
}

func (b *builder) apply(kind string, step Step) error {
	if b.two != nil {
		switch kind {
		case StepFilter, StepOrderBy, StepLimit, StepOffset:
		default:
			return fmt.Errorf("not allowed after select_related")
		}
	}

	switch kind {
	case StepLeftJoin:
		return b.join(step.LeftJoin, tableSelect.LeftJoin)
	case StepRightJoin:
		return b.join(step.RightJoin, tableSelect.RightJoin)
	case StepInnerJoin:
		return b.join(step.InnerJoin, tableSelect.InnerJoin)
	case StepReverseJoin:
		link, err := b.catalog.Link(step.ReverseJoin, b.root())
		if err != nil {
			return err
		}
		b.sel = b.sel.ReverseJoin(link)
		return nil
	case StepSelectRelated:
		link, err := b.catalog.Link(b.root(), step.SelectRelated)
		if err != nil {
			return err
		}
		two := query.LeftJoinAndSelect(b.sel, link)
		b.two = &two
		return nil
	case StepFilter:
		pred, err := b.predicate(step.Filter)
		if err != nil {
			return err
		}
		b.filter(pred)
		return nil
	case StepBelongsTo:
		return b.belongsTo(step.BelongsTo)
	case StepOrderBy:
		col, err := b.catalog.Column(step.OrderBy.Column)
		if err != nil {
			return err
		}
		dir, err := queryir.ParseDirection(step.OrderBy.Dir)
		if err != nil {
			return err
		}
		if b.two != nil {
			*b.two = b.two.OrderBy(col, dir)
		} else {
			b.sel = b.sel.OrderBy(col, dir)
		}
		return nil
	case StepLimit:
		if b.two != nil {
			*b.two = b.two.Limit(*step.Limit)
		} else {
			b.sel = b.sel.Limit(*step.Limit)
		}
		return nil
	case StepOffset:
		if b.two != nil {
			*b.two = b.two.Offset(*step.Offset)
		} else {
			b.sel = b.sel.Offset(*step.Offset)
		}
		return nil
	default:
		return fmt.Errorf("unknown step %q", kind)
	}
}

func (b *builder) join(target string, join func(tableSelect, relation.Outgoing[*schema.Table]) tableSelect) error {
	link, err := b.catalog.Link(b.root(), target)
	if err != nil {
		return err
	}
	b.sel = join(b.sel, link)
	return nil
}

func (b *builder) filter(pred queryir.Predicate) {
	if b.two != nil {
		*b.two = b.two.Filter(pred)
		return
	}
	b.sel = b.sel.Filter(pred)
}

func (b *builder) belongsTo(bt *BelongsTo) error {
	owner, err := b.catalog.Table(bt.Entity)
	if err != nil {
		return err
	}
	link, err := b.catalog.Link(bt.Entity, b.root())
	if err != nil {
		return err
	}
	key, err := owner.KeyRecord(bt.Key)
	if err != nil {
		return err
	}
	sel, err := query.BelongsTo(b.sel, link, key)
	if err != nil {
		return err
	}
	b.sel = sel
	return nil
}

func (b *builder) predicate(f *Filter) (queryir.Predicate, error) {
	pred, err := b.condition(f)
	if err != nil {
		return nil, err
	}
	if f.Not {
		return queryir.Negate(pred), nil
	}
	return pred, nil
}

func (b *builder) condition(f *Filter) (queryir.Predicate, error) {
	if len(f.AnyOf) > 0 {
		subs := make([]queryir.Predicate, len(f.AnyOf))
		for i := range f.AnyOf {
			sub, err := b.predicate(&f.AnyOf[i])
			if err != nil {
				return nil, fmt.Errorf("any_of[%d]: %w", i, err)
			}
			subs[i] = sub
		}
		return queryir.AnyOf(subs...), nil
	}

	col, err := b.catalog.Column(f.Column)
	if err != nil {
		return nil, err
	}
	switch {
	case f.Equals != nil:
		v, err := entity.ParseValue(col, f.Equals)
		if err != nil {
			return nil, err
		}
		return queryir.Eq(col, v), nil
	case f.Contains != nil:
		return queryir.Contains(col, *f.Contains), nil
	case f.StartsWith != nil:
		return queryir.StartsWith(col, *f.StartsWith), nil
	case f.EndsWith != nil:
		return queryir.EndsWith(col, *f.EndsWith), nil
	case f.IsNull:
		return queryir.Null(col), nil
	default:
		return nil, fmt.Errorf("%s: filter has no condition", f.Column)
	}
}
