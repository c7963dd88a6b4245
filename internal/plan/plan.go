package plan

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Plan describes one query as a root table and an ordered list of builder
// steps. Steps are applied in order to a select rooted at Root.
type Plan struct {
	// Name uniquely identifies this plan. Golden files are keyed by it.
	Name string `yaml:"name"`

	// Description explains what the plan selects.
	Description string `yaml:"description,omitempty"`

	// Root is the table the select starts from.
	Root string `yaml:"root"`

	// Dialect is the default SQL dialect for rendering.
	// If empty, renderers use mysql.
	Dialect string `yaml:"dialect,omitempty"`

	// Steps are builder operations in application order.
	Steps []Step `yaml:"steps"`
}

// Step is one builder operation. Exactly one field must be set.
type Step struct {
	LeftJoin      string     `yaml:"left_join,omitempty"`
	RightJoin     string     `yaml:"right_join,omitempty"`
	InnerJoin     string     `yaml:"inner_join,omitempty"`
	ReverseJoin   string     `yaml:"reverse_join,omitempty"`
	SelectRelated string     `yaml:"select_related,omitempty"`
	Filter        *Filter    `yaml:"filter,omitempty"`
	BelongsTo     *BelongsTo `yaml:"belongs_to,omitempty"`
	OrderBy       *OrderBy   `yaml:"order_by,omitempty"`
	Limit         *uint64    `yaml:"limit,omitempty"`
	Offset        *uint64    `yaml:"offset,omitempty"`
}

// Filter is one condition on a column, or a disjunction of filters.
// Exactly one of Equals, Contains, StartsWith, EndsWith, IsNull and AnyOf
// must be set. Not negates the condition.
type Filter struct {
	Column     string   `yaml:"column,omitempty"`
	Equals     any      `yaml:"equals,omitempty"`
	Contains   *string  `yaml:"contains,omitempty"`
	StartsWith *string  `yaml:"starts_with,omitempty"`
	EndsWith   *string  `yaml:"ends_with,omitempty"`
	IsNull     bool     `yaml:"is_null,omitempty"`
	AnyOf      []Filter `yaml:"any_of,omitempty"`
	Not        bool     `yaml:"not,omitempty"`
}

// BelongsTo restricts the select to rows related to one row of Entity,
// identified by its primary key value.
type BelongsTo struct {
	Entity string `yaml:"entity"`
	Key    any    `yaml:"key"`
}

// OrderBy is one ORDER BY term. Dir is asc or desc; empty means asc.
type OrderBy struct {
	Column string `yaml:"column"`
	Dir    string `yaml:"dir,omitempty"`
}

// Step kinds, as spelled in YAML.
const (
	StepLeftJoin      = "left_join"
	StepRightJoin     = "right_join"
	StepInnerJoin     = "inner_join"
	StepReverseJoin   = "reverse_join"
	StepSelectRelated = "select_related"
	StepFilter        = "filter"
	StepBelongsTo     = "belongs_to"
	StepOrderBy       = "order_by"
	StepLimit         = "limit"
	StepOffset        = "offset"
)

// Kind returns the YAML name of the step's operation.
// It returns an error unless exactly one operation is set.
func (s Step) Kind() (string, error) {
	var kinds []string
	add := func(set bool, kind string) {
		if set {
			kinds = append(kinds, kind)
		}
	}
	add(s.LeftJoin != "", StepLeftJoin)
	add(s.RightJoin != "", StepRightJoin)
	add(s.InnerJoin != "", StepInnerJoin)
	add(s.ReverseJoin != "", StepReverseJoin)
	add(s.SelectRelated != "", StepSelectRelated)
	add(s.Filter != nil, StepFilter)
	add(s.BelongsTo != nil, StepBelongsTo)
	add(s.OrderBy != nil, StepOrderBy)
	add(s.Limit != nil, StepLimit)
	add(s.Offset != nil, StepOffset)

	switch len(kinds) {
	case 0:
		return "", fmt.Errorf("step has no operation")
	case 1:
		return kinds[0], nil
	default:
		return "", fmt.Errorf("step sets several operations: %v", kinds)
	}
}

// Load reads and parses a plan YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}
	return Parse(data)
}

// LoadDir loads every *.yaml plan in dir, sorted by file name.
func LoadDir(dir string) ([]*Plan, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	plans := make([]*Plan, 0, len(paths))
	for _, path := range paths {
		p, err := Load(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		plans = append(plans, p)
	}
	return plans, nil
}

// Parse decodes a plan from YAML.
func Parse(data []byte) (*Plan, error) {
	// Strict field validation catches typos like "left-join:"
	var p Plan
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validatePlan(&p); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}
	return &p, nil
}

// validatePlan checks that required fields are present and every step is
// well formed. Table and column names are checked when the plan is built.
func validatePlan(p *Plan) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Root == "" {
		return fmt.Errorf("root is required")
	}

	selected := false
	for i, step := range p.Steps {
		kind, err := step.Kind()
		if err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
		switch kind {
		case StepLeftJoin, StepRightJoin, StepInnerJoin, StepReverseJoin, StepBelongsTo:
			if selected {
				return fmt.Errorf("steps[%d]: %s must come before select_related", i, kind)
			}
		case StepSelectRelated:
			if selected {
				return fmt.Errorf("steps[%d]: select_related may appear once", i)
			}
			selected = true
		case StepFilter:
			if err := validateFilter(step.Filter); err != nil {
				return fmt.Errorf("steps[%d].filter: %w", i, err)
			}
		case StepOrderBy:
			if step.OrderBy.Column == "" {
				return fmt.Errorf("steps[%d].order_by: column is required", i)
			}
		}
		if kind == StepBelongsTo {
			if step.BelongsTo.Entity == "" {
				return fmt.Errorf("steps[%d].belongs_to: entity is required", i)
			}
			if step.BelongsTo.Key == nil {
				return fmt.Errorf("steps[%d].belongs_to: key is required", i)
			}
		}
	}
	return nil
}

func validateFilter(f *Filter) error {
	set := 0
	for _, ok := range []bool{
		f.Equals != nil, f.Contains != nil, f.StartsWith != nil,
		f.EndsWith != nil, f.IsNull, len(f.AnyOf) > 0,
	} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("exactly one of equals, contains, starts_with, ends_with, is_null, any_of is required")
	}

	if len(f.AnyOf) > 0 {
		if f.Column != "" {
			return fmt.Errorf("any_of does not take a column")
		}
		for i := range f.AnyOf {
			if err := validateFilter(&f.AnyOf[i]); err != nil {
				return fmt.Errorf("any_of[%d]: %w", i, err)
			}
		}
		return nil
	}
	if f.Column == "" {
		return fmt.Errorf("column is required")
	}
	return nil
}
