package plan

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/relq/internal/querysql"
	"github.com/roach88/relq/internal/schema"
)

// RenderWithGolden renders p and compares the snapshot against a golden file.
// The golden file is stored in testdata/golden/{plan.Name}.{dialect}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/plan -update
//
// Returns error if the plan cannot be rendered.
// Test failure (via goldie) occurs if the snapshot doesn't match the golden file.
func RenderWithGolden(t *testing.T, p *Plan, c *schema.Catalog, d querysql.Dialect) error {
	t.Helper()

	rendered, err := Render(p, c, d)
	if err != nil {
		return err
	}
	return AssertGolden(t, rendered)
}

// AssertGolden compares an already rendered plan against its golden file.
func AssertGolden(t *testing.T, r *Rendered) error {
	t.Helper()

	snapshot, err := r.Snapshot()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, r.Plan+"."+r.Dialect, snapshot)

	return nil
}
