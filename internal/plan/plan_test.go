package plan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	p, err := Parse([]byte(`
name: cake_with_fruit
root: cake
steps:
  - left_join: fruit
  - filter: {column: fruit.name, contains: cherry}
  - belongs_to: {entity: cake, key: 12}
  - order_by: {column: cake.id}
  - limit: 10
  - offset: 0
`))
	require.NoError(t, err)

	assert.Equal(t, "cake_with_fruit", p.Name)
	assert.Equal(t, "cake", p.Root)
	require.Len(t, p.Steps, 6)

	var kinds []string
	for _, s := range p.Steps {
		kind, err := s.Kind()
		require.NoError(t, err)
		kinds = append(kinds, kind)
	}
	assert.Equal(t, []string{StepLeftJoin, StepFilter, StepBelongsTo, StepOrderBy, StepLimit, StepOffset}, kinds)

	assert.Equal(t, "cherry", *p.Steps[1].Filter.Contains)
	assert.Equal(t, 12, p.Steps[2].BelongsTo.Key)
	assert.Equal(t, uint64(0), *p.Steps[5].Offset, "an explicit zero is still a step")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"unknown field", "name: x\nroot: cake\nsteps:\n  - left-join: fruit\n", "field left-join not found"},
		{"missing name", "root: cake\n", "name is required"},
		{"missing root", "name: x\n", "root is required"},
		{"empty step", "name: x\nroot: cake\nsteps:\n  - {}\n", "step has no operation"},
		{"two operations", "name: x\nroot: cake\nsteps:\n  - {left_join: fruit, limit: 1}\n", "several operations"},
		{"filter without condition", "name: x\nroot: cake\nsteps:\n  - filter: {column: cake.id}\n", "exactly one of"},
		{"filter without column", "name: x\nroot: cake\nsteps:\n  - filter: {contains: a}\n", "column is required"},
		{"any_of with column", "name: x\nroot: cake\nsteps:\n  - filter: {column: cake.id, any_of: [{column: cake.id, is_null: true}]}\n", "any_of does not take a column"},
		{"nested filter error", "name: x\nroot: cake\nsteps:\n  - filter: {any_of: [{is_null: true}]}\n", "any_of[0]: column is required"},
		{"belongs_to without key", "name: x\nroot: fruit\nsteps:\n  - belongs_to: {entity: cake}\n", "key is required"},
		{"order_by without column", "name: x\nroot: cake\nsteps:\n  - order_by: {dir: asc}\n", "column is required"},
		{"join after select_related", "name: x\nroot: cake\nsteps:\n  - select_related: fruit\n  - inner_join: filling\n", "inner_join must come before select_related"},
		{"select_related twice", "name: x\nroot: cake\nsteps:\n  - select_related: fruit\n  - select_related: filling\n", "may appear once"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	p, err := Load(filepath.Join("..", "..", "testdata", "plans", "fruits_of_cake.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "fruits_of_cake", p.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read plan file")
}

func TestLoadDir(t *testing.T) {
	plans, err := LoadDir(filepath.Join("..", "..", "testdata", "plans"))
	require.NoError(t, err)

	var names []string
	for _, p := range plans {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"cake_fillings", "cake_with_fruit", "fruits_of_cake", "reviews_by_author"}, names)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("root: cake\n"), 0o644))
	_, err = LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
}
