package plan

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/relq/internal/querysql"
)

func TestGolden_Plans(t *testing.T) {
	c := loadCatalog(t)
	plans, err := LoadDir(filepath.Join("..", "..", "testdata", "plans"))
	require.NoError(t, err)
	require.NotEmpty(t, plans)

	for _, p := range plans {
		t.Run(p.Name, func(t *testing.T) {
			require.NoError(t, RenderWithGolden(t, p, c, querysql.Dialect{}))
		})
	}
}

func TestGolden_OtherDialects(t *testing.T) {
	c := loadCatalog(t)

	tests := []struct {
		file    string
		dialect querysql.Dialect
	}{
		{"cake_with_fruit.yaml", querysql.SQLite},
		{"fruits_of_cake.yaml", querysql.Postgres},
	}

	for _, tt := range tests {
		t.Run(tt.file+"/"+tt.dialect.Name, func(t *testing.T) {
			p, err := Load(filepath.Join("..", "..", "testdata", "plans", tt.file))
			require.NoError(t, err)

			r, err := Render(p, c, tt.dialect)
			require.NoError(t, err)
			require.NoError(t, AssertGolden(t, r))
		})
	}
}
