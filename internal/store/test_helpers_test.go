package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/relq/internal/entity"
	"github.com/roach88/relq/internal/ir"
	"github.com/roach88/relq/internal/testutil"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createBakery creates the bakery tables and fills them:
//
//	cake 1 cheesecake  fruits: cherry, strawberry   fillings: cream
//	cake 2 sponge      fruits: (none)               fillings: cream, jam
//	cake 3 lemon tart  fruits: lemon                fillings: (none)
//	fruit 9 apple belongs to no cake
func createBakery(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s := createTestStore(t)

	require.NoError(t, s.CreateTables(ctx, testutil.BakeryEntities()...))

	cakes := []testutil.CakeModel{
		{ID: 1, Name: "cheesecake"},
		{ID: 2, Name: "sponge"},
		{ID: 3, Name: "lemon tart"},
	}
	for _, c := range cakes {
		require.NoError(t, Insert(ctx, s, c))
	}

	fruits := []testutil.FruitModel{
		{ID: 1, Name: "cherry", CakeID: testutil.Int64(1)},
		{ID: 2, Name: "strawberry", CakeID: testutil.Int64(1)},
		{ID: 3, Name: "lemon", CakeID: testutil.Int64(3)},
		{ID: 9, Name: "apple"},
	}
	for _, f := range fruits {
		require.NoError(t, Insert(ctx, s, f))
	}

	fillings := []entity.Record[testutil.Filling]{
		entity.MustRecord(testutil.Filling{}, ir.NewObject(ir.O("id", ir.Int(1)), ir.O("name", ir.String("cream")))),
		entity.MustRecord(testutil.Filling{}, ir.NewObject(ir.O("id", ir.Int(2)), ir.O("name", ir.String("jam")))),
	}
	for _, f := range fillings {
		require.NoError(t, Insert(ctx, s, f))
	}

	links := [][2]int64{{1, 1}, {2, 1}, {2, 2}}
	for _, l := range links {
		row := entity.MustRecord(testutil.CakeFilling{}, ir.NewObject(
			ir.O("cake_id", ir.Int(l[0])),
			ir.O("filling_id", ir.Int(l[1])),
		))
		require.NoError(t, Insert(ctx, s, row))
	}

	return s
}
