package testutil

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relq/internal/entity"
	"github.com/roach88/relq/internal/ir"
	"github.com/roach88/relq/internal/relation"
)

func TestSequentialUUIDs_Reproducible(t *testing.T) {
	a := NewSequentialUUIDs()
	b := NewSequentialUUIDs()

	first := a.Next()
	assert.Equal(t, first, b.Next())
	assert.NotEqual(t, first, a.Next())
	assert.Equal(t, uuid.Version(5), first.Version())

	a.Reset()
	assert.Equal(t, first, a.Next())
}

func TestSequentialUUIDs_ConcurrentNextIsUnique(t *testing.T) {
	gen := NewSequentialUUIDs()

	const goroutines = 8
	const perGoroutine = 50

	var mu sync.Mutex
	seen := map[uuid.UUID]bool{}
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				id := gen.Next()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, goroutines*perGoroutine)
}

func TestFixedTraceIDs(t *testing.T) {
	gen := NewFixedTraceIDs("trace-123")
	assert.Equal(t, "trace-123", gen.NewTraceID())
	assert.Equal(t, "trace-123", gen.NewTraceID())

	assert.Equal(t, "test-trace-default", NewFixedTraceIDs("").NewTraceID())
}

func TestBakery_DeclarationsAreConsistent(t *testing.T) {
	require.NoError(t, relation.CheckUnique(BakeryLinks()...))

	for _, e := range BakeryEntities() {
		for _, c := range e.Columns() {
			assert.True(t, entity.Has(e, c), "%s", c)
		}
	}

	_, err := entity.SinglePrimaryKey(CakeFilling{})
	assert.ErrorIs(t, err, entity.ErrCompositeKey)
	_, err = entity.SinglePrimaryKey(Review{})
	assert.ErrorIs(t, err, entity.ErrNoPrimaryKey)
}

func TestBakery_Models(t *testing.T) {
	pk, v, err := entity.KeyValue(entity.ModelOf[Cake](CakeModel{ID: 12}))
	require.NoError(t, err)
	assert.Equal(t, CakeID, pk)
	assert.Equal(t, ir.Int(12), v)

	orphan := FruitModel{ID: 9, Name: "apple"}
	cakeID, ok := orphan.Value(FruitCakeID)
	require.True(t, ok)
	assert.Equal(t, ir.Null{}, cakeID)

	_, ok = orphan.Value(CakeID)
	assert.False(t, ok)
}
