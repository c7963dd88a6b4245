package testutil

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// SequentialUUIDs produces a reproducible sequence of UUIDs for tests.
//
// The n-th UUID is the name-based (SHA-1) UUID of n in the OID namespace,
// so two generators always yield the same sequence.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequentialUUIDs struct {
	mu  sync.Mutex
	seq int64
}

// NewSequentialUUIDs creates a generator whose first UUID is for n = 1.
func NewSequentialUUIDs() *SequentialUUIDs {
	return &SequentialUUIDs{}
}

// Next returns the next UUID in the sequence.
func (g *SequentialUUIDs) Next() uuid.UUID {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(strconv.FormatInt(g.seq, 10)))
}

// Reset restarts the sequence. After Reset, Next returns the first UUID again.
func (g *SequentialUUIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}

// FixedTraceIDs returns the same trace ID on every call.
//
// This enables golden comparison of CLI JSON output, which otherwise
// carries a fresh UUIDv7 per invocation.
type FixedTraceIDs struct {
	id string
}

// NewFixedTraceIDs creates a fixed trace ID generator.
// If id is empty, NewTraceID returns "test-trace-default".
func NewFixedTraceIDs(id string) *FixedTraceIDs {
	if id == "" {
		id = "test-trace-default"
	}
	return &FixedTraceIDs{id: id}
}

// NewTraceID returns the fixed trace ID.
func (g *FixedTraceIDs) NewTraceID() string {
	return g.id
}
