package testutil

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// SequentialIDs hands out predictable node IDs for tests:
// 00000000-0000-0000-0000-000000000001, ...-000000000002, and so on.
//
// This enables golden comparison of serialized trees, whose IDs would
// otherwise be random UUIDv7 values.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequentialIDs struct {
	mu   sync.Mutex
	next uint64
}

// NewSequentialIDs creates a generator whose first ID is ID(1).
func NewSequentialIDs() *SequentialIDs {
	return &SequentialIDs{}
}

// NewID returns the next ID in sequence.
//
// Implements model.IDGenerator.
func (g *SequentialIDs) NewID() uuid.UUID {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return ID(g.next)
}

// Reset restarts the sequence at ID(1).
func (g *SequentialIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next = 0
}

// ID returns the n-th sequential ID.
func ID(n uint64) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", n))
}
