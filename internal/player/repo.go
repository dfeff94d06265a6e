package player

import (
	"context"
	"errors"
	"sync"

	"tapforge/internal/config"
)

// ErrConcurrentModification is returned when a store detects that another
// writer got in between read and write. Callers should retry the operation.
var ErrConcurrentModification = errors.New("player: concurrent modification")

// Repository supplies and durably stores player state and ledgers.
//
// Mutate runs fn with exclusive access to one player's state; the change is
// persisted only when fn returns nil. Implementations must guarantee
// at-most-one in-flight mutation per player. Get and Mutate create the
// player lazily with balance defaults on first reference.
type Repository interface {
	Get(ctx context.Context, id string) (State, Ledger, error)
	Mutate(ctx context.Context, id string, fn func(*State, Ledger) error) (State, Ledger, error)
}

type memoryRecord struct {
	state  State
	ledger Ledger
}

// MemoryRepo keeps players in memory. Tests and the "memory" storage driver
// use it; a store-wide mutex provides the per-player serialization.
type MemoryRepo struct {
	mu      sync.Mutex
	balance config.Balance
	players map[string]*memoryRecord
}

func NewMemoryRepo(b config.Balance) *MemoryRepo {
	return &MemoryRepo{
		balance: b,
		players: make(map[string]*memoryRecord),
	}
}

func (r *MemoryRepo) recordLocked(id string) *memoryRecord {
	rec, ok := r.players[id]
	if !ok {
		rec = &memoryRecord{
			state:  NewState(id, r.balance),
			ledger: Ledger{},
		}
		r.players[id] = rec
	}
	return rec
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (State, Ledger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.recordLocked(id)
	return rec.state, rec.ledger.Clone(), nil
}

func (r *MemoryRepo) Mutate(ctx context.Context, id string, fn func(*State, Ledger) error) (State, Ledger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.recordLocked(id)

	state := rec.state
	ledger := rec.ledger.Clone()
	if err := fn(&state, ledger); err != nil {
		return rec.state, rec.ledger.Clone(), err
	}
	rec.state = state
	rec.ledger = ledger
	return state, ledger.Clone(), nil
}
