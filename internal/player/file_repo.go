package player

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"tapforge/internal/config"
)

type store struct {
	mu   sync.Mutex
	path string
	s    fileState
}

type fileState struct {
	Players map[string]fileRecord `json:"players"`
}

type fileRecord struct {
	State    State  `json:"state"`
	Upgrades Ledger `json:"upgrades"`
}

// FileRepo persists players as one JSON snapshot under the data directory.
// Good enough for a single-process deployment: the store mutex serializes
// every mutation, so the optimistic version token is never needed here.
type FileRepo struct {
	store   *store
	balance config.Balance
}

func NewFileRepo(dataDir string, b config.Balance) (*FileRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	st := &store{
		path: filepath.Join(dataDir, "players.json"),
		s:    fileState{Players: map[string]fileRecord{}},
	}
	if err := st.load(); err != nil {
		return nil, err
	}
	return &FileRepo{store: st, balance: b}, nil
}

func (s *store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.s = fileState{Players: map[string]fileRecord{}}
			return nil
		}
		return err
	}

	var loaded fileState
	if err := json.Unmarshal(b, &loaded); err != nil {
		return err
	}
	if loaded.Players == nil {
		loaded.Players = map[string]fileRecord{}
	}
	s.s = loaded
	return nil
}

func (s *store) saveLocked() error {
	b, err := json.MarshalIndent(s.s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}

func (r *FileRepo) recordLocked(id string) fileRecord {
	rec, ok := r.store.s.Players[id]
	if !ok {
		rec = fileRecord{
			State:    NewState(id, r.balance),
			Upgrades: Ledger{},
		}
		r.store.s.Players[id] = rec
		return rec
	}
	rec.State = normalizeState(rec.State, r.balance)
	rec.State.ID = id
	if rec.Upgrades == nil {
		rec.Upgrades = Ledger{}
	}
	r.store.s.Players[id] = rec
	return rec
}

func (r *FileRepo) Get(ctx context.Context, id string) (State, Ledger, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rec := r.recordLocked(id)
	return rec.State, rec.Upgrades.Clone(), nil
}

func (r *FileRepo) Mutate(ctx context.Context, id string, fn func(*State, Ledger) error) (State, Ledger, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rec := r.recordLocked(id)

	state := rec.State
	ledger := rec.Upgrades.Clone()
	if err := fn(&state, ledger); err != nil {
		return rec.State, rec.Upgrades.Clone(), err
	}

	prev := rec
	r.store.s.Players[id] = fileRecord{State: state, Upgrades: ledger}
	if err := r.store.saveLocked(); err != nil {
		// Keep serving the last persisted record, not the failed write.
		r.store.s.Players[id] = prev
		return State{}, nil, err
	}
	return state, ledger.Clone(), nil
}
