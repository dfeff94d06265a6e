// Package player owns the mutable per-player entities: the resource state and
// the upgrade ledger. Repos here guarantee at-most-one in-flight mutation per
// store; the engine composes pure transforms inside Mutate callbacks.
package player

import (
	"sort"
	"time"

	"tapforge/internal/config"
)

// State is the resource sheet of one player.
type State struct {
	ID         string    `json:"id"`
	Currency   float64   `json:"currency"`
	Energy     float64   `json:"energy"`
	MaxEnergy  float64   `json:"maxEnergy"`
	Level      int       `json:"level"`
	XP         int       `json:"xp"`
	XPToNext   int       `json:"xpToNext"`
	LPPerHour  float64   `json:"lpPerHour"`
	LPPerTap   float64   `json:"lpPerTap"`
	LastTickAt time.Time `json:"lastTickAt"`

	// Version is the persistence concurrency token. Only the sqlite repo
	// uses it; file and memory repos serialize on a store lock.
	Version int64 `json:"-"`
}

// Ledger maps upgrade id to owned level. Entries appear lazily at level 0
// the first time an upgrade is referenced and are never removed.
type Ledger map[string]int

// Level returns the owned level for an upgrade, 0 when never purchased.
func (l Ledger) Level(upgradeID string) int { return l[upgradeID] }

// SetLevel records a new owned level.
func (l Ledger) SetLevel(upgradeID string, level int) { l[upgradeID] = level }

// OwnedIDs lists upgrades with at least one purchased level, sorted.
func (l Ledger) OwnedIDs() []string {
	out := make([]string, 0, len(l))
	for id, lvl := range l {
		if lvl >= 1 {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}

// NewState builds a fresh player from the balance defaults. LastTickAt stays
// zero; the first tick initializes it without crediting anything.
func NewState(id string, b config.Balance) State {
	return State{
		ID:        id,
		Currency:  b.StartingCurrency,
		Energy:    b.StartingMaxEnergy,
		MaxEnergy: b.StartingMaxEnergy,
		Level:     1,
		XP:        0,
		XPToNext:  b.XPPerLevel,
		LPPerHour: b.StartingLPPerHour,
		LPPerTap:  b.StartingLPPerTap,
	}
}

// normalizeState repairs loaded state so engine invariants hold even if the
// stored snapshot predates a balance change.
func normalizeState(s State, b config.Balance) State {
	if s.Level < 1 {
		s.Level = 1
	}
	if s.MaxEnergy <= 0 {
		s.MaxEnergy = b.StartingMaxEnergy
	}
	if s.Energy < 0 {
		s.Energy = 0
	}
	if s.Energy > s.MaxEnergy {
		s.Energy = s.MaxEnergy
	}
	if s.Currency < 0 {
		s.Currency = 0
	}
	if s.LPPerTap <= 0 {
		s.LPPerTap = b.StartingLPPerTap
	}
	if s.LPPerHour < 0 {
		s.LPPerHour = 0
	}
	if s.XPToNext <= 0 {
		s.XPToNext = b.XPPerLevel * s.Level
	}
	return s
}
