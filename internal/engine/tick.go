package engine

import (
	"math"
	"time"

	"tapforge/internal/config"
	"tapforge/internal/player"
)

// TickDelta reports what one elapsed-time accrual credited.
type TickDelta struct {
	Elapsed  time.Duration `json:"-"`
	Currency float64       `json:"currency"`
	Energy   float64       `json:"energy"`
}

// ApplyElapsed converts wall-clock time since the last tick into currency
// and energy. LastTickAt is set to now unconditionally, so a second call at
// the same instant sees zero elapsed and credits nothing. A zero LastTickAt
// marks a player that has never ticked; it is initialized without credit.
func ApplyElapsed(s *player.State, now time.Time, b config.Balance) TickDelta {
	if s.LastTickAt.IsZero() {
		s.LastTickAt = now
		return TickDelta{}
	}

	elapsed := now.Sub(s.LastTickAt)
	if elapsed < 0 {
		// Clock went backwards; never debit, never credit.
		elapsed = 0
	}
	if b.MaxOfflineMinutes > 0 {
		if cap := time.Duration(b.MaxOfflineMinutes) * time.Minute; elapsed > cap {
			elapsed = cap
		}
	}

	currencyDelta := s.LPPerHour * elapsed.Hours()
	energyDelta := b.EnergyRegenPerMinute * elapsed.Minutes()
	if room := s.MaxEnergy - s.Energy; energyDelta > room {
		energyDelta = math.Max(room, 0)
	}

	s.Currency += currencyDelta
	s.Energy += energyDelta
	s.LastTickAt = now

	return TickDelta{Elapsed: elapsed, Currency: currencyDelta, Energy: energyDelta}
}
