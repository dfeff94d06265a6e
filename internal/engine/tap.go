package engine

import (
	"tapforge/internal/config"
	"tapforge/internal/player"
)

// Tap debits one tap's worth of energy and credits the per-tap yield.
// On ErrInsufficientEnergy the state is untouched.
func Tap(s *player.State, b config.Balance) (gain float64, err error) {
	if s.Energy < b.EnergyPerTap {
		return 0, ErrInsufficientEnergy
	}
	s.Energy -= b.EnergyPerTap
	gain = s.LPPerTap
	s.Currency += gain
	s.XP += b.XPPerTap
	return gain, nil
}
