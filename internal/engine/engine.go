// Package engine is the progression and economy core: resource accrual,
// taps, upgrade purchases, level gating and rewards. Operations are pure
// state transforms executed inside the player repository's per-player
// critical section; the engine itself performs no blocking I/O.
package engine

import (
	"context"
	"time"

	"tapforge/internal/catalog"
	"tapforge/internal/config"
	"tapforge/internal/player"
	"tapforge/internal/telemetry"
)

type Engine struct {
	Players   player.Repository
	Catalog   *catalog.Catalog
	Balance   config.Balance
	Clock     Clock
	Telemetry telemetry.Recorder
}

// TapResult is returned to the presentation layer for client feedback.
type TapResult struct {
	Gain   float64      `json:"gain"`
	Player player.State `json:"player"`
}

type PurchaseResult struct {
	Receipt PurchaseReceipt `json:"receipt"`
	Player  player.State    `json:"player"`
	Ledger  player.Ledger   `json:"ledger"`
}

type AdvanceResult struct {
	Outcome AdvanceOutcome `json:"outcome"`
	Player  player.State   `json:"player"`
}

// StateView is everything a client may render about one player. Costs and
// effects are computed here; the presentation layer must never re-derive
// them.
type StateView struct {
	Player   player.State   `json:"player"`
	Ledger   player.Ledger  `json:"ledger"`
	Upgrades []UpgradeQuote `json:"upgrades"`
}

func (e Engine) record(t telemetry.EventType, playerID string, md telemetry.EventMetadata) {
	if e.Telemetry == nil {
		return
	}
	_, _ = e.Telemetry.RecordEvent(t, playerID, md)
}

// tick applies lazy accrual inside a mutation, just before the operation.
func (e Engine) tick(s *player.State) TickDelta {
	return ApplyElapsed(s, e.Clock.Now(), e.Balance)
}

func (e Engine) recordTick(playerID string, d TickDelta) {
	if d.Elapsed < time.Second {
		return
	}
	e.record(telemetry.EventTickApplied, playerID, telemetry.EventMetadata{
		"elapsed_seconds": d.Elapsed.Seconds(),
		"currency_delta":  d.Currency,
		"energy_delta":    d.Energy,
	})
}

// State applies a lazy tick and returns the full renderable view.
func (e Engine) State(ctx context.Context, playerID string) (StateView, error) {
	var delta TickDelta
	s, l, err := e.Players.Mutate(ctx, playerID, func(s *player.State, _ player.Ledger) error {
		delta = e.tick(s)
		return nil
	})
	if err != nil {
		return StateView{}, err
	}
	e.recordTick(playerID, delta)
	return StateView{Player: s, Ledger: l, Upgrades: Quotes(s, l, e.Catalog)}, nil
}

// Tap processes one tap for the player.
func (e Engine) Tap(ctx context.Context, playerID string) (TapResult, error) {
	var gain float64
	var delta TickDelta
	s, _, err := e.Players.Mutate(ctx, playerID, func(s *player.State, _ player.Ledger) error {
		delta = e.tick(s)
		var tapErr error
		gain, tapErr = Tap(s, e.Balance)
		return tapErr
	})
	if err != nil {
		return TapResult{Player: s}, err
	}
	e.recordTick(playerID, delta)
	e.record(telemetry.EventTapApplied, playerID, telemetry.EventMetadata{"gain": gain})
	return TapResult{Gain: gain, Player: s}, nil
}

// Buy purchases exactly one level of one upgrade.
func (e Engine) Buy(ctx context.Context, playerID, upgradeID string) (PurchaseResult, error) {
	def, ok := e.Catalog.Upgrade(upgradeID)
	if !ok {
		return PurchaseResult{}, ErrUnknownUpgrade
	}

	var receipt PurchaseReceipt
	var delta TickDelta
	s, l, err := e.Players.Mutate(ctx, playerID, func(s *player.State, l player.Ledger) error {
		delta = e.tick(s)
		var buyErr error
		receipt, buyErr = Purchase(s, l, def)
		return buyErr
	})
	if err != nil {
		return PurchaseResult{Player: s, Ledger: l}, err
	}
	e.recordTick(playerID, delta)
	e.record(telemetry.EventUpgradePurchased, playerID, telemetry.EventMetadata{
		"upgrade_id": receipt.UpgradeID,
		"new_level":  receipt.NewLevel,
		"cost":       receipt.Cost,
	})
	return PurchaseResult{Receipt: receipt, Player: s, Ledger: l}, nil
}

// Advance runs the level gate. Partially successful advancement (some
// levels gained, then blocked) is not an error; a call that gains nothing
// against a configured threshold returns RequirementsNotMetError.
func (e Engine) Advance(ctx context.Context, playerID string) (AdvanceResult, error) {
	var outcome AdvanceOutcome
	var delta TickDelta
	s, _, err := e.Players.Mutate(ctx, playerID, func(s *player.State, l player.Ledger) error {
		delta = e.tick(s)
		outcome = TryAdvance(s, l, e.Catalog, e.Balance)
		return nil
	})
	if err != nil {
		return AdvanceResult{Player: s}, err
	}
	e.recordTick(playerID, delta)

	for i, level := range outcome.LevelsGained {
		e.record(telemetry.EventLevelGained, playerID, telemetry.EventMetadata{"level": level})
		reward := outcome.Rewards[i]
		e.record(telemetry.EventRewardApplied, playerID, telemetry.EventMetadata{
			"level":                level,
			"currency_bonus":       reward.CurrencyBonus,
			"energy_cap_bonus":     reward.EnergyCapBonus,
			"yield_per_hour_bonus": reward.YieldPerHourBonus,
			"yield_per_tap_bonus":  reward.YieldPerTapBonus,
		})
		for _, unlockID := range reward.UnlockIDs {
			e.record(telemetry.EventFeatureUnlocked, playerID, telemetry.EventMetadata{
				"level":     level,
				"unlock_id": unlockID,
			})
		}
	}

	result := AdvanceResult{Outcome: outcome, Player: s}
	if len(outcome.LevelsGained) == 0 && outcome.Blocked() {
		return result, &RequirementsNotMetError{Level: outcome.BlockedLevel, Unmet: outcome.Unmet}
	}
	return result, nil
}
