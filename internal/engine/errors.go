package engine

import (
	"errors"
	"fmt"

	"tapforge/internal/catalog"
)

// Expected, recoverable outcomes of engine operations. The HTTP layer maps
// these to structured responses; none of them is process-fatal.
var (
	ErrInsufficientEnergy = errors.New("insufficient energy")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrMaxLevelReached    = errors.New("max level reached")
	ErrNotUnlocked        = errors.New("upgrade not unlocked")
	ErrUnknownUpgrade     = errors.New("unknown upgrade")
)

// UnmetRequirement explains one failed condition of a blocking level.
// FailingUpgradeIDs is populated for the all-of branch so the client can
// name the exact upgrades holding the player back.
type UnmetRequirement struct {
	Requirement       catalog.UpgradeRequirement `json:"requirement"`
	FailingUpgradeIDs []string                   `json:"failingUpgradeIds,omitempty"`
}

// RequirementsNotMetError reports the first blocking level and its unmet
// requirements, in a structured form the presentation layer renders as-is.
type RequirementsNotMetError struct {
	Level int                `json:"level"`
	Unmet []UnmetRequirement `json:"unmet"`
}

func (e *RequirementsNotMetError) Error() string {
	return fmt.Sprintf("requirements not met for level %d (%d unmet)", e.Level, len(e.Unmet))
}
