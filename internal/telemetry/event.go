package telemetry

import "time"

type EventType string

const (
	EventTickApplied      EventType = "tick_applied"
	EventTapApplied       EventType = "tap_applied"
	EventUpgradePurchased EventType = "upgrade_purchased"
	EventLevelGained      EventType = "level_gained"
	EventRewardApplied    EventType = "reward_applied"
	EventFeatureUnlocked  EventType = "feature_unlocked"
)

type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	PlayerID  string    `json:"player_id"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}

// Recorder is the write side the engine talks to. The stored event is
// returned so fan-out sinks can forward the same identity they persisted.
type Recorder interface {
	RecordEvent(eventType EventType, playerID string, metadata EventMetadata) (Event, error)
}

// Repository stores and queries engine events.
type Repository interface {
	Recorder
	GetEvents(since time.Time, eventTypes []EventType) ([]Event, error)
	Clear() error
}
