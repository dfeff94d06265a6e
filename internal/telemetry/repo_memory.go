package telemetry

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository stores events in memory (dev/test use).
type MemoryRepository struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{events: make([]Event, 0)}
}

func (r *MemoryRepository) RecordEvent(eventType EventType, playerID string, metadata EventMetadata) (Event, error) {
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return Event{}, err
	}

	e := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		PlayerID:  playerID,
		Timestamp: time.Now(),
		Metadata:  string(metadataJSON),
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return e, nil
}

func (r *MemoryRepository) GetEvents(since time.Time, eventTypes []EventType) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Event
	for _, e := range r.events {
		if e.Timestamp.Before(since) {
			continue
		}
		if len(eventTypes) > 0 && !containsType(eventTypes, e.Type) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *MemoryRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = r.events[:0]
	return nil
}

func containsType(types []EventType, t EventType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}
