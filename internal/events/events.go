// Package events carries cache-invalidation notifications between console
// replicas. When one replica mutates an alias or drops its snapshot cache,
// every other replica must follow, so events are broadcast: each replica
// consumes the full stream.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Subjects for the invalidation event stream
const (
	SubjectAliasChanged       = "console.invalidate.alias"
	SubjectSnapshotInvalidate = "console.invalidate.snapshot"
	SubjectClearAll           = "console.invalidate.all"
)

// Type identifies the kind of invalidation
type Type string

const (
	TypeAliasChanged       Type = "alias_changed"
	TypeSnapshotInvalidate Type = "snapshot_invalidate"
	TypeClearAll           Type = "clear_all"
)

// Event is one invalidation notification
type Event struct {
	ID     string    `json:"id"`
	Type   Type      `json:"type"`
	Name   string    `json:"name,omitempty"`   // alias name, for alias_changed
	Prefix string    `json:"prefix,omitempty"` // snapshot key prefix, for snapshot_invalidate
	At     time.Time `json:"at"`
}

// AliasChanged signals that an alias was created, replaced, or deleted
func AliasChanged(name string) Event {
	return newEvent(TypeAliasChanged, name, "")
}

// SnapshotInvalidate signals that cached snapshots under prefix are stale.
// An empty prefix dirties the whole cache.
func SnapshotInvalidate(prefix string) Event {
	return newEvent(TypeSnapshotInvalidate, "", prefix)
}

// ClearAll signals a full cache flush on every replica
func ClearAll() Event {
	return newEvent(TypeClearAll, "", "")
}

func newEvent(t Type, name, prefix string) Event {
	return Event{
		ID:     uuid.New().String(),
		Type:   t,
		Name:   name,
		Prefix: prefix,
		At:     time.Now().UTC(),
	}
}

// Subject returns the bus subject this event travels on
func (e Event) Subject() string {
	switch e.Type {
	case TypeAliasChanged:
		return SubjectAliasChanged
	case TypeSnapshotInvalidate:
		return SubjectSnapshotInvalidate
	default:
		return SubjectClearAll
	}
}

// Encode serializes the event for the wire
func (e Event) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event: %w", err)
	}
	return data, nil
}

// Decode deserializes a wire payload into an event
func Decode(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("failed to decode event: %w", err)
	}
	if e.Type == "" {
		return Event{}, fmt.Errorf("event has no type")
	}
	return e, nil
}
