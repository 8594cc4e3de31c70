package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	EventSync   = "sync"
	EventDelete = "delete"
)

// TransactionEvent is the lightweight queue message for the export
// pipeline. It carries only the event kind and the transaction id; the
// worker fetches current row data from the store, so a stale message can
// never overwrite a newer write.
type TransactionEvent struct {
	Event     string    `json:"event"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSyncEvent builds a created/updated notification.
func NewSyncEvent(id string) *TransactionEvent {
	return &TransactionEvent{Event: EventSync, ID: id, Timestamp: time.Now()}
}

// NewDeleteEvent builds a deletion notification.
func NewDeleteEvent(id string) *TransactionEvent {
	return &TransactionEvent{Event: EventDelete, ID: id, Timestamp: time.Now()}
}

// ToJSON converts the event to JSON bytes.
func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON parses and validates a queue message.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if e.Event != EventSync && e.Event != EventDelete {
		return nil, fmt.Errorf("unknown event %q", e.Event)
	}
	if e.ID == "" {
		return nil, fmt.Errorf("event without transaction id")
	}
	return &e, nil
}
