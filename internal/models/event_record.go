package models

import "time"

// EventRecord is an exported lifecycle event as stored by the event repository.
type EventRecord struct {
	RunID      string
	Topic      string
	EventType  string
	OccurredAt time.Time
	Payload    []byte // raw JSON message
}
