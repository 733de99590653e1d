package domain

import (
	"encoding/json"
	"time"
)

const (
	EventBeerCreated = "CREATED"
	EventBeerUpdated = "UPDATED"
	EventBeerPatched = "PATCHED"
	EventBeerDeleted = "DELETED"
)

const TopicBeerAudit = "beer.audit"

// Envelope wraps an audit event on the wire. Payload is the beer snapshot
// taken at mutation time.
type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	Principal    string          `json:"principal,omitempty"`
	Payload      json.RawMessage `json:"payload"`
}

// Partition key = beer id, so audit events for one beer keep their order.
func PartitionKey(beerID string) []byte { return []byte(beerID) }
