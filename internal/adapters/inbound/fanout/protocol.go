package fanout

import (
	"encoding/json"
	"fmt"
	"time"
)

// Envelope is the wire format for events pushed over the dashboard
// WebSocket.
type Envelope struct {
	Type      string          `json:"type"`
	League    string          `json:"league,omitempty"`
	Timestamp time.Time       `json:"ts"`
	Payload   json.RawMessage `json:"payload"`
}

func marshalEnvelope(eventType, lg string, at time.Time, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return json.Marshal(Envelope{
		Type:      eventType,
		League:    lg,
		Timestamp: at.UTC(),
		Payload:   raw,
	})
}
