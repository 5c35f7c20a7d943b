package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const Source = "shareit-booking"

// Booking lifecycle event types.
const (
	BookingCreated  = "booking.created"
	BookingApproved = "booking.approved"
	BookingRejected = "booking.rejected"
)

// BookingEvent is the payload of every booking lifecycle event.
type BookingEvent struct {
	BookingID  int64     `json:"booking_id"`
	ItemID     int64     `json:"item_id"`
	BookerID   int64     `json:"booker_id"`
	OwnerID    int64     `json:"owner_id"`
	Status     string    `json:"status"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Envelope wraps an event payload with routing metadata.
type Envelope struct {
	ID     string          `json:"id"`
	Source string          `json:"source"`
	Type   string          `json:"type"`
	Time   time.Time       `json:"time"`
	Data   json.RawMessage `json:"data"`
}

// NewEnvelope marshals data into a new envelope of the given type.
func NewEnvelope(eventType string, data any) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	return Envelope{
		ID:     uuid.NewString(),
		Source: Source,
		Type:   eventType,
		Time:   time.Now().UTC(),
		Data:   raw,
	}, nil
}

// ParseData decodes the payload into v.
func (e Envelope) ParseData(v any) error {
	return json.Unmarshal(e.Data, v)
}
