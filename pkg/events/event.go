package events

import (
	"time"

	"github.com/google/uuid"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "USER_LOGIN").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Reservation lifecycle event codes pushed over the bus. Clients subscribe
// to these instead of polling the status endpoint.
const (
	TypeReservationStatusChanged = "RESERVATION_STATUS_CHANGED"
	TypeRefundRequested          = "REFUND_REQUESTED"
	TypePaymentConfirmed         = "PAYMENT_CONFIRMED"
)

func NewReservationStatusChanged(reservationId uuid.UUID, status, paymentStatus string) Event {
	return BaseEvent{
		Type: TypeReservationStatusChanged,
		Data: map[string]interface{}{
			"reservation_id": reservationId.String(),
			"status":         status,
			"payment_status": paymentStatus,
		},
		OccurredAt: time.Now(),
	}
}

func NewRefundRequested(refundId, reservationId uuid.UUID, amount int64, reason string) Event {
	return BaseEvent{
		Type: TypeRefundRequested,
		Data: map[string]interface{}{
			"refund_id":      refundId.String(),
			"reservation_id": reservationId.String(),
			"amount":         amount,
			"reason":         reason,
		},
		OccurredAt: time.Now(),
	}
}

func NewPaymentConfirmed(reservationId, paymentId uuid.UUID, amount int64) Event {
	return BaseEvent{
		Type: TypePaymentConfirmed,
		Data: map[string]interface{}{
			"reservation_id": reservationId.String(),
			"payment_id":     paymentId.String(),
			"amount":         amount,
		},
		OccurredAt: time.Now(),
	}
}
