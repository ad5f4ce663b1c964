package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefundStatus represents the status of a refund request
type RefundStatus string

const (
	RefundStatusRequested RefundStatus = "REQUESTED"
	RefundStatusCompleted RefundStatus = "COMPLETED"
	RefundStatusRejected  RefundStatus = "REJECTED"
)

// Refund is created only when a cancellation is requested against a PAID
// reservation. At most one refund exists per reservation; retried
// cancellation requests return the existing one.
type Refund struct {
	Id            uuid.UUID
	PaymentId     uuid.UUID
	ReservationId uuid.UUID
	Amount        int64
	Reason        string
	Status        RefundStatus
	OperatorNotes string
	ProcessedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Open reports whether the refund is still awaiting resolution.
func (r *Refund) Open() bool {
	return r.Status == RefundStatusRequested
}
