package entity

import (
	"time"

	"homeclean-be/pkg/lifecycle"

	"github.com/google/uuid"
)

// Payment records the money side of a reservation. It moves
// PENDING→PAID exactly once via a successful gateway callback and
// PAID→REFUNDED exactly once via a resolved refund; nothing else.
type Payment struct {
	Id            uuid.UUID
	ReservationId uuid.UUID
	Amount        int64
	Method        string
	Status        lifecycle.PaymentStatus
	RequestedAt   time.Time
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
