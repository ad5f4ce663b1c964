package entity

import (
	"time"

	"homeclean-be/pkg/lifecycle"

	"github.com/google/uuid"
)

// Reservation is the booking record tying a customer, service category,
// schedule and (once matched) an assigned manager. It is mutated only
// through the lifecycle service's single-writer path.
type Reservation struct {
	Id         uuid.UUID
	Number     string // human-readable, immutable after creation
	CustomerId uuid.UUID
	CategoryId uuid.UUID
	AddressId  uuid.UUID

	ScheduledAt   time.Time
	DurationHours int
	Memo          string
	Amount        int64 // computed total, KRW

	Status        lifecycle.ReservationStatus
	PaymentStatus lifecycle.PaymentStatus

	// Set from the accepted matching; nil while unassigned.
	ManagerId *uuid.UUID

	CancelReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}
