package entity

import (
	"time"

	"github.com/google/uuid"
)

// ServiceRecord brackets actual service delivery with manager-recorded
// check-in/check-out timestamps. Created empty when a matching is accepted;
// finalized at check-out, which gates the DONE transition and review
// eligibility.
type ServiceRecord struct {
	Id            uuid.UUID
	ReservationId uuid.UUID
	CheckinAt     *time.Time
	CheckoutAt    *time.Time
	Comment       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (r *ServiceRecord) CheckedIn() bool  { return r != nil && r.CheckinAt != nil }
func (r *ServiceRecord) CheckedOut() bool { return r != nil && r.CheckoutAt != nil }
