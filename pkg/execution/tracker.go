package execution

import (
	"fmt"
	"time"

	"homeclean-be/internal/entity"
	"homeclean-be/pkg/lifecycle"
)

// Tracker validates and records service delivery timestamps. It is a
// guard-data provider for the lifecycle machine, not a state machine of its
// own: two timestamps and a comment.
type Tracker struct {
	// CheckinTolerance bounds how early and how late a check-in may happen
	// relative to the scheduled time. Check-ins outside the window are
	// rejected; widen the window via config rather than dropping the check.
	CheckinTolerance time.Duration
}

const DefaultCheckinTolerance = 30 * time.Minute

func NewTracker(tolerance time.Duration) *Tracker {
	if tolerance <= 0 {
		tolerance = DefaultCheckinTolerance
	}
	return &Tracker{CheckinTolerance: tolerance}
}

// CheckIn stamps the check-in time. at must fall within the tolerance
// window around scheduledAt and the record must not already be checked in.
func (t *Tracker) CheckIn(rec *entity.ServiceRecord, scheduledAt, at time.Time) error {
	if rec.CheckedIn() {
		return lifecycle.NewInvalidTransition(lifecycle.StatusScheduled, lifecycle.EvCheckIn)
	}
	earliest := scheduledAt.Add(-t.CheckinTolerance)
	latest := scheduledAt.Add(t.CheckinTolerance)
	if at.Before(earliest) || at.After(latest) {
		return &lifecycle.Error{
			Code: lifecycle.CodeInvalidTransition,
			Message: fmt.Sprintf("check-in at %s is outside the allowed window (%s ~ %s)",
				at.Format(time.RFC3339), earliest.Format(time.RFC3339), latest.Format(time.RFC3339)),
		}
	}
	rec.CheckinAt = &at
	return nil
}

// CheckOut stamps the check-out time and stores the manager's completion
// comment. Requires a prior check-in and a checkout after it.
func (t *Tracker) CheckOut(rec *entity.ServiceRecord, at time.Time, comment string) error {
	if !rec.CheckedIn() {
		return lifecycle.NewInvalidTransition(lifecycle.StatusScheduled, lifecycle.EvCheckOut)
	}
	if rec.CheckedOut() {
		return lifecycle.NewInvalidTransition(lifecycle.StatusScheduled, lifecycle.EvCheckOut)
	}
	if !at.After(*rec.CheckinAt) {
		return &lifecycle.Error{
			Code:    lifecycle.CodeInvalidTransition,
			Message: "check-out must be after check-in",
		}
	}
	rec.CheckoutAt = &at
	rec.Comment = comment
	return nil
}

// ReservationComment is the read-only projection consumed by detail views.
type ReservationComment struct {
	ReservationId string     `json:"reservation_id"`
	CheckinAt     *time.Time `json:"checkin_at"`
	CheckoutAt    *time.Time `json:"checkout_at"`
	Comment       string     `json:"comment"`
}

// Comment projects rec for display.
func (t *Tracker) Comment(rec *entity.ServiceRecord) ReservationComment {
	return ReservationComment{
		ReservationId: rec.ReservationId.String(),
		CheckinAt:     rec.CheckinAt,
		CheckoutAt:    rec.CheckoutAt,
		Comment:       rec.Comment,
	}
}
