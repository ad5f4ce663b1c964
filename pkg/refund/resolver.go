package refund

import (
	"time"

	"homeclean-be/internal/entity"
	"homeclean-be/pkg/lifecycle"

	"github.com/google/uuid"
)

// Action is what a cancellation request requires given the payment state.
type Action int

const (
	// ActionCancelNow ends the reservation immediately; nothing was paid.
	ActionCancelNow Action = iota
	// ActionRequestRefund opens a refund workflow; the reservation stays in
	// its current state until the refund resolves.
	ActionRequestRefund
	// ActionNone means the cancellation is already complete (idempotent retry).
	ActionNone
)

// Resolution carries the action plus the refund record involved, either the
// newly created request or the pre-existing one a retry landed on.
type Resolution struct {
	Action Action
	Refund *entity.Refund
}

// Resolver decides, for a cancellation request, whether a refund workflow is
// needed or a plain state rollback suffices. All methods are pure over the
// passed-in records; persistence is the caller's job.
type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve maps (reservation state, payment state, existing refund) to an
// action. Submitting the same cancellation twice never yields a second
// refund record: an open refund is simply returned again.
func (r *Resolver) Resolve(res *entity.Reservation, payment *entity.Payment, existing *entity.Refund, reason string, now time.Time) (Resolution, error) {
	if res.Status == lifecycle.StatusCancel {
		return Resolution{Action: ActionNone, Refund: existing}, lifecycle.NewAlreadyCancelled()
	}

	switch res.PaymentStatus {
	case lifecycle.PaymentPending:
		return Resolution{Action: ActionCancelNow}, nil

	case lifecycle.PaymentPaid:
		if existing != nil && existing.Open() {
			return Resolution{Action: ActionRequestRefund, Refund: existing}, nil
		}
		if payment == nil {
			return Resolution{}, lifecycle.NewSystemError("reservation marked PAID but no payment record exists")
		}
		req := &entity.Refund{
			Id:            uuid.New(),
			PaymentId:     payment.Id,
			ReservationId: res.Id,
			Amount:        payment.Amount,
			Reason:        reason,
			Status:        entity.RefundStatusRequested,
			CreatedAt:     now,
		}
		return Resolution{Action: ActionRequestRefund, Refund: req}, nil

	case lifecycle.PaymentRefunded:
		// Refund already went through; the reservation should be CANCEL by
		// now, but either way there is nothing left to do.
		return Resolution{Action: ActionNone, Refund: existing}, lifecycle.NewAlreadyCancelled()
	}

	return Resolution{}, lifecycle.NewSystemError("unknown payment status " + string(res.PaymentStatus))
}

// Complete marks an open refund COMPLETED and returns the reservation state
// to persist: CANCEL / REFUNDED.
func (r *Resolver) Complete(ref *entity.Refund, notes string, now time.Time) (lifecycle.ReservationStatus, lifecycle.PaymentStatus, error) {
	if !ref.Open() {
		return "", "", lifecycle.NewDuplicateDecision("refund is already resolved")
	}
	ref.Status = entity.RefundStatusCompleted
	ref.OperatorNotes = notes
	ref.ProcessedAt = &now
	return lifecycle.StatusCancel, lifecycle.PaymentRefunded, nil
}

// Reject marks an open refund REJECTED. The cancellation did not take
// effect: the caller keeps the reservation in its prior state and surfaces
// RefundRejected explicitly.
func (r *Resolver) Reject(ref *entity.Refund, notes string, now time.Time) error {
	if !ref.Open() {
		return lifecycle.NewDuplicateDecision("refund is already resolved")
	}
	ref.Status = entity.RefundStatusRejected
	ref.OperatorNotes = notes
	ref.ProcessedAt = &now
	return lifecycle.NewRefundRejected(notes)
}
