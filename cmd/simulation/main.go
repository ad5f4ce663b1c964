// Offline lifecycle walkthrough. Runs the state machine, coordinator,
// resolver and tracker against in-memory records and prints each transition,
// so reviewers can watch the flows without a database or gateway.
package main

import (
	"errors"
	"fmt"
	"time"

	"homeclean-be/internal/entity"
	"homeclean-be/pkg/execution"
	"homeclean-be/pkg/lifecycle"
	"homeclean-be/pkg/matching"
	"homeclean-be/pkg/refund"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

var (
	header = color.New(color.FgCyan, color.Bold)
	ok     = color.New(color.FgGreen)
	warn   = color.New(color.FgYellow)
	fail   = color.New(color.FgRed)
)

func main() {
	happyPath()
	rejectionRequeue()
	cancelWithRefund()
	duplicateCallback()
}

func step(res *entity.Reservation, ev lifecycle.Event, snap lifecycle.Snapshot) {
	m := lifecycle.NewMachine()
	outcome, err := m.Apply(snap, ev)
	if err != nil {
		fail.Printf("  %s: %v\n", ev, err)
		return
	}
	if !outcome.Changed {
		warn.Printf("  %s: no-op (%s / %s)\n", ev, outcome.Status, outcome.Payment)
		return
	}
	res.Status = outcome.Status
	res.PaymentStatus = outcome.Payment
	ok.Printf("  %s: -> %s / %s\n", ev, res.Status, res.PaymentStatus)
}

func newReservation() *entity.Reservation {
	return &entity.Reservation{
		Id:            uuid.New(),
		CustomerId:    uuid.New(),
		ScheduledAt:   time.Now().Add(48 * time.Hour),
		DurationHours: 4,
		Amount:        60000,
		Status:        lifecycle.StatusWaiting,
		PaymentStatus: lifecycle.PaymentPending,
	}
}

func happyPath() {
	header.Println("\n=== Happy path: offer, accept, pay, check-in, check-out ===")
	res := newReservation()
	coord := matching.NewCoordinator(nil)
	now := time.Now()

	queue := &entity.MatchingQueue{
		ReservationId: res.Id,
		Candidates:    []uuid.UUID{uuid.New(), uuid.New()},
	}

	offer, err := coord.NextOffer(queue, nil, now)
	if err != nil {
		fail.Printf("  offer: %v\n", err)
		return
	}
	ok.Printf("  offered to manager %s\n", offer.ManagerId)
	step(res, lifecycle.EvOfferMatch, lifecycle.Snapshot{Status: res.Status, Payment: res.PaymentStatus})

	if err := coord.Accept(offer, now); err != nil {
		fail.Printf("  accept: %v\n", err)
		return
	}
	step(res, lifecycle.EvManagerAccept, lifecycle.Snapshot{Status: res.Status, Payment: res.PaymentStatus, OpenOffer: true})

	step(res, lifecycle.EvPaymentSucceeded, lifecycle.Snapshot{Status: res.Status, Payment: res.PaymentStatus})

	tracker := execution.NewTracker(execution.DefaultCheckinTolerance)
	rec := &entity.ServiceRecord{Id: uuid.New(), ReservationId: res.Id}

	checkin := res.ScheduledAt.Add(5 * time.Minute)
	if err := tracker.CheckIn(rec, res.ScheduledAt, checkin); err != nil {
		fail.Printf("  checkin: %v\n", err)
		return
	}
	step(res, lifecycle.EvCheckIn, lifecycle.Snapshot{Status: res.Status, Payment: res.PaymentStatus, Accepted: true})

	if err := tracker.CheckOut(rec, checkin.Add(4*time.Hour), "완료"); err != nil {
		fail.Printf("  checkout: %v\n", err)
		return
	}
	step(res, lifecycle.EvCheckOut, lifecycle.Snapshot{Status: res.Status, Payment: res.PaymentStatus, Accepted: true, CheckedIn: true})
}

func rejectionRequeue() {
	header.Println("\n=== Rejection: requeue until candidates run out ===")
	res := newReservation()
	coord := matching.NewCoordinator(nil)
	now := time.Now()

	queue := &entity.MatchingQueue{
		ReservationId: res.Id,
		Candidates:    []uuid.UUID{uuid.New(), uuid.New()},
	}

	for {
		offer, err := coord.NextOffer(queue, nil, now)
		if err != nil {
			if errors.Is(err, matching.ErrCandidatesExhausted) {
				warn.Printf("  %v — reservation stays %s\n", err, res.Status)
				return
			}
			fail.Printf("  offer: %v\n", err)
			return
		}
		ok.Printf("  offered to manager %s\n", offer.ManagerId)
		if err := coord.Reject(offer, "일정 불가", now); err != nil {
			fail.Printf("  reject: %v\n", err)
			return
		}
		warn.Printf("  rejected: %s\n", offer.RejectReason)
	}
}

func cancelWithRefund() {
	header.Println("\n=== Cancel after payment: refund flow ===")
	res := newReservation()
	res.Status = lifecycle.StatusScheduled
	res.PaymentStatus = lifecycle.PaymentPaid

	payment := &entity.Payment{
		Id:            uuid.New(),
		ReservationId: res.Id,
		Amount:        res.Amount,
		Status:        lifecycle.PaymentPaid,
	}

	resolver := refund.NewResolver()
	now := time.Now()

	resolution, err := resolver.Resolve(res, payment, nil, "단순 변심", now)
	if err != nil {
		fail.Printf("  resolve: %v\n", err)
		return
	}
	if resolution.Action != refund.ActionRequestRefund {
		fail.Printf("  unexpected action %v\n", resolution.Action)
		return
	}
	ok.Printf("  refund requested: %d KRW (%s)\n", resolution.Refund.Amount, resolution.Refund.Status)

	// Reservation is untouched until the operator's verdict.
	warn.Printf("  reservation unchanged: %s / %s\n", res.Status, res.PaymentStatus)

	newStatus, newPayment, err := resolver.Complete(resolution.Refund, "환불 완료", now)
	if err != nil {
		fail.Printf("  complete: %v\n", err)
		return
	}
	res.Status = newStatus
	res.PaymentStatus = newPayment
	ok.Printf("  refund completed: -> %s / %s\n", res.Status, res.PaymentStatus)

	// A second cancel is an idempotent no-op.
	_, err = resolver.Resolve(res, payment, resolution.Refund, "다시 취소", now)
	if lifecycle.CodeOf(err) == lifecycle.CodeAlreadyCancelled {
		warn.Printf("  second cancel: %v\n", err)
	}
}

func duplicateCallback() {
	header.Println("\n=== Duplicate payment callback: second one is a no-op ===")
	res := newReservation()
	res.Status = lifecycle.StatusScheduled

	step(res, lifecycle.EvPaymentSucceeded, lifecycle.Snapshot{Status: res.Status, Payment: res.PaymentStatus})
	step(res, lifecycle.EvPaymentSucceeded, lifecycle.Snapshot{Status: res.Status, Payment: res.PaymentStatus})

	fmt.Println()
}
