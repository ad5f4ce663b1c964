package lifecycle

import (
	"errors"
	"strings"
	"testing"
)

func TestApplyTransitions(t *testing.T) {
	tests := []struct {
		name        string
		snap        Snapshot
		event       Event
		wantStatus  ReservationStatus
		wantPayment PaymentStatus
		wantChanged bool
		wantCode    Code
	}{
		{
			name:        "waiting offer opens matching",
			snap:        Snapshot{Status: StatusWaiting, Payment: PaymentPending},
			event:       EvOfferMatch,
			wantStatus:  StatusMatching,
			wantPayment: PaymentPending,
			wantChanged: true,
		},
		{
			name:     "waiting offer blocked by open offer",
			snap:     Snapshot{Status: StatusWaiting, Payment: PaymentPending, OpenOffer: true},
			event:    EvOfferMatch,
			wantCode: CodeInvalidTransition,
		},
		{
			name:        "accept schedules the reservation",
			snap:        Snapshot{Status: StatusMatching, Payment: PaymentPending, OpenOffer: true},
			event:       EvManagerAccept,
			wantStatus:  StatusScheduled,
			wantPayment: PaymentPending,
			wantChanged: true,
		},
		{
			name:        "accept on paid reservation stays matching",
			snap:        Snapshot{Status: StatusMatching, Payment: PaymentPaid, OpenOffer: true},
			event:       EvManagerAccept,
			wantStatus:  StatusMatching,
			wantPayment: PaymentPaid,
			wantChanged: true,
		},
		{
			name:     "accept after offer resolved loses the race",
			snap:     Snapshot{Status: StatusMatching, Payment: PaymentPending},
			event:    EvManagerAccept,
			wantCode: CodeDuplicateDecision,
		},
		{
			name:        "reject returns to waiting",
			snap:        Snapshot{Status: StatusMatching, Payment: PaymentPending, OpenOffer: true},
			event:       EvManagerReject,
			wantStatus:  StatusWaiting,
			wantPayment: PaymentPending,
			wantChanged: true,
		},
		{
			name:        "payment success marks paid",
			snap:        Snapshot{Status: StatusScheduled, Payment: PaymentPending},
			event:       EvPaymentSucceeded,
			wantStatus:  StatusScheduled,
			wantPayment: PaymentPaid,
			wantChanged: true,
		},
		{
			name:        "duplicate payment success is a no-op",
			snap:        Snapshot{Status: StatusScheduled, Payment: PaymentPaid},
			event:       EvPaymentSucceeded,
			wantStatus:  StatusScheduled,
			wantPayment: PaymentPaid,
			wantChanged: false,
		},
		{
			name:        "late success callback after completion is a no-op",
			snap:        Snapshot{Status: StatusDone, Payment: PaymentPaid},
			event:       EvPaymentSucceeded,
			wantStatus:  StatusDone,
			wantPayment: PaymentPaid,
			wantChanged: false,
		},
		{
			name:        "payment failure leaves pending",
			snap:        Snapshot{Status: StatusScheduled, Payment: PaymentPending},
			event:       EvPaymentFailed,
			wantStatus:  StatusScheduled,
			wantPayment: PaymentPending,
			wantChanged: false,
		},
		{
			name:     "check-in requires payment",
			snap:     Snapshot{Status: StatusScheduled, Payment: PaymentPending, Accepted: true},
			event:    EvCheckIn,
			wantCode: CodeInvalidTransition,
		},
		{
			name:        "check-in on paid reservation",
			snap:        Snapshot{Status: StatusScheduled, Payment: PaymentPaid, Accepted: true},
			event:       EvCheckIn,
			wantStatus:  StatusScheduled,
			wantPayment: PaymentPaid,
			wantChanged: true,
		},
		{
			name:     "second check-in rejected",
			snap:     Snapshot{Status: StatusScheduled, Payment: PaymentPaid, CheckedIn: true},
			event:    EvCheckIn,
			wantCode: CodeInvalidTransition,
		},
		{
			name:     "check-out without check-in rejected",
			snap:     Snapshot{Status: StatusScheduled, Payment: PaymentPaid},
			event:    EvCheckOut,
			wantCode: CodeInvalidTransition,
		},
		{
			name:        "check-out completes the reservation",
			snap:        Snapshot{Status: StatusScheduled, Payment: PaymentPaid, CheckedIn: true},
			event:       EvCheckOut,
			wantStatus:  StatusDone,
			wantPayment: PaymentPaid,
			wantChanged: true,
		},
		{
			name:        "cancel before payment is immediate",
			snap:        Snapshot{Status: StatusWaiting, Payment: PaymentPending},
			event:       EvCustomerCancel,
			wantStatus:  StatusCancel,
			wantPayment: PaymentPending,
			wantChanged: true,
		},
		{
			name:        "cancel after payment waits for the refund",
			snap:        Snapshot{Status: StatusScheduled, Payment: PaymentPaid},
			event:       EvCustomerCancel,
			wantStatus:  StatusScheduled,
			wantPayment: PaymentPaid,
			wantChanged: false,
		},
		{
			name:     "cancel twice is already cancelled",
			snap:     Snapshot{Status: StatusCancel, Payment: PaymentPending},
			event:    EvCustomerCancel,
			wantCode: CodeAlreadyCancelled,
		},
		{
			name:        "refund resolution cancels and refunds",
			snap:        Snapshot{Status: StatusScheduled, Payment: PaymentPaid},
			event:       EvRefundResolved,
			wantStatus:  StatusCancel,
			wantPayment: PaymentRefunded,
			wantChanged: true,
		},
		{
			name:     "check-in from waiting is illegal",
			snap:     Snapshot{Status: StatusWaiting, Payment: PaymentPending},
			event:    EvCheckIn,
			wantCode: CodeInvalidTransition,
		},
		{
			name:     "accept from done is illegal",
			snap:     Snapshot{Status: StatusDone, Payment: PaymentPaid},
			event:    EvManagerAccept,
			wantCode: CodeInvalidTransition,
		},
	}

	m := NewMachine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := m.Apply(tt.snap, tt.event)

			if tt.wantCode != "" {
				if err == nil {
					t.Fatalf("Apply() expected error code %s, got outcome %+v", tt.wantCode, outcome)
				}
				if got := CodeOf(err); got != tt.wantCode {
					t.Errorf("Apply() error code = %s, want %s", got, tt.wantCode)
				}
				return
			}

			if err != nil {
				t.Fatalf("Apply() unexpected error: %v", err)
			}
			if outcome.Status != tt.wantStatus {
				t.Errorf("Apply() status = %s, want %s", outcome.Status, tt.wantStatus)
			}
			if outcome.Payment != tt.wantPayment {
				t.Errorf("Apply() payment = %s, want %s", outcome.Payment, tt.wantPayment)
			}
			if outcome.Changed != tt.wantChanged {
				t.Errorf("Apply() changed = %v, want %v", outcome.Changed, tt.wantChanged)
			}
		})
	}
}

func TestApplySystemError(t *testing.T) {
	m := NewMachine()

	for _, from := range []ReservationStatus{StatusWaiting, StatusMatching, StatusScheduled} {
		outcome, err := m.Apply(Snapshot{Status: from, Payment: PaymentPending}, EvSystemError)
		if err != nil {
			t.Fatalf("Apply(%s, system error) unexpected error: %v", from, err)
		}
		if outcome.Status != StatusError {
			t.Errorf("Apply(%s, system error) status = %s, want %s", from, outcome.Status, StatusError)
		}
	}

	for _, from := range []ReservationStatus{StatusDone, StatusCancel, StatusError} {
		_, err := m.Apply(Snapshot{Status: from}, EvSystemError)
		if CodeOf(err) != CodeInvalidTransition {
			t.Errorf("Apply(%s, system error) = %v, want invalid transition", from, err)
		}
	}
}

func TestApplyReportsActualState(t *testing.T) {
	m := NewMachine()

	// A success callback arriving while unpaid in MATCHING or DONE must name
	// the state it was rejected in, not the state it should have been in.
	for _, from := range []ReservationStatus{StatusMatching, StatusDone} {
		_, err := m.Apply(Snapshot{Status: from, Payment: PaymentPending}, EvPaymentSucceeded)
		if CodeOf(err) != CodeInvalidTransition {
			t.Fatalf("Apply(%s, payment succeeded) = %v, want invalid transition", from, err)
		}
		if !strings.Contains(err.Error(), string(from)) {
			t.Errorf("Apply(%s, payment succeeded) error %q does not name the state", from, err)
		}
	}
}

func TestErrorMatchingByCode(t *testing.T) {
	err := NewDuplicateDecision("race lost")
	if !errors.Is(err, NewDuplicateDecision("other detail")) {
		t.Error("errors.Is should match lifecycle errors by code")
	}
	if errors.Is(err, NewAlreadyCancelled()) {
		t.Error("errors.Is should not match across codes")
	}
}

func TestAllowedEvents(t *testing.T) {
	m := NewMachine()

	evs := m.AllowedEvents(Snapshot{Status: StatusScheduled, Payment: PaymentPaid, CheckedIn: true})
	want := map[Event]bool{EvCheckOut: true, EvCustomerCancel: true, EvRefundResolved: true, EvPaymentSucceeded: true, EvPaymentFailed: true, EvSystemError: true}
	for _, ev := range evs {
		if !want[ev] {
			t.Errorf("AllowedEvents() unexpected event %s", ev)
		}
	}

	for _, ev := range m.AllowedEvents(Snapshot{Status: StatusDone, Payment: PaymentPaid}) {
		if ev == EvSystemError {
			t.Error("AllowedEvents() terminal state must not offer system error")
		}
	}
}
