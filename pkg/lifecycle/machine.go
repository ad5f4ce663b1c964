package lifecycle

// Snapshot is the slice of reservation state the machine needs to decide
// legality. The caller owns loading it inside the per-reservation lock;
// the machine itself never touches storage.
type Snapshot struct {
	Status     ReservationStatus
	Payment    PaymentStatus
	OpenOffer  bool // an undecided matching exists
	Accepted   bool // an accepted matching exists
	CheckedIn  bool
	CheckedOut bool
}

// Outcome is the state the reservation must be persisted with after an
// accepted event. Changed=false marks an idempotent no-op (e.g. a duplicate
// payment-success callback): nothing to write, nothing to report as failure.
type Outcome struct {
	Status  ReservationStatus
	Payment PaymentStatus
	Changed bool
}

// Transition is one allowed edge in the lifecycle state machine.
type Transition struct {
	From  ReservationStatus
	Event Event
	Guard func(Snapshot) error
	Next  func(Snapshot) Outcome
}

func unchanged(s Snapshot) Outcome {
	return Outcome{Status: s.Status, Payment: s.Payment, Changed: false}
}

func to(status ReservationStatus, payment PaymentStatus) Outcome {
	return Outcome{Status: status, Payment: payment, Changed: true}
}

var transitions = []Transition{
	// Matching path
	{
		From: StatusWaiting, Event: EvOfferMatch,
		Guard: func(s Snapshot) error {
			if s.OpenOffer {
				return newError(CodeInvalidTransition, "an undecided matching offer is already open")
			}
			return nil
		},
		Next: func(s Snapshot) Outcome { return to(StatusMatching, s.Payment) },
	},
	{
		From: StatusMatching, Event: EvManagerAccept,
		Guard: requireOpenOffer,
		Next: func(s Snapshot) Outcome {
			// A paid reservation being re-matched after a cancelled cycle
			// keeps MATCHING; the normal path moves to SCHEDULED awaiting payment.
			if s.Payment == PaymentPaid {
				return to(StatusMatching, s.Payment)
			}
			return to(StatusScheduled, s.Payment)
		},
	},
	{
		From: StatusMatching, Event: EvManagerReject,
		Guard: requireOpenOffer,
		Next:  func(s Snapshot) Outcome { return to(StatusWaiting, s.Payment) },
	},

	// Payment path. Amount validation happens before Apply; the machine
	// only sees the status axes.
	{
		From: StatusScheduled, Event: EvPaymentSucceeded,
		Next: func(s Snapshot) Outcome {
			if s.Payment == PaymentPaid {
				return unchanged(s) // duplicate gateway callback
			}
			return to(StatusScheduled, PaymentPaid)
		},
	},
	{From: StatusDone, Event: EvPaymentSucceeded, Guard: requirePaid, Next: unchanged},
	{From: StatusMatching, Event: EvPaymentSucceeded, Guard: requirePaid, Next: unchanged},

	{From: StatusWaiting, Event: EvPaymentFailed, Next: unchanged},
	{From: StatusMatching, Event: EvPaymentFailed, Next: unchanged},
	{From: StatusScheduled, Event: EvPaymentFailed, Next: unchanged},

	// Service execution
	{
		From: StatusScheduled, Event: EvCheckIn,
		Guard: func(s Snapshot) error {
			if s.Payment != PaymentPaid {
				return newError(CodeInvalidTransition, "check-in requires a paid reservation")
			}
			if s.CheckedIn {
				return newError(CodeInvalidTransition, "already checked in")
			}
			return nil
		},
		Next: func(s Snapshot) Outcome { return to(StatusScheduled, s.Payment) },
	},
	{
		From: StatusScheduled, Event: EvCheckOut,
		Guard: func(s Snapshot) error {
			if !s.CheckedIn {
				return newError(CodeInvalidTransition, "check-out requires a prior check-in")
			}
			if s.CheckedOut {
				return newError(CodeInvalidTransition, "already checked out")
			}
			return nil
		},
		Next: func(s Snapshot) Outcome { return to(StatusDone, s.Payment) },
	},

	// Cancellation. The status move for a PAID reservation is deferred until
	// the refund resolves; the refund resolver owns that decision table.
	{From: StatusWaiting, Event: EvCustomerCancel, Next: cancelNext},
	{From: StatusMatching, Event: EvCustomerCancel, Next: cancelNext},
	{From: StatusScheduled, Event: EvCustomerCancel, Next: cancelNext},
	{
		From: StatusCancel, Event: EvCustomerCancel,
		Guard: func(Snapshot) error { return NewAlreadyCancelled() },
	},

	{From: StatusWaiting, Event: EvRefundResolved, Next: refundNext},
	{From: StatusMatching, Event: EvRefundResolved, Next: refundNext},
	{From: StatusScheduled, Event: EvRefundResolved, Next: refundNext},
}

func requireOpenOffer(s Snapshot) error {
	if !s.OpenOffer {
		return NewDuplicateDecision("matching offer is already resolved")
	}
	return nil
}

func requirePaid(s Snapshot) error {
	if s.Payment != PaymentPaid {
		return NewInvalidTransition(s.Status, EvPaymentSucceeded)
	}
	return nil
}

func cancelNext(s Snapshot) Outcome {
	if s.Payment == PaymentPending {
		return to(StatusCancel, s.Payment)
	}
	// PAID: reservation stays put until the refund completes.
	return unchanged(s)
}

func refundNext(s Snapshot) Outcome {
	return to(StatusCancel, PaymentRefunded)
}

// Machine validates events against the transition table. It is stateless and
// safe for concurrent use; per-reservation serialization is the caller's job
// (see KeyedMutex).
type Machine struct{}

func NewMachine() *Machine {
	return &Machine{}
}

// Apply validates ev against snap and returns the state to persist.
// EvSystemError is accepted from every non-terminal state.
func (m *Machine) Apply(snap Snapshot, ev Event) (Outcome, error) {
	if ev == EvSystemError {
		if snap.Status.Terminal() {
			return Outcome{}, NewInvalidTransition(snap.Status, ev)
		}
		return to(StatusError, snap.Payment), nil
	}

	for _, tr := range transitions {
		if tr.From != snap.Status || tr.Event != ev {
			continue
		}
		if tr.Guard != nil {
			if err := tr.Guard(snap); err != nil {
				return Outcome{}, err
			}
		}
		return tr.Next(snap), nil
	}

	if snap.Status == StatusCancel && ev == EvCustomerCancel {
		return Outcome{}, NewAlreadyCancelled()
	}
	return Outcome{}, NewInvalidTransition(snap.Status, ev)
}

// AllowedEvents returns the caller's next legal action set for snap,
// in table order. Guard failures exclude an event.
func (m *Machine) AllowedEvents(snap Snapshot) []Event {
	var evs []Event
	seen := map[Event]bool{}
	for _, tr := range transitions {
		if tr.From != snap.Status || seen[tr.Event] {
			continue
		}
		if tr.Guard != nil && tr.Guard(snap) != nil {
			continue
		}
		if tr.Next == nil {
			continue
		}
		evs = append(evs, tr.Event)
		seen[tr.Event] = true
	}
	if !snap.Status.Terminal() {
		evs = append(evs, EvSystemError)
	}
	return evs
}
