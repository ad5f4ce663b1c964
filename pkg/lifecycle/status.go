package lifecycle

// ReservationStatus is the canonical service-fulfilment axis of a reservation.
// Every boundary (client payloads, legacy vocabularies) maps into this enum;
// nothing outside this package defines its own status strings.
type ReservationStatus string

const (
	StatusWaiting   ReservationStatus = "WAITING"
	StatusMatching  ReservationStatus = "MATCHING"
	StatusScheduled ReservationStatus = "SCHEDULED"
	StatusDone      ReservationStatus = "DONE"
	StatusCancel    ReservationStatus = "CANCEL"
	StatusError     ReservationStatus = "ERROR"
)

// Terminal reports whether no further lifecycle events are accepted.
func (s ReservationStatus) Terminal() bool {
	return s == StatusDone || s == StatusCancel || s == StatusError
}

// PaymentStatus is the money axis, orthogonal to ReservationStatus
// but constrained by it (e.g. REFUNDED implies CANCEL).
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
)
