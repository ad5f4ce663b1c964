package mapper

import (
	"fmt"
	"strings"

	"homeclean-be/pkg/lifecycle"
)

// The legacy clients shipped with several status vocabularies ('scheduled',
// 'WAITING', 'W', ...). This table is the single place they are translated
// into the canonical enum; no handler does its own mapping.
var legacyReservationStatus = map[string]lifecycle.ReservationStatus{
	"waiting":   lifecycle.StatusWaiting,
	"w":         lifecycle.StatusWaiting,
	"matching":  lifecycle.StatusMatching,
	"m":         lifecycle.StatusMatching,
	"scheduled": lifecycle.StatusScheduled,
	"s":         lifecycle.StatusScheduled,
	"done":      lifecycle.StatusDone,
	"d":         lifecycle.StatusDone,
	"complete":  lifecycle.StatusDone,
	"cancel":    lifecycle.StatusCancel,
	"canceled":  lifecycle.StatusCancel,
	"cancelled": lifecycle.StatusCancel,
	"c":         lifecycle.StatusCancel,
	"error":     lifecycle.StatusError,
	"e":         lifecycle.StatusError,
}

var legacyPaymentStatus = map[string]lifecycle.PaymentStatus{
	"pending":  lifecycle.PaymentPending,
	"p":        lifecycle.PaymentPending,
	"paid":     lifecycle.PaymentPaid,
	"y":        lifecycle.PaymentPaid,
	"refunded": lifecycle.PaymentRefunded,
	"refund":   lifecycle.PaymentRefunded,
	"r":        lifecycle.PaymentRefunded,
}

// ParseReservationStatus resolves any known client vocabulary to the
// canonical status.
func ParseReservationStatus(s string) (lifecycle.ReservationStatus, error) {
	if st, ok := legacyReservationStatus[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, nil
	}
	return "", fmt.Errorf("unknown reservation status %q", s)
}

// ParsePaymentStatus resolves any known client vocabulary to the canonical
// payment status.
func ParsePaymentStatus(s string) (lifecycle.PaymentStatus, error) {
	if st, ok := legacyPaymentStatus[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, nil
	}
	return "", fmt.Errorf("unknown payment status %q", s)
}
