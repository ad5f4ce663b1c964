package mapper

import (
	"testing"

	"homeclean-be/pkg/lifecycle"
)

func TestParseReservationStatus(t *testing.T) {
	cases := []struct {
		in   string
		want lifecycle.ReservationStatus
	}{
		{"waiting", lifecycle.StatusWaiting},
		{"WAITING", lifecycle.StatusWaiting},
		{"W", lifecycle.StatusWaiting},
		{"matching", lifecycle.StatusMatching},
		{"M", lifecycle.StatusMatching},
		{"scheduled", lifecycle.StatusScheduled},
		{"Scheduled", lifecycle.StatusScheduled},
		{"s", lifecycle.StatusScheduled},
		{"done", lifecycle.StatusDone},
		{"complete", lifecycle.StatusDone},
		{"D", lifecycle.StatusDone},
		{"cancel", lifecycle.StatusCancel},
		{"canceled", lifecycle.StatusCancel},
		{"cancelled", lifecycle.StatusCancel},
		{"C", lifecycle.StatusCancel},
		{"error", lifecycle.StatusError},
		{"E", lifecycle.StatusError},
		{" scheduled ", lifecycle.StatusScheduled},
	}
	for _, tc := range cases {
		got, err := ParseReservationStatus(tc.in)
		if err != nil {
			t.Errorf("ParseReservationStatus(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseReservationStatus(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseReservationStatusUnknown(t *testing.T) {
	for _, in := range []string{"", "x", "finished", "취소"} {
		if _, err := ParseReservationStatus(in); err == nil {
			t.Errorf("ParseReservationStatus(%q) expected error", in)
		}
	}
}

func TestParsePaymentStatus(t *testing.T) {
	cases := []struct {
		in   string
		want lifecycle.PaymentStatus
	}{
		{"pending", lifecycle.PaymentPending},
		{"P", lifecycle.PaymentPending},
		{"paid", lifecycle.PaymentPaid},
		{"Y", lifecycle.PaymentPaid},
		{"refunded", lifecycle.PaymentRefunded},
		{"refund", lifecycle.PaymentRefunded},
		{"R", lifecycle.PaymentRefunded},
	}
	for _, tc := range cases {
		got, err := ParsePaymentStatus(tc.in)
		if err != nil {
			t.Errorf("ParsePaymentStatus(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParsePaymentStatus(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}

	if _, err := ParsePaymentStatus("n"); err == nil {
		t.Error("ParsePaymentStatus(\"n\") expected error")
	}
}
