package dto

import (
	"time"

	"github.com/google/uuid"
)

type CancelReservationRequest struct {
	Reason string `json:"reason" validate:"required,min=1"`
}

type CancelReservationResponse struct {
	ReservationStatus string     `json:"reservation_status"`
	PaymentStatus     string     `json:"payment_status"`
	RefundId          *uuid.UUID `json:"refund_id,omitempty"`
	RefundStatus      string     `json:"refund_status,omitempty"`
}

// ResolveRefundRequest is the operator's (or gateway webhook's) verdict on
// an open refund.
type ResolveRefundRequest struct {
	Result        string `json:"result" validate:"required,oneof=completed rejected"`
	OperatorNotes string `json:"operator_notes"`
}

type RefundItem struct {
	Id          uuid.UUID  `json:"id"`
	Amount      int64      `json:"amount"`
	Reason      string     `json:"reason"`
	Status      string     `json:"status"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
