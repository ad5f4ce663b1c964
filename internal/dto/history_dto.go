package dto

import (
	"time"

	"github.com/google/uuid"
)

// ReservationHistoryResponse is the read-only projection joining the four
// separately persisted records by reservation id.
type ReservationHistoryResponse struct {
	ReservationId     uuid.UUID  `json:"reservation_id"`
	ReservationNumber string     `json:"reservation_number"`
	CategoryId        uuid.UUID  `json:"category_id"`
	ScheduledAt       time.Time  `json:"scheduled_at"`
	DurationHours     int        `json:"duration_hours"`
	Memo              string     `json:"memo,omitempty"`
	Amount            int64      `json:"amount"`
	ReservationStatus string     `json:"reservation_status"`
	PaymentStatus     string     `json:"payment_status"`
	ManagerId         *uuid.UUID `json:"manager_id,omitempty"`
	CancelReason      string     `json:"cancel_reason,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`

	Matchings []MatchingHistoryItem `json:"matchings"`
	Payment   *PaymentHistoryItem   `json:"payment,omitempty"`
	Refund    *RefundItem           `json:"refund,omitempty"`
	Execution *ExecutionItem        `json:"execution,omitempty"`

	// ReviewUnlocked is true once check-out finalized the service record.
	ReviewUnlocked bool `json:"review_unlocked"`
}

type PaymentHistoryItem struct {
	Id          uuid.UUID  `json:"id"`
	Amount      int64      `json:"amount"`
	Method      string     `json:"method"`
	Status      string     `json:"status"`
	RequestedAt time.Time  `json:"requested_at"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}

type ExecutionItem struct {
	CheckinAt  *time.Time `json:"checkin_at,omitempty"`
	CheckoutAt *time.Time `json:"checkout_at,omitempty"`
	Comment    string     `json:"comment,omitempty"`
}
