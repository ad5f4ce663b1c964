package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	CategoryId          uuid.UUID   `json:"category_id" validate:"required"`
	AddressId           uuid.UUID   `json:"address_id" validate:"required"`
	Date                string      `json:"date" validate:"required"` // 2006-01-02
	Time                string      `json:"time" validate:"required"` // 15:04
	Duration            int         `json:"duration" validate:"required,min=1,max=12"`
	Memo                string      `json:"memo"`
	OptionIds           []uuid.UUID `json:"option_ids"`
	ManagerCandidateIds []uuid.UUID `json:"manager_candidate_ids" validate:"required,min=1"`
}

// ScheduledAt combines Date and Time in the server's local zone.
func (r *CreateReservationRequest) ScheduledAt() (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", r.Date+" "+r.Time, time.Local)
}

type CreateReservationResponse struct {
	ReservationId     uuid.UUID `json:"reservation_id"`
	ReservationNumber string    `json:"reservation_number"`
	ReservationStatus string    `json:"reservation_status"`
}

type ReservationListItem struct {
	ReservationId     uuid.UUID `json:"reservation_id"`
	ReservationNumber string    `json:"reservation_number"`
	ScheduledAt       time.Time `json:"scheduled_at"`
	DurationHours     int       `json:"duration_hours"`
	Amount            int64     `json:"amount"`
	ReservationStatus string    `json:"reservation_status"`
	PaymentStatus     string    `json:"payment_status"`
}

type ReservationStatusResponse struct {
	ReservationId     uuid.UUID `json:"reservation_id"`
	ReservationStatus string    `json:"reservation_status"`
	PaymentStatus     string    `json:"payment_status"`
	// NextActions lists the lifecycle events legal from the current state
	// so clients never hardcode transition rules.
	NextActions []string `json:"next_actions"`
}

type CheckInRequest struct {
	CheckinAt time.Time `json:"checkin_at" validate:"required"`
}

type CheckOutRequest struct {
	CheckoutAt time.Time `json:"checkout_at" validate:"required"`
	Comment    string    `json:"comment" validate:"required"`
}
