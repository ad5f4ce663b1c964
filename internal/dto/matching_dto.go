package dto

import (
	"time"

	"github.com/google/uuid"
)

type RejectMatchingRequest struct {
	Reason string `json:"reason" validate:"required,min=1"`
}

type MatchingDecisionResponse struct {
	ReservationStatus string `json:"reservation_status"`
	MatchingDecision  string `json:"matching_decision"`
}

type MatchingHistoryItem struct {
	MatchingId   uuid.UUID  `json:"matching_id"`
	ManagerId    uuid.UUID  `json:"manager_id"`
	OfferedAt    time.Time  `json:"offered_at"`
	Decision     string     `json:"decision"`
	RejectReason string     `json:"reject_reason,omitempty"`
	DecidedAt    *time.Time `json:"decided_at,omitempty"`
}

// OfferMatchMessage is the internal bus payload that asks the matching
// consumer to offer a reservation to its next candidate.
type OfferMatchMessage struct {
	ReservationId uuid.UUID `json:"reservation_id"`
}
