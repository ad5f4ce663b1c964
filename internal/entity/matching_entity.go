package entity

import (
	"time"

	"github.com/google/uuid"
)

// MatchingDecision is the candidate manager's answer to an offer.
// The zero value means the offer is still undecided.
type MatchingDecision string

const (
	DecisionUndecided MatchingDecision = ""
	DecisionAccepted  MatchingDecision = "accepted"
	DecisionRejected  MatchingDecision = "rejected"
	DecisionExpired   MatchingDecision = "expired"
)

// Matching is one offer of a reservation to one candidate manager.
// A reservation accumulates rejected matchings as history; the accepted
// one is immutable and is the sole source of the assigned manager.
type Matching struct {
	Id            uuid.UUID
	ReservationId uuid.UUID
	ManagerId     uuid.UUID
	OfferedAt     time.Time
	Decision      MatchingDecision
	RejectReason  string
	DecidedAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Undecided reports whether the offer is still waiting on the manager.
func (m *Matching) Undecided() bool {
	return m.Decision == DecisionUndecided
}

// MatchingQueue holds the ordered candidate managers still eligible for a
// reservation. Cursor points at the next candidate to offer to.
type MatchingQueue struct {
	ReservationId uuid.UUID
	Candidates    []uuid.UUID
	Cursor        int
	UpdatedAt     time.Time
}

// Remaining returns how many candidates have not been offered to yet.
func (q *MatchingQueue) Remaining() int {
	if q.Cursor >= len(q.Candidates) {
		return 0
	}
	return len(q.Candidates) - q.Cursor
}
