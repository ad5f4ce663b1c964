package matching

import (
	"errors"
	"fmt"
	"time"

	"homeclean-be/internal/entity"
	"homeclean-be/pkg/lifecycle"

	"github.com/google/uuid"
)

// ErrCandidatesExhausted means no candidate manager is left to offer to.
// The reservation stays WAITING; the customer decides whether to cancel or
// re-request with a new candidate list. Not a lifecycle failure.
var ErrCandidatesExhausted = errors.New("matching candidates exhausted")

// RequeuePolicy decides what happens after a manager rejects an offer:
// put the reservation straight back into the offer queue, or hand control
// back to the customer. Whatever it decides must be deterministic and the
// reason must be reportable to the caller.
type RequeuePolicy interface {
	// Requeue returns true when the coordinator should offer to the next
	// candidate automatically. reason explains a false result.
	Requeue(remaining int) (requeue bool, reason string)
}

// AutoRequeue offers to the next candidate until the list is exhausted.
// Chosen as the default because it needs no customer round-trip and the
// exhausted state stays queryable.
type AutoRequeue struct{}

func (AutoRequeue) Requeue(remaining int) (bool, string) {
	if remaining > 0 {
		return true, ""
	}
	return false, "candidate list exhausted; customer must cancel or re-request"
}

// Coordinator creates matching offers and records manager decisions.
// It enforces at most one undecided matching per reservation; callers
// serialize per reservation id before invoking it.
type Coordinator struct {
	policy RequeuePolicy
}

func NewCoordinator(policy RequeuePolicy) *Coordinator {
	if policy == nil {
		policy = AutoRequeue{}
	}
	return &Coordinator{policy: policy}
}

// NextOffer pops the next candidate off queue and returns a fresh matching
// offer for it. A still-open offer or an exhausted queue is an error; the
// exhaustion reason comes from the requeue policy so "why no candidates"
// is always answerable.
func (c *Coordinator) NextOffer(queue *entity.MatchingQueue, open *entity.Matching, now time.Time) (*entity.Matching, error) {
	if open != nil && open.Undecided() {
		return nil, lifecycle.NewDuplicateDecision("an undecided matching offer already exists for this reservation")
	}
	if queue.Remaining() == 0 {
		_, reason := c.policy.Requeue(0)
		return nil, fmt.Errorf("%w: %s", ErrCandidatesExhausted, reason)
	}

	managerId := queue.Candidates[queue.Cursor]
	queue.Cursor++
	queue.UpdatedAt = now

	return &entity.Matching{
		Id:            uuid.New(),
		ReservationId: queue.ReservationId,
		ManagerId:     managerId,
		OfferedAt:     now,
		Decision:      entity.DecisionUndecided,
	}, nil
}

// Accept resolves m as accepted. The matching becomes immutable afterwards.
func (c *Coordinator) Accept(m *entity.Matching, now time.Time) error {
	if !m.Undecided() {
		return lifecycle.NewDuplicateDecision(fmt.Sprintf("matching %s is already %s", m.Id, m.Decision))
	}
	m.Decision = entity.DecisionAccepted
	m.DecidedAt = &now
	return nil
}

// Reject resolves m as rejected. A non-empty reason is required.
func (c *Coordinator) Reject(m *entity.Matching, reason string, now time.Time) error {
	if !m.Undecided() {
		return lifecycle.NewDuplicateDecision(fmt.Sprintf("matching %s is already %s", m.Id, m.Decision))
	}
	if reason == "" {
		return fmt.Errorf("rejection reason is required")
	}
	m.Decision = entity.DecisionRejected
	m.RejectReason = reason
	m.DecidedAt = &now
	return nil
}

// ShouldRequeue applies the policy after a rejection.
func (c *Coordinator) ShouldRequeue(queue *entity.MatchingQueue) (bool, string) {
	return c.policy.Requeue(queue.Remaining())
}
