package matching

import (
	"errors"
	"testing"
	"time"

	"homeclean-be/internal/entity"
	"homeclean-be/pkg/lifecycle"

	"github.com/google/uuid"
)

func newQueue(n int) *entity.MatchingQueue {
	q := &entity.MatchingQueue{ReservationId: uuid.New()}
	for i := 0; i < n; i++ {
		q.Candidates = append(q.Candidates, uuid.New())
	}
	return q
}

func TestNextOfferWalksCandidatesInOrder(t *testing.T) {
	c := NewCoordinator(nil)
	q := newQueue(3)
	now := time.Now()

	for i := 0; i < 3; i++ {
		offer, err := c.NextOffer(q, nil, now)
		if err != nil {
			t.Fatalf("NextOffer() #%d unexpected error: %v", i, err)
		}
		if offer.ManagerId != q.Candidates[i] {
			t.Errorf("NextOffer() #%d manager = %s, want %s", i, offer.ManagerId, q.Candidates[i])
		}
		if !offer.Undecided() {
			t.Errorf("NextOffer() #%d should be undecided, got %q", i, offer.Decision)
		}
		if offer.ReservationId != q.ReservationId {
			t.Errorf("NextOffer() #%d reservation = %s, want %s", i, offer.ReservationId, q.ReservationId)
		}
	}

	if q.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", q.Remaining())
	}
}

func TestNextOfferBlockedByOpenOffer(t *testing.T) {
	c := NewCoordinator(nil)
	q := newQueue(2)
	now := time.Now()

	open, err := c.NextOffer(q, nil, now)
	if err != nil {
		t.Fatalf("NextOffer() unexpected error: %v", err)
	}

	_, err = c.NextOffer(q, open, now)
	if lifecycle.CodeOf(err) != lifecycle.CodeDuplicateDecision {
		t.Errorf("NextOffer() with open offer = %v, want duplicate decision", err)
	}

	// A resolved offer no longer blocks.
	if err := c.Reject(open, "일정 불가", now); err != nil {
		t.Fatalf("Reject() unexpected error: %v", err)
	}
	if _, err := c.NextOffer(q, open, now); err != nil {
		t.Errorf("NextOffer() after rejection unexpected error: %v", err)
	}
}

func TestNextOfferExhausted(t *testing.T) {
	c := NewCoordinator(nil)
	q := newQueue(1)
	now := time.Now()

	if _, err := c.NextOffer(q, nil, now); err != nil {
		t.Fatalf("NextOffer() unexpected error: %v", err)
	}

	_, err := c.NextOffer(q, nil, now)
	if !errors.Is(err, ErrCandidatesExhausted) {
		t.Errorf("NextOffer() on empty queue = %v, want ErrCandidatesExhausted", err)
	}
	// Exhaustion is a queue condition, not a lifecycle failure.
	if lifecycle.CodeOf(err) != "" {
		t.Errorf("exhaustion should not carry a lifecycle code, got %s", lifecycle.CodeOf(err))
	}
}

func TestAcceptIsFinal(t *testing.T) {
	c := NewCoordinator(nil)
	now := time.Now()
	m := &entity.Matching{Id: uuid.New(), ReservationId: uuid.New(), ManagerId: uuid.New()}

	if err := c.Accept(m, now); err != nil {
		t.Fatalf("Accept() unexpected error: %v", err)
	}
	if m.Decision != entity.DecisionAccepted || m.DecidedAt == nil {
		t.Errorf("Accept() decision = %q decidedAt = %v", m.Decision, m.DecidedAt)
	}

	// Both re-accept and late reject lose the race.
	if err := c.Accept(m, now); lifecycle.CodeOf(err) != lifecycle.CodeDuplicateDecision {
		t.Errorf("second Accept() = %v, want duplicate decision", err)
	}
	if err := c.Reject(m, "too late", now); lifecycle.CodeOf(err) != lifecycle.CodeDuplicateDecision {
		t.Errorf("Reject() after accept = %v, want duplicate decision", err)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	c := NewCoordinator(nil)
	m := &entity.Matching{Id: uuid.New()}

	if err := c.Reject(m, "", time.Now()); err == nil {
		t.Error("Reject() with empty reason should fail")
	}
	if !m.Undecided() {
		t.Error("failed Reject() must not resolve the matching")
	}
}

func TestShouldRequeuePolicy(t *testing.T) {
	c := NewCoordinator(AutoRequeue{})

	q := newQueue(2)
	q.Cursor = 1
	if requeue, _ := c.ShouldRequeue(q); !requeue {
		t.Error("ShouldRequeue() with candidates left = false, want true")
	}

	q.Cursor = 2
	requeue, reason := c.ShouldRequeue(q)
	if requeue {
		t.Error("ShouldRequeue() with empty queue = true, want false")
	}
	if reason == "" {
		t.Error("ShouldRequeue() must explain why it stopped")
	}
}
