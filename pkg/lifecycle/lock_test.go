package lifecycle

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestKeyedMutexSerializesPerKey(t *testing.T) {
	km := NewKeyedMutex()
	id := uuid.New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock(id)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Errorf("counter = %d, want 100", counter)
	}
}

func TestKeyedMutexConcurrentDecisionsOneWinner(t *testing.T) {
	// Two actors race to accept the same offer. Whoever enters the critical
	// section second sees the offer resolved and gets DuplicateDecision.
	km := NewKeyedMutex()
	m := NewMachine()
	id := uuid.New()

	snap := Snapshot{Status: StatusMatching, Payment: PaymentPending, OpenOffer: true}
	var mu sync.Mutex
	accepted := 0
	rejectedRace := 0

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock(id)
			defer unlock()

			mu.Lock()
			s := snap
			mu.Unlock()

			outcome, err := m.Apply(s, EvManagerAccept)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if CodeOf(err) == CodeDuplicateDecision {
					rejectedRace++
				}
				return
			}
			snap.Status = outcome.Status
			snap.OpenOffer = false
			accepted++
		}()
	}
	wg.Wait()

	if accepted != 1 || rejectedRace != 1 {
		t.Errorf("accepted = %d, duplicate = %d; want exactly one of each", accepted, rejectedRace)
	}
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := NewKeyedMutex()
	a, b := uuid.New(), uuid.New()

	unlockA := km.Lock(a)
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := km.Lock(b)
		unlockB()
		close(done)
	}()

	<-done // must not deadlock while a is held
}
