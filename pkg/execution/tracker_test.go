package execution

import (
	"testing"
	"time"

	"homeclean-be/internal/entity"
	"homeclean-be/pkg/lifecycle"

	"github.com/google/uuid"
)

func TestCheckInWindow(t *testing.T) {
	scheduled := time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local)

	tests := []struct {
		name    string
		at      time.Time
		wantErr bool
	}{
		{name: "on time", at: scheduled},
		{name: "slightly late", at: scheduled.Add(10 * time.Minute)},
		{name: "earliest allowed", at: scheduled.Add(-30 * time.Minute)},
		{name: "too early", at: scheduled.Add(-31 * time.Minute), wantErr: true},
		{name: "too late", at: scheduled.Add(45 * time.Minute), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := NewTracker(DefaultCheckinTolerance)
			rec := &entity.ServiceRecord{Id: uuid.New(), ReservationId: uuid.New()}

			err := tracker.CheckIn(rec, scheduled, tt.at)
			if tt.wantErr {
				if lifecycle.CodeOf(err) != lifecycle.CodeInvalidTransition {
					t.Errorf("CheckIn() = %v, want invalid transition", err)
				}
				if rec.CheckedIn() {
					t.Error("failed CheckIn() must not stamp the record")
				}
				return
			}
			if err != nil {
				t.Fatalf("CheckIn() unexpected error: %v", err)
			}
			if !rec.CheckedIn() || !rec.CheckinAt.Equal(tt.at) {
				t.Errorf("CheckinAt = %v, want %v", rec.CheckinAt, tt.at)
			}
		})
	}
}

func TestCheckInTwice(t *testing.T) {
	tracker := NewTracker(0) // falls back to the default tolerance
	scheduled := time.Now()
	rec := &entity.ServiceRecord{Id: uuid.New(), ReservationId: uuid.New()}

	if err := tracker.CheckIn(rec, scheduled, scheduled); err != nil {
		t.Fatalf("CheckIn() unexpected error: %v", err)
	}
	if err := tracker.CheckIn(rec, scheduled, scheduled.Add(time.Minute)); lifecycle.CodeOf(err) != lifecycle.CodeInvalidTransition {
		t.Errorf("second CheckIn() = %v, want invalid transition", err)
	}
}

func TestCheckOut(t *testing.T) {
	tracker := NewTracker(DefaultCheckinTolerance)
	scheduled := time.Now()
	rec := &entity.ServiceRecord{Id: uuid.New(), ReservationId: uuid.New()}

	// Before check-in.
	if err := tracker.CheckOut(rec, scheduled.Add(4*time.Hour), "완료"); lifecycle.CodeOf(err) != lifecycle.CodeInvalidTransition {
		t.Errorf("CheckOut() before check-in = %v, want invalid transition", err)
	}

	if err := tracker.CheckIn(rec, scheduled, scheduled); err != nil {
		t.Fatalf("CheckIn() unexpected error: %v", err)
	}

	// Checkout must come after checkin.
	if err := tracker.CheckOut(rec, scheduled.Add(-time.Minute), "완료"); lifecycle.CodeOf(err) != lifecycle.CodeInvalidTransition {
		t.Errorf("CheckOut() before checkin time = %v, want invalid transition", err)
	}

	if err := tracker.CheckOut(rec, scheduled.Add(4*time.Hour), "청소 완료했습니다"); err != nil {
		t.Fatalf("CheckOut() unexpected error: %v", err)
	}
	if !rec.CheckedOut() || rec.Comment != "청소 완료했습니다" {
		t.Errorf("record = %+v, want checked out with comment", rec)
	}

	if err := tracker.CheckOut(rec, scheduled.Add(5*time.Hour), "again"); lifecycle.CodeOf(err) != lifecycle.CodeInvalidTransition {
		t.Errorf("second CheckOut() = %v, want invalid transition", err)
	}
}

func TestCommentProjection(t *testing.T) {
	tracker := NewTracker(DefaultCheckinTolerance)
	scheduled := time.Now()
	rec := &entity.ServiceRecord{Id: uuid.New(), ReservationId: uuid.New()}

	if err := tracker.CheckIn(rec, scheduled, scheduled); err != nil {
		t.Fatalf("CheckIn() unexpected error: %v", err)
	}
	if err := tracker.CheckOut(rec, scheduled.Add(2*time.Hour), "완료"); err != nil {
		t.Fatalf("CheckOut() unexpected error: %v", err)
	}

	got := tracker.Comment(rec)
	if got.ReservationId != rec.ReservationId.String() {
		t.Errorf("Comment() reservation = %s, want %s", got.ReservationId, rec.ReservationId)
	}
	if got.Comment != "완료" || got.CheckinAt == nil || got.CheckoutAt == nil {
		t.Errorf("Comment() = %+v, want full projection", got)
	}
}
