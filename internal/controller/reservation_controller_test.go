package controller

import (
	"context"
	"net/http/httptest"
	"testing"

	"homeclean-be/internal/dto"
	"homeclean-be/internal/service"
	"homeclean-be/pkg/lifecycle"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type stubReservationService struct {
	service.IReservationService

	listCalled bool
	gotStatus  lifecycle.ReservationStatus
}

func (s *stubReservationService) List(ctx context.Context, customerId uuid.UUID, status lifecycle.ReservationStatus) ([]*dto.ReservationListItem, error) {
	s.listCalled = true
	s.gotStatus = status
	return []*dto.ReservationListItem{}, nil
}

func newListTestApp(stub *stubReservationService) *fiber.App {
	ctrl := &reservationController{service: stub}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", uuid.New().String())
		return c.Next()
	})
	app.Get("/reservations", ctrl.List)
	return app
}

func TestListTranslatesLegacyStatusVocabulary(t *testing.T) {
	cases := []struct {
		query string
		want  lifecycle.ReservationStatus
	}{
		{"W", lifecycle.StatusWaiting},
		{"scheduled", lifecycle.StatusScheduled},
		{"complete", lifecycle.StatusDone},
		{"", ""},
	}
	for _, tc := range cases {
		stub := &stubReservationService{}
		app := newListTestApp(stub)

		target := "/reservations"
		if tc.query != "" {
			target += "?status=" + tc.query
		}
		resp, err := app.Test(httptest.NewRequest("GET", target, nil))
		if err != nil {
			t.Fatalf("List(status=%q) request error: %v", tc.query, err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("List(status=%q) = %d, want 200", tc.query, resp.StatusCode)
		}
		if !stub.listCalled {
			t.Fatalf("List(status=%q) never reached the service", tc.query)
		}
		if stub.gotStatus != tc.want {
			t.Errorf("List(status=%q) passed %q to the service, want %q", tc.query, stub.gotStatus, tc.want)
		}
	}
}

func TestListRejectsUnknownStatusVocabulary(t *testing.T) {
	stub := &stubReservationService{}
	app := newListTestApp(stub)

	resp, err := app.Test(httptest.NewRequest("GET", "/reservations?status=finished", nil))
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if stub.listCalled {
		t.Error("unknown vocabulary must be rejected before the service is called")
	}
}
