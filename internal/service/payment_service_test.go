package service

import (
	"context"
	"crypto/sha512"
	"fmt"
	"testing"
	"time"

	"homeclean-be/internal/dto"
	"homeclean-be/internal/entity"
	"homeclean-be/internal/repository/contract"
	"homeclean-be/internal/repository/specification"
	"homeclean-be/internal/repository/unitofwork"
	"homeclean-be/pkg/lifecycle"

	"github.com/google/uuid"
)

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}
func (noopLogger) Sync() error                                  { return nil }

// memStore is a single-reservation in-memory backing store shared by the
// fake unit of work, enough to drive the service paths without Postgres.
type memStore struct {
	reservation *entity.Reservation
	payment     *entity.Payment
	commits     int
	rollbacks   int
}

type memUow struct{ store *memStore }

func (u *memUow) Begin(ctx context.Context) error { return nil }
func (u *memUow) Commit() error                   { u.store.commits++; return nil }
func (u *memUow) Rollback() error                 { u.store.rollbacks++; return nil }

func (u *memUow) ReservationRepository() contract.ReservationRepository {
	return &memReservationRepo{u.store}
}
func (u *memUow) PaymentRepository() contract.PaymentRepository { return &memPaymentRepo{u.store} }
func (u *memUow) MatchingRepository() contract.MatchingRepository {
	return nil
}
func (u *memUow) RefundRepository() contract.RefundRepository               { return nil }
func (u *memUow) ServiceRecordRepository() contract.ServiceRecordRepository { return nil }

type memFactory struct{ store *memStore }

func (f *memFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &memUow{f.store}
}

type memReservationRepo struct{ store *memStore }

func (r *memReservationRepo) Create(ctx context.Context, res *entity.Reservation) error {
	r.store.reservation = res
	return nil
}

func (r *memReservationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Reservation, error) {
	return r.store.reservation, nil
}

func (r *memReservationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Reservation, error) {
	if r.store.reservation == nil {
		return nil, nil
	}
	return []*entity.Reservation{r.store.reservation}, nil
}

func (r *memReservationRepo) Update(ctx context.Context, res *entity.Reservation) error {
	r.store.reservation = res
	return nil
}

type memPaymentRepo struct{ store *memStore }

func (r *memPaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	r.store.payment = p
	return nil
}

func (r *memPaymentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Payment, error) {
	return r.store.payment, nil
}

func (r *memPaymentRepo) FindByReservationId(ctx context.Context, reservationId uuid.UUID) (*entity.Payment, error) {
	return r.store.payment, nil
}

func (r *memPaymentRepo) Update(ctx context.Context, p *entity.Payment) error {
	r.store.payment = p
	return nil
}

func newTestReservation(status lifecycle.ReservationStatus) *entity.Reservation {
	return &entity.Reservation{
		Id:            uuid.New(),
		Number:        "R20260901-TEST01",
		CustomerId:    uuid.New(),
		ScheduledAt:   time.Now().Add(24 * time.Hour),
		DurationHours: 4,
		Amount:        60000,
		Status:        status,
		PaymentStatus: lifecycle.PaymentPending,
	}
}

func newTestPaymentService(store *memStore) IPaymentService {
	return NewPaymentService(&memFactory{store}, lifecycle.NewKeyedMutex(), nil, nil, noopLogger{})
}

func signCallback(t *testing.T, orderId, statusCode, grossAmount, serverKey string) string {
	t.Helper()
	sum := sha512.Sum512([]byte(orderId + statusCode + grossAmount + serverKey))
	return fmt.Sprintf("%x", sum)
}

func TestRequestPaymentRejectsUnscheduledReservation(t *testing.T) {
	for _, status := range []lifecycle.ReservationStatus{lifecycle.StatusWaiting, lifecycle.StatusMatching} {
		store := &memStore{reservation: newTestReservation(status)}
		svc := newTestPaymentService(store)

		_, err := svc.RequestPayment(context.Background(), store.reservation.CustomerId, &dto.PaymentRequest{
			ReservationId: store.reservation.Id,
			PayMethod:     "card",
			PayAmount:     store.reservation.Amount,
		})
		if lifecycle.CodeOf(err) != lifecycle.CodeInvalidTransition {
			t.Fatalf("RequestPayment(%s) = %v, want invalid transition", status, err)
		}
		// No checkout was opened: no pending row, nothing committed.
		if store.payment != nil {
			t.Errorf("RequestPayment(%s) created a payment row", status)
		}
		if store.commits != 0 {
			t.Errorf("RequestPayment(%s) commits = %d, want 0", status, store.commits)
		}
	}
}

func TestRequestPaymentRejectsAmountMismatch(t *testing.T) {
	store := &memStore{reservation: newTestReservation(lifecycle.StatusScheduled)}
	svc := newTestPaymentService(store)

	_, err := svc.RequestPayment(context.Background(), store.reservation.CustomerId, &dto.PaymentRequest{
		ReservationId: store.reservation.Id,
		PayMethod:     "card",
		PayAmount:     store.reservation.Amount + 1,
	})
	if lifecycle.CodeOf(err) != lifecycle.CodePaymentAmountMismatch {
		t.Fatalf("RequestPayment() = %v, want amount mismatch", err)
	}
	if store.payment != nil {
		t.Error("RequestPayment() created a payment row despite the mismatch")
	}
}

func TestGatewayCallbackAmountMismatchLeavesPending(t *testing.T) {
	t.Setenv("MIDTRANS_SERVER_KEY", "test-server-key")

	store := &memStore{reservation: newTestReservation(lifecycle.StatusScheduled)}
	store.payment = &entity.Payment{
		Id:            uuid.New(),
		ReservationId: store.reservation.Id,
		Amount:        store.reservation.Amount,
		Status:        lifecycle.PaymentPending,
		RequestedAt:   time.Now(),
	}
	svc := newTestPaymentService(store)

	req := &dto.GatewayCallbackRequest{
		OrderId:           store.reservation.Id.String(),
		TransactionStatus: "settlement",
		StatusCode:        "200",
		GrossAmount:       "999.00", // reservation amount is 60000
	}
	req.SignatureKey = signCallback(t, req.OrderId, req.StatusCode, req.GrossAmount, "test-server-key")

	err := svc.HandleGatewayCallback(context.Background(), req)
	if lifecycle.CodeOf(err) != lifecycle.CodePaymentAmountMismatch {
		t.Fatalf("HandleGatewayCallback() = %v, want amount mismatch", err)
	}
	if store.payment.Status != lifecycle.PaymentPending {
		t.Errorf("payment status = %s, want PENDING", store.payment.Status)
	}
	if store.reservation.Status != lifecycle.StatusScheduled || store.reservation.PaymentStatus != lifecycle.PaymentPending {
		t.Errorf("reservation = %s/%s, want SCHEDULED/PENDING",
			store.reservation.Status, store.reservation.PaymentStatus)
	}
	if store.commits != 0 {
		t.Errorf("commits = %d, want 0", store.commits)
	}

	// The mismatch is never remembered as handled: a later corrected
	// callback must still be processed.
	req.GrossAmount = "60000.00"
	req.SignatureKey = signCallback(t, req.OrderId, req.StatusCode, req.GrossAmount, "test-server-key")
	if err := svc.HandleGatewayCallback(context.Background(), req); err != nil {
		t.Fatalf("corrected callback unexpected error: %v", err)
	}
	if store.payment.Status != lifecycle.PaymentPaid {
		t.Errorf("payment status after corrected callback = %s, want PAID", store.payment.Status)
	}
}

func TestGatewayCallbackSettlementMarksPaid(t *testing.T) {
	t.Setenv("MIDTRANS_SERVER_KEY", "test-server-key")

	store := &memStore{reservation: newTestReservation(lifecycle.StatusScheduled)}
	store.payment = &entity.Payment{
		Id:            uuid.New(),
		ReservationId: store.reservation.Id,
		Amount:        store.reservation.Amount,
		Status:        lifecycle.PaymentPending,
		RequestedAt:   time.Now(),
	}
	svc := newTestPaymentService(store)

	req := &dto.GatewayCallbackRequest{
		OrderId:           store.reservation.Id.String(),
		TransactionStatus: "settlement",
		StatusCode:        "200",
		GrossAmount:       "60000.00",
	}
	req.SignatureKey = signCallback(t, req.OrderId, req.StatusCode, req.GrossAmount, "test-server-key")

	if err := svc.HandleGatewayCallback(context.Background(), req); err != nil {
		t.Fatalf("HandleGatewayCallback() unexpected error: %v", err)
	}
	if store.payment.Status != lifecycle.PaymentPaid || store.payment.PaidAt == nil {
		t.Errorf("payment = %s/paidAt=%v, want PAID with timestamp", store.payment.Status, store.payment.PaidAt)
	}
	if store.reservation.Status != lifecycle.StatusScheduled || store.reservation.PaymentStatus != lifecycle.PaymentPaid {
		t.Errorf("reservation = %s/%s, want SCHEDULED/PAID",
			store.reservation.Status, store.reservation.PaymentStatus)
	}
	if store.commits != 1 {
		t.Errorf("commits = %d, want 1", store.commits)
	}

	// Retried settlement is a no-op, not a second write.
	if err := svc.HandleGatewayCallback(context.Background(), req); err != nil {
		t.Fatalf("duplicate callback unexpected error: %v", err)
	}
	if store.commits != 1 {
		t.Errorf("commits after duplicate = %d, want 1", store.commits)
	}
}
