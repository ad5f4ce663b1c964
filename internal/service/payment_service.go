package service

import (
	"context"
	"crypto/sha512"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"homeclean-be/internal/dto"
	"homeclean-be/internal/entity"
	"homeclean-be/internal/pkg/logger"
	"homeclean-be/internal/repository/memory"
	"homeclean-be/internal/repository/specification"
	"homeclean-be/internal/repository/unitofwork"
	"homeclean-be/pkg/events"
	"homeclean-be/pkg/lifecycle"
	pktNats "homeclean-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

type IPaymentService interface {
	RequestPayment(ctx context.Context, customerId uuid.UUID, req *dto.PaymentRequest) (*dto.PaymentResponse, error)
	HandleGatewayCallback(ctx context.Context, req *dto.GatewayCallbackRequest) error
}

type paymentService struct {
	uowFactory     unitofwork.RepositoryFactory
	locks          *lifecycle.KeyedMutex
	machine        *lifecycle.Machine
	eventPublisher *pktNats.Publisher
	statusCache    *StatusCache
	logger         logger.ILogger

	// Dedupes bursts of identical gateway notifications before they reach
	// the database path. The state machine's no-op rule is the real
	// idempotency guarantee; this just cheapens retries.
	seenCallbacks *memory.CallbackRepository
}

// Bounds for the two blocking operations: a timed-out gateway call or DB
// round-trip leaves the payment PENDING, never half-applied.
const (
	gatewayTimeout = 30 * time.Second
	storeTimeout   = 10 * time.Second
)

func NewPaymentService(
	uowFactory unitofwork.RepositoryFactory,
	locks *lifecycle.KeyedMutex,
	eventPublisher *pktNats.Publisher,
	statusCache *StatusCache,
	sysLogger logger.ILogger,
) IPaymentService {
	midtrans.DefaultGoHttpClient = &http.Client{Timeout: gatewayTimeout}
	return &paymentService{
		uowFactory:     uowFactory,
		locks:          locks,
		machine:        lifecycle.NewMachine(),
		eventPublisher: eventPublisher,
		statusCache:    statusCache,
		logger:         sysLogger,
		seenCallbacks:  memory.NewCallbackRepository(),
	}
}

func (s *paymentService) RequestPayment(ctx context.Context, customerId uuid.UUID, req *dto.PaymentRequest) (*dto.PaymentResponse, error) {
	unlock := s.locks.Lock(req.ReservationId)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	uow := s.uowFactory.NewUnitOfWork(ctx)

	res, err := uow.ReservationRepository().FindOne(ctx, specification.ByID{ID: req.ReservationId})
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, fmt.Errorf("reservation not found")
	}
	if res.CustomerId != customerId {
		return nil, fmt.Errorf("reservation does not belong to this customer")
	}
	// Checkout opens only once a manager is assigned. Before SCHEDULED the
	// success callback would be illegal, leaving the customer charged with
	// nothing recorded.
	if res.Status != lifecycle.StatusScheduled {
		return nil, lifecycle.NewInvalidTransition(res.Status, lifecycle.EvPaymentSucceeded)
	}
	if res.PaymentStatus != lifecycle.PaymentPending {
		return nil, lifecycle.NewDuplicateDecision("payment is already " + string(res.PaymentStatus))
	}
	if req.PayAmount != res.Amount {
		return nil, lifecycle.NewPaymentAmountMismatch(req.PayAmount, res.Amount)
	}

	now := time.Now()
	payment, err := uow.PaymentRepository().FindByReservationId(ctx, req.ReservationId)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		payment = &entity.Payment{
			Id:            uuid.New(),
			ReservationId: req.ReservationId,
			Amount:        res.Amount,
			Method:        req.PayMethod,
			Status:        lifecycle.PaymentPending,
			RequestedAt:   now,
			CreatedAt:     now,
		}
		if err := uow.Begin(ctx); err != nil {
			return nil, err
		}
		defer uow.Rollback()
		if err := uow.PaymentRepository().Create(ctx, payment); err != nil {
			return nil, err
		}
		if err := uow.Commit(); err != nil {
			return nil, err
		}
	}

	// Gateway call happens after the PENDING row is committed. A timeout or
	// crash here leaves the payment PENDING; only a verified callback moves
	// it to PAID.
	var sClient snap.Client
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	env := midtrans.Sandbox
	if os.Getenv("MIDTRANS_IS_PRODUCTION") == "true" {
		env = midtrans.Production
	}
	sClient.New(serverKey, env)

	frontendURL := os.Getenv("FRONTEND_URL")
	finishRedirectURL := fmt.Sprintf("%s/reservations/%s?payment=success", frontendURL, res.Id)

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  res.Id.String(),
			GrossAmt: res.Amount,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: finishRedirectURL,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    res.CategoryId.String(),
				Price: res.Amount,
				Qty:   1,
				Name:  fmt.Sprintf("Home cleaning %dh (%s)", res.DurationHours, res.Number),
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := sClient.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("payment gateway error: %v", midErr.GetMessage())
	}

	return &dto.PaymentResponse{
		PayStatus:       string(payment.Status),
		SnapToken:       snapResp.Token,
		SnapRedirectUrl: snapResp.RedirectURL,
	}, nil
}

func (s *paymentService) HandleGatewayCallback(ctx context.Context, req *dto.GatewayCallbackRequest) error {
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	if serverKey == "" {
		return fmt.Errorf("server configuration error")
	}

	// signature = SHA512(order_id + status_code + gross_amount + server_key)
	signatureInput := req.OrderId + req.StatusCode + req.GrossAmount + serverKey
	expectedSignature := fmt.Sprintf("%x", sha512.Sum512([]byte(signatureInput)))
	if req.SignatureKey != expectedSignature {
		s.logger.Warn("PAYMENT", "Callback signature mismatch", map[string]interface{}{
			"orderId": req.OrderId,
		})
		return fmt.Errorf("invalid signature")
	}

	reservationId, err := uuid.Parse(req.OrderId)
	if err != nil {
		return fmt.Errorf("invalid order id format")
	}

	callbackKey := req.OrderId + ":" + req.TransactionStatus + ":" + req.StatusCode
	if s.seenCallbacks.Seen(callbackKey) {
		s.logger.Info("PAYMENT", "Duplicate callback ignored", map[string]interface{}{
			"orderId": req.OrderId, "status": req.TransactionStatus,
		})
		return nil
	}

	var ev lifecycle.Event
	switch req.TransactionStatus {
	case "capture", "settlement":
		ev = lifecycle.EvPaymentSucceeded
	case "deny", "cancel", "expire":
		ev = lifecycle.EvPaymentFailed
	case "pending":
		return nil
	default:
		s.logger.Warn("PAYMENT", "Unknown transaction status ignored", map[string]interface{}{
			"orderId": req.OrderId, "status": req.TransactionStatus,
		})
		return nil
	}

	unlock := s.locks.Lock(reservationId)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	uow := s.uowFactory.NewUnitOfWork(ctx)

	res, err := uow.ReservationRepository().FindOne(ctx, specification.ByID{ID: reservationId})
	if err != nil {
		return err
	}
	if res == nil {
		// Signature checked out, so the order is ours; a missing row is not
		// something a gateway retry can fix.
		return lifecycle.NewSystemError(fmt.Sprintf("reservation not found for order %s", req.OrderId))
	}

	payment, err := uow.PaymentRepository().FindByReservationId(ctx, reservationId)
	if err != nil {
		return err
	}

	if ev == lifecycle.EvPaymentSucceeded {
		grossAmount, perr := parseGrossAmount(req.GrossAmount)
		if perr != nil {
			return fmt.Errorf("invalid gross amount %q", req.GrossAmount)
		}
		if grossAmount != res.Amount {
			s.logger.Error("PAYMENT", "Callback amount mismatch", map[string]interface{}{
				"orderId": req.OrderId, "got": grossAmount, "want": res.Amount,
			})
			return lifecycle.NewPaymentAmountMismatch(grossAmount, res.Amount)
		}
	}

	outcome, err := s.machine.Apply(lifecycle.Snapshot{Status: res.Status, Payment: res.PaymentStatus}, ev)
	if err != nil {
		return err
	}
	if !outcome.Changed {
		// Retried success after PAID, or a failure report while PENDING.
		// Acknowledged without touching anything.
		s.seenCallbacks.MarkSeen(callbackKey)
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	now := time.Now()
	if payment == nil {
		// Paid through a channel that skipped RequestPayment; record it.
		payment = &entity.Payment{
			Id:            uuid.New(),
			ReservationId: reservationId,
			Amount:        res.Amount,
			Status:        lifecycle.PaymentPending,
			RequestedAt:   now,
			CreatedAt:     now,
		}
		if err := uow.PaymentRepository().Create(ctx, payment); err != nil {
			return err
		}
	}

	payment.Status = outcome.Payment
	payment.PaidAt = &now
	if err := uow.PaymentRepository().Update(ctx, payment); err != nil {
		return err
	}

	res.Status = outcome.Status
	res.PaymentStatus = outcome.Payment
	if err := uow.ReservationRepository().Update(ctx, res); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.seenCallbacks.MarkSeen(callbackKey)
	s.logger.Info("PAYMENT", "Payment confirmed", map[string]interface{}{
		"reservationId": reservationId.String(),
		"paymentId":     payment.Id.String(),
		"amount":        payment.Amount,
	})

	if s.statusCache != nil {
		s.statusCache.Invalidate(ctx, reservationId)
	}
	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewPaymentConfirmed(reservationId, payment.Id, payment.Amount)); err != nil {
			s.logger.Warn("EVENTS", "Failed to publish payment event", map[string]interface{}{
				"reservationId": reservationId.String(), "error": err.Error(),
			})
		}
		if err := s.eventPublisher.Publish(ctx, events.NewReservationStatusChanged(res.Id, string(res.Status), string(res.PaymentStatus))); err != nil {
			s.logger.Warn("EVENTS", "Failed to publish status event", map[string]interface{}{
				"reservationId": reservationId.String(), "error": err.Error(),
			})
		}
	}
	return nil
}

// parseGrossAmount handles the gateway's "150000.00" decimal string.
func parseGrossAmount(raw string) (int64, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}
