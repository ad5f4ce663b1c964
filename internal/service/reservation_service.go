package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"homeclean-be/internal/dto"
	"homeclean-be/internal/entity"
	"homeclean-be/internal/mapper"
	"homeclean-be/internal/pkg/logger"
	"homeclean-be/internal/repository/specification"
	"homeclean-be/internal/repository/unitofwork"
	"homeclean-be/pkg/events"
	"homeclean-be/pkg/execution"
	"homeclean-be/pkg/lifecycle"
	"homeclean-be/pkg/matching"
	pktNats "homeclean-be/pkg/nats"
	"homeclean-be/pkg/refund"

	"github.com/google/uuid"
)

// Base hourly rate and per-option surcharge, KRW. The computed amount is
// fixed at creation; payment callbacks are validated against it.
const (
	hourlyRateKRW = 15000
	optionFeeKRW  = 5000
)

// OfferEnqueuer puts a reservation back on the matching offer queue.
// Implemented by the matching offer service; injected to avoid a cycle.
type OfferEnqueuer interface {
	EnqueueOffer(ctx context.Context, reservationId uuid.UUID) error
}

type IReservationService interface {
	Create(ctx context.Context, customerId uuid.UUID, req *dto.CreateReservationRequest) (*dto.CreateReservationResponse, error)
	OfferMatch(ctx context.Context, reservationId uuid.UUID) error
	AcceptMatching(ctx context.Context, reservationId, matchingId uuid.UUID) (*dto.MatchingDecisionResponse, error)
	RejectMatching(ctx context.Context, reservationId, matchingId uuid.UUID, reason string) (*dto.MatchingDecisionResponse, error)
	CheckIn(ctx context.Context, reservationId uuid.UUID, at time.Time) (*dto.ReservationStatusResponse, error)
	CheckOut(ctx context.Context, reservationId uuid.UUID, at time.Time, comment string) (*dto.ReservationStatusResponse, error)
	Cancel(ctx context.Context, reservationId uuid.UUID, reason string) (*dto.CancelReservationResponse, error)
	ResolveRefund(ctx context.Context, refundId uuid.UUID, req *dto.ResolveRefundRequest) (*dto.CancelReservationResponse, error)
	History(ctx context.Context, reservationId uuid.UUID) (*dto.ReservationHistoryResponse, error)
	Status(ctx context.Context, reservationId uuid.UUID) (*dto.ReservationStatusResponse, error)
	List(ctx context.Context, customerId uuid.UUID, status lifecycle.ReservationStatus) ([]*dto.ReservationListItem, error)
	MarkError(ctx context.Context, reservationId uuid.UUID, detail string) error
}

type reservationService struct {
	uowFactory  unitofwork.RepositoryFactory
	machine     *lifecycle.Machine
	locks       *lifecycle.KeyedMutex
	coordinator *matching.Coordinator
	resolver    *refund.Resolver
	tracker     *execution.Tracker
	offers      OfferEnqueuer
	eventPub    *pktNats.Publisher
	statusCache *StatusCache
	logger      logger.ILogger
	resMapper   *mapper.ReservationMapper
}

func NewReservationService(
	uowFactory unitofwork.RepositoryFactory,
	locks *lifecycle.KeyedMutex,
	coordinator *matching.Coordinator,
	tracker *execution.Tracker,
	offers OfferEnqueuer,
	eventPub *pktNats.Publisher,
	statusCache *StatusCache,
	sysLogger logger.ILogger,
) IReservationService {
	return &reservationService{
		uowFactory:  uowFactory,
		machine:     lifecycle.NewMachine(),
		locks:       locks,
		coordinator: coordinator,
		resolver:    refund.NewResolver(),
		tracker:     tracker,
		offers:      offers,
		eventPub:    eventPub,
		statusCache: statusCache,
		logger:      sysLogger,
		resMapper:   mapper.NewReservationMapper(),
	}
}

func (s *reservationService) Create(ctx context.Context, customerId uuid.UUID, req *dto.CreateReservationRequest) (*dto.CreateReservationResponse, error) {
	scheduledAt, err := req.ScheduledAt()
	if err != nil {
		return nil, fmt.Errorf("invalid schedule: %v", err)
	}

	now := time.Now()
	resId := uuid.New()
	res := &entity.Reservation{
		Id:            resId,
		Number:        newReservationNumber(now, resId),
		CustomerId:    customerId,
		CategoryId:    req.CategoryId,
		AddressId:     req.AddressId,
		ScheduledAt:   scheduledAt,
		DurationHours: req.Duration,
		Memo:          req.Memo,
		Amount:        computeAmount(req.Duration, len(req.OptionIds)),
		Status:        lifecycle.StatusWaiting,
		PaymentStatus: lifecycle.PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	queue := &entity.MatchingQueue{
		ReservationId: resId,
		Candidates:    req.ManagerCandidateIds,
		Cursor:        0,
		UpdatedAt:     now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ReservationRepository().Create(ctx, res); err != nil {
		return nil, fmt.Errorf("failed to save reservation: %v", err)
	}
	if err := uow.MatchingRepository().SaveQueue(ctx, queue); err != nil {
		return nil, fmt.Errorf("failed to save candidate queue: %v", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// First matching offer goes through the queue so a slow candidate lookup
	// never blocks the create response.
	if s.offers != nil {
		if err := s.offers.EnqueueOffer(ctx, resId); err != nil {
			s.logger.Warn("RESERVATION", "Failed to enqueue first matching offer", map[string]interface{}{
				"reservationId": resId.String(), "error": err.Error(),
			})
		}
	}

	s.afterTransition(ctx, res)

	return &dto.CreateReservationResponse{
		ReservationId:     resId,
		ReservationNumber: res.Number,
		ReservationStatus: string(res.Status),
	}, nil
}

// OfferMatch moves a WAITING reservation to MATCHING by offering it to the
// next candidate. Driven by the offer queue consumer.
func (s *reservationService) OfferMatch(ctx context.Context, reservationId uuid.UUID) error {
	unlock := s.locks.Lock(reservationId)
	defer unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)

	res, err := s.mustFindReservation(ctx, uow, reservationId)
	if err != nil {
		return err
	}

	open, err := uow.MatchingRepository().FindUndecided(ctx, reservationId)
	if err != nil {
		return err
	}

	snap := lifecycle.Snapshot{
		Status:    res.Status,
		Payment:   res.PaymentStatus,
		OpenOffer: open != nil,
	}
	outcome, err := s.machine.Apply(snap, lifecycle.EvOfferMatch)
	if err != nil {
		return err
	}

	queue, err := uow.MatchingRepository().FindQueue(ctx, reservationId)
	if err != nil {
		return err
	}
	if queue == nil {
		return lifecycle.NewSystemError("reservation has no candidate queue")
	}

	offer, err := s.coordinator.NextOffer(queue, open, time.Now())
	if err != nil {
		if errors.Is(err, matching.ErrCandidatesExhausted) {
			// Stays WAITING; the customer cancels or re-requests.
			s.logger.Info("MATCHING", "Candidate queue exhausted", map[string]interface{}{
				"reservationId": reservationId.String(),
			})
		}
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.MatchingRepository().Create(ctx, offer); err != nil {
		return err
	}
	if err := uow.MatchingRepository().SaveQueue(ctx, queue); err != nil {
		return err
	}

	res.Status = outcome.Status
	if err := uow.ReservationRepository().Update(ctx, res); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.logger.Info("MATCHING", "Offered reservation to manager", map[string]interface{}{
		"reservationId": reservationId.String(),
		"matchingId":    offer.Id.String(),
		"managerId":     offer.ManagerId.String(),
	})
	s.afterTransition(ctx, res)
	return nil
}

func (s *reservationService) AcceptMatching(ctx context.Context, reservationId, matchingId uuid.UUID) (*dto.MatchingDecisionResponse, error) {
	unlock := s.locks.Lock(reservationId)
	defer unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)

	res, err := s.mustFindReservation(ctx, uow, reservationId)
	if err != nil {
		return nil, err
	}

	m, err := s.mustFindCurrentMatching(ctx, uow, reservationId, matchingId)
	if err != nil {
		return nil, err
	}

	snap := lifecycle.Snapshot{
		Status:    res.Status,
		Payment:   res.PaymentStatus,
		OpenOffer: m.Undecided(),
	}
	outcome, err := s.machine.Apply(snap, lifecycle.EvManagerAccept)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.coordinator.Accept(m, now); err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.MatchingRepository().Update(ctx, m); err != nil {
		return nil, err
	}

	// The accepted matching is the sole source of the assigned manager, and
	// an empty execution record is opened alongside it.
	res.Status = outcome.Status
	res.ManagerId = &m.ManagerId
	if err := uow.ReservationRepository().Update(ctx, res); err != nil {
		return nil, err
	}

	rec := &entity.ServiceRecord{
		Id:            uuid.New(),
		ReservationId: reservationId,
		CreatedAt:     now,
	}
	if err := uow.ServiceRecordRepository().Create(ctx, rec); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("MATCHING", "Manager accepted reservation", map[string]interface{}{
		"reservationId": reservationId.String(),
		"matchingId":    matchingId.String(),
		"managerId":     m.ManagerId.String(),
	})
	s.afterTransition(ctx, res)

	return &dto.MatchingDecisionResponse{
		ReservationStatus: string(res.Status),
		MatchingDecision:  string(m.Decision),
	}, nil
}

func (s *reservationService) RejectMatching(ctx context.Context, reservationId, matchingId uuid.UUID, reason string) (*dto.MatchingDecisionResponse, error) {
	unlock := s.locks.Lock(reservationId)
	defer unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)

	res, err := s.mustFindReservation(ctx, uow, reservationId)
	if err != nil {
		return nil, err
	}

	m, err := s.mustFindCurrentMatching(ctx, uow, reservationId, matchingId)
	if err != nil {
		return nil, err
	}

	snap := lifecycle.Snapshot{
		Status:    res.Status,
		Payment:   res.PaymentStatus,
		OpenOffer: m.Undecided(),
	}
	outcome, err := s.machine.Apply(snap, lifecycle.EvManagerReject)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.coordinator.Reject(m, reason, now); err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.MatchingRepository().Update(ctx, m); err != nil {
		return nil, err
	}

	res.Status = outcome.Status
	if err := uow.ReservationRepository().Update(ctx, res); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("MATCHING", "Manager rejected reservation", map[string]interface{}{
		"reservationId": reservationId.String(),
		"matchingId":    matchingId.String(),
		"reason":        reason,
	})
	s.afterTransition(ctx, res)

	// Requeue policy: offer to the next candidate automatically while any
	// remain; otherwise the reservation stays WAITING for the customer.
	queue, qerr := uow.MatchingRepository().FindQueue(ctx, reservationId)
	if qerr == nil && queue != nil {
		if requeue, why := s.coordinator.ShouldRequeue(queue); requeue {
			if s.offers != nil {
				if err := s.offers.EnqueueOffer(ctx, reservationId); err != nil {
					s.logger.Warn("MATCHING", "Failed to requeue offer", map[string]interface{}{
						"reservationId": reservationId.String(), "error": err.Error(),
					})
				}
			}
		} else {
			s.logger.Info("MATCHING", "Not requeueing", map[string]interface{}{
				"reservationId": reservationId.String(), "reason": why,
			})
		}
	}

	return &dto.MatchingDecisionResponse{
		ReservationStatus: string(res.Status),
		MatchingDecision:  string(m.Decision),
	}, nil
}

func (s *reservationService) CheckIn(ctx context.Context, reservationId uuid.UUID, at time.Time) (*dto.ReservationStatusResponse, error) {
	unlock := s.locks.Lock(reservationId)
	defer unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)

	res, err := s.mustFindReservation(ctx, uow, reservationId)
	if err != nil {
		return nil, err
	}

	rec, err := uow.ServiceRecordRepository().FindByReservationId(ctx, reservationId)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, lifecycle.NewSystemError("no execution record; was the matching accepted?")
	}

	snap := lifecycle.Snapshot{
		Status:     res.Status,
		Payment:    res.PaymentStatus,
		Accepted:   res.ManagerId != nil,
		CheckedIn:  rec.CheckedIn(),
		CheckedOut: rec.CheckedOut(),
	}
	if _, err := s.machine.Apply(snap, lifecycle.EvCheckIn); err != nil {
		return nil, err
	}

	if err := s.tracker.CheckIn(rec, res.ScheduledAt, at); err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ServiceRecordRepository().Update(ctx, rec); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return s.statusResponse(res, rec), nil
}

func (s *reservationService) CheckOut(ctx context.Context, reservationId uuid.UUID, at time.Time, comment string) (*dto.ReservationStatusResponse, error) {
	unlock := s.locks.Lock(reservationId)
	defer unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)

	res, err := s.mustFindReservation(ctx, uow, reservationId)
	if err != nil {
		return nil, err
	}

	rec, err := uow.ServiceRecordRepository().FindByReservationId(ctx, reservationId)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, lifecycle.NewSystemError("no execution record; was the matching accepted?")
	}

	snap := lifecycle.Snapshot{
		Status:     res.Status,
		Payment:    res.PaymentStatus,
		Accepted:   res.ManagerId != nil,
		CheckedIn:  rec.CheckedIn(),
		CheckedOut: rec.CheckedOut(),
	}
	outcome, err := s.machine.Apply(snap, lifecycle.EvCheckOut)
	if err != nil {
		return nil, err
	}

	if err := s.tracker.CheckOut(rec, at, comment); err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ServiceRecordRepository().Update(ctx, rec); err != nil {
		return nil, err
	}

	res.Status = outcome.Status
	if err := uow.ReservationRepository().Update(ctx, res); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// Check-out unlocks review submission for both sides.
	s.logger.Info("RESERVATION", "Service completed", map[string]interface{}{
		"reservationId": reservationId.String(),
		"comment":       comment,
	})
	s.afterTransition(ctx, res)

	return s.statusResponse(res, rec), nil
}

func (s *reservationService) Cancel(ctx context.Context, reservationId uuid.UUID, reason string) (*dto.CancelReservationResponse, error) {
	unlock := s.locks.Lock(reservationId)
	defer unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)

	res, err := s.mustFindReservation(ctx, uow, reservationId)
	if err != nil {
		return nil, err
	}

	payment, err := uow.PaymentRepository().FindByReservationId(ctx, reservationId)
	if err != nil {
		return nil, err
	}
	existing, err := uow.RefundRepository().FindByReservationId(ctx, reservationId)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	resolution, err := s.resolver.Resolve(res, payment, existing, reason, now)
	if err != nil {
		// AlreadyCancelled is an idempotent no-op, not a failure; surface the
		// code and current state without touching anything.
		return nil, err
	}

	switch resolution.Action {
	case refund.ActionCancelNow:
		outcome, err := s.machine.Apply(lifecycle.Snapshot{Status: res.Status, Payment: res.PaymentStatus}, lifecycle.EvCustomerCancel)
		if err != nil {
			return nil, err
		}

		if err := uow.Begin(ctx); err != nil {
			return nil, err
		}
		defer uow.Rollback()

		// An open offer dies with the reservation.
		if err := s.expireOpenMatching(ctx, uow, reservationId, now); err != nil {
			return nil, err
		}

		res.Status = outcome.Status
		res.CancelReason = reason
		if err := uow.ReservationRepository().Update(ctx, res); err != nil {
			return nil, err
		}
		if err := uow.Commit(); err != nil {
			return nil, err
		}

		s.afterTransition(ctx, res)
		return &dto.CancelReservationResponse{
			ReservationStatus: string(res.Status),
			PaymentStatus:     string(res.PaymentStatus),
		}, nil

	case refund.ActionRequestRefund:
		ref := resolution.Refund
		created := existing == nil || existing.Id != ref.Id

		if created {
			if err := uow.Begin(ctx); err != nil {
				return nil, err
			}
			defer uow.Rollback()

			if err := uow.RefundRepository().Create(ctx, ref); err != nil {
				return nil, err
			}
			res.CancelReason = reason
			if err := uow.ReservationRepository().Update(ctx, res); err != nil {
				return nil, err
			}
			if err := uow.Commit(); err != nil {
				return nil, err
			}

			s.publish(ctx, events.NewRefundRequested(ref.Id, ref.ReservationId, ref.Amount, reason))
		}

		return &dto.CancelReservationResponse{
			ReservationStatus: string(res.Status),
			PaymentStatus:     string(res.PaymentStatus),
			RefundId:          &ref.Id,
			RefundStatus:      string(ref.Status),
		}, nil
	}

	// ActionNone is only reachable through the AlreadyCancelled error above.
	return nil, lifecycle.NewSystemError("unexpected cancellation resolution")
}

func (s *reservationService) ResolveRefund(ctx context.Context, refundId uuid.UUID, req *dto.ResolveRefundRequest) (*dto.CancelReservationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	ref, err := uow.RefundRepository().FindOne(ctx, specification.ByID{ID: refundId})
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, fmt.Errorf("refund request not found")
	}

	unlock := s.locks.Lock(ref.ReservationId)
	defer unlock()

	// Reload under the lock; a concurrent resolve may have won.
	ref, err = uow.RefundRepository().FindOne(ctx, specification.ByID{ID: refundId})
	if err != nil {
		return nil, err
	}

	res, err := s.mustFindReservation(ctx, uow, ref.ReservationId)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	if strings.EqualFold(req.Result, "rejected") {
		rejectErr := s.resolver.Reject(ref, req.OperatorNotes, now)
		var le *lifecycle.Error
		if errors.As(rejectErr, &le) && le.Code == lifecycle.CodeDuplicateDecision {
			return nil, rejectErr
		}

		if err := uow.Begin(ctx); err != nil {
			return nil, err
		}
		defer uow.Rollback()
		if err := uow.RefundRepository().Update(ctx, ref); err != nil {
			return nil, err
		}
		if err := uow.Commit(); err != nil {
			return nil, err
		}

		// Cancellation did not take effect; reservation state is untouched.
		return nil, rejectErr
	}

	newStatus, newPayment, err := s.resolver.Complete(ref, req.OperatorNotes, now)
	if err != nil {
		return nil, err
	}

	if _, err := s.machine.Apply(lifecycle.Snapshot{Status: res.Status, Payment: res.PaymentStatus}, lifecycle.EvRefundResolved); err != nil {
		return nil, err
	}

	payment, err := uow.PaymentRepository().FindOne(ctx, specification.ByID{ID: ref.PaymentId})
	if err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.RefundRepository().Update(ctx, ref); err != nil {
		return nil, err
	}

	if payment != nil {
		payment.Status = lifecycle.PaymentRefunded
		if err := uow.PaymentRepository().Update(ctx, payment); err != nil {
			return nil, err
		}
	}

	if err := s.expireOpenMatching(ctx, uow, res.Id, now); err != nil {
		return nil, err
	}

	res.Status = newStatus
	res.PaymentStatus = newPayment
	if err := uow.ReservationRepository().Update(ctx, res); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("REFUND", "Refund completed, reservation cancelled", map[string]interface{}{
		"refundId":      refundId.String(),
		"reservationId": res.Id.String(),
		"amount":        ref.Amount,
	})
	s.afterTransition(ctx, res)

	return &dto.CancelReservationResponse{
		ReservationStatus: string(res.Status),
		PaymentStatus:     string(res.PaymentStatus),
		RefundId:          &ref.Id,
		RefundStatus:      string(ref.Status),
	}, nil
}

func (s *reservationService) History(ctx context.Context, reservationId uuid.UUID) (*dto.ReservationHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	res, err := s.mustFindReservation(ctx, uow, reservationId)
	if err != nil {
		return nil, err
	}

	matchings, err := uow.MatchingRepository().FindAll(ctx,
		specification.ByReservationID{ReservationID: reservationId},
		specification.OrderBy{Field: "offered_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	payment, err := uow.PaymentRepository().FindByReservationId(ctx, reservationId)
	if err != nil {
		return nil, err
	}
	ref, err := uow.RefundRepository().FindByReservationId(ctx, reservationId)
	if err != nil {
		return nil, err
	}
	rec, err := uow.ServiceRecordRepository().FindByReservationId(ctx, reservationId)
	if err != nil {
		return nil, err
	}

	return s.resMapper.ToHistoryResponse(res, matchings, payment, ref, rec), nil
}

func (s *reservationService) Status(ctx context.Context, reservationId uuid.UUID) (*dto.ReservationStatusResponse, error) {
	// Display reads may be stale; try the projection cache first.
	if s.statusCache != nil {
		if cached, ok := s.statusCache.Get(ctx, reservationId); ok {
			return cached, nil
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	res, err := s.mustFindReservation(ctx, uow, reservationId)
	if err != nil {
		return nil, err
	}
	rec, err := uow.ServiceRecordRepository().FindByReservationId(ctx, reservationId)
	if err != nil {
		return nil, err
	}

	resp := s.statusResponse(res, rec)
	if s.statusCache != nil {
		s.statusCache.Set(ctx, resp)
	}
	return resp, nil
}

// List returns the customer's reservations, newest first. status is the
// canonical enum (or empty for all); legacy client vocabularies are
// translated at the HTTP boundary, never here.
func (s *reservationService) List(ctx context.Context, customerId uuid.UUID, status lifecycle.ReservationStatus) ([]*dto.ReservationListItem, error) {
	specs := []specification.Specification{
		specification.Filter("customer_id", customerId),
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if status != "" {
		specs = append(specs, specification.Filter("status", status))
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	reservations, err := uow.ReservationRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ReservationListItem, 0, len(reservations))
	for _, res := range reservations {
		items = append(items, &dto.ReservationListItem{
			ReservationId:     res.Id,
			ReservationNumber: res.Number,
			ScheduledAt:       res.ScheduledAt,
			DurationHours:     res.DurationHours,
			Amount:            res.Amount,
			ReservationStatus: string(res.Status),
			PaymentStatus:     string(res.PaymentStatus),
		})
	}
	return items, nil
}

// MarkError moves a reservation to the terminal ERROR state. Reserved for
// unrecoverable inconsistencies; never auto-retried, operator action only.
func (s *reservationService) MarkError(ctx context.Context, reservationId uuid.UUID, detail string) error {
	unlock := s.locks.Lock(reservationId)
	defer unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	res, err := s.mustFindReservation(ctx, uow, reservationId)
	if err != nil {
		return err
	}

	outcome, err := s.machine.Apply(lifecycle.Snapshot{Status: res.Status, Payment: res.PaymentStatus}, lifecycle.EvSystemError)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	res.Status = outcome.Status
	if err := uow.ReservationRepository().Update(ctx, res); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.logger.Error("RESERVATION", "Reservation moved to ERROR", map[string]interface{}{
		"reservationId": reservationId.String(),
		"detail":        detail,
	})
	s.afterTransition(ctx, res)
	return nil
}

// --- helpers ---

func (s *reservationService) mustFindReservation(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.Reservation, error) {
	res, err := uow.ReservationRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, fmt.Errorf("reservation not found")
	}
	return res, nil
}

// mustFindCurrentMatching loads matchingId and verifies it is the matching
// currently offered for the reservation. A stale id from a superseded offer
// cycle is reported as DuplicateDecision, never silently reused.
func (s *reservationService) mustFindCurrentMatching(ctx context.Context, uow unitofwork.UnitOfWork, reservationId, matchingId uuid.UUID) (*entity.Matching, error) {
	m, err := uow.MatchingRepository().FindOne(ctx, specification.ByID{ID: matchingId})
	if err != nil {
		return nil, err
	}
	if m == nil || m.ReservationId != reservationId {
		return nil, fmt.Errorf("matching not found for reservation")
	}

	open, err := uow.MatchingRepository().FindUndecided(ctx, reservationId)
	if err != nil {
		return nil, err
	}
	if open != nil && open.Id != m.Id {
		return nil, lifecycle.NewDuplicateDecision("matching id is stale; a newer offer exists")
	}
	return m, nil
}

func (s *reservationService) expireOpenMatching(ctx context.Context, uow unitofwork.UnitOfWork, reservationId uuid.UUID, now time.Time) error {
	open, err := uow.MatchingRepository().FindUndecided(ctx, reservationId)
	if err != nil || open == nil {
		return err
	}
	open.Decision = entity.DecisionExpired
	open.DecidedAt = &now
	return uow.MatchingRepository().Update(ctx, open)
}

func (s *reservationService) statusResponse(res *entity.Reservation, rec *entity.ServiceRecord) *dto.ReservationStatusResponse {
	// MATCHING implies an undecided offer is out; that is what the status means.
	snap := lifecycle.Snapshot{
		Status:     res.Status,
		Payment:    res.PaymentStatus,
		OpenOffer:  res.Status == lifecycle.StatusMatching,
		Accepted:   res.ManagerId != nil,
		CheckedIn:  rec.CheckedIn(),
		CheckedOut: rec.CheckedOut(),
	}
	var actions []string
	for _, ev := range s.machine.AllowedEvents(snap) {
		actions = append(actions, string(ev))
	}
	return &dto.ReservationStatusResponse{
		ReservationId:     res.Id,
		ReservationStatus: string(res.Status),
		PaymentStatus:     string(res.PaymentStatus),
		NextActions:       actions,
	}
}

// afterTransition refreshes the display cache and pushes the status change
// so clients do not have to poll.
func (s *reservationService) afterTransition(ctx context.Context, res *entity.Reservation) {
	if s.statusCache != nil {
		s.statusCache.Invalidate(ctx, res.Id)
	}
	s.publish(ctx, events.NewReservationStatusChanged(res.Id, string(res.Status), string(res.PaymentStatus)))
}

func (s *reservationService) publish(ctx context.Context, evt events.Event) {
	if s.eventPub == nil {
		return
	}
	if err := s.eventPub.Publish(ctx, evt); err != nil {
		s.logger.Warn("EVENTS", "Failed to publish event", map[string]interface{}{
			"type": evt.EventType(), "error": err.Error(),
		})
	}
}

func computeAmount(durationHours, optionCount int) int64 {
	return int64(durationHours)*hourlyRateKRW + int64(optionCount)*optionFeeKRW
}

// newReservationNumber builds the immutable human-readable number, e.g.
// R20260901-3F2A9C.
func newReservationNumber(now time.Time, id uuid.UUID) string {
	raw := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))
	return fmt.Sprintf("R%s-%s", now.Format("20060102"), raw[:6])
}
