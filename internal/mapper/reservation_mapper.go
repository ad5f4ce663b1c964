package mapper

import (
	"encoding/json"

	"homeclean-be/internal/dto"
	"homeclean-be/internal/entity"
	"homeclean-be/internal/model"
	"homeclean-be/pkg/lifecycle"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ReservationMapper struct{}

func NewReservationMapper() *ReservationMapper {
	return &ReservationMapper{}
}

func (m *ReservationMapper) ToEntity(r *model.Reservation) *entity.Reservation {
	if r == nil {
		return nil
	}
	return &entity.Reservation{
		Id:            r.Id,
		Number:        r.Number,
		CustomerId:    r.CustomerId,
		CategoryId:    r.CategoryId,
		AddressId:     r.AddressId,
		ScheduledAt:   r.ScheduledAt,
		DurationHours: r.DurationHours,
		Memo:          r.Memo,
		Amount:        r.Amount,
		Status:        lifecycle.ReservationStatus(r.Status),
		PaymentStatus: lifecycle.PaymentStatus(r.PaymentStatus),
		ManagerId:     r.ManagerId,
		CancelReason:  r.CancelReason,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func (m *ReservationMapper) ToModel(r *entity.Reservation) *model.Reservation {
	if r == nil {
		return nil
	}
	return &model.Reservation{
		Id:            r.Id,
		Number:        r.Number,
		CustomerId:    r.CustomerId,
		CategoryId:    r.CategoryId,
		AddressId:     r.AddressId,
		ScheduledAt:   r.ScheduledAt,
		DurationHours: r.DurationHours,
		Memo:          r.Memo,
		Amount:        r.Amount,
		Status:        string(r.Status),
		PaymentStatus: string(r.PaymentStatus),
		ManagerId:     r.ManagerId,
		CancelReason:  r.CancelReason,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// ToHistoryResponse joins the four records into the detail projection.
func (m *ReservationMapper) ToHistoryResponse(
	res *entity.Reservation,
	matchings []*entity.Matching,
	payment *entity.Payment,
	ref *entity.Refund,
	rec *entity.ServiceRecord,
) *dto.ReservationHistoryResponse {
	out := &dto.ReservationHistoryResponse{
		ReservationId:     res.Id,
		ReservationNumber: res.Number,
		CategoryId:        res.CategoryId,
		ScheduledAt:       res.ScheduledAt,
		DurationHours:     res.DurationHours,
		Memo:              res.Memo,
		Amount:            res.Amount,
		ReservationStatus: string(res.Status),
		PaymentStatus:     string(res.PaymentStatus),
		ManagerId:         res.ManagerId,
		CancelReason:      res.CancelReason,
		CreatedAt:         res.CreatedAt,
		Matchings:         []dto.MatchingHistoryItem{},
		ReviewUnlocked:    rec.CheckedOut(),
	}

	for _, mt := range matchings {
		out.Matchings = append(out.Matchings, dto.MatchingHistoryItem{
			MatchingId:   mt.Id,
			ManagerId:    mt.ManagerId,
			OfferedAt:    mt.OfferedAt,
			Decision:     string(mt.Decision),
			RejectReason: mt.RejectReason,
			DecidedAt:    mt.DecidedAt,
		})
	}

	if payment != nil {
		out.Payment = &dto.PaymentHistoryItem{
			Id:          payment.Id,
			Amount:      payment.Amount,
			Method:      payment.Method,
			Status:      string(payment.Status),
			RequestedAt: payment.RequestedAt,
			PaidAt:      payment.PaidAt,
		}
	}

	if ref != nil {
		out.Refund = &dto.RefundItem{
			Id:          ref.Id,
			Amount:      ref.Amount,
			Reason:      ref.Reason,
			Status:      string(ref.Status),
			ProcessedAt: ref.ProcessedAt,
			CreatedAt:   ref.CreatedAt,
		}
	}

	if rec != nil && (rec.CheckinAt != nil || rec.CheckoutAt != nil || rec.Comment != "") {
		out.Execution = &dto.ExecutionItem{
			CheckinAt:  rec.CheckinAt,
			CheckoutAt: rec.CheckoutAt,
			Comment:    rec.Comment,
		}
	}

	return out
}

// CandidatesToJSON serializes a candidate list for the queue row.
func CandidatesToJSON(ids []uuid.UUID) (datatypes.JSON, error) {
	b, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// CandidatesFromJSON deserializes the queue row's candidate list.
func CandidatesFromJSON(raw datatypes.JSON) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
