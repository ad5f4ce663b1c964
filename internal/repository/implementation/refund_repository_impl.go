package implementation

import (
	"context"

	"homeclean-be/internal/entity"
	"homeclean-be/internal/model"
	"homeclean-be/internal/repository/contract"
	"homeclean-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type refundRepositoryImpl struct {
	db *gorm.DB
}

func NewRefundRepository(db *gorm.DB) contract.RefundRepository {
	return &refundRepositoryImpl{db: db}
}

func (r *refundRepositoryImpl) Create(ctx context.Context, refund *entity.Refund) error {
	row := &model.Refund{
		Id:            refund.Id,
		PaymentId:     refund.PaymentId,
		ReservationId: refund.ReservationId,
		Amount:        refund.Amount,
		Reason:        refund.Reason,
		Status:        string(refund.Status),
		OperatorNotes: refund.OperatorNotes,
		ProcessedAt:   refund.ProcessedAt,
	}
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *refundRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Refund, error) {
	var m model.Refund
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&m), nil
}

func (r *refundRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Refund, error) {
	var models []*model.Refund
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	var refunds []*entity.Refund
	for _, m := range models {
		refunds = append(refunds, r.mapToEntity(m))
	}
	return refunds, nil
}

func (r *refundRepositoryImpl) FindByReservationId(ctx context.Context, reservationId uuid.UUID) (*entity.Refund, error) {
	return r.FindOne(ctx,
		specification.ByReservationID{ReservationID: reservationId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
}

func (r *refundRepositoryImpl) Update(ctx context.Context, refund *entity.Refund) error {
	return r.db.WithContext(ctx).Model(&model.Refund{}).
		Where("id = ?", refund.Id).
		Updates(map[string]interface{}{
			"status":         string(refund.Status),
			"operator_notes": refund.OperatorNotes,
			"processed_at":   refund.ProcessedAt,
		}).Error
}

func (r *refundRepositoryImpl) mapToEntity(m *model.Refund) *entity.Refund {
	return &entity.Refund{
		Id:            m.Id,
		PaymentId:     m.PaymentId,
		ReservationId: m.ReservationId,
		Amount:        m.Amount,
		Reason:        m.Reason,
		Status:        entity.RefundStatus(m.Status),
		OperatorNotes: m.OperatorNotes,
		ProcessedAt:   m.ProcessedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
