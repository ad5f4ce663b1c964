package implementation

import (
	"context"

	"homeclean-be/internal/entity"
	"homeclean-be/internal/model"
	"homeclean-be/internal/repository/contract"
	"homeclean-be/internal/repository/specification"
	"homeclean-be/pkg/lifecycle"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type paymentRepositoryImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) contract.PaymentRepository {
	return &paymentRepositoryImpl{db: db}
}

func (r *paymentRepositoryImpl) Create(ctx context.Context, p *entity.Payment) error {
	row := &model.Payment{
		Id:            p.Id,
		ReservationId: p.ReservationId,
		Amount:        p.Amount,
		Method:        p.Method,
		Status:        string(p.Status),
		RequestedAt:   p.RequestedAt,
		PaidAt:        p.PaidAt,
	}
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *paymentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Payment, error) {
	var m model.Payment
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

	return r.toEntity(&m), nil
}

func (r *paymentRepositoryImpl) FindByReservationId(ctx context.Context, reservationId uuid.UUID) (*entity.Payment, error) {
	return r.FindOne(ctx, specification.ByReservationID{ReservationID: reservationId})
}

func (r *paymentRepositoryImpl) Update(ctx context.Context, p *entity.Payment) error {
	return r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ?", p.Id).
		Updates(map[string]interface{}{
			"status":  string(p.Status),
			"paid_at": p.PaidAt,
			"method":  p.Method,
		}).Error
}

func (r *paymentRepositoryImpl) toEntity(m *model.Payment) *entity.Payment {
	return &entity.Payment{
		Id:            m.Id,
		ReservationId: m.ReservationId,
		Amount:        m.Amount,
		Method:        m.Method,
		Status:        lifecycle.PaymentStatus(m.Status),
		RequestedAt:   m.RequestedAt,
		PaidAt:        m.PaidAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
