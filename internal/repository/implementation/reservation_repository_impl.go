package implementation

import (
	"context"

	"homeclean-be/internal/entity"
	"homeclean-be/internal/mapper"
	"homeclean-be/internal/model"
	"homeclean-be/internal/repository/contract"
	"homeclean-be/internal/repository/specification"

	"gorm.io/gorm"
)

type reservationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ReservationMapper
}

func NewReservationRepository(db *gorm.DB) contract.ReservationRepository {
	return &reservationRepositoryImpl{db: db, mapper: mapper.NewReservationMapper()}
}

func (r *reservationRepositoryImpl) Create(ctx context.Context, res *entity.Reservation) error {
	return r.db.WithContext(ctx).Create(r.mapper.ToModel(res)).Error
}

func (r *reservationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Reservation, error) {
	var m model.Reservation
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

	return r.mapper.ToEntity(&m), nil
}

func (r *reservationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Reservation, error) {
	var models []*model.Reservation
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	var out []*entity.Reservation
	for _, m := range models {
		out = append(out, r.mapper.ToEntity(m))
	}
	return out, nil
}

func (r *reservationRepositoryImpl) Update(ctx context.Context, res *entity.Reservation) error {
	return r.db.WithContext(ctx).Model(&model.Reservation{}).
		Where("id = ?", res.Id).
		Updates(map[string]interface{}{
			"status":         string(res.Status),
			"payment_status": string(res.PaymentStatus),
			"manager_id":     res.ManagerId,
			"cancel_reason":  res.CancelReason,
			"memo":           res.Memo,
		}).Error
}
