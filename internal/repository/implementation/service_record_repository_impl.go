package implementation

import (
	"context"

	"homeclean-be/internal/entity"
	"homeclean-be/internal/model"
	"homeclean-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type serviceRecordRepositoryImpl struct {
	db *gorm.DB
}

func NewServiceRecordRepository(db *gorm.DB) contract.ServiceRecordRepository {
	return &serviceRecordRepositoryImpl{db: db}
}

func (r *serviceRecordRepositoryImpl) Create(ctx context.Context, rec *entity.ServiceRecord) error {
	row := &model.ServiceRecord{
		Id:            rec.Id,
		ReservationId: rec.ReservationId,
		CheckinAt:     rec.CheckinAt,
		CheckoutAt:    rec.CheckoutAt,
		Comment:       rec.Comment,
	}
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *serviceRecordRepositoryImpl) FindByReservationId(ctx context.Context, reservationId uuid.UUID) (*entity.ServiceRecord, error) {
	var m model.ServiceRecord
	err := r.db.WithContext(ctx).Where("reservation_id = ?", reservationId).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &entity.ServiceRecord{
		Id:            m.Id,
		ReservationId: m.ReservationId,
		CheckinAt:     m.CheckinAt,
		CheckoutAt:    m.CheckoutAt,
		Comment:       m.Comment,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}, nil
}

func (r *serviceRecordRepositoryImpl) Update(ctx context.Context, rec *entity.ServiceRecord) error {
	return r.db.WithContext(ctx).Model(&model.ServiceRecord{}).
		Where("id = ?", rec.Id).
		Updates(map[string]interface{}{
			"checkin_at":  rec.CheckinAt,
			"checkout_at": rec.CheckoutAt,
			"comment":     rec.Comment,
		}).Error
}
