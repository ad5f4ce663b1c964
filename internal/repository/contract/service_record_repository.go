package contract

import (
	"context"

	"homeclean-be/internal/entity"

	"github.com/google/uuid"
)

type ServiceRecordRepository interface {
	Create(ctx context.Context, rec *entity.ServiceRecord) error
	FindByReservationId(ctx context.Context, reservationId uuid.UUID) (*entity.ServiceRecord, error)
	Update(ctx context.Context, rec *entity.ServiceRecord) error
}
