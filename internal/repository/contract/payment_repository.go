package contract

import (
	"context"

	"homeclean-be/internal/entity"
	"homeclean-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *entity.Payment) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Payment, error)
	FindByReservationId(ctx context.Context, reservationId uuid.UUID) (*entity.Payment, error)
	Update(ctx context.Context, p *entity.Payment) error
}
