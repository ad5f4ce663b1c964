package contract

import (
	"context"

	"homeclean-be/internal/entity"
	"homeclean-be/internal/repository/specification"
)

type ReservationRepository interface {
	Create(ctx context.Context, res *entity.Reservation) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Reservation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Reservation, error)
	// Update persists the full lifecycle-owned column set. Only the
	// reservation service calls this; boundary layers read, never write.
	Update(ctx context.Context, res *entity.Reservation) error
}
