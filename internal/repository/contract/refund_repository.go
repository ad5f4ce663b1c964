package contract

import (
	"context"

	"homeclean-be/internal/entity"
	"homeclean-be/internal/repository/specification"

	"github.com/google/uuid"
)

type RefundRepository interface {
	Create(ctx context.Context, refund *entity.Refund) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Refund, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Refund, error)
	// FindByReservationId returns the newest refund for a reservation, or
	// nil. At most one should exist; newest-first protects against legacy
	// duplicates.
	FindByReservationId(ctx context.Context, reservationId uuid.UUID) (*entity.Refund, error)
	Update(ctx context.Context, refund *entity.Refund) error
}
