package contract

import (
	"context"

	"homeclean-be/internal/entity"
	"homeclean-be/internal/repository/specification"

	"github.com/google/uuid"
)

type MatchingRepository interface {
	Create(ctx context.Context, m *entity.Matching) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Matching, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Matching, error)
	// FindUndecided returns the single open offer for a reservation, or nil.
	FindUndecided(ctx context.Context, reservationId uuid.UUID) (*entity.Matching, error)
	Update(ctx context.Context, m *entity.Matching) error

	// Candidate queue, one row per reservation.
	SaveQueue(ctx context.Context, q *entity.MatchingQueue) error
	FindQueue(ctx context.Context, reservationId uuid.UUID) (*entity.MatchingQueue, error)
}
