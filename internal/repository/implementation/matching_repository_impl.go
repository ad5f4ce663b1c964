package implementation

import (
	"context"

	"homeclean-be/internal/entity"
	"homeclean-be/internal/mapper"
	"homeclean-be/internal/model"
	"homeclean-be/internal/repository/contract"
	"homeclean-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type matchingRepositoryImpl struct {
	db *gorm.DB
}

func NewMatchingRepository(db *gorm.DB) contract.MatchingRepository {
	return &matchingRepositoryImpl{db: db}
}

func (r *matchingRepositoryImpl) Create(ctx context.Context, m *entity.Matching) error {
	return r.db.WithContext(ctx).Create(r.toModel(m)).Error
}

func (r *matchingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Matching, error) {
	var m model.Matching
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

func (r *matchingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Matching, error) {
	var models []*model.Matching
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	var out []*entity.Matching
	for _, m := range models {
		out = append(out, r.toEntity(m))
	}
	return out, nil
}

func (r *matchingRepositoryImpl) FindUndecided(ctx context.Context, reservationId uuid.UUID) (*entity.Matching, error) {
	return r.FindOne(ctx,
		specification.ByReservationID{ReservationID: reservationId},
		specification.Undecided{},
	)
}

func (r *matchingRepositoryImpl) Update(ctx context.Context, m *entity.Matching) error {
	return r.db.WithContext(ctx).Model(&model.Matching{}).
		Where("id = ?", m.Id).
		Updates(map[string]interface{}{
			"decision":      string(m.Decision),
			"reject_reason": m.RejectReason,
			"decided_at":    m.DecidedAt,
		}).Error
}

func (r *matchingRepositoryImpl) SaveQueue(ctx context.Context, q *entity.MatchingQueue) error {
	raw, err := mapper.CandidatesToJSON(q.Candidates)
	if err != nil {
		return err
	}
	row := &model.MatchingQueue{
		ReservationId: q.ReservationId,
		Candidates:    raw,
		Cursor:        q.Cursor,
	}
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *matchingRepositoryImpl) FindQueue(ctx context.Context, reservationId uuid.UUID) (*entity.MatchingQueue, error) {
	var row model.MatchingQueue
	err := r.db.WithContext(ctx).Where("reservation_id = ?", reservationId).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	candidates, err := mapper.CandidatesFromJSON(row.Candidates)
	if err != nil {
		return nil, err
	}
	return &entity.MatchingQueue{
		ReservationId: row.ReservationId,
		Candidates:    candidates,
		Cursor:        row.Cursor,
		UpdatedAt:     row.UpdatedAt,
	}, nil
}

func (r *matchingRepositoryImpl) toModel(m *entity.Matching) *model.Matching {
	return &model.Matching{
		Id:            m.Id,
		ReservationId: m.ReservationId,
		ManagerId:     m.ManagerId,
		OfferedAt:     m.OfferedAt,
		Decision:      string(m.Decision),
		RejectReason:  m.RejectReason,
		DecidedAt:     m.DecidedAt,
	}
}

func (r *matchingRepositoryImpl) toEntity(m *model.Matching) *entity.Matching {
	return &entity.Matching{
		Id:            m.Id,
		ReservationId: m.ReservationId,
		ManagerId:     m.ManagerId,
		OfferedAt:     m.OfferedAt,
		Decision:      entity.MatchingDecision(m.Decision),
		RejectReason:  m.RejectReason,
		DecidedAt:     m.DecidedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
