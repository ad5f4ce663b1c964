package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"homeclean-be/internal/entity"
	"homeclean-be/internal/repository/specification"
	"homeclean-be/internal/repository/unitofwork"
	"homeclean-be/pkg/database"
	"homeclean-be/pkg/lifecycle"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.ReservationRepository())
	assert.NotNil(t, uow.MatchingRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check Transactional Reservation Create", func(t *testing.T) {
		ctx := context.Background()
		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		resId := uuid.New()
		res := &entity.Reservation{
			Id:            resId,
			Number:        "RTEST-" + uuid.New().String()[:6],
			CustomerId:    uuid.New(),
			CategoryId:    uuid.New(),
			AddressId:     uuid.New(),
			ScheduledAt:   time.Now().Add(48 * time.Hour),
			DurationHours: 4,
			Amount:        60000,
			Status:        lifecycle.StatusWaiting,
			PaymentStatus: lifecycle.PaymentPending,
		}
		err = uow.ReservationRepository().Create(ctx, res)
		assert.NoError(t, err)

		queue := &entity.MatchingQueue{
			ReservationId: resId,
			Candidates:    []uuid.UUID{uuid.New(), uuid.New()},
		}
		err = uow.MatchingRepository().SaveQueue(ctx, queue)
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		t.Log("Successfully created Reservation with MatchingQueue in Transaction")
	})

	t.Run("Check Open Offer Uniqueness", func(t *testing.T) {
		ctx := context.Background()
		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		resId := uuid.New()
		res := &entity.Reservation{
			Id:            resId,
			Number:        "RTEST-" + uuid.New().String()[:6],
			CustomerId:    uuid.New(),
			CategoryId:    uuid.New(),
			AddressId:     uuid.New(),
			ScheduledAt:   time.Now().Add(48 * time.Hour),
			DurationHours: 2,
			Amount:        30000,
			Status:        lifecycle.StatusMatching,
			PaymentStatus: lifecycle.PaymentPending,
		}
		err = uow.ReservationRepository().Create(ctx, res)
		assert.NoError(t, err)

		first := &entity.Matching{
			Id:            uuid.New(),
			ReservationId: resId,
			ManagerId:     uuid.New(),
			OfferedAt:     time.Now(),
		}
		err = uow.MatchingRepository().Create(ctx, first)
		assert.NoError(t, err)

		// The partial unique index rejects a second undecided offer.
		second := &entity.Matching{
			Id:            uuid.New(),
			ReservationId: resId,
			ManagerId:     uuid.New(),
			OfferedAt:     time.Now(),
		}
		err = uow.MatchingRepository().Create(ctx, second)
		assert.Error(t, err)
	})

	t.Run("Check Specification Lookup", func(t *testing.T) {
		ctx := context.Background()
		_, err := uow.ReservationRepository().FindOne(ctx, specification.ByID{ID: uuid.New()})
		// Not-found must come back as a nil row, not a driver error.
		assert.NoError(t, err)
	})
}
