package unitofwork

import (
	"context"

	"homeclean-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ReservationRepository() contract.ReservationRepository
	MatchingRepository() contract.MatchingRepository
	PaymentRepository() contract.PaymentRepository
	RefundRepository() contract.RefundRepository
	ServiceRecordRepository() contract.ServiceRecordRepository
}
