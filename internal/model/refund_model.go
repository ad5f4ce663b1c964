package model

import (
	"time"

	"github.com/google/uuid"
)

type Refund struct {
	Id            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PaymentId     uuid.UUID  `gorm:"type:uuid;not null"`
	ReservationId uuid.UUID  `gorm:"type:uuid;not null;index"`
	Amount        int64      `gorm:"not null"`
	Reason        string     `gorm:"type:text"`
	Status        string     `gorm:"type:varchar(20);not null;default:'REQUESTED';index"` // REQUESTED, COMPLETED, REJECTED
	OperatorNotes string     `gorm:"type:text"`
	ProcessedAt   *time.Time
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`

	// Relations
	Payment Payment `gorm:"foreignKey:PaymentId"`
}

func (Refund) TableName() string {
	return "refunds"
}
