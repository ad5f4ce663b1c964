package model

import (
	"time"

	"github.com/google/uuid"
)

type Payment struct {
	Id            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReservationId uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	Amount        int64      `gorm:"not null"`
	Method        string     `gorm:"type:varchar(50);not null"`
	Status        string     `gorm:"type:varchar(20);not null;default:'PENDING'"` // PENDING, PAID, REFUNDED
	RequestedAt   time.Time  `gorm:"not null"`
	PaidAt        *time.Time
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`

	Reservation Reservation `gorm:"foreignKey:ReservationId"`
}

func (Payment) TableName() string {
	return "payments"
}
