package model

import (
	"time"

	"github.com/google/uuid"
)

type ServiceRecord struct {
	Id            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReservationId uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	CheckinAt     *time.Time
	CheckoutAt    *time.Time
	Comment       string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`

	Reservation Reservation `gorm:"foreignKey:ReservationId"`
}

func (ServiceRecord) TableName() string {
	return "service_records"
}
