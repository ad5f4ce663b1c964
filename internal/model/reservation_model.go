package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Reservation struct {
	Id            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Number        string     `gorm:"type:varchar(32);not null;uniqueIndex"`
	CustomerId    uuid.UUID  `gorm:"type:uuid;not null;index"`
	CategoryId    uuid.UUID  `gorm:"type:uuid;not null"`
	AddressId     uuid.UUID  `gorm:"type:uuid;not null"`
	ScheduledAt   time.Time  `gorm:"not null;index"`
	DurationHours int        `gorm:"not null"`
	Memo          string     `gorm:"type:text"`
	Amount        int64      `gorm:"not null"`
	Status        string     `gorm:"type:varchar(20);not null;index"` // WAITING, MATCHING, SCHEDULED, DONE, CANCEL, ERROR
	PaymentStatus string     `gorm:"type:varchar(20);not null"`       // PENDING, PAID, REFUNDED
	ManagerId     *uuid.UUID `gorm:"type:uuid"`
	CancelReason  string     `gorm:"type:text"`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (Reservation) TableName() string {
	return "reservations"
}
