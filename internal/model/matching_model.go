package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Matching struct {
	Id            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReservationId uuid.UUID  `gorm:"type:uuid;not null;index"`
	ManagerId     uuid.UUID  `gorm:"type:uuid;not null;index"`
	OfferedAt     time.Time  `gorm:"not null"`
	Decision      string     `gorm:"type:varchar(20);not null;default:'';index"` // '', accepted, rejected, expired
	RejectReason  string     `gorm:"type:text"`
	DecidedAt     *time.Time
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`

	Reservation Reservation `gorm:"foreignKey:ReservationId"`
}

func (Matching) TableName() string {
	return "matchings"
}

// MatchingQueue keeps the remaining candidate managers per reservation.
// Candidates is a JSON array of manager UUIDs in offer order.
type MatchingQueue struct {
	ReservationId uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Candidates    datatypes.JSON `gorm:"not null"`
	Cursor        int            `gorm:"not null;default:0"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
}

func (MatchingQueue) TableName() string {
	return "matching_queues"
}
