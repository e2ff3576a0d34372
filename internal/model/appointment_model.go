package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Appointment struct {
	Id        int64          `gorm:"primaryKey;autoIncrement"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	ListingId int64          `gorm:"not null;index"`
	VisitAt   time.Time      `gorm:"not null"`
	Status    string         `gorm:"type:varchar(20);not null;default:'requested'"`
	Note      string         `gorm:"type:text"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Appointment) TableName() string {
	return "appointments"
}
