package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Listing struct {
	Id          int64          `gorm:"primaryKey;autoIncrement"`
	Title       string         `gorm:"type:varchar(255);not null"`
	Address     string         `gorm:"type:varchar(255);not null"`
	City        string         `gorm:"type:varchar(100);index"`
	District    string         `gorm:"type:varchar(100)"`
	Rooms       int            `gorm:"not null;default:0"`
	Halls       int            `gorm:"not null;default:0"`
	AreaSqm     float64        `gorm:"not null;default:0"`
	TotalPrice  int64          `gorm:"not null;default:0;index"`
	UnitPrice   int64          `gorm:"not null;default:0"`
	Orientation string         `gorm:"type:varchar(50)"`
	Decoration  string         `gorm:"type:varchar(50)"`
	Floor       string         `gorm:"type:varchar(50)"`
	Description string         `gorm:"type:text"`
	Tags        datatypes.JSON `gorm:"type:jsonb"`
	Status      string         `gorm:"type:varchar(20);not null;default:'draft';index"`
	OwnerId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Listing) TableName() string {
	return "listings"
}

type ListingEmbedding struct {
	Id             int64           `gorm:"primaryKey;autoIncrement"`
	ListingId      int64           `gorm:"not null;uniqueIndex"`
	Document       string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(1536)"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt  `gorm:"index"`
}

func (ListingEmbedding) TableName() string {
	return "listing_embeddings"
}

type ListingReview struct {
	Id         int64     `gorm:"primaryKey;autoIncrement"`
	ListingId  int64     `gorm:"not null;index"`
	ReviewerId uuid.UUID `gorm:"type:uuid;not null"`
	Approved   bool      `gorm:"not null"`
	Note       string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (ListingReview) TableName() string {
	return "listing_reviews"
}
