package model

import (
	"time"

	"github.com/google/uuid"
)

type Favorite struct {
	Id        int64     `gorm:"primaryKey;autoIncrement"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_fav_user_listing"`
	ListingId int64     `gorm:"not null;uniqueIndex:idx_fav_user_listing"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Favorite) TableName() string {
	return "favorites"
}
