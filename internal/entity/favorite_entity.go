package entity

import (
	"time"

	"github.com/google/uuid"
)

type Favorite struct {
	Id        int64
	UserId    uuid.UUID
	ListingId int64
	CreatedAt time.Time
}
