package dto

import "time"

type FavoriteResponse struct {
	Id        int64           `json:"id"`
	Listing   ListingResponse `json:"listing"`
	CreatedAt time.Time       `json:"created_at"`
}
