package dto

import "time"

type CreateListingRequest struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Address     string   `json:"address" validate:"required,max=255"`
	City        string   `json:"city" validate:"required,max=100"`
	District    string   `json:"district" validate:"max=100"`
	Rooms       int      `json:"rooms" validate:"gte=0"`
	Halls       int      `json:"halls" validate:"gte=0"`
	AreaSqm     float64  `json:"area_sqm" validate:"gt=0"`
	TotalPrice  int64    `json:"total_price" validate:"gt=0"`
	Orientation string   `json:"orientation" validate:"max=50"`
	Decoration  string   `json:"decoration" validate:"max=50"`
	Floor       string   `json:"floor" validate:"max=50"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type UpdateListingRequest struct {
	Id          int64    `json:"-"`
	Title       string   `json:"title" validate:"required,max=255"`
	Address     string   `json:"address" validate:"required,max=255"`
	City        string   `json:"city" validate:"required,max=100"`
	District    string   `json:"district" validate:"max=100"`
	Rooms       int      `json:"rooms" validate:"gte=0"`
	Halls       int      `json:"halls" validate:"gte=0"`
	AreaSqm     float64  `json:"area_sqm" validate:"gt=0"`
	TotalPrice  int64    `json:"total_price" validate:"gt=0"`
	Orientation string   `json:"orientation" validate:"max=50"`
	Decoration  string   `json:"decoration" validate:"max=50"`
	Floor       string   `json:"floor" validate:"max=50"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type ListingResponse struct {
	Id          int64     `json:"id"`
	Title       string    `json:"title"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	District    string    `json:"district"`
	Rooms       int       `json:"rooms"`
	Halls       int       `json:"halls"`
	AreaSqm     float64   `json:"area_sqm"`
	TotalPrice  int64     `json:"total_price"`
	UnitPrice   int64     `json:"unit_price"`
	Orientation string    `json:"orientation"`
	Decoration  string    `json:"decoration"`
	Floor       string    `json:"floor"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type ListListingsQuery struct {
	City     string `query:"city"`
	MinPrice int64  `query:"min_price"`
	MaxPrice int64  `query:"max_price"`
	Rooms    int    `query:"rooms"`
	Status   string `query:"status"`
	Limit    int    `query:"limit"`
	Offset   int    `query:"offset"`
}

type ListListingsResponse struct {
	Items []ListingResponse `json:"items"`
	Total int64             `json:"total"`
}

type ReviewListingRequest struct {
	Approved bool   `json:"approved"`
	Note     string `json:"note" validate:"max=1000"`
}
