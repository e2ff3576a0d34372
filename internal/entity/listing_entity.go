package entity

import (
	"time"

	"github.com/google/uuid"
)

type ListingStatus string

const (
	ListingStatusDraft     ListingStatus = "draft"
	ListingStatusPending   ListingStatus = "pending"
	ListingStatusPublished ListingStatus = "published"
	ListingStatusRejected  ListingStatus = "rejected"
	ListingStatusSold      ListingStatus = "sold"
)

// Listing is one property on the marketplace. Numeric id so the chat model
// can cite it inline.
type Listing struct {
	Id          int64
	Title       string
	Address     string
	City        string
	District    string
	Rooms       int
	Halls       int
	AreaSqm     float64
	TotalPrice  int64 // total price, in whole currency units
	UnitPrice   int64 // price per square metre
	Orientation string
	Decoration  string
	Floor       string
	Description string
	Tags        []string
	Status      ListingStatus
	OwnerId     uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}

// ListingEmbedding is the vector-index row for one listing. One row per
// listing; the document is the rendered listing text the vector was
// computed from.
type ListingEmbedding struct {
	Id             int64
	ListingId      int64
	Document       string
	EmbeddingValue []float32
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}

// ListingReview records an admin's publish/reject decision for a listing.
type ListingReview struct {
	Id         int64
	ListingId  int64
	ReviewerId uuid.UUID
	Approved   bool
	Note       string
	CreatedAt  time.Time
}
