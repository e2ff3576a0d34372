package dto

import "time"

// ReindexResponse summarizes one full vector-index rebuild.
type ReindexResponse struct {
	ListingsIndexed int   `json:"listings_indexed"`
	ArticlesIndexed int   `json:"articles_indexed"`
	ChunksIndexed   int   `json:"chunks_indexed"`
	DurationMillis  int64 `json:"duration_millis"`
}

// PublishEmbedListingMessage is the watermill payload queued when a
// listing's content changes and its vector must be rebuilt.
type PublishEmbedListingMessage struct {
	ListingId int64 `json:"listing_id"`
}

// AdminDashboardStats is the admin landing-page summary.
type AdminDashboardStats struct {
	TotalUsers        int64 `json:"total_users"`
	PublishedListings int64 `json:"published_listings"`
	PendingListings   int64 `json:"pending_listings"`
	SoldListings      int64 `json:"sold_listings"`
	KnowledgeArticles int64 `json:"knowledge_articles"`
	IndexedListings   int64 `json:"indexed_listings"`
	IndexedChunks     int64 `json:"indexed_chunks"`
}

type AdminUserResponse struct {
	Id        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type AdminListUsersResponse struct {
	Users []AdminUserResponse `json:"users"`
	Total int64               `json:"total"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active blocked"`
}

// LogEntry is one parsed line of the JSON application log.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Module    string `json:"module"`
	Message   string `json:"message"`
}
