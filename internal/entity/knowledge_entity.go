package entity

import "time"

// KnowledgeArticle is curated domain knowledge (buying guides, tax rules,
// neighbourhood facts) served to the chat model alongside listings.
type KnowledgeArticle struct {
	Id        int64
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

// KnowledgeEmbedding is one indexed chunk of an article. Long articles are
// split into overlapping chunks before embedding.
type KnowledgeEmbedding struct {
	Id             int64
	ArticleId      int64
	ChunkIndex     int
	Document       string
	EmbeddingValue []float32
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
