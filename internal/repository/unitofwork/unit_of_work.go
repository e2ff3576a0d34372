package unitofwork

import (
	"context"

	"homefinder-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ListingRepository() contract.ListingRepository
	ListingEmbeddingRepository() contract.ListingEmbeddingRepository
	ListingReviewRepository() contract.ListingReviewRepository
	KnowledgeRepository() contract.KnowledgeRepository
	KnowledgeEmbeddingRepository() contract.KnowledgeEmbeddingRepository
	FavoriteRepository() contract.FavoriteRepository
	AppointmentRepository() contract.AppointmentRepository
}
