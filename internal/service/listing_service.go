package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"homefinder-be/internal/dto"
	"homefinder-be/internal/entity"
	"homefinder-be/internal/pkg/serverutils"
	"homefinder-be/internal/repository/specification"
	"homefinder-be/internal/repository/unitofwork"
	"homefinder-be/pkg/embedding"
	"homefinder-be/pkg/events"
	pktNats "homefinder-be/pkg/nats"

	"github.com/google/uuid"
)

type IListingService interface {
	Create(ctx context.Context, ownerId uuid.UUID, req *dto.CreateListingRequest) (*dto.ListingResponse, error)
	Show(ctx context.Context, id int64) (*dto.ListingResponse, error)
	List(ctx context.Context, query *dto.ListListingsQuery) (*dto.ListListingsResponse, error)
	Search(ctx context.Context, q string, k int) ([]dto.ListingResponse, error)
	ListMine(ctx context.Context, ownerId uuid.UUID) ([]dto.ListingResponse, error)
	Update(ctx context.Context, ownerId uuid.UUID, req *dto.UpdateListingRequest) (*dto.ListingResponse, error)
	Delete(ctx context.Context, ownerId uuid.UUID, id int64) error
	Submit(ctx context.Context, ownerId uuid.UUID, id int64) error
	ListPending(ctx context.Context, query *dto.ListListingsQuery) (*dto.ListListingsResponse, error)
	Review(ctx context.Context, reviewerId uuid.UUID, id int64, req *dto.ReviewListingRequest) error
	MarkSold(ctx context.Context, ownerId uuid.UUID, id int64) error
}

type listingService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	embedder         embedding.EmbeddingProvider
	vectorSource     *ListingSource
}

func NewListingService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	embedder embedding.EmbeddingProvider,
) IListingService {
	return &listingService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		embedder:         embedder,
		vectorSource:     NewListingSource(uowFactory),
	}
}

func toListingResponse(l *entity.Listing) *dto.ListingResponse {
	return &dto.ListingResponse{
		Id:          l.Id,
		Title:       l.Title,
		Address:     l.Address,
		City:        l.City,
		District:    l.District,
		Rooms:       l.Rooms,
		Halls:       l.Halls,
		AreaSqm:     l.AreaSqm,
		TotalPrice:  l.TotalPrice,
		UnitPrice:   l.UnitPrice,
		Orientation: l.Orientation,
		Decoration:  l.Decoration,
		Floor:       l.Floor,
		Description: l.Description,
		Tags:        l.Tags,
		Status:      string(l.Status),
		CreatedAt:   l.CreatedAt,
	}
}

// unitPrice derives price per square metre. Stored denormalized so the
// rendered listing document carries it without a join.
func unitPrice(totalPrice int64, areaSqm float64) int64 {
	if areaSqm <= 0 {
		return 0
	}
	return int64(float64(totalPrice) / areaSqm)
}

func (s *listingService) Create(ctx context.Context, ownerId uuid.UUID, req *dto.CreateListingRequest) (*dto.ListingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	listing := entity.Listing{
		Title:       req.Title,
		Address:     req.Address,
		City:        req.City,
		District:    req.District,
		Rooms:       req.Rooms,
		Halls:       req.Halls,
		AreaSqm:     req.AreaSqm,
		TotalPrice:  req.TotalPrice,
		UnitPrice:   unitPrice(req.TotalPrice, req.AreaSqm),
		Orientation: req.Orientation,
		Decoration:  req.Decoration,
		Floor:       req.Floor,
		Description: req.Description,
		Tags:        req.Tags,
		Status:      entity.ListingStatusDraft,
		OwnerId:     ownerId,
		CreatedAt:   time.Now(),
	}

	if err := uow.ListingRepository().Create(ctx, &listing); err != nil {
		return nil, err
	}

	return toListingResponse(&listing), nil
}

func (s *listingService) Show(ctx context.Context, id int64) (*dto.ListingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	listing, err := uow.ListingRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, serverutils.NewNotFoundError("listing not found")
	}
	return toListingResponse(listing), nil
}

func (s *listingService) List(ctx context.Context, query *dto.ListListingsQuery) (*dto.ListListingsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Public search only ever sees published listings; the status filter in
	// the query narrows within that, it cannot widen it.
	specs := []specification.Specification{
		specification.ByStatus{Status: string(entity.ListingStatusPublished)},
	}
	if query.City != "" {
		specs = append(specs, specification.ByCity{City: query.City})
	}
	if query.MinPrice > 0 || query.MaxPrice > 0 {
		specs = append(specs, specification.ByPriceRange{Min: query.MinPrice, Max: query.MaxPrice})
	}
	if query.Rooms > 0 {
		specs = append(specs, specification.ByMinRooms{Rooms: query.Rooms})
	}

	total, err := uow.ListingRepository().Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	limit := query.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	specs = append(specs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: query.Offset},
	)

	listings, err := uow.ListingRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ListingResponse, len(listings))
	for i, l := range listings {
		items[i] = *toListingResponse(l)
	}

	return &dto.ListListingsResponse{Items: items, Total: total}, nil
}

// Search finds published listings by semantic similarity to a free-text
// query, ranked by ascending vector distance.
func (s *listingService) Search(ctx context.Context, q string, k int) ([]dto.ListingResponse, error) {
	if strings.TrimSpace(q) == "" {
		return nil, serverutils.NewBadRequestError("query is required")
	}
	if k < 1 || k > 50 {
		k = 10
	}

	res, err := s.embedder.Generate(q, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embed search query: %w", err)
	}

	ids, err := s.vectorSource.Nearest(ctx, embedding.Truncate(res.Embedding.Values), k)
	if err != nil {
		return nil, err
	}

	listings, err := s.vectorSource.FetchByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ListingResponse, len(listings))
	for i, l := range listings {
		items[i] = *toListingResponse(l)
	}
	return items, nil
}

func (s *listingService) ListMine(ctx context.Context, ownerId uuid.UUID) ([]dto.ListingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	listings, err := uow.ListingRepository().FindAll(ctx,
		specification.ByOwner{OwnerId: ownerId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ListingResponse, len(listings))
	for i, l := range listings {
		items[i] = *toListingResponse(l)
	}
	return items, nil
}

// ListPending is the admin review queue, oldest submissions first.
func (s *listingService) ListPending(ctx context.Context, query *dto.ListListingsQuery) (*dto.ListListingsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.ByStatus{Status: string(entity.ListingStatusPending)},
	}

	total, err := uow.ListingRepository().Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	limit := query.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	specs = append(specs,
		specification.OrderBy{Field: "updated_at", Desc: false},
		specification.Pagination{Limit: limit, Offset: query.Offset},
	)

	listings, err := uow.ListingRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ListingResponse, len(listings))
	for i, l := range listings {
		items[i] = *toListingResponse(l)
	}
	return &dto.ListListingsResponse{Items: items, Total: total}, nil
}

func (s *listingService) Update(ctx context.Context, ownerId uuid.UUID, req *dto.UpdateListingRequest) (*dto.ListingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	listing, err := uow.ListingRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.ByOwner{OwnerId: ownerId},
	)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, serverutils.NewNotFoundError("listing not found")
	}

	now := time.Now()
	listing.Title = req.Title
	listing.Address = req.Address
	listing.City = req.City
	listing.District = req.District
	listing.Rooms = req.Rooms
	listing.Halls = req.Halls
	listing.AreaSqm = req.AreaSqm
	listing.TotalPrice = req.TotalPrice
	listing.UnitPrice = unitPrice(req.TotalPrice, req.AreaSqm)
	listing.Orientation = req.Orientation
	listing.Decoration = req.Decoration
	listing.Floor = req.Floor
	listing.Description = req.Description
	listing.Tags = req.Tags
	listing.UpdatedAt = &now

	// Content changes on a live listing go back through review.
	if listing.Status == entity.ListingStatusPublished {
		listing.Status = entity.ListingStatusPending
	}

	if err := uow.ListingRepository().Update(ctx, listing); err != nil {
		return nil, err
	}

	// Re-queue indexing; the consumer removes the vector for anything no
	// longer published.
	if err := s.queueEmbed(ctx, listing.Id); err != nil {
		return nil, err
	}

	return toListingResponse(listing), nil
}

func (s *listingService) Delete(ctx context.Context, ownerId uuid.UUID, id int64) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	listing, err := uow.ListingRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByOwner{OwnerId: ownerId},
	)
	if err != nil {
		return err
	}
	if listing == nil {
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ListingRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.ListingEmbeddingRepository().DeleteByListingId(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *listingService) Submit(ctx context.Context, ownerId uuid.UUID, id int64) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	listing, err := uow.ListingRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByOwner{OwnerId: ownerId},
	)
	if err != nil {
		return err
	}
	if listing == nil {
		return serverutils.NewNotFoundError("listing not found")
	}

	if listing.Status != entity.ListingStatusDraft && listing.Status != entity.ListingStatusRejected {
		return serverutils.NewConflictError("listing cannot be submitted in its current state")
	}

	now := time.Now()
	listing.Status = entity.ListingStatusPending
	listing.UpdatedAt = &now
	return uow.ListingRepository().Update(ctx, listing)
}

func (s *listingService) Review(ctx context.Context, reviewerId uuid.UUID, id int64, req *dto.ReviewListingRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	listing, err := uow.ListingRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if listing == nil {
		return serverutils.NewNotFoundError("listing not found")
	}
	if listing.Status != entity.ListingStatusPending {
		return serverutils.NewConflictError("listing is not pending review")
	}

	now := time.Now()
	if req.Approved {
		listing.Status = entity.ListingStatusPublished
	} else {
		listing.Status = entity.ListingStatusRejected
	}
	listing.UpdatedAt = &now

	review := entity.ListingReview{
		ListingId:  listing.Id,
		ReviewerId: reviewerId,
		Approved:   req.Approved,
		Note:       req.Note,
		CreatedAt:  now,
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ListingRepository().Update(ctx, listing); err != nil {
		return err
	}
	if err := uow.ListingReviewRepository().Create(ctx, &review); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	// Published listings join the vector index, everything else leaves it.
	// The consumer decides based on the listing's current status.
	if err := s.queueEmbed(ctx, listing.Id); err != nil {
		return err
	}

	eventType := "LISTING_REJECTED"
	if req.Approved {
		eventType = "LISTING_PUBLISHED"
	}
	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: eventType,
			Data: map[string]interface{}{
				"listing_id": listing.Id,
				"title":      listing.Title,
				"user_id":    listing.OwnerId.String(),
				"note":       req.Note,
			},
			OccurredAt: now,
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish %s event: %v\n", eventType, err)
		}
	}

	return nil
}

func (s *listingService) MarkSold(ctx context.Context, ownerId uuid.UUID, id int64) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	listing, err := uow.ListingRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByOwner{OwnerId: ownerId},
	)
	if err != nil {
		return err
	}
	if listing == nil {
		return serverutils.NewNotFoundError("listing not found")
	}
	if listing.Status != entity.ListingStatusPublished {
		return serverutils.NewConflictError("only published listings can be marked sold")
	}

	now := time.Now()
	listing.Status = entity.ListingStatusSold
	listing.UpdatedAt = &now
	if err := uow.ListingRepository().Update(ctx, listing); err != nil {
		return err
	}

	// Sold listings drop out of the chat index.
	return s.queueEmbed(ctx, listing.Id)
}

func (s *listingService) queueEmbed(ctx context.Context, listingId int64) error {
	payload := dto.PublishEmbedListingMessage{ListingId: listingId}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.publisherService.Publish(ctx, payloadJson)
}
