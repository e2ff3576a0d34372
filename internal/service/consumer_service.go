package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"homefinder-be/internal/dto"
	"homefinder-be/internal/entity"
	"homefinder-be/internal/repository/specification"
	"homefinder-be/internal/repository/unitofwork"
	"homefinder-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedListingMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing listing embedding for ListingId: %d", payload.ListingId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	listing, err := uow.ListingRepository().FindOne(ctx, specification.ByID{ID: payload.ListingId})
	if err != nil {
		log.Printf("[ERROR] Failed to get listing %d: %v", payload.ListingId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if listing == nil {
		log.Printf("[ERROR] Listing not found: %d", payload.ListingId)
		msg.Ack() // Listing deleted? Ack.
		return
	}

	// Unpublished listings never belong in the vector index. If the listing
	// dropped out of published state since the message was queued, make sure
	// any stale vector is gone and stop.
	if listing.Status != entity.ListingStatusPublished {
		log.Printf("[INFO] Listing %d is %s, removing from index", listing.Id, listing.Status)
		if err := uow.ListingEmbeddingRepository().DeleteByListingId(ctx, listing.Id); err != nil {
			log.Printf("[ERROR] Failed to remove embedding for listing %d: %v", listing.Id, err)
			msg.Nack()
			return
		}
		msg.Ack()
		return
	}

	document := RenderListingDocument(listing)
	log.Printf("[INFO] Generating embedding for listing %d (document length: %d)", listing.Id, len(document))

	res, err := cs.embeddingProvider.Generate(document, "RETRIEVAL_DOCUMENT")
	if err != nil {
		log.Printf("[ERROR] Failed to generate embedding for listing %d: %v", listing.Id, err)
		msg.Nack()
		return
	}

	vec := embedding.Truncate(res.Embedding.Values)
	if err := embedding.CheckDim(vec, embedding.MaxEmbeddingDim); err != nil {
		// Misconfigured embedding model; redelivery cannot fix this.
		log.Printf("[ERROR] Rejecting embedding for listing %d: %v", listing.Id, err)
		msg.Ack()
		return
	}

	now := time.Now()
	emb := &entity.ListingEmbedding{
		ListingId:      listing.Id,
		Document:       document,
		EmbeddingValue: vec,
		CreatedAt:      now,
		UpdatedAt:      &now,
	}

	if err := uow.ListingEmbeddingRepository().Upsert(ctx, emb); err != nil {
		log.Printf("[ERROR] Failed to upsert embedding for listing %d: %v", listing.Id, err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Listing indexed: ListingId %d", listing.Id)
	msg.Ack()
}
