package retrieval

import (
	"context"
	"fmt"
	"log"
	"strings"

	"homefinder-be/internal/constant"
	"homefinder-be/pkg/embedding"
)

// Source is the capability set one indexed corpus exposes to retrieval.
// Nearest returns item ids by ascending vector distance (ties broken by
// insertion order). FetchByIDs resolves ids to items, preserving the order
// of the ids given; ids that no longer resolve are simply absent from the
// result.
type Source[T any] interface {
	Nearest(ctx context.Context, vector []float32, k int) ([]int64, error)
	FetchByIDs(ctx context.Context, ids []int64) ([]T, error)
}

// Service retrieves the k nearest items of one corpus for a query and
// renders them into an authoritative-information block. The same service
// works for any corpus; the render function is the corpus-specific part
// and must be deterministic, since embeddings are derived from the same
// rendering.
type Service[T any] struct {
	name     string
	embedder embedding.EmbeddingProvider
	source   Source[T]
	render   func(T) string
	logger   *log.Logger
}

func NewService[T any](
	name string,
	embedder embedding.EmbeddingProvider,
	source Source[T],
	render func(T) string,
	logger *log.Logger,
) *Service[T] {
	return &Service[T]{
		name:     name,
		embedder: embedder,
		source:   source,
		render:   render,
		logger:   logger,
	}
}

// Retrieve embeds the query, finds the k nearest items and renders them.
// Every query vector passes through Truncate so stored and queried vectors
// always agree on dimensionality.
func (s *Service[T]) Retrieve(ctx context.Context, query string, k int) (string, error) {
	resp, err := s.embedder.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return "", fmt.Errorf("embed query for %s: %w", s.name, err)
	}

	vector := embedding.Truncate(resp.Embedding.Values)

	ids, err := s.source.Nearest(ctx, vector, k)
	if err != nil {
		return "", fmt.Errorf("nearest search in %s: %w", s.name, err)
	}

	items, err := s.source.FetchByIDs(ctx, ids)
	if err != nil {
		return "", fmt.Errorf("fetch items from %s: %w", s.name, err)
	}

	s.logger.Printf("[RETRIEVAL] corpus=%s k=%d hits=%d resolved=%d", s.name, k, len(ids), len(items))

	var b strings.Builder
	for _, item := range items {
		b.WriteString(s.render(item))
		b.WriteString("\n")
	}

	return fmt.Sprintf(constant.AuthoritativeBlockFormat, b.String()), nil
}
