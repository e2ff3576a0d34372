package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"testing"

	"homefinder-be/pkg/embedding"
)

type stubEmbedder struct {
	values []float32
	err    error
}

func (s *stubEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: s.values},
	}, nil
}

type stubItem struct {
	id   int64
	text string
}

type stubSource struct {
	ids        []int64
	items      map[int64]stubItem
	nearestErr error
	gotVector  []float32
	gotK       int
}

func (s *stubSource) Nearest(ctx context.Context, vector []float32, k int) ([]int64, error) {
	s.gotVector = vector
	s.gotK = k
	if s.nearestErr != nil {
		return nil, s.nearestErr
	}
	return s.ids, nil
}

func (s *stubSource) FetchByIDs(ctx context.Context, ids []int64) ([]stubItem, error) {
	var out []stubItem
	for _, id := range ids {
		if item, ok := s.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func newTestService(src *stubSource, emb *stubEmbedder) *Service[stubItem] {
	return NewService("test-corpus", emb, src,
		func(i stubItem) string { return i.text },
		log.New(os.Stderr, "", 0),
	)
}

func TestRetrieveRendersResolvableItemsOnly(t *testing.T) {
	// 5 hits, 2 of them point at deleted items
	src := &stubSource{
		ids: []int64{1, 2, 3, 4, 5},
		items: map[int64]stubItem{
			1: {1, "first listing"},
			3: {3, "third listing"},
			5: {5, "fifth listing"},
		},
	}
	svc := newTestService(src, &stubEmbedder{values: []float32{0.1, 0.2}})

	block, err := svc.Retrieve(context.Background(), "downtown flat", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"first listing", "third listing", "fifth listing"} {
		if !strings.Contains(block, want) {
			t.Errorf("missing %q in block:\n%s", want, block)
		}
	}
	if strings.Count(block, "listing") != 3 {
		t.Errorf("expected exactly 3 rendered items, block:\n%s", block)
	}
	if !strings.HasPrefix(block, "<authoritative-information>") ||
		!strings.HasSuffix(block, "</authoritative-information>") {
		t.Errorf("block not delimited:\n%s", block)
	}
}

func TestRetrievePreservesDistanceOrder(t *testing.T) {
	src := &stubSource{
		ids: []int64{9, 2, 7},
		items: map[int64]stubItem{
			2: {2, "item-two"},
			7: {7, "item-seven"},
			9: {9, "item-nine"},
		},
	}
	svc := newTestService(src, &stubEmbedder{values: []float32{1}})

	block, err := svc.Retrieve(context.Background(), "q", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	posNine := strings.Index(block, "item-nine")
	posTwo := strings.Index(block, "item-two")
	posSeven := strings.Index(block, "item-seven")
	if !(posNine < posTwo && posTwo < posSeven) {
		t.Errorf("items out of distance order:\n%s", block)
	}
}

func TestRetrieveTruncatesQueryVector(t *testing.T) {
	oversized := make([]float32, embedding.MaxEmbeddingDim+100)
	for i := range oversized {
		oversized[i] = float32(i)
	}
	src := &stubSource{ids: nil, items: nil}
	svc := newTestService(src, &stubEmbedder{values: oversized})

	if _, err := svc.Retrieve(context.Background(), "q", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(src.gotVector) != embedding.MaxEmbeddingDim {
		t.Fatalf("query vector length = %d, want %d", len(src.gotVector), embedding.MaxEmbeddingDim)
	}
}

func TestRetrievePropagatesErrors(t *testing.T) {
	t.Run("embedder failure", func(t *testing.T) {
		svc := newTestService(&stubSource{}, &stubEmbedder{err: errors.New("down")})
		if _, err := svc.Retrieve(context.Background(), "q", 5); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("index failure", func(t *testing.T) {
		src := &stubSource{nearestErr: fmt.Errorf("index broken")}
		svc := newTestService(src, &stubEmbedder{values: []float32{1}})
		if _, err := svc.Retrieve(context.Background(), "q", 5); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestRetrieveForwardsFanout(t *testing.T) {
	src := &stubSource{}
	svc := newTestService(src, &stubEmbedder{values: []float32{1}})
	if _, err := svc.Retrieve(context.Background(), "q", 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.gotK != 7 {
		t.Errorf("k = %d, want 7", src.gotK)
	}
}
