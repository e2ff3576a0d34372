package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"runtime"
	"testing"
	"time"

	"homefinder-be/internal/constant"
	"homefinder-be/internal/dto"
	"homefinder-be/pkg/llm"
	"homefinder-be/pkg/rag/gate"
	"homefinder-be/pkg/rag/orchestrator"
	"homefinder-be/pkg/rag/rewrite"
	"homefinder-be/pkg/rag/session"
)

// chatStubProvider answers the gate with CONTINUE and streams a fixed
// two-delta reply.
type chatStubProvider struct{}

func (p *chatStubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return constant.GateTokenContinue, nil
}

func (p *chatStubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return constant.GateTokenContinue, nil
}

func (p *chatStubProvider) Stream(ctx context.Context, history []llm.Message, options ...llm.Option) (<-chan llm.StreamDelta, <-chan error) {
	deltas := make(chan llm.StreamDelta, 3)
	errs := make(chan error, 1)
	deltas <- llm.StreamDelta{Content: "Sure"}
	deltas <- llm.StreamDelta{Content: "!"}
	deltas <- llm.StreamDelta{Done: true}
	close(deltas)
	close(errs)
	return deltas, errs
}

// endlessStubProvider gates like chatStubProvider but streams deltas
// until the turn's context is cancelled, like a real model reply that
// outlives the client.
type endlessStubProvider struct{ chatStubProvider }

func (p *endlessStubProvider) Stream(ctx context.Context, history []llm.Message, options ...llm.Option) (<-chan llm.StreamDelta, <-chan error) {
	deltas := make(chan llm.StreamDelta)
	errs := make(chan error, 1)
	go func() {
		defer close(deltas)
		defer close(errs)
		for {
			select {
			case deltas <- llm.StreamDelta{Content: "x"}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return deltas, errs
}

type fixedRetriever struct{ block string }

func (r *fixedRetriever) Retrieve(ctx context.Context, query string, k int) (string, error) {
	return r.block, nil
}

func newTestChatService() IChatService {
	logger := log.New(io.Discard, "", 0)
	provider := &chatStubProvider{}
	orch := orchestrator.NewOrchestrator(
		session.NewStore(constant.ChatSystemPrompt),
		gate.NewGate(provider, logger),
		rewrite.NewRewriter(provider, logger),
		&fixedRetriever{block: "<authoritative-information>\nlistings\n</authoritative-information>"},
		&fixedRetriever{block: "<authoritative-information>\nknowledge\n</authoritative-information>"},
		provider,
		5,
		logger,
	)
	return NewChatService(orch, provider)
}

func collectChat(t *testing.T, chunks <-chan dto.StreamChatResp, errs <-chan error) []dto.StreamChatResp {
	t.Helper()
	var out []dto.StreamChatResp
	timeout := time.After(2 * time.Second)
	for {
		select {
		case c, ok := <-chunks:
			if !ok {
				if err := <-errs; err != nil {
					t.Fatalf("unexpected stream error: %v", err)
				}
				return out
			}
			out = append(out, c)
		case <-timeout:
			t.Fatal("timed out waiting for chat stream")
		}
	}
}

func TestStreamChatMapsChunksToWireFormat(t *testing.T) {
	svc := newTestChatService()

	req := &dto.StreamChatRequest{Uuid: "conv-1", Message: "two bedroom flats in Springfield"}
	chunks, errs := svc.StreamChat(context.Background(), req)
	got := collectChat(t, chunks, errs)

	if len(got) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %+v", len(got), got)
	}

	if got[0].Content != "Sure" || got[0].Role != constant.StreamRoleAssistant || got[0].Finished {
		t.Errorf("unexpected first chunk: %+v", got[0])
	}

	last := got[len(got)-1]
	if !last.Finished {
		t.Errorf("final chunk not marked finished: %+v", last)
	}
	if last.AggregationMessage != "Sure!" {
		t.Errorf("aggregation = %q, want %q", last.AggregationMessage, "Sure!")
	}
}

// A client that disconnects mid-stream stops reading chunks entirely. The
// adapter must still wind down once the turn's context is cancelled instead
// of blocking on its next send forever.
func TestStreamChatReleasesGoroutinesOnClientDisconnect(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	provider := &endlessStubProvider{}
	orch := orchestrator.NewOrchestrator(
		session.NewStore(constant.ChatSystemPrompt),
		gate.NewGate(provider, logger),
		rewrite.NewRewriter(provider, logger),
		&fixedRetriever{},
		&fixedRetriever{},
		provider,
		5,
		logger,
	)
	svc := NewChatService(orch, provider)

	before := runtime.NumGoroutine()

	for i := 0; i < 20; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		chunks, _ := svc.StreamChat(ctx, &dto.StreamChatRequest{
			Uuid:    fmt.Sprintf("conv-gone-%d", i),
			Message: "any flats left?",
		})

		select {
		case <-chunks:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for first chunk")
		}
		// Disconnect without draining the rest of the stream.
		cancel()
	}

	deadline := time.After(2 * time.Second)
	for runtime.NumGoroutine() > before+2 {
		select {
		case <-deadline:
			t.Fatalf("stream goroutines leaked: %d before, %d after", before, runtime.NumGoroutine())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestStreamChatBusyConversation(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	provider := &chatStubProvider{}
	sessions := session.NewStore(constant.ChatSystemPrompt)
	orch := orchestrator.NewOrchestrator(
		sessions,
		gate.NewGate(provider, logger),
		rewrite.NewRewriter(provider, logger),
		&fixedRetriever{},
		&fixedRetriever{},
		provider,
		5,
		logger,
	)
	busySvc := NewChatService(orch, provider)

	conv, _ := sessions.GetOrCreate("conv-busy")
	if !conv.TryBeginStream() {
		t.Fatal("could not claim conversation for test setup")
	}
	defer conv.EndStream()

	chunks, errs := busySvc.StreamChat(context.Background(), &dto.StreamChatRequest{Uuid: "conv-busy", Message: "hello"})
	got := collectChat(t, chunks, errs)

	if len(got) != 1 {
		t.Fatalf("expected single busy chunk, got %d", len(got))
	}
	if got[0].Role != constant.StreamRoleSystem || !got[0].Finished {
		t.Errorf("unexpected busy chunk: %+v", got[0])
	}
	if got[0].Content != constant.ChatBusyResponse {
		t.Errorf("busy content = %q", got[0].Content)
	}
}
