package rewrite

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"testing"

	"homefinder-be/pkg/llm"
	"homefinder-be/pkg/rag/session"
)

type stubProvider struct {
	response string
	err      error
	prompt   string
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.response, s.err
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	s.prompt = prompt
	return s.response, s.err
}

func (s *stubProvider) Stream(ctx context.Context, history []llm.Message, options ...llm.Option) (<-chan llm.StreamDelta, <-chan error) {
	deltas := make(chan llm.StreamDelta)
	errs := make(chan error, 1)
	close(deltas)
	close(errs)
	return deltas, errs
}

func TestTranscriptExcludesSystemTurns(t *testing.T) {
	history := []session.Turn{
		{Role: session.RoleSystem, Content: "you are an assistant"},
		{Role: session.RoleUser, Content: "show me flats downtown"},
		{Role: session.RoleAssistant, Content: "here are three options"},
	}

	got := Transcript(history)
	if strings.Contains(got, "you are an assistant") {
		t.Error("system turns must not appear in the transcript")
	}
	if !strings.Contains(got, "USER: \nshow me flats downtown") {
		t.Errorf("missing user line, got:\n%s", got)
	}
	if !strings.Contains(got, "ASSISTANT: \nhere are three options") {
		t.Errorf("missing assistant line, got:\n%s", got)
	}

	// Original order must be preserved
	if strings.Index(got, "USER") > strings.Index(got, "ASSISTANT") {
		t.Error("turns out of order")
	}
}

func TestTranscriptEmpty(t *testing.T) {
	if got := Transcript(nil); got != "" {
		t.Errorf("empty history should flatten to empty string, got %q", got)
	}
}

func TestRewriteReturnsModelOutput(t *testing.T) {
	provider := &stubProvider{response: "  three bedroom flats downtown under 2M  "}
	r := NewRewriter(provider, log.New(os.Stderr, "", 0))

	history := []session.Turn{{Role: session.RoleUser, Content: "flats downtown"}}
	got, err := r.Rewrite(context.Background(), history, "under 2M?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "three bedroom flats downtown under 2M" {
		t.Errorf("got %q", got)
	}
	if !strings.Contains(provider.prompt, "under 2M?") {
		t.Error("follow-up must be embedded in the rewrite prompt")
	}
}

func TestRewriteBlankFallsBackToFollowUp(t *testing.T) {
	provider := &stubProvider{response: "   "}
	r := NewRewriter(provider, log.New(os.Stderr, "", 0))

	got, err := r.Rewrite(context.Background(), nil, "original follow up")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "original follow up" {
		t.Errorf("blank rewrite must fall back to the input, got %q", got)
	}
}

func TestRewritePropagatesGatewayError(t *testing.T) {
	provider := &stubProvider{err: errors.New("boom")}
	r := NewRewriter(provider, log.New(os.Stderr, "", 0))

	_, err := r.Rewrite(context.Background(), nil, "anything")
	if err == nil {
		t.Fatal("gateway errors must propagate")
	}
}
