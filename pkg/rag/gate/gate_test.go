package gate

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"testing"

	"homefinder-be/pkg/llm"
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

func testLogger() *log.Logger {
	return log.New(os.Stderr, "", 0)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     Decision
	}{
		{"plain continue", "CONTINUE", DecisionContinue},
		{"plain more", "MORE", DecisionNeedMoreInfo},
		{"plain again", "AGAIN", DecisionOutOfDomain},
		{"again wins over more", "AGAIN MORE", DecisionOutOfDomain},
		{"token inside chatter", "I think the answer is MORE.", DecisionNeedMoreInfo},
		{"unrecognized falls open", "the question looks fine to me", DecisionContinue},
		{"empty falls open", "", DecisionContinue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.response); got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.response, got, tt.want)
			}
		})
	}
}

func TestClassifyPropagatesGatewayError(t *testing.T) {
	provider := &stubProvider{err: errors.New("provider unreachable")}
	g := NewGate(provider, testLogger())

	_, err := g.Classify(context.Background(), "USER: hi", "hello")
	if err == nil {
		t.Fatal("gateway error must propagate, not default to CONTINUE")
	}
}

func TestClassifyUsesEmptyHistoryPlaceholder(t *testing.T) {
	provider := &stubProvider{response: "CONTINUE"}
	g := NewGate(provider, testLogger())

	_, err := g.Classify(context.Background(), "", "a 3-bedroom near downtown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.prompt == "" {
		t.Fatal("expected classification prompt to be issued")
	}
	// The prompt must never embed an empty history slot
	if !strings.Contains(provider.prompt, "NONE") {
		t.Errorf("prompt should carry the NONE placeholder, got: %s", provider.prompt)
	}
}
