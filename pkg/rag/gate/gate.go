package gate

import (
	"context"
	"fmt"
	"log"
	"strings"

	"homefinder-be/internal/constant"
	"homefinder-be/pkg/llm"
)

// Decision is the gate's label for one user turn.
type Decision int

const (
	DecisionContinue Decision = iota
	DecisionNeedMoreInfo
	DecisionOutOfDomain
)

func (d Decision) String() string {
	switch d {
	case DecisionNeedMoreInfo:
		return "NEED_MORE_INFO"
	case DecisionOutOfDomain:
		return "OUT_OF_DOMAIN"
	default:
		return "CONTINUE"
	}
}

// Gate decides whether a turn should be answered, pushed back for more
// detail, or refused. It issues one completion with a fixed classification
// instruction and matches the literal reply against the gate tokens.
type Gate struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewGate(provider llm.LLMProvider, logger *log.Logger) *Gate {
	return &Gate{
		provider: provider,
		logger:   logger,
	}
}

// Classify labels the latest message given the flattened history.
// A gateway failure propagates as an error rather than defaulting to
// CONTINUE: silently bypassing the gate would change answer-quality
// guarantees. An unrecognized reply, by contrast, fails open to CONTINUE
// because the gate is advisory, not authoritative.
func (g *Gate) Classify(ctx context.Context, historyText, latestMessage string) (Decision, error) {
	if historyText == "" {
		historyText = constant.EmptyHistoryPlaceholder
	}

	prompt := fmt.Sprintf(constant.ChatGatePrompt, historyText, latestMessage)
	resp, err := g.provider.Generate(ctx, prompt)
	if err != nil {
		return DecisionContinue, fmt.Errorf("intent gate: %w", err)
	}

	decision := Parse(resp)
	g.logger.Printf("[GATE] decision=%s raw=%q", decision, truncate(resp, 40))
	return decision, nil
}

// Parse maps the model's literal reply to a Decision. Priority order:
// AGAIN beats MORE beats everything else.
func Parse(response string) Decision {
	switch {
	case strings.Contains(response, constant.GateTokenOutOfDomain):
		return DecisionOutOfDomain
	case strings.Contains(response, constant.GateTokenNeedMoreInfo):
		return DecisionNeedMoreInfo
	default:
		return DecisionContinue
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
