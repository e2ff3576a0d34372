package rewrite

import (
	"context"
	"fmt"
	"log"
	"strings"

	"homefinder-be/internal/constant"
	"homefinder-be/pkg/llm"
	"homefinder-be/pkg/rag/session"
)

// Rewriter turns a follow-up fragment plus conversation history into a
// standalone retrieval query. Follow-ups like "and cheaper ones?" embed
// poorly on their own; the rewritten query carries the context along.
type Rewriter struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewRewriter(provider llm.LLMProvider, logger *log.Logger) *Rewriter {
	return &Rewriter{
		provider: provider,
		logger:   logger,
	}
}

// Transcript flattens history into role-prefixed lines, in order. System
// turns are excluded: the rewrite model only needs the dialogue itself.
func Transcript(history []session.Turn) string {
	var b strings.Builder
	for _, t := range history {
		switch t.Role {
		case session.RoleUser:
			b.WriteString("USER: \n")
			b.WriteString(t.Content)
			b.WriteString("\n")
		case session.RoleAssistant:
			b.WriteString("ASSISTANT: \n")
			b.WriteString(t.Content)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Rewrite produces a standalone query for the follow-up. The output is
// always a usable single string: a blank model reply falls back to the
// follow-up unchanged. Never called for the first turn of a conversation;
// the orchestrator uses the raw message directly there.
func (r *Rewriter) Rewrite(ctx context.Context, history []session.Turn, followUp string) (string, error) {
	prompt := fmt.Sprintf(constant.ChatRewritePrompt, Transcript(history), followUp)

	out, err := r.provider.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("query rewrite: %w", err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return followUp, nil
	}

	r.logger.Printf("[REWRITE] %q -> %q", followUp, out)
	return out, nil
}
