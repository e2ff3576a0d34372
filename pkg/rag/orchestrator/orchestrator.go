package orchestrator

import (
	"context"
	"fmt"
	"log"
	"strings"

	"homefinder-be/internal/constant"
	"homefinder-be/pkg/llm"
	"homefinder-be/pkg/rag/gate"
	"homefinder-be/pkg/rag/rewrite"
	"homefinder-be/pkg/rag/session"
)

// Chunk is one increment of a streamed answer as delivered to the caller.
// Short-circuited turns (busy, out-of-domain, need-more-info) are a single
// System chunk with Finished=true; genuine failures terminate the error
// channel instead.
type Chunk struct {
	Content   string `json:"content"`
	Role      string `json:"role"`
	Finished  bool   `json:"finished"`
	Aggregate string `json:"aggregationMessage"`
}

// Retriever is the slice of the retrieval service the orchestrator needs.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) (string, error)
}

// Orchestrator runs the per-turn pipeline: session claim, intent gate,
// query rewrite, two-corpus retrieval, prompt assembly and incremental
// streaming with exactly-once commit of the aggregated assistant turn.
type Orchestrator struct {
	sessions  *session.Store
	gate      *gate.Gate
	rewriter  *rewrite.Rewriter
	listings  Retriever
	knowledge Retriever
	provider  llm.LLMProvider
	fanout    int
	logger    *log.Logger
}

func NewOrchestrator(
	sessions *session.Store,
	g *gate.Gate,
	rewriter *rewrite.Rewriter,
	listings Retriever,
	knowledge Retriever,
	provider llm.LLMProvider,
	fanout int,
	logger *log.Logger,
) *Orchestrator {
	if fanout <= 0 {
		fanout = 5
	}
	return &Orchestrator{
		sessions:  sessions,
		gate:      g,
		rewriter:  rewriter,
		listings:  listings,
		knowledge: knowledge,
		provider:  provider,
		fanout:    fanout,
		logger:    logger,
	}
}

// HandleTurn processes one user message for a conversation and returns the
// response stream. The chunk channel carries ordered increments and is
// closed on completion; a pipeline failure is reported once on the error
// channel. At most one turn streams per conversation at a time: a
// contended conversation answers with a single busy chunk and no history
// mutation.
func (o *Orchestrator) HandleTurn(ctx context.Context, conversationID, message string) (<-chan Chunk, <-chan error) {
	chunks := make(chan Chunk, 1)
	errs := make(chan error, 1)

	conv, created := o.sessions.GetOrCreate(conversationID)
	if created {
		o.logger.Printf("[TURN] new conversation %s", conversationID)
	}

	if !conv.TryBeginStream() {
		o.logger.Printf("[TURN] conversation %s busy, rejecting", conversationID)
		chunks <- Chunk{
			Content:   constant.ChatBusyResponse,
			Role:      constant.StreamRoleSystem,
			Finished:  true,
			Aggregate: constant.ChatBusyResponse,
		}
		close(chunks)
		close(errs)
		return chunks, errs
	}

	go func() {
		defer close(chunks)
		defer close(errs)
		// The stream claim is released on every terminal path, error or
		// not. A claim left behind would wedge the conversation forever.
		defer conv.EndStream()
		o.runTurn(ctx, conv, message, chunks, errs)
	}()

	return chunks, errs
}

func (o *Orchestrator) runTurn(
	ctx context.Context,
	conv *session.Conversation,
	message string,
	chunks chan<- Chunk,
	errs chan<- error,
) {
	// Snapshot of the history before this turn. The gate and the rewriter
	// both work against this snapshot; the raw user turn is appended later.
	prior := conv.Turns()
	historyText := rewrite.Transcript(prior)

	decision, err := o.gate.Classify(ctx, historyText, message)
	if err != nil {
		errs <- err
		return
	}

	switch decision {
	case gate.DecisionOutOfDomain:
		o.shortCircuit(conv, constant.ChatRejectResponse, chunks)
		return
	case gate.DecisionNeedMoreInfo:
		o.shortCircuit(conv, constant.ChatMoreInfoResponse, chunks)
		return
	}

	// A follow-up fragment embeds poorly on its own; rewrite it against
	// the history. The very first user turn has nothing to rewrite against.
	query := message
	if conv.HasUserTurn() {
		query, err = o.rewriter.Rewrite(ctx, prior, message)
		if err != nil {
			errs <- err
			return
		}
	}

	// Only the raw user text is persisted. The augmented message below is
	// built for this call's prompt and never recorded.
	conv.Append(session.RoleUser, message)

	listingBlock, err := o.listings.Retrieve(ctx, query, o.fanout)
	if err != nil {
		errs <- err
		return
	}
	knowledgeBlock, err := o.knowledge.Retrieve(ctx, query, o.fanout)
	if err != nil {
		errs <- err
		return
	}

	augmented := listingBlock + "\n" + knowledgeBlock + "\n" + message

	prompt := make([]llm.Message, 0, len(prior)+1)
	for _, t := range prior {
		prompt = append(prompt, llm.Message{Role: t.Role, Content: t.Content})
	}
	prompt = append(prompt, llm.Message{Role: session.RoleUser, Content: augmented})

	o.logger.Printf("[TURN] conversation %s streaming, query=%q", conv.ID, truncate(query, 60))

	deltas, streamErrs := o.provider.Stream(ctx, prompt)

	var aggregate strings.Builder
	finished := false

	for delta := range deltas {
		aggregate.WriteString(delta.Content)

		out := Chunk{
			Content:   delta.Content,
			Role:      constant.StreamRoleAssistant,
			Finished:  delta.Done,
			Aggregate: aggregate.String(),
		}

		select {
		case chunks <- out:
		case <-ctx.Done():
			errs <- ctx.Err()
			return
		}

		if delta.Done {
			finished = true
		}
	}

	if err := <-streamErrs; err != nil {
		errs <- fmt.Errorf("chat stream: %w", err)
		return
	}
	if !finished {
		errs <- fmt.Errorf("chat stream ended without a final delta")
		return
	}

	// Exactly-once commit: the aggregated turn enters history only here,
	// after the stream terminated normally.
	conv.Append(session.RoleAssistant, aggregate.String())
	o.logger.Printf("[TURN] conversation %s committed %d chars", conv.ID, aggregate.Len())
}

// shortCircuit answers a gated turn with a single canned chunk. The canned
// text is recorded as a synthetic assistant turn so later turns see the
// pushback in their history.
func (o *Orchestrator) shortCircuit(conv *session.Conversation, text string, chunks chan<- Chunk) {
	conv.Append(session.RoleAssistant, text)
	chunks <- Chunk{
		Content:   text,
		Role:      constant.StreamRoleSystem,
		Finished:  true,
		Aggregate: text,
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
