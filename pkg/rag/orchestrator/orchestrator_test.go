package orchestrator

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"homefinder-be/internal/constant"
	"homefinder-be/pkg/llm"
	"homefinder-be/pkg/rag/gate"
	"homefinder-be/pkg/rag/rewrite"
	"homefinder-be/pkg/rag/session"
)

var testLogger = log.New(io.Discard, "", 0)

// genProvider serves Generate-only components (gate, rewriter).
type genProvider struct {
	response string
	err      error
	calls    int
	prompt   string
}

func (p *genProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return p.response, p.err
}

func (p *genProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	p.calls++
	p.prompt = prompt
	return p.response, p.err
}

func (p *genProvider) Stream(ctx context.Context, history []llm.Message, options ...llm.Option) (<-chan llm.StreamDelta, <-chan error) {
	deltas := make(chan llm.StreamDelta)
	errs := make(chan error, 1)
	close(deltas)
	close(errs)
	return deltas, errs
}

// streamProvider plays back a scripted delta sequence. Channels are
// buffered so the playback never blocks on a slow consumer.
type streamProvider struct {
	deltas     []llm.StreamDelta
	streamErr  error
	gotHistory []llm.Message
}

func (p *streamProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", nil
}

func (p *streamProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return "", nil
}

func (p *streamProvider) Stream(ctx context.Context, history []llm.Message, options ...llm.Option) (<-chan llm.StreamDelta, <-chan error) {
	p.gotHistory = history
	deltas := make(chan llm.StreamDelta, len(p.deltas)+1)
	errs := make(chan error, 1)
	for _, d := range p.deltas {
		deltas <- d
	}
	if p.streamErr != nil {
		errs <- p.streamErr
	}
	close(deltas)
	close(errs)
	return deltas, errs
}

type stubRetriever struct {
	block    string
	err      error
	calls    int
	gotQuery string
	gotK     int
}

func (r *stubRetriever) Retrieve(ctx context.Context, query string, k int) (string, error) {
	r.calls++
	r.gotQuery = query
	r.gotK = k
	if r.err != nil {
		return "", r.err
	}
	return r.block, nil
}

type fixture struct {
	store      *session.Store
	gateLLM    *genProvider
	rewriteLLM *genProvider
	stream     *streamProvider
	listings   *stubRetriever
	knowledge  *stubRetriever
	orch       *Orchestrator
}

func newFixture() *fixture {
	f := &fixture{
		store:      session.NewStore(constant.ChatSystemPrompt),
		gateLLM:    &genProvider{response: constant.GateTokenContinue},
		rewriteLLM: &genProvider{response: "rewritten standalone query"},
		stream: &streamProvider{deltas: []llm.StreamDelta{
			{Content: "Hel"},
			{Content: "lo"},
			{Content: "", Done: true},
		}},
		listings:  &stubRetriever{block: "<authoritative-information>\nlisting ctx\n</authoritative-information>"},
		knowledge: &stubRetriever{block: "<authoritative-information>\nknowledge ctx\n</authoritative-information>"},
	}
	f.orch = NewOrchestrator(
		f.store,
		gate.NewGate(f.gateLLM, testLogger),
		rewrite.NewRewriter(f.rewriteLLM, testLogger),
		f.listings,
		f.knowledge,
		f.stream,
		5,
		testLogger,
	)
	return f
}

// collect drains both channels and returns every chunk plus the terminal
// error, if any.
func collect(t *testing.T, chunks <-chan Chunk, errs <-chan error) ([]Chunk, error) {
	t.Helper()
	var out []Chunk
	for c := range chunks {
		out = append(out, c)
	}
	return out, <-errs
}

func TestFirstTurnStreamsAndCommits(t *testing.T) {
	f := newFixture()

	chunks, errs := f.orch.HandleTurn(context.Background(), "c1", "flats downtown")
	got, err := collect(t, chunks, errs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("chunks = %d, want 3", len(got))
	}
	wantAggregates := []string{"Hel", "Hello", "Hello"}
	for i, c := range got {
		if c.Role != constant.StreamRoleAssistant {
			t.Errorf("chunk %d role = %q", i, c.Role)
		}
		if c.Aggregate != wantAggregates[i] {
			t.Errorf("chunk %d aggregate = %q, want %q", i, c.Aggregate, wantAggregates[i])
		}
	}
	if !got[2].Finished || got[0].Finished || got[1].Finished {
		t.Error("only the last chunk may be marked finished")
	}

	// First turn never goes through the rewriter
	if f.rewriteLLM.calls != 0 {
		t.Errorf("rewriter called %d times on first turn", f.rewriteLLM.calls)
	}
	if f.listings.gotQuery != "flats downtown" {
		t.Errorf("retrieval query = %q, want the raw message", f.listings.gotQuery)
	}

	conv, _ := f.store.Get("c1")
	turns := conv.Turns()
	if len(turns) != 3 {
		t.Fatalf("history length = %d, want 3 (system, user, assistant)", len(turns))
	}
	if turns[1].Role != session.RoleUser || turns[1].Content != "flats downtown" {
		t.Errorf("user turn = %+v, want the raw message", turns[1])
	}
	if turns[2].Role != session.RoleAssistant || turns[2].Content != "Hello" {
		t.Errorf("assistant turn = %+v, want the aggregate", turns[2])
	}
	if conv.IsStreaming() {
		t.Error("stream claim not released after completion")
	}

	// The model sees the augmented message, history keeps the raw one
	last := f.stream.gotHistory[len(f.stream.gotHistory)-1]
	if !strings.Contains(last.Content, "listing ctx") ||
		!strings.Contains(last.Content, "knowledge ctx") ||
		!strings.Contains(last.Content, "flats downtown") {
		t.Errorf("augmented prompt incomplete:\n%s", last.Content)
	}
}

func TestOutOfDomainShortCircuits(t *testing.T) {
	f := newFixture()
	f.gateLLM.response = constant.GateTokenOutOfDomain

	chunks, errs := f.orch.HandleTurn(context.Background(), "c1", "tell me a joke")
	got, err := collect(t, chunks, errs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("chunks = %d, want 1", len(got))
	}
	if got[0].Role != constant.StreamRoleSystem || !got[0].Finished {
		t.Errorf("rejection chunk = %+v", got[0])
	}
	if got[0].Content != constant.ChatRejectResponse {
		t.Errorf("content = %q", got[0].Content)
	}

	// No retrieval, no rewrite, no main stream
	if f.listings.calls != 0 || f.knowledge.calls != 0 || f.rewriteLLM.calls != 0 {
		t.Error("rejected turn must not reach rewrite or retrieval")
	}

	// Only the canned pushback enters history; the user turn does not
	conv, _ := f.store.Get("c1")
	turns := conv.Turns()
	if len(turns) != 2 {
		t.Fatalf("history length = %d, want 2 (system, rejection)", len(turns))
	}
	if turns[1].Role != session.RoleAssistant || turns[1].Content != constant.ChatRejectResponse {
		t.Errorf("rejection turn = %+v", turns[1])
	}
	if conv.IsStreaming() {
		t.Error("stream claim not released after rejection")
	}
}

func TestNeedMoreInfoShortCircuits(t *testing.T) {
	f := newFixture()
	f.gateLLM.response = constant.GateTokenNeedMoreInfo

	chunks, errs := f.orch.HandleTurn(context.Background(), "c1", "a flat")
	got, err := collect(t, chunks, errs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Content != constant.ChatMoreInfoResponse {
		t.Fatalf("got %+v, want single more-info chunk", got)
	}
	if f.listings.calls != 0 {
		t.Error("more-info turn must not reach retrieval")
	}
}

func TestFollowUpGoesThroughRewrite(t *testing.T) {
	f := newFixture()

	// Seed a completed first exchange
	conv, _ := f.store.GetOrCreate("c1")
	conv.Append(session.RoleUser, "flats downtown")
	conv.Append(session.RoleAssistant, "here are some options")

	chunks, errs := f.orch.HandleTurn(context.Background(), "c1", "cheaper ones?")
	if _, err := collect(t, chunks, errs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.rewriteLLM.calls != 1 {
		t.Fatalf("rewriter calls = %d, want 1", f.rewriteLLM.calls)
	}
	if !strings.Contains(f.rewriteLLM.prompt, "cheaper ones?") {
		t.Error("follow-up missing from rewrite prompt")
	}
	if f.listings.gotQuery != "rewritten standalone query" {
		t.Errorf("retrieval query = %q, want the rewritten one", f.listings.gotQuery)
	}
	// History commits the raw follow-up, not the rewrite
	turns := conv.Turns()
	if turns[3].Content != "cheaper ones?" {
		t.Errorf("committed user turn = %q", turns[3].Content)
	}
}

func TestBusyConversationGetsCannedChunk(t *testing.T) {
	f := newFixture()

	conv, _ := f.store.GetOrCreate("c1")
	if !conv.TryBeginStream() {
		t.Fatal("could not claim stream for setup")
	}

	chunks, errs := f.orch.HandleTurn(context.Background(), "c1", "flats downtown")
	got, err := collect(t, chunks, errs)
	if err != nil {
		t.Fatalf("busy is a successful response, got error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("chunks = %d, want 1", len(got))
	}
	if got[0].Content != constant.ChatBusyResponse || got[0].Role != constant.StreamRoleSystem || !got[0].Finished {
		t.Errorf("busy chunk = %+v", got[0])
	}

	// No mutation, and the owner's claim survives
	if conv.Len() != 1 {
		t.Errorf("history length = %d, busy turn must not mutate", conv.Len())
	}
	if !conv.IsStreaming() {
		t.Error("busy response must not release the owner's claim")
	}
	if f.gateLLM.calls != 0 {
		t.Error("busy turn must not reach the gate")
	}

	// Once the owner finishes, the conversation accepts turns again
	conv.EndStream()
	chunks, errs = f.orch.HandleTurn(context.Background(), "c1", "flats downtown")
	if got, err := collect(t, chunks, errs); err != nil || len(got) != 3 {
		t.Fatalf("post-release turn failed: chunks=%d err=%v", len(got), err)
	}
}

func TestStreamFailureDoesNotCommit(t *testing.T) {
	f := newFixture()
	f.stream.deltas = []llm.StreamDelta{{Content: "partial"}}
	f.stream.streamErr = errors.New("upstream reset")

	chunks, errs := f.orch.HandleTurn(context.Background(), "c1", "flats downtown")
	got, err := collect(t, chunks, errs)
	if err == nil {
		t.Fatal("stream failure must surface as an error")
	}
	if len(got) != 1 || got[0].Content != "partial" {
		t.Fatalf("partial chunks = %+v", got)
	}

	conv, _ := f.store.Get("c1")
	turns := conv.Turns()
	for _, turn := range turns {
		if turn.Role == session.RoleAssistant {
			t.Errorf("no assistant turn may be committed on failure, got %+v", turn)
		}
	}
	if conv.IsStreaming() {
		t.Error("stream claim not released after failure")
	}
}

func TestGateFailurePropagates(t *testing.T) {
	f := newFixture()
	f.gateLLM.err = errors.New("gateway timeout")

	chunks, errs := f.orch.HandleTurn(context.Background(), "c1", "flats downtown")
	got, err := collect(t, chunks, errs)
	if err == nil {
		t.Fatal("gate gateway failure must surface as an error")
	}
	if len(got) != 0 {
		t.Errorf("no chunks expected, got %+v", got)
	}

	conv, _ := f.store.Get("c1")
	if conv.Len() != 1 {
		t.Errorf("history length = %d, want untouched", conv.Len())
	}
	if conv.IsStreaming() {
		t.Error("stream claim not released after gate failure")
	}
}

func TestRetrievalFailureAborts(t *testing.T) {
	f := newFixture()
	f.listings.err = errors.New("index unavailable")

	chunks, errs := f.orch.HandleTurn(context.Background(), "c1", "flats downtown")
	if _, err := collect(t, chunks, errs); err == nil {
		t.Fatal("retrieval failure must surface as an error")
	}

	conv, _ := f.store.Get("c1")
	if conv.IsStreaming() {
		t.Error("stream claim not released after retrieval failure")
	}
	for _, turn := range conv.Turns() {
		if turn.Role == session.RoleAssistant {
			t.Error("no assistant turn may be committed on retrieval failure")
		}
	}
}

func TestCancelledContextReleasesClaim(t *testing.T) {
	f := newFixture()
	// More deltas than the chunk buffer holds, so the producer must block
	f.stream.deltas = []llm.StreamDelta{
		{Content: "a"}, {Content: "b"}, {Content: "c"}, {Content: "", Done: true},
	}

	ctx, cancel := context.WithCancel(context.Background())
	chunks, errs := f.orch.HandleTurn(ctx, "c1", "flats downtown")
	cancel()

	// Without draining chunks, the orchestrator must still terminate via
	// the cancelled context.
	select {
	case err := <-errs:
		if err == nil {
			// errs closed without a value means the turn finished before
			// the cancel landed; both outcomes are acceptable.
			break
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("orchestrator did not terminate after cancellation")
	}

	for range chunks {
	}

	conv, _ := f.store.Get("c1")
	if conv.IsStreaming() {
		t.Error("stream claim not released after cancellation")
	}
}
