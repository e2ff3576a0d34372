package session

import (
	"sync"
	"sync/atomic"
)

// Turn roles. Gate rejections are recorded as assistant turns so the model
// sees them as part of the conversation.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one role-tagged message in a conversation's history. Immutable
// once appended.
type Turn struct {
	Role    string
	Content string
}

// Conversation holds the in-memory state of one chat conversation.
// Turns are append-only; the streaming flag enforces at most one in-flight
// streamed answer per conversation.
type Conversation struct {
	ID string

	mu    sync.Mutex
	turns []Turn

	streaming atomic.Bool
}

func newConversation(id, systemPrompt string) *Conversation {
	return &Conversation{
		ID:    id,
		turns: []Turn{{Role: RoleSystem, Content: systemPrompt}},
	}
}

// Turns returns a snapshot copy of the conversation history.
func (c *Conversation) Turns() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.turns)
}

// HasUserTurn reports whether any user message has been committed yet.
// The first turn of a conversation skips query rewriting because there is
// no history to rewrite against.
func (c *Conversation) HasUserTurn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.turns {
		if t.Role == RoleUser {
			return true
		}
	}
	return false
}

// Append adds a turn to the history.
func (c *Conversation) Append(role, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, Turn{Role: role, Content: content})
}

// TryBeginStream atomically claims the conversation for streaming.
// Returns false without side effects when a stream is already in flight.
func (c *Conversation) TryBeginStream() bool {
	return c.streaming.CompareAndSwap(false, true)
}

// EndStream releases the streaming claim. Safe to call on every terminal
// path, including paths where the claim was consumed by an error.
func (c *Conversation) EndStream() {
	c.streaming.Store(false)
}

// IsStreaming reports the current streaming flag. Test/diagnostic use.
func (c *Conversation) IsStreaming() bool {
	return c.streaming.Load()
}
