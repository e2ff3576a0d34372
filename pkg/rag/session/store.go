package session

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Store owns all in-memory conversations, keyed by an opaque conversation
// id. Sessions are volatile: they expire after an idle TTL instead of
// living forever, and are never persisted.
type Store struct {
	mu           sync.Mutex
	cache        *cache.Cache
	systemPrompt string
}

// NewStore creates a conversation store. Idle conversations expire after
// one hour and are purged every ten minutes.
func NewStore(systemPrompt string) *Store {
	return &Store{
		cache:        cache.New(1*time.Hour, 10*time.Minute),
		systemPrompt: systemPrompt,
	}
}

// GetOrCreate returns the conversation for id, creating it with the seeded
// system turn on first use. The mutex makes creation linearizable: exactly
// one creation wins for concurrent first-use of the same id, the rest
// observe the created conversation. Each call refreshes the idle TTL.
func (s *Store) GetOrCreate(id string) (*Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if x, found := s.cache.Get(id); found {
		conv := x.(*Conversation)
		s.cache.Set(id, conv, cache.DefaultExpiration)
		return conv, false
	}

	conv := newConversation(id, s.systemPrompt)
	s.cache.Set(id, conv, cache.DefaultExpiration)
	return conv, true
}

// Get returns an existing conversation without creating one.
func (s *Store) Get(id string) (*Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if x, found := s.cache.Get(id); found {
		return x.(*Conversation), true
	}
	return nil, false
}

// Delete drops a conversation.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Delete(id)
}
