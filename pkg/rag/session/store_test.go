package session

import (
	"fmt"
	"sync"
	"testing"
)

func TestGetOrCreateSeedsSystemTurn(t *testing.T) {
	store := NewStore("system prompt")

	conv, created := store.GetOrCreate("c1")
	if !created {
		t.Fatal("first GetOrCreate should create")
	}
	turns := conv.Turns()
	if len(turns) != 1 || turns[0].Role != RoleSystem || turns[0].Content != "system prompt" {
		t.Fatalf("unexpected seeded turns: %+v", turns)
	}

	again, created := store.GetOrCreate("c1")
	if created {
		t.Fatal("second GetOrCreate should not create")
	}
	if again != conv {
		t.Fatal("GetOrCreate must return the same conversation instance")
	}
}

func TestConcurrentCreateSingleWinner(t *testing.T) {
	store := NewStore("sys")

	const goroutines = 32
	var wg sync.WaitGroup
	results := make([]*Conversation, goroutines)
	createdCount := make([]bool, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], createdCount[i] = store.GetOrCreate("same-id")
		}(i)
	}
	wg.Wait()

	creations := 0
	for i := 0; i < goroutines; i++ {
		if createdCount[i] {
			creations++
		}
		if results[i] != results[0] {
			t.Fatal("all goroutines must observe the same conversation")
		}
	}
	if creations != 1 {
		t.Fatalf("exactly one creation must win, got %d", creations)
	}
}

func TestTryBeginStreamExclusive(t *testing.T) {
	store := NewStore("sys")
	conv, _ := store.GetOrCreate("c1")

	if !conv.TryBeginStream() {
		t.Fatal("first TryBeginStream should succeed")
	}
	if conv.TryBeginStream() {
		t.Fatal("second TryBeginStream must fail while streaming")
	}
	conv.EndStream()
	if !conv.TryBeginStream() {
		t.Fatal("TryBeginStream should succeed after EndStream")
	}
	conv.EndStream()
}

func TestConcurrentTryBeginStreamSingleWinner(t *testing.T) {
	store := NewStore("sys")
	conv, _ := store.GetOrCreate("c1")

	const goroutines = 16
	var wg sync.WaitGroup
	wins := make(chan struct{}, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if conv.TryBeginStream() {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	count := 0
	for range wins {
		count++
	}
	if count != 1 {
		t.Fatalf("exactly one goroutine must win the stream claim, got %d", count)
	}
}

func TestAppendRoundTrip(t *testing.T) {
	store := NewStore("sys")
	conv, _ := store.GetOrCreate("c1")

	n := conv.Len()
	conv.Append(RoleUser, "question")
	conv.Append(RoleAssistant, "answer")

	turns := conv.Turns()
	if len(turns) != n+2 {
		t.Fatalf("len = %d, want %d", len(turns), n+2)
	}
	if turns[len(turns)-1].Role != RoleAssistant || turns[len(turns)-1].Content != "answer" {
		t.Fatalf("unexpected last turn: %+v", turns[len(turns)-1])
	}
}

func TestHasUserTurn(t *testing.T) {
	store := NewStore("sys")
	conv, _ := store.GetOrCreate("c1")

	if conv.HasUserTurn() {
		t.Fatal("fresh conversation has no user turn")
	}
	conv.Append(RoleAssistant, "canned rejection")
	if conv.HasUserTurn() {
		t.Fatal("assistant turn must not count as user turn")
	}
	conv.Append(RoleUser, "hello")
	if !conv.HasUserTurn() {
		t.Fatal("expected user turn")
	}
}

func TestTurnsSnapshotIsolated(t *testing.T) {
	store := NewStore("sys")
	conv, _ := store.GetOrCreate("c1")
	snap := conv.Turns()
	conv.Append(RoleUser, "later")
	if len(snap) != 1 {
		t.Fatal("snapshot must not grow with the conversation")
	}
}

func TestStoreIsolationBetweenIDs(t *testing.T) {
	store := NewStore("sys")
	for i := 0; i < 8; i++ {
		conv, _ := store.GetOrCreate(fmt.Sprintf("c%d", i))
		if !conv.TryBeginStream() {
			t.Fatalf("stream claim on c%d must not contend with other sessions", i)
		}
	}
}
