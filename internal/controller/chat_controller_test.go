package controller

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"homefinder-be/internal/dto"
)

// blockedWriter refuses every write, like a peer that closed the
// connection mid-stream.
type blockedWriter struct{ attempts int }

func (w *blockedWriter) Write(p []byte) (int, error) {
	w.attempts++
	return 0, io.ErrClosedPipe
}

func TestWriteChatStreamSkipsErrorLineAfterDisconnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	chunks := make(chan dto.StreamChatResp, 2)
	chunks <- dto.StreamChatResp{Content: "Sure", Role: "assistant"}
	chunks <- dto.StreamChatResp{Content: "!", Role: "assistant"}
	close(chunks)

	errs := make(chan error, 1)
	errs <- context.Canceled
	close(errs)

	sink := &blockedWriter{}
	writeChatStream(bufio.NewWriter(sink), cancel, chunks, errs)

	if ctx.Err() == nil {
		t.Fatal("turn context not cancelled on client disconnect")
	}
	if sink.attempts != 1 {
		t.Errorf("wrote to dead client %d times, want the single failed attempt", sink.attempts)
	}
}

func TestWriteChatStreamWritesTerminalError(t *testing.T) {
	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	chunks := make(chan dto.StreamChatResp, 1)
	chunks <- dto.StreamChatResp{Content: "Sure", Role: "assistant"}
	close(chunks)

	errs := make(chan error, 1)
	errs <- errors.New("model gateway unreachable")
	close(errs)

	var buf bytes.Buffer
	writeChatStream(bufio.NewWriter(&buf), cancel, chunks, errs)

	out := buf.String()
	if !strings.Contains(out, `"Sure"`) {
		t.Errorf("chunk missing from stream: %q", out)
	}
	if !strings.Contains(out, "model gateway unreachable") {
		t.Errorf("terminal error missing from stream: %q", out)
	}
}
