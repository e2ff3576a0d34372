package service

import (
	"context"

	"homefinder-be/internal/dto"
	"homefinder-be/pkg/llm"
	"homefinder-be/pkg/rag/orchestrator"
)

type IChatService interface {
	StreamChat(ctx context.Context, req *dto.StreamChatRequest) (<-chan dto.StreamChatResp, <-chan error)
	Call(ctx context.Context, message string) (string, error)
}

type chatService struct {
	orchestrator *orchestrator.Orchestrator
	provider     llm.LLMProvider
}

func NewChatService(orch *orchestrator.Orchestrator, provider llm.LLMProvider) IChatService {
	return &chatService{
		orchestrator: orch,
		provider:     provider,
	}
}

// StreamChat runs one conversational turn and adapts the orchestrator's
// chunk stream into the wire DTO.
func (s *chatService) StreamChat(ctx context.Context, req *dto.StreamChatRequest) (<-chan dto.StreamChatResp, <-chan error) {
	chunks, errs := s.orchestrator.HandleTurn(ctx, req.Uuid, req.Message)

	out := make(chan dto.StreamChatResp, 1)
	go func() {
		defer close(out)
		for c := range chunks {
			resp := dto.StreamChatResp{
				Content:            c.Content,
				Role:               c.Role,
				Finished:           c.Finished,
				AggregationMessage: c.Aggregate,
			}
			// The consumer stops reading when the client disconnects;
			// without the ctx arm this send would block forever.
			select {
			case out <- resp:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, errs
}

// Call is a non-streaming single completion, bypassing session state and
// retrieval. Used for connectivity checks against the model gateway.
func (s *chatService) Call(ctx context.Context, message string) (string, error) {
	return s.provider.Generate(ctx, message)
}
