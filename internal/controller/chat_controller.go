package controller

import (
	"bufio"
	"context"
	"encoding/json"

	"homefinder-be/internal/dto"
	"homefinder-be/internal/pkg/serverutils"
	"homefinder-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Stream(ctx *fiber.Ctx) error
	Call(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("stream", c.Stream)
	h.Get("call", c.Call)
}

// Call is a non-streaming diagnostic completion against the model gateway.
func (c *chatController) Call(ctx *fiber.Ctx) error {
	message := ctx.Query("message")
	if message == "" {
		return serverutils.NewBadRequestError("message is required")
	}

	res, err := c.chatService.Call(ctx.Context(), message)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

// Stream runs one chat turn and streams the model's reply as NDJSON, one
// StreamChatResp per line. The final line carries finished=true and the
// aggregated message.
func (c *chatController) Stream(ctx *fiber.Ctx) error {
	var req dto.StreamChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "application/x-ndjson")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")

	// The fiber context dies when this handler returns; the stream writer
	// runs after that, so the turn gets its own context.
	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		streamCtx, cancel := context.WithCancel(context.Background())
		defer cancel()

		chunks, errs := c.chatService.StreamChat(streamCtx, &req)
		writeChatStream(w, cancel, chunks, errs)
	}))

	return nil
}

// writeChatStream encodes chunks onto w one JSON line at a time. A write
// or flush failure means the client disconnected: the turn's context is
// cancelled to release the stream claim, and nothing further is written,
// including the terminal error line.
func writeChatStream(w *bufio.Writer, cancel context.CancelFunc, chunks <-chan dto.StreamChatResp, errs <-chan error) {
	enc := json.NewEncoder(w)
	clientGone := false

	for chunk := range chunks {
		if clientGone {
			continue
		}
		if err := enc.Encode(chunk); err != nil {
			cancel()
			clientGone = true
			continue
		}
		if err := w.Flush(); err != nil {
			cancel()
			clientGone = true
		}
	}

	if err := <-errs; err != nil && !clientGone {
		enc.Encode(fiber.Map{"error": err.Error()})
		w.Flush()
	}
}
