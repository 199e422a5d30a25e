package controller

import (
	"bufio"
	"context"
	"time"

	"rag-chat-be/internal/dto"
	"rag-chat-be/internal/mapper"
	"rag-chat-be/internal/pkg/serverutils"
	"rag-chat-be/internal/repository/contract"
	"rag-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	Stream(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	SaveHistory(ctx *fiber.Ctx) error
	ListStores(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService   service.IChatService
	streamService service.IStreamService
	historyRepo   contract.ChatHistoryRepository
}

func NewChatController(
	chatService service.IChatService,
	streamService service.IStreamService,
	historyRepo contract.ChatHistoryRepository,
) IChatController {
	return &chatController{
		chatService:   chatService,
		streamService: streamService,
		historyRepo:   historyRepo,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("", c.Chat)
	h.Post("stream", c.Stream)
	h.Get("history", c.GetHistory)
	h.Post("history", c.SaveHistory)
	h.Get("stores", c.ListStores)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Chat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate response", res))
}

// Stream relays generation fragments as plain text chunks in arrival order.
// Validation failures still return the JSON envelope; once the body writer
// starts, the response is committed and errors can only cut the stream short.
func (c *chatController) Stream(ctx *fiber.Ctx) error {
	var req dto.StreamChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	ctx.Set(fiber.HeaderCacheControl, "no-cache")

	messages := req.Messages
	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		streamCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		_ = c.streamService.Stream(streamCtx, messages, func(fragment string) error {
			if _, err := w.WriteString(fragment); err != nil {
				return err
			}
			return w.Flush()
		})
	}))

	return nil
}

func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	sessionId := ctx.Query("sessionId")
	if sessionId == "" {
		return serverutils.NewValidationError("sessionId is required", "sessionId")
	}

	messages, err := c.historyRepo.Load(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	res := dto.GetHistoryResponse{
		SessionId: sessionId,
		Messages:  mapper.ToChatMessageDTOs(messages),
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get history", res))
}

func (c *chatController) SaveHistory(ctx *fiber.Ctx) error {
	var req dto.SaveHistoryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	messages := mapper.ToChatMessageEntities(req.Messages)
	if err := c.historyRepo.Save(ctx.Context(), req.SessionId, messages); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save history", nil))
}

func (c *chatController) ListStores(ctx *fiber.Ctx) error {
	stores, err := c.chatService.ListStores(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list stores", dto.ListStoresResponse{Stores: stores}))
}
