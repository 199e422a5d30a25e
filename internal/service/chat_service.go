package service

import (
	"context"
	"errors"
	"strings"

	"rag-chat-be/internal/dto"
	"rag-chat-be/internal/pkg/logger"
	"rag-chat-be/internal/pkg/serverutils"
	"rag-chat-be/internal/repository/contract"
	"rag-chat-be/pkg/chat/mode"
	"rag-chat-be/pkg/genai"
)

// IChatService is the grounded (non-streaming) call path.
type IChatService interface {
	Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error)
	ListStores(ctx context.Context) ([]dto.StoreDTO, error)
}

type chatService struct {
	genaiClient  *genai.Client
	settingsRepo contract.SettingsRepository
	logger       logger.ILogger
}

func NewChatService(
	genaiClient *genai.Client,
	settingsRepo contract.SettingsRepository,
	sysLogger logger.ILogger,
) IChatService {
	return &chatService{
		genaiClient:  genaiClient,
		settingsRepo: settingsRepo,
		logger:       sysLogger,
	}
}

// Chat performs one single-shot generation, grounding on the named store
// when the selector is valid. The same trimmed-selector check runs here and
// on the orchestration side, so a whitespace-only selector never reaches
// the provider as a tool.
func (cs *chatService) Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	if strings.TrimSpace(request.Message) == "" {
		return nil, serverutils.NewValidationError("Message is required", "")
	}

	settings, err := cs.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	systemPrompt, err := cs.settingsRepo.GetSystemPrompt(ctx)
	if err != nil {
		return nil, err
	}

	contents := buildContents(request.History, request.Message)
	groundingActive := mode.Select(request.StoreId) == mode.Grounded

	genReq := &genai.GenerateContentRequest{
		Contents: contents,
		SystemInstruction: &genai.Content{
			Parts: []genai.Part{{Text: systemPrompt}},
		},
	}
	if groundingActive {
		genReq.Tools = []genai.Tool{
			{FileSearch: &genai.FileSearch{FileSearchStoreNames: []string{request.StoreId}}},
		}
	}

	cs.logger.Info("ChatService", "Dispatching grounded generation", map[string]interface{}{
		"model":            settings.Model,
		"grounding_active": groundingActive,
		"store_id":         request.StoreId,
		"history_length":   len(contents) - 1,
	})

	res, err := cs.genaiClient.GenerateContent(ctx, settings.Model, genReq)
	if err != nil {
		details := map[string]interface{}{"error": err.Error()}
		var apiErr *genai.APIError
		if errors.As(err, &apiErr) {
			details["status"] = apiErr.StatusCode
		}
		cs.logger.Error("ChatService", "Provider call failed", details)
		return nil, serverutils.NewProviderError(err.Error())
	}

	citations := extractCitations(res)
	if groundingActive {
		cs.logger.Info("ChatService", "Grounding metadata", map[string]interface{}{
			"citations": len(citations),
		})
	}

	return &dto.ChatResponse{
		Text:      res.Text(),
		Citations: citations,
	}, nil
}

func (cs *chatService) ListStores(ctx context.Context) ([]dto.StoreDTO, error) {
	stores, err := cs.genaiClient.ListFileSearchStores(ctx)
	if err != nil {
		cs.logger.Error("ChatService", "Failed to list stores", map[string]interface{}{"error": err.Error()})
		return nil, serverutils.NewProviderError(err.Error())
	}

	out := make([]dto.StoreDTO, 0, len(stores))
	for _, s := range stores {
		out = append(out, dto.StoreDTO{Name: s.Name, DisplayName: s.DisplayName})
	}
	return out, nil
}

// extractCitations walks the response's grounding metadata. Every level of
// that nested structure is optional; missing fields yield an empty sequence.
func extractCitations(res *genai.GenerateContentResponse) []dto.CitationDTO {
	chunks := res.GroundingChunks()
	citations := make([]dto.CitationDTO, 0, len(chunks))
	for _, ch := range chunks {
		switch {
		case ch.RetrievedContext != nil:
			citations = append(citations, dto.CitationDTO{
				Title: ch.RetrievedContext.Title,
				URI:   ch.RetrievedContext.URI,
			})
		case ch.Web != nil:
			citations = append(citations, dto.CitationDTO{
				Title: ch.Web.Title,
				URI:   ch.Web.URI,
			})
		default:
			citations = append(citations, dto.CitationDTO{})
		}
	}
	return citations
}
