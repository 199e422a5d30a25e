package service

import (
	"context"
	"errors"
	"io"

	"rag-chat-be/internal/dto"
	"rag-chat-be/internal/pkg/logger"
	"rag-chat-be/internal/repository/contract"
	"rag-chat-be/pkg/genai"
)

// IStreamService is the streaming call path. Fragments are relayed through
// the sink in arrival order; a sink error aborts the relay. The sequence is
// finite and not restartable.
type IStreamService interface {
	Stream(ctx context.Context, messages []dto.HistoryItemDTO, sink func(fragment string) error) error
}

type streamService struct {
	genaiClient  *genai.Client
	settingsRepo contract.SettingsRepository
	logger       logger.ILogger
}

func NewStreamService(
	genaiClient *genai.Client,
	settingsRepo contract.SettingsRepository,
	sysLogger logger.ILogger,
) IStreamService {
	return &streamService{
		genaiClient:  genaiClient,
		settingsRepo: settingsRepo,
		logger:       sysLogger,
	}
}

func (ss *streamService) Stream(ctx context.Context, messages []dto.HistoryItemDTO, sink func(fragment string) error) error {
	settings, err := ss.settingsRepo.Get(ctx)
	if err != nil {
		return err
	}

	contents := make([]genai.Content, 0, len(messages))
	for _, m := range messages {
		contents = append(contents, genai.Content{
			Role:  providerRole(m.Role),
			Parts: []genai.Part{{Text: m.Content}},
		})
	}

	ss.logger.Info("StreamService", "Opening generation stream", map[string]interface{}{
		"model":          settings.Model,
		"history_length": len(contents) - 1,
	})

	stream, err := ss.genaiClient.StreamGenerateContent(ctx, settings.Model, &genai.GenerateContentRequest{
		Contents: contents,
	})
	if err != nil {
		ss.logger.Error("StreamService", "Failed to open stream", map[string]interface{}{"error": err.Error()})
		return err
	}
	defer stream.Close()

	for {
		fragment, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			ss.logger.Error("StreamService", "Stream broke mid-flight", map[string]interface{}{"error": err.Error()})
			return err
		}
		if err := sink(fragment); err != nil {
			return err
		}
	}
}
