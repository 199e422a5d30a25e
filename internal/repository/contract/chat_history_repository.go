package contract

import (
	"context"

	"rag-chat-be/internal/entity"
)

// ChatHistoryRepository mirrors a session's timeline into keyed storage.
// It is best-effort cache storage, not the source of truth for an active
// session.
type ChatHistoryRepository interface {
	Load(ctx context.Context, sessionId string) ([]entity.ChatMessage, error)
	Save(ctx context.Context, sessionId string, messages []entity.ChatMessage) error
}
