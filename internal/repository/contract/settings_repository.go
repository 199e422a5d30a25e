package contract

import (
	"context"

	"rag-chat-be/internal/entity"
)

// SettingsRepository reads and writes the process-wide generation settings.
// Reads fall back to built-in defaults when the backing resource is absent
// or unparsable; writes merge partial updates over the current value.
type SettingsRepository interface {
	Get(ctx context.Context) (*entity.RuntimeSettings, error)
	GetSystemPrompt(ctx context.Context) (string, error)
	Save(ctx context.Context, patch *entity.SettingsPatch) (*entity.RuntimeSettings, error)
}
