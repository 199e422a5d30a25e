package implementation

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"rag-chat-be/internal/constant"
	"rag-chat-be/internal/entity"
	"rag-chat-be/internal/repository/contract"
)

// settingsRepository keeps RuntimeSettings in a single JSON file, merged over
// built-in defaults on read. Writes are atomic relative to a single writer
// (temp file + rename), last write wins.
type settingsRepository struct {
	filePath     string
	defaultModel string

	mu sync.Mutex
}

func NewSettingsRepository(filePath, defaultModel string) contract.SettingsRepository {
	if defaultModel == "" {
		defaultModel = constant.DefaultModel
	}
	return &settingsRepository{
		filePath:     filePath,
		defaultModel: defaultModel,
	}
}

func (r *settingsRepository) defaults() *entity.RuntimeSettings {
	return &entity.RuntimeSettings{
		Model:        r.defaultModel,
		SystemPrompt: constant.DefaultSystemPrompt,
	}
}

// Get never fails: a missing or unparsable settings file yields defaults.
func (r *settingsRepository) Get(ctx context.Context) (*entity.RuntimeSettings, error) {
	settings := r.defaults()

	raw, err := os.ReadFile(r.filePath)
	if err != nil {
		return settings, nil
	}

	var stored entity.SettingsPatch
	if err := json.Unmarshal(raw, &stored); err != nil {
		return settings, nil
	}

	applyPatch(settings, &stored)
	return settings, nil
}

func (r *settingsRepository) GetSystemPrompt(ctx context.Context) (string, error) {
	settings, err := r.Get(ctx)
	if err != nil {
		return constant.DefaultSystemPrompt, nil
	}
	return settings.SystemPrompt, nil
}

func (r *settingsRepository) Save(ctx context.Context, patch *entity.SettingsPatch) (*entity.RuntimeSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, _ := r.Get(ctx)
	applyPatch(current, patch)

	payload, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(r.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(dir, "settings-*.json")
	if err != nil {
		return nil, err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return nil, err
	}

	if err := os.Rename(tmpName, r.filePath); err != nil {
		os.Remove(tmpName)
		return nil, err
	}

	return current, nil
}

func applyPatch(settings *entity.RuntimeSettings, patch *entity.SettingsPatch) {
	if patch == nil {
		return
	}
	if patch.Model != nil && *patch.Model != "" {
		settings.Model = *patch.Model
	}
	if patch.SystemPrompt != nil && *patch.SystemPrompt != "" {
		settings.SystemPrompt = *patch.SystemPrompt
	}
}
