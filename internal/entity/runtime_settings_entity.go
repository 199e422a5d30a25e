package entity

// RuntimeSettings is the process-wide generation configuration, loaded from
// the settings resource per grounded request and merged over defaults.
type RuntimeSettings struct {
	Model        string `json:"model"`
	SystemPrompt string `json:"systemPrompt"`
}

// SettingsPatch is a partial settings update; nil fields keep the current
// value. Last write wins, no versioning.
type SettingsPatch struct {
	Model        *string `json:"model,omitempty"`
	SystemPrompt *string `json:"systemPrompt,omitempty"`
}
