package dto

type AdminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type AdminLoginResponse struct {
	Token string `json:"token"`
}

type SettingsResponse struct {
	Model        string `json:"model"`
	SystemPrompt string `json:"systemPrompt"`
}

// UpdateSettingsRequest merges partial updates over the current settings.
type UpdateSettingsRequest struct {
	Model        *string `json:"model,omitempty"`
	SystemPrompt *string `json:"systemPrompt,omitempty"`
}
