package dto

// HistoryItemDTO is one prior turn as submitted by a client. Roles arrive
// verbatim ("user" / "assistant"); relabeling to provider roles happens at
// the provider boundary only.
type HistoryItemDTO struct {
	Role    string `json:"role" validate:"required,oneof=user assistant model"`
	Content string `json:"content"`
}

// ChatRequest is the grounded (non-streaming) chat call. A storeId that is
// blank after trimming is treated as "no store" everywhere.
type ChatRequest struct {
	Message string           `json:"message" validate:"required"`
	StoreId string           `json:"storeId"`
	History []HistoryItemDTO `json:"history" validate:"omitempty,dive"`
}

type CitationDTO struct {
	Title string `json:"title,omitempty"`
	URI   string `json:"uri,omitempty"`
}

type ChatResponse struct {
	Text      string        `json:"text"`
	Citations []CitationDTO `json:"citations"`
}

// StreamChatRequest carries the full conversation, prior turns plus the new
// user utterance as the last record.
type StreamChatRequest struct {
	Messages []HistoryItemDTO `json:"messages" validate:"required,min=1,dive"`
}

type StoreDTO struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
}

type ListStoresResponse struct {
	Stores []StoreDTO `json:"stores"`
}
