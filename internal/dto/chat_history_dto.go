package dto

type ChatMessageDTO struct {
	Id        string        `json:"id"`
	Role      string        `json:"role"`
	Content   string        `json:"content"`
	Citations []CitationDTO `json:"citations,omitempty"`
}

type SaveHistoryRequest struct {
	SessionId string           `json:"sessionId" validate:"required"`
	Messages  []ChatMessageDTO `json:"messages"`
}

type GetHistoryResponse struct {
	SessionId string           `json:"sessionId"`
	Messages  []ChatMessageDTO `json:"messages"`
}

// PublishPersistTimelineMessage is the payload of a timeline-changed event
// consumed by the debounced history flusher.
type PublishPersistTimelineMessage struct {
	SessionId string `json:"session_id"`
}
