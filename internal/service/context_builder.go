package service

import (
	"rag-chat-be/internal/constant"
	"rag-chat-be/internal/dto"
	"rag-chat-be/internal/entity"
	"rag-chat-be/pkg/genai"
)

// providerRole maps a local role onto the provider's turn labels. The
// provider only knows "user" and "model".
func providerRole(role string) string {
	if role == constant.ChatMessageRoleUser {
		return constant.ChatMessageRoleUser
	}
	return constant.ChatMessageRoleModel
}

// buildContents converts the full prior history plus the new user utterance
// into the provider's turn sequence. No truncation or summarization: every
// prior turn is forwarded, the new utterance comes last.
func buildContents(history []dto.HistoryItemDTO, message string) []genai.Content {
	contents := make([]genai.Content, 0, len(history)+1)
	for _, item := range history {
		contents = append(contents, genai.Content{
			Role:  providerRole(item.Role),
			Parts: []genai.Part{{Text: item.Content}},
		})
	}
	contents = append(contents, genai.Content{
		Role:  constant.ChatMessageRoleUser,
		Parts: []genai.Part{{Text: message}},
	})
	return contents
}

// buildStreamingRecords shapes a timeline plus the new utterance for the
// streaming call. Roles are preserved verbatim here; relabeling happens only
// at the provider boundary.
func buildStreamingRecords(prior []entity.ChatMessage, message string) []dto.HistoryItemDTO {
	records := make([]dto.HistoryItemDTO, 0, len(prior)+1)
	for _, m := range prior {
		records = append(records, dto.HistoryItemDTO{Role: m.Role, Content: m.Content})
	}
	records = append(records, dto.HistoryItemDTO{
		Role:    constant.ChatMessageRoleUser,
		Content: message,
	})
	return records
}

// buildHistoryRecords shapes a timeline as the grounded call's history.
func buildHistoryRecords(prior []entity.ChatMessage) []dto.HistoryItemDTO {
	records := make([]dto.HistoryItemDTO, 0, len(prior))
	for _, m := range prior {
		records = append(records, dto.HistoryItemDTO{Role: m.Role, Content: m.Content})
	}
	return records
}
