package mapper

import (
	"rag-chat-be/internal/dto"
	"rag-chat-be/internal/entity"
)

func ToChatMessageDTOs(messages []entity.ChatMessage) []dto.ChatMessageDTO {
	out := make([]dto.ChatMessageDTO, 0, len(messages))
	for _, m := range messages {
		out = append(out, dto.ChatMessageDTO{
			Id:        m.Id,
			Role:      m.Role,
			Content:   m.Content,
			Citations: ToCitationDTOs(m.Citations),
		})
	}
	return out
}

func ToChatMessageEntities(messages []dto.ChatMessageDTO) []entity.ChatMessage {
	out := make([]entity.ChatMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, entity.ChatMessage{
			Id:        m.Id,
			Role:      m.Role,
			Content:   m.Content,
			Citations: toCitationEntities(m.Citations),
		})
	}
	return out
}

func ToCitationDTOs(citations []entity.Citation) []dto.CitationDTO {
	if len(citations) == 0 {
		return nil
	}
	out := make([]dto.CitationDTO, 0, len(citations))
	for _, c := range citations {
		out = append(out, dto.CitationDTO{Title: c.Title, URI: c.URI})
	}
	return out
}

func toCitationEntities(citations []dto.CitationDTO) []entity.Citation {
	if len(citations) == 0 {
		return nil
	}
	out := make([]entity.Citation, 0, len(citations))
	for _, c := range citations {
		out = append(out, entity.Citation{Title: c.Title, URI: c.URI})
	}
	return out
}
