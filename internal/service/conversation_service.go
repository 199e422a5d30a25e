package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"rag-chat-be/internal/constant"
	"rag-chat-be/internal/dto"
	"rag-chat-be/internal/entity"
	"rag-chat-be/internal/pkg/logger"
	"rag-chat-be/internal/repository/contract"
	"rag-chat-be/pkg/chat/mode"

	"github.com/google/uuid"
)

// Turn event types emitted through a TurnSink while a submit is in flight.
const (
	TurnEventUserMessage      = "user_message"
	TurnEventAssistantMessage = "assistant_message"
	TurnEventFragment         = "fragment"
	TurnEventAssistantDone    = "assistant_done"
)

type TurnEvent struct {
	Type      string              `json:"type"`
	Message   *entity.ChatMessage `json:"message,omitempty"`
	MessageId string              `json:"messageId,omitempty"`
	Fragment  string              `json:"fragment,omitempty"`
}

// TurnSink receives timeline events as a turn progresses. Calls arrive from
// a single goroutine, in order.
type TurnSink func(event TurnEvent)

// IConversationService owns the per-session message timeline and drives one
// turn end to end: append the user message, pick the path by store selector,
// run the generation, finalize exactly one assistant message.
type IConversationService interface {
	Establish(ctx context.Context, sessionId string) (*entity.ChatTimeline, error)
	Submit(ctx context.Context, sessionId, message, storeSelector string, sink TurnSink) error
	NewChat(ctx context.Context) (string, error)
	Timeline(sessionId string) (*entity.ChatTimeline, bool)
}

// TimelineStore caches the timelines of active sessions. Save also refreshes
// the entry's idle expiration, so saving on every turn keeps a busy session
// from being evicted mid-conversation.
type TimelineStore interface {
	Save(timeline *entity.ChatTimeline)
	Get(sessionId string) (*entity.ChatTimeline, bool)
}

type conversationService struct {
	timelines     TimelineStore
	historyRepo   contract.ChatHistoryRepository
	chatService   IChatService
	streamService IStreamService
	publisher     IPublisherService
	logger        logger.ILogger
}

func NewConversationService(
	timelines TimelineStore,
	historyRepo contract.ChatHistoryRepository,
	chatService IChatService,
	streamService IStreamService,
	publisher IPublisherService,
	sysLogger logger.ILogger,
) IConversationService {
	return &conversationService{
		timelines:     timelines,
		historyRepo:   historyRepo,
		chatService:   chatService,
		streamService: streamService,
		publisher:     publisher,
		logger:        sysLogger,
	}
}

// Establish loads the persisted timeline once, at session (re)establishment.
// A failed load yields an empty timeline, not an error to the caller.
func (cs *conversationService) Establish(ctx context.Context, sessionId string) (*entity.ChatTimeline, error) {
	if timeline, found := cs.timelines.Get(sessionId); found {
		return timeline, nil
	}

	messages, err := cs.historyRepo.Load(ctx, sessionId)
	if err != nil {
		cs.logger.Warn("ConversationService", "Failed to load history, starting empty", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		messages = []entity.ChatMessage{}
	}

	timeline := entity.NewChatTimeline(sessionId, messages)
	cs.timelines.Save(timeline)
	return timeline, nil
}

func (cs *conversationService) Timeline(sessionId string) (*entity.ChatTimeline, bool) {
	return cs.timelines.Get(sessionId)
}

// NewChat mints a fresh session identity with an empty timeline. The prior
// session's persisted history is left intact.
func (cs *conversationService) NewChat(ctx context.Context) (string, error) {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	sessionId := "session_" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "_" + suffix

	timeline := entity.NewChatTimeline(sessionId, []entity.ChatMessage{})
	cs.timelines.Save(timeline)
	return sessionId, nil
}

func (cs *conversationService) Submit(ctx context.Context, sessionId, message, storeSelector string, sink TurnSink) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil
	}

	timeline, err := cs.Establish(ctx, sessionId)
	if err != nil {
		return err
	}

	// Re-save to push back the cache expiration; the flusher's snapshot
	// lookup must still find an active session after a long conversation.
	cs.timelines.Save(timeline)

	prior := timeline.Snapshot()
	now := time.Now().UnixMilli()

	userMessage := entity.ChatMessage{
		Id:      strconv.FormatInt(now, 10),
		Role:    constant.ChatMessageRoleUser,
		Content: message,
	}
	timeline.Append(userMessage)
	sink(TurnEvent{Type: TurnEventUserMessage, Message: &userMessage})
	cs.publishPersist(ctx, sessionId)

	if mode.Select(storeSelector) == mode.Streaming {
		cs.submitStreaming(ctx, timeline, prior, message, now, sink)
	} else {
		cs.submitGrounded(ctx, timeline, prior, message, storeSelector, sink)
	}

	cs.publishPersist(ctx, sessionId)
	return nil
}

// submitStreaming pre-creates an empty assistant message so the caller has a
// stable target to mutate, then grows its content fragment by fragment. A
// setup or mid-stream failure replaces the content entirely with the fixed
// failure string.
func (cs *conversationService) submitStreaming(
	ctx context.Context,
	timeline *entity.ChatTimeline,
	prior []entity.ChatMessage,
	message string,
	now int64,
	sink TurnSink,
) {
	assistantId := strconv.FormatInt(now+1, 10)
	placeholder := entity.ChatMessage{
		Id:   assistantId,
		Role: constant.ChatMessageRoleAssistant,
	}
	timeline.Append(placeholder)
	sink(TurnEvent{Type: TurnEventAssistantMessage, Message: &placeholder})

	records := buildStreamingRecords(prior, message)

	err := cs.streamService.Stream(ctx, records, func(fragment string) error {
		timeline.AppendContent(assistantId, fragment)
		sink(TurnEvent{Type: TurnEventFragment, MessageId: assistantId, Fragment: fragment})
		cs.publishPersist(ctx, timeline.SessionId)
		return nil
	})
	if err != nil {
		timeline.ReplaceContent(assistantId, constant.GenerationFailedMessage)
		failed := entity.ChatMessage{
			Id:      assistantId,
			Role:    constant.ChatMessageRoleAssistant,
			Content: constant.GenerationFailedMessage,
		}
		sink(TurnEvent{Type: TurnEventAssistantMessage, Message: &failed})
	}

	sink(TurnEvent{Type: TurnEventAssistantDone, MessageId: assistantId})
}

// submitGrounded appends exactly one assistant message after the call
// concludes: the answer with its citations, or the failure string with none.
func (cs *conversationService) submitGrounded(
	ctx context.Context,
	timeline *entity.ChatTimeline,
	prior []entity.ChatMessage,
	message, storeSelector string,
	sink TurnSink,
) {
	res, err := cs.chatService.Chat(ctx, &dto.ChatRequest{
		Message: message,
		StoreId: storeSelector,
		History: buildHistoryRecords(prior),
	})

	assistantId := strconv.FormatInt(time.Now().UnixMilli()+1, 10)
	assistant := entity.ChatMessage{
		Id:   assistantId,
		Role: constant.ChatMessageRoleAssistant,
	}

	if err != nil {
		assistant.Content = constant.GenerationFailedMessage
	} else {
		assistant.Content = res.Text
		if assistant.Content == "" {
			assistant.Content = constant.EmptyAnswerMessage
		}
		for _, c := range res.Citations {
			assistant.Citations = append(assistant.Citations, entity.Citation{Title: c.Title, URI: c.URI})
		}
	}

	timeline.Append(assistant)
	sink(TurnEvent{Type: TurnEventAssistantMessage, Message: &assistant})
	sink(TurnEvent{Type: TurnEventAssistantDone, MessageId: assistantId})
}

func (cs *conversationService) publishPersist(ctx context.Context, sessionId string) {
	payload, err := json.Marshal(dto.PublishPersistTimelineMessage{SessionId: sessionId})
	if err != nil {
		return
	}
	if err := cs.publisher.Publish(ctx, payload); err != nil {
		cs.logger.Warn("ConversationService", "Failed to publish persist event", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}
}
