package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"rag-chat-be/internal/dto"
	"rag-chat-be/internal/pkg/logger"
	"rag-chat-be/internal/repository/contract"
	"rag-chat-be/internal/repository/memory"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IHistoryFlusher consumes timeline persist events and writes each session's
// snapshot to durable storage on a trailing debounce. Rapid successive events
// for one session collapse into a single write.
type IHistoryFlusher interface {
	Consume(ctx context.Context) error
	Stop()
}

type historyFlusher struct {
	topicName   string
	pubSub      *gochannel.GoChannel
	timelines   *memory.TimelineRepository
	historyRepo contract.ChatHistoryRepository
	debounce    time.Duration
	logger      logger.ILogger

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewHistoryFlusher(
	topicName string,
	pubSub *gochannel.GoChannel,
	timelines *memory.TimelineRepository,
	historyRepo contract.ChatHistoryRepository,
	debounce time.Duration,
	sysLogger logger.ILogger,
) IHistoryFlusher {
	return &historyFlusher{
		topicName:   topicName,
		pubSub:      pubSub,
		timelines:   timelines,
		historyRepo: historyRepo,
		debounce:    debounce,
		logger:      sysLogger,
		timers:      make(map[string]*time.Timer),
	}
}

func (hf *historyFlusher) Consume(ctx context.Context) error {
	messages, err := hf.pubSub.Subscribe(ctx, hf.topicName)
	if err != nil {
		hf.logger.Error("HistoryFlusher", "Failed to subscribe", map[string]interface{}{
			"topic": hf.topicName,
			"error": err.Error(),
		})
		return err
	}

	hf.logger.Info("HistoryFlusher", "Consumer started", map[string]interface{}{
		"topic":       hf.topicName,
		"debounce_ms": hf.debounce.Milliseconds(),
	})

	for msg := range messages {
		var payload dto.PublishPersistTimelineMessage
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			hf.logger.Warn("HistoryFlusher", "Dropping malformed persist event", map[string]interface{}{
				"error": err.Error(),
			})
			msg.Ack()
			continue
		}

		hf.schedule(payload.SessionId)
		msg.Ack()
	}
	return nil
}

// schedule arms the session's flush timer, cancelling any pending one. Only
// the last event inside a burst survives to fire.
func (hf *historyFlusher) schedule(sessionId string) {
	hf.mu.Lock()
	defer hf.mu.Unlock()

	if timer, ok := hf.timers[sessionId]; ok {
		timer.Stop()
	}
	hf.timers[sessionId] = time.AfterFunc(hf.debounce, func() {
		hf.flush(sessionId)
	})
}

func (hf *historyFlusher) flush(sessionId string) {
	hf.mu.Lock()
	delete(hf.timers, sessionId)
	hf.mu.Unlock()

	timeline, found := hf.timelines.Get(sessionId)
	if !found {
		return
	}
	snapshot := timeline.Snapshot()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := hf.historyRepo.Save(ctx, sessionId, snapshot); err != nil {
		// Persistence is lossy on purpose: a failed flush is logged and the
		// next event reschedules a fresh attempt.
		hf.logger.Warn("HistoryFlusher", "Failed to flush history", map[string]interface{}{
			"session_id": sessionId,
			"messages":   len(snapshot),
			"error":      err.Error(),
		})
		return
	}

	hf.logger.Debug("HistoryFlusher", "Flushed history", map[string]interface{}{
		"session_id": sessionId,
		"messages":   len(snapshot),
	})
}

// Stop cancels every pending timer without flushing.
func (hf *historyFlusher) Stop() {
	hf.mu.Lock()
	defer hf.mu.Unlock()
	for sessionId, timer := range hf.timers {
		timer.Stop()
		delete(hf.timers, sessionId)
	}
}
