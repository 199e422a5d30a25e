package service

import (
	"context"
	"sync"

	"rag-chat-be/internal/dto"
	"rag-chat-be/internal/entity"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// memoryHistoryRepo is an in-process ChatHistoryRepository for tests.
type memoryHistoryRepo struct {
	mu      sync.Mutex
	data    map[string][]entity.ChatMessage
	saves   int
	loadErr error
	saveErr error
}

func newMemoryHistoryRepo() *memoryHistoryRepo {
	return &memoryHistoryRepo{data: make(map[string][]entity.ChatMessage)}
}

func (r *memoryHistoryRepo) Load(ctx context.Context, sessionId string) ([]entity.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	messages, ok := r.data[sessionId]
	if !ok {
		return []entity.ChatMessage{}, nil
	}
	out := make([]entity.ChatMessage, len(messages))
	copy(out, messages)
	return out, nil
}

func (r *memoryHistoryRepo) Save(ctx context.Context, sessionId string, messages []entity.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	stored := make([]entity.ChatMessage, len(messages))
	copy(stored, messages)
	r.data[sessionId] = stored
	r.saves++
	return nil
}

func (r *memoryHistoryRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

func (r *memoryHistoryRepo) stored(sessionId string) []entity.ChatMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data[sessionId]
}

// capturePublisher records persist payloads instead of publishing them.
type capturePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *capturePublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.payloads)
}

// stubChatService replays a canned grounded reply.
type stubChatService struct {
	res     *dto.ChatResponse
	err     error
	lastReq *dto.ChatRequest
}

func (s *stubChatService) Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	s.lastReq = request
	if s.err != nil {
		return nil, s.err
	}
	return s.res, nil
}

func (s *stubChatService) ListStores(ctx context.Context) ([]dto.StoreDTO, error) {
	return nil, nil
}

// stubStreamService replays canned fragments, optionally failing after some.
type stubStreamService struct {
	fragments []string
	failAfter int // fragments delivered before the error; -1 means never fail
	lastInput []dto.HistoryItemDTO
}

func (s *stubStreamService) Stream(ctx context.Context, messages []dto.HistoryItemDTO, sink func(string) error) error {
	s.lastInput = messages
	for i, fragment := range s.fragments {
		if s.failAfter >= 0 && i == s.failAfter {
			return context.DeadlineExceeded
		}
		if err := sink(fragment); err != nil {
			return err
		}
	}
	if s.failAfter >= 0 && s.failAfter >= len(s.fragments) {
		return context.DeadlineExceeded
	}
	return nil
}
