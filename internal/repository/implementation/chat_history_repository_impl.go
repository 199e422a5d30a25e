package implementation

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"rag-chat-be/internal/entity"
	"rag-chat-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

type chatHistoryRepository struct {
	rdb       *redis.Client
	keyPrefix string
	ttl       time.Duration
}

func NewChatHistoryRepository(rdb *redis.Client, keyPrefix string, ttl time.Duration) contract.ChatHistoryRepository {
	return &chatHistoryRepository{
		rdb:       rdb,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (r *chatHistoryRepository) Load(ctx context.Context, sessionId string) ([]entity.ChatMessage, error) {
	raw, err := r.rdb.Get(ctx, r.keyPrefix+sessionId).Result()
	if errors.Is(err, redis.Nil) {
		return []entity.ChatMessage{}, nil
	}
	if err != nil {
		return nil, err
	}

	var messages []entity.ChatMessage
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		return nil, err
	}

	return messages, nil
}

func (r *chatHistoryRepository) Save(ctx context.Context, sessionId string, messages []entity.ChatMessage) error {
	payload, err := json.Marshal(messages)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.keyPrefix+sessionId, payload, r.ttl).Err()
}
