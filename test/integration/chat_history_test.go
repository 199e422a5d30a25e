package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"rag-chat-be/internal/entity"
	"rag-chat-be/internal/repository/implementation"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redisClient(t *testing.T) *redis.Client {
	t.Helper()

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set, skipping redis integration test")
	}

	opt, err := redis.ParseURL(redisURL)
	require.NoError(t, err)

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not reachable at %s: %v", redisURL, err)
	}
	return rdb
}

func TestChatHistoryRoundTrip(t *testing.T) {
	rdb := redisClient(t)

	prefix := fmt.Sprintf("test:history:%d:", time.Now().UnixNano())
	repo := implementation.NewChatHistoryRepository(rdb, prefix, 1*time.Minute)

	sessionId := "session-integration"
	t.Cleanup(func() {
		rdb.Del(context.Background(), prefix+sessionId)
	})

	messages := []entity.ChatMessage{
		{Id: "1", Role: "user", Content: "hello"},
		{
			Id:      "2",
			Role:    "assistant",
			Content: "hi, grounded",
			Citations: []entity.Citation{
				{Title: "doc.md", URI: "files/doc"},
			},
		},
	}

	require.NoError(t, repo.Save(context.Background(), sessionId, messages))

	loaded, err := repo.Load(context.Background(), sessionId)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "hello", loaded[0].Content)
	require.Len(t, loaded[1].Citations, 1)
	assert.Equal(t, "doc.md", loaded[1].Citations[0].Title)

	ttl, err := rdb.TTL(context.Background(), prefix+sessionId).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestChatHistoryLoadUnknownSession(t *testing.T) {
	rdb := redisClient(t)

	repo := implementation.NewChatHistoryRepository(rdb, "test:history:none:", 1*time.Minute)

	loaded, err := repo.Load(context.Background(), "never-saved")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
