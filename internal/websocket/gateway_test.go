package websocket

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"rag-chat-be/internal/entity"
	"rag-chat-be/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubConversation records how turns interleave.
type stubConversation struct {
	inFlight    int32
	maxInFlight int32
	completed   int32
	delay       time.Duration
	newChatId   string
}

func (s *stubConversation) Establish(ctx context.Context, sessionId string) (*entity.ChatTimeline, error) {
	return entity.NewChatTimeline(sessionId, []entity.ChatMessage{}), nil
}

func (s *stubConversation) Submit(ctx context.Context, sessionId, message, storeSelector string, sink service.TurnSink) error {
	current := atomic.AddInt32(&s.inFlight, 1)
	for {
		max := atomic.LoadInt32(&s.maxInFlight)
		if current <= max || atomic.CompareAndSwapInt32(&s.maxInFlight, max, current) {
			break
		}
	}

	time.Sleep(s.delay)
	sink(service.TurnEvent{Type: service.TurnEventAssistantDone})

	atomic.AddInt32(&s.inFlight, -1)
	atomic.AddInt32(&s.completed, 1)
	return nil
}

func (s *stubConversation) NewChat(ctx context.Context) (string, error) {
	return s.newChatId, nil
}

func (s *stubConversation) Timeline(sessionId string) (*entity.ChatTimeline, bool) {
	return nil, false
}

func newTestGateway(stub *stubConversation) *ChatGateway {
	return NewChatGateway(NewHub(nopLogger{}), stub, nopLogger{})
}

func (g *ChatGateway) turnLockCount() int {
	g.locksMu.Lock()
	defer g.locksMu.Unlock()
	return len(g.turnLocks)
}

func TestSubmitFramesForOneSessionRunSerially(t *testing.T) {
	stub := &stubConversation{delay: 30 * time.Millisecond}
	gateway := newTestGateway(stub)

	client := &Client{Hub: gateway.hub, SessionId: "session-1", Send: make(chan []byte, 16)}
	frame := []byte(`{"type":"submit","message":"hi"}`)

	gateway.handleFrame(client, frame)
	gateway.handleFrame(client, frame)
	gateway.handleFrame(client, frame)

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&stub.completed) == 3
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, int32(1), atomic.LoadInt32(&stub.maxInFlight))
}

func TestDifferentSessionsSubmitConcurrently(t *testing.T) {
	stub := &stubConversation{delay: 50 * time.Millisecond}
	gateway := newTestGateway(stub)

	a := &Client{Hub: gateway.hub, SessionId: "session-a", Send: make(chan []byte, 16)}
	b := &Client{Hub: gateway.hub, SessionId: "session-b", Send: make(chan []byte, 16)}
	frame := []byte(`{"type":"submit","message":"hi"}`)

	gateway.handleFrame(a, frame)
	gateway.handleFrame(b, frame)

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&stub.completed) == 2
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, int32(2), atomic.LoadInt32(&stub.maxInFlight))
}

func TestTurnLocksReleasedWhenIdle(t *testing.T) {
	stub := &stubConversation{}
	gateway := newTestGateway(stub)

	client := &Client{Hub: gateway.hub, SessionId: "session-1", Send: make(chan []byte, 16)}
	frame := []byte(`{"type":"submit","message":"hi"}`)

	gateway.handleFrame(client, frame)
	gateway.handleFrame(client, frame)

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&stub.completed) == 2
	}, 2*time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return gateway.turnLockCount() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestNewChatFrameRepliesWithFreshSession(t *testing.T) {
	stub := &stubConversation{newChatId: "session_1700000000000_a1b2c3d4e"}
	gateway := newTestGateway(stub)

	client := &Client{Hub: gateway.hub, SessionId: "session-old", Send: make(chan []byte, 1)}
	gateway.handleFrame(client, []byte(`{"type":"new_chat"}`))

	select {
	case data := <-client.Send:
		var reply struct {
			Type      string `json:"type"`
			SessionId string `json:"sessionId"`
		}
		require.NoError(t, json.Unmarshal(data, &reply))
		assert.Equal(t, "new_chat", reply.Type)
		assert.Equal(t, stub.newChatId, reply.SessionId)
	case <-time.After(time.Second):
		t.Fatal("no new_chat reply received")
	}
}

func TestMalformedAndUnknownFramesAreDropped(t *testing.T) {
	stub := &stubConversation{}
	gateway := newTestGateway(stub)

	client := &Client{Hub: gateway.hub, SessionId: "session-1", Send: make(chan []byte, 1)}
	gateway.handleFrame(client, []byte("not json"))
	gateway.handleFrame(client, []byte(`{"type":"mystery"}`))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&stub.completed))
	assert.Empty(t, client.Send)
}
