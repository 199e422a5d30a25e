package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"rag-chat-be/internal/pkg/logger"
	"rag-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// inboundFrame is what the browser sends over the gateway socket.
type inboundFrame struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	StoreId string `json:"storeId,omitempty"`
}

// turnLock serializes the turns of one session. waiters counts holders plus
// queued turns so the entry can be dropped once the last one finishes.
type turnLock struct {
	mu      sync.Mutex
	waiters int
}

// ChatGateway exposes the conversation over a websocket: the client submits
// utterances and receives the turn's events (user echo, assistant placeholder,
// fragments, completion) as they happen.
type ChatGateway struct {
	hub          *Hub
	conversation service.IConversationService
	logger       logger.ILogger

	locksMu   sync.Mutex
	turnLocks map[string]*turnLock
}

func NewChatGateway(hub *Hub, conversation service.IConversationService, log logger.ILogger) *ChatGateway {
	return &ChatGateway{
		hub:          hub,
		conversation: conversation,
		logger:       log,
		turnLocks:    make(map[string]*turnLock),
	}
}

func (g *ChatGateway) RegisterRoutes(router fiber.Router) {
	ws := router.Group("/ws")
	ws.Use(func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	ws.Get("/chat", websocket.New(g.serve))
}

func (g *ChatGateway) serve(conn *websocket.Conn) {
	sessionId := conn.Query("sessionId")
	if sessionId == "" {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "sessionId is required"))
		conn.Close()
		return
	}

	client := &Client{
		Hub:       g.hub,
		Conn:      conn,
		SessionId: sessionId,
		Send:      make(chan []byte, 256),
		onMessage: g.handleFrame,
	}
	client.Hub.register <- client

	go client.writePump()

	g.sendTimeline(client)

	client.readPump()
}

// sendTimeline replays the established timeline to a freshly attached
// connection.
func (g *ChatGateway) sendTimeline(client *Client) {
	timeline, err := g.conversation.Establish(context.Background(), client.SessionId)
	if err != nil {
		g.logger.Error("ChatGateway", "Failed to establish session", map[string]interface{}{
			"session_id": client.SessionId,
			"error":      err.Error(),
		})
		return
	}

	data, err := json.Marshal(map[string]interface{}{
		"type":     "timeline",
		"messages": timeline.Snapshot(),
	})
	if err != nil {
		return
	}
	client.Send <- data
}

func (g *ChatGateway) handleFrame(client *Client, data []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		g.logger.Warn("ChatGateway", "Dropping malformed frame", map[string]interface{}{
			"session_id": client.SessionId,
			"error":      err.Error(),
		})
		return
	}

	switch frame.Type {
	case "submit":
		// The submit runs off the read pump so pings keep flowing while a
		// long generation streams.
		go g.runTurn(client.SessionId, frame)
	case "new_chat":
		g.startNewChat(client)
	default:
		g.logger.Warn("ChatGateway", "Unknown frame type", map[string]interface{}{
			"session_id": client.SessionId,
			"type":       frame.Type,
		})
	}
}

func (g *ChatGateway) runTurn(sessionId string, frame inboundFrame) {
	lock := g.acquireTurn(sessionId)
	defer g.releaseTurn(sessionId, lock)

	sink := func(event service.TurnEvent) {
		data, err := json.Marshal(event)
		if err != nil {
			return
		}
		g.hub.Emit(sessionId, data)
	}

	if err := g.conversation.Submit(context.Background(), sessionId, frame.Message, frame.StoreId, sink); err != nil {
		g.logger.Error("ChatGateway", "Turn failed", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}
}

// acquireTurn blocks until the session's turn slot is free. One turn runs at
// a time per session; later submits queue behind it in arrival order.
func (g *ChatGateway) acquireTurn(sessionId string) *turnLock {
	g.locksMu.Lock()
	lock, ok := g.turnLocks[sessionId]
	if !ok {
		lock = &turnLock{}
		g.turnLocks[sessionId] = lock
	}
	lock.waiters++
	g.locksMu.Unlock()

	lock.mu.Lock()
	return lock
}

func (g *ChatGateway) releaseTurn(sessionId string, lock *turnLock) {
	lock.mu.Unlock()

	g.locksMu.Lock()
	lock.waiters--
	if lock.waiters == 0 {
		delete(g.turnLocks, sessionId)
	}
	g.locksMu.Unlock()
}

// startNewChat mints a new session and tells this connection to move to it.
// The socket stays bound to the old session until the client reconnects.
func (g *ChatGateway) startNewChat(client *Client) {
	sessionId, err := g.conversation.NewChat(context.Background())
	if err != nil {
		g.logger.Error("ChatGateway", "Failed to start new chat", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	data, err := json.Marshal(map[string]interface{}{
		"type":      "new_chat",
		"sessionId": sessionId,
	})
	if err != nil {
		return
	}
	client.Send <- data
}
