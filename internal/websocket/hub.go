package websocket

import (
	"sync"

	"rag-chat-be/internal/pkg/logger"
)

// Hub tracks live gateway connections per chat session. A session can have
// several connections open at once (multi-tab); every one receives the same
// turn events.
type Hub struct {
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		logger:     log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionId] = append(h.clients[client.SessionId], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionId})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionId]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SessionId] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SessionId]) == 0 {
					delete(h.clients, client.SessionId)
					h.logger.Info("Hub", "Session fully disconnected", map[string]interface{}{"session_id": client.SessionId})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Emit sends a payload to every connection attached to the session. Slow
// consumers whose buffers fill are dropped rather than allowed to stall the
// turn. The sends happen under RLock: the unregister path closes Send under
// the write lock, so a disconnect mid-emit cannot race a send against the
// close.
func (h *Hub) Emit(sessionId string, data []byte) {
	var stalled []*Client

	h.mu.RLock()
	for _, client := range h.clients[sessionId] {
		select {
		case client.Send <- data:
		default:
			stalled = append(stalled, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stalled {
		h.logger.Warn("Hub", "Client buffer full, dropping connection", map[string]interface{}{"session_id": sessionId})
		h.unregister <- client
	}
}
