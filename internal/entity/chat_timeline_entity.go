package entity

import "sync"

// ChatTimeline owns the ordered message list of one active session. The
// conversation flow mutates it while the history flusher snapshots it from a
// timer goroutine, so access goes through the lock.
type ChatTimeline struct {
	SessionId string

	mu       sync.RWMutex
	messages []ChatMessage
}

func NewChatTimeline(sessionId string, messages []ChatMessage) *ChatTimeline {
	return &ChatTimeline{
		SessionId: sessionId,
		messages:  messages,
	}
}

func (t *ChatTimeline) Append(msg ChatMessage) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, msg)
}

// AppendContent concatenates a fragment onto the message with the given id
// and returns the grown content. Unknown ids are ignored.
func (t *ChatTimeline) AppendContent(id, fragment string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.messages {
		if t.messages[i].Id == id {
			t.messages[i].Content += fragment
			return t.messages[i].Content
		}
	}
	return ""
}

// ReplaceContent overwrites the content of the message with the given id.
func (t *ChatTimeline) ReplaceContent(id, content string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.messages {
		if t.messages[i].Id == id {
			t.messages[i].Content = content
			return
		}
	}
}

// Snapshot copies the current message list in conversation order.
func (t *ChatTimeline) Snapshot() []ChatMessage {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]ChatMessage, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *ChatTimeline) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}
