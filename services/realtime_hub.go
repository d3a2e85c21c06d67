package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

type WSClient struct {
	Topic string
	Conn  *websocket.Conn
}

// RealtimeHub fans messages out to websocket subscribers keyed by topic.
// Topics are either a meal engagement feed ("published:42", "upcoming:7")
// or a per-user notification feed ("user:13").
type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[string]map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[string]map[*WSClient]struct{})}
}

func MealTopic(scope LikeScope, mealID uint) string {
	return fmt.Sprintf("%s:%d", scope, mealID)
}

func UserTopic(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

func (h *RealtimeHub) Subscribe(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.Topic] == nil {
		h.clients[c.Topic] = make(map[*WSClient]struct{})
	}
	h.clients[c.Topic][c] = struct{}{}
	h.mu.Unlock()
}

func (h *RealtimeHub) Unsubscribe(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.Topic]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.Topic)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

func (h *RealtimeHub) Broadcast(topic string, payload any) {
	msg, _ := json.Marshal(payload)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[topic] {
		_ = c.Conn.WriteMessage(websocket.TextMessage, msg)
	}
}
