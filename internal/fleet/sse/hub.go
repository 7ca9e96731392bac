package sse

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Event represents a Server-Sent Event
type Event struct {
	EventType string `json:"event"`
	Data      string `json:"data"`
}

// Client represents a connected SSE client
type Client struct {
	ID     string
	UserID string
	Events chan Event
}

// Hub manages all SSE client connections
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  *zap.Logger
}

// NewHub creates a new SSE Hub
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string]*Client),
		logger:  logger,
	}
}

// Register adds a new client to the hub
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	h.logger.Debug("sse client registered",
		zap.String("client_id", client.ID),
		zap.String("user_id", client.UserID),
		zap.Int("total", len(h.clients)))
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		close(client.Events)
		delete(h.clients, clientID)
		h.logger.Debug("sse client unregistered",
			zap.String("client_id", clientID),
			zap.Int("total", len(h.clients)))
	}
}

// ClientCount number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends an event to all connected clients
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		select {
		case client.Events <- event:
		default:
			h.logger.Warn("sse client buffer full, skipping event", zap.String("client_id", client.ID))
		}
	}
}

// SendToUser sends an event to every connection of one user
func (h *Hub) SendToUser(userID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if client.UserID != userID {
			continue
		}
		select {
		case client.Events <- event:
		default:
			h.logger.Warn("sse client buffer full, skipping user event", zap.String("client_id", client.ID))
		}
	}
}

// Publish broadcasts payload encoded as JSON under eventType
func (h *Hub) Publish(eventType string, payload interface{}) {
	if h == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("sse payload encode failed", zap.String("event", eventType), zap.Error(err))
		return
	}
	h.Broadcast(Event{EventType: eventType, Data: string(data)})
}

// Event types
const (
	EventCommentPosted     = "comment_posted"
	EventWorkItemCompleted = "work_item_completed"
	EventWorkItemUpdated   = "work_item_updated"
	EventNCRUpdated        = "ncr_updated"
)

// PublishCommentPosted announces a new comment on a record's thread
func (h *Hub) PublishCommentPosted(parentID, commentID, authorID string) {
	h.Publish(EventCommentPosted, map[string]string{
		"parent_id":  parentID,
		"comment_id": commentID,
		"author_id":  authorID,
	})
}

// PublishWorkItem announces a work item change
func (h *Hub) PublishWorkItem(eventType, workItemID, action string) {
	h.Publish(eventType, map[string]string{
		"work_item_id": workItemID,
		"action":       action,
	})
}

// PublishNCRUpdate announces an NCR status change
func (h *Hub) PublishNCRUpdate(ncrID, status string) {
	h.Publish(EventNCRUpdated, map[string]string{
		"ncr_id": ncrID,
		"status": status,
	})
}
