package websocket

import (
	"sync"

	"ai-blog-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// Hub fans post activity out to the websocket viewers of that post.
type Hub struct {
	// post id -> connected viewers
	viewers map[uuid.UUID]map[*Client]struct{}
	mu      sync.RWMutex

	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		viewers: make(map[uuid.UUID]map[*Client]struct{}),
		logger:  log,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.viewers[c.PostID]
	if !ok {
		set = make(map[*Client]struct{})
		h.viewers[c.PostID] = set
	}
	set[c] = struct{}{}
	h.logger.Debug("LIVE", "Viewer joined", map[string]interface{}{"post_id": c.PostID.String(), "viewers": len(set)})
}

// unregister removes c and closes its Send channel. It is safe to call
// more than once.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.viewers[c.PostID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.Send)
	if len(set) == 0 {
		delete(h.viewers, c.PostID)
	}
}

// Publish queues message for every viewer of postID. Viewers whose buffer
// is full are disconnected rather than blocking the publisher.
func (h *Hub) Publish(postID uuid.UUID, message []byte) {
	var slow []*Client

	h.mu.RLock()
	for c := range h.viewers[postID] {
		select {
		case c.Send <- message:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("LIVE", "Viewer too slow, dropping connection", map[string]interface{}{"post_id": postID.String()})
		h.unregister(c)
	}
}

// CloseAll disconnects every viewer of postID, used when the post is deleted.
func (h *Hub) CloseAll(postID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.viewers[postID] {
		close(c.Send)
	}
	delete(h.viewers, postID)
}

func (h *Hub) ViewerCount(postID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.viewers[postID])
}
