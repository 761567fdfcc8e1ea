package handler

import (
	"context"
	"encoding/json"

	"ai-blog-be/internal/entity"
	"ai-blog-be/internal/pkg/logger"
	internalWS "ai-blog-be/internal/websocket"
	"ai-blog-be/pkg/apperror"
	"ai-blog-be/pkg/events"
	pktNats "ai-blog-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const localsFeedPost = "feed_post_id"

// PostFinder loads a post by id, returning nil when it does not exist.
type PostFinder interface {
	FindById(ctx context.Context, id uuid.UUID) (*entity.Post, error)
}

// LiveFeedHandler streams review activity of a post to websocket viewers.
type LiveFeedHandler struct {
	hub    *internalWS.Hub
	posts  PostFinder
	logger logger.ILogger
}

type feedMessage struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

func NewLiveFeedHandler(hub *internalWS.Hub, posts PostFinder, log logger.ILogger) *LiveFeedHandler {
	return &LiveFeedHandler{
		hub:    hub,
		posts:  posts,
		logger: log,
	}
}

func (h *LiveFeedHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/posts/:id/live", h.RequireUpgrade, websocket.New(h.serve))
}

// RequireUpgrade admits websocket handshakes for existing posts only.
func (h *LiveFeedHandler) RequireUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperror.NotFound("post not found")
	}
	post, err := h.posts.FindById(c.Context(), postID)
	if err != nil {
		return err
	}
	if post == nil {
		return apperror.NotFound("post not found")
	}

	c.Locals(localsFeedPost, postID)
	return c.Next()
}

func (h *LiveFeedHandler) serve(conn *websocket.Conn) {
	postID, ok := conn.Locals(localsFeedPost).(uuid.UUID)
	if !ok {
		_ = conn.Close()
		return
	}
	h.logger.Info("LIVE", "Feed session started", map[string]interface{}{"post_id": postID.String()})
	internalWS.ServeWs(h.hub, conn, postID)
	h.logger.Info("LIVE", "Feed session ended", map[string]interface{}{"post_id": postID.String()})
}

// Start follows the event stream with a consumer private to this process,
// so every instance sees every review event.
func (h *LiveFeedHandler) Start(ctx context.Context, sub *pktNats.Subscriber) error {
	if sub == nil {
		return nil
	}
	return sub.Subscribe(ctx, pktNats.SubjectPrefix+">", "", h.HandleEvent)
}

// HandleEvent forwards review events to the post's viewers and closes the
// feed of a deleted post. Other events are ignored.
func (h *LiveFeedHandler) HandleEvent(_ context.Context, event events.Event) error {
	raw, _ := event.Payload()["post_id"].(string)
	postID, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}

	switch event.EventType() {
	case events.TypeReviewCreated, events.TypeReviewDeleted:
		data, err := json.Marshal(feedMessage{Type: event.EventType(), Data: event.Payload()})
		if err != nil {
			return err
		}
		h.hub.Publish(postID, data)
	case events.TypePostDeleted:
		h.hub.CloseAll(postID)
	}
	return nil
}
