package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TypeUserRegistered = "USER_REGISTERED"
	TypePostCreated    = "POST_CREATED"
	TypePostDeleted    = "POST_DELETED"
	TypeReviewCreated  = "REVIEW_CREATED"
	TypeReviewDeleted  = "REVIEW_DELETED"
)

// Event defines the contract for all domain events.
type Event interface {
	// EventType returns the unique code for this event (e.g. "POST_CREATED").
	EventType() string

	Payload() map[string]interface{}

	Timestamp() time.Time
}

// Publisher sends events to the bus. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func newEvent(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}

func UserRegistered(userId uuid.UUID, username string) Event {
	return newEvent(TypeUserRegistered, map[string]interface{}{
		"user_id":  userId.String(),
		"username": username,
	})
}

func PostCreated(postId, authorId uuid.UUID) Event {
	return newEvent(TypePostCreated, map[string]interface{}{
		"post_id":   postId.String(),
		"author_id": authorId.String(),
	})
}

func PostDeleted(postId, authorId uuid.UUID) Event {
	return newEvent(TypePostDeleted, map[string]interface{}{
		"post_id":   postId.String(),
		"author_id": authorId.String(),
	})
}

func ReviewCreated(reviewId, postId, authorId uuid.UUID, rating int) Event {
	return newEvent(TypeReviewCreated, map[string]interface{}{
		"review_id": reviewId.String(),
		"post_id":   postId.String(),
		"author_id": authorId.String(),
		"rating":    rating,
	})
}

func ReviewDeleted(reviewId, postId uuid.UUID) Event {
	return newEvent(TypeReviewDeleted, map[string]interface{}{
		"review_id": reviewId.String(),
		"post_id":   postId.String(),
	})
}

// NopPublisher drops every event. Used when the bus is unavailable.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
