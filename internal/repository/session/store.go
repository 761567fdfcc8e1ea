package session

import (
	"context"
	"time"

	"ai-blog-be/internal/entity"
)

// Store keeps live login sessions keyed by session id. Get returns nil, nil
// for an unknown or expired id.
type Store interface {
	Save(ctx context.Context, session *entity.Session, ttl time.Duration) error
	Get(ctx context.Context, sessionId string) (*entity.Session, error)
	Delete(ctx context.Context, sessionId string) error
}
