package session

import (
	"context"
	"time"

	"ai-blog-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore(defaultTTL time.Duration) *MemoryStore {
	// purge expired sessions every 10 minutes
	return &MemoryStore{
		cache: cache.New(defaultTTL, 10*time.Minute),
	}
}

func (s *MemoryStore) Save(_ context.Context, session *entity.Session, ttl time.Duration) error {
	copied := *session
	s.cache.Set(session.Id, &copied, ttl)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, sessionId string) (*entity.Session, error) {
	x, found := s.cache.Get(sessionId)
	if !found {
		return nil, nil
	}
	copied := *x.(*entity.Session)
	return &copied, nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionId string) error {
	s.cache.Delete(sessionId)
	return nil
}
