package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ai-blog-be/internal/entity"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

// RedisStore shares sessions across API instances.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Save(ctx context.Context, session *entity.Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, redisKeyPrefix+session.Id, payload, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, sessionId string) (*entity.Session, error) {
	payload, err := s.rdb.Get(ctx, redisKeyPrefix+sessionId).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session entity.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionId string) error {
	return s.rdb.Del(ctx, redisKeyPrefix+sessionId).Err()
}
