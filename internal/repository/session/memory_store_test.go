package session

import (
	"context"
	"testing"
	"time"

	"ai-blog-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSaveGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	s := &entity.Session{Id: "sid-1", UserId: uuid.New(), ExpiresAt: time.Now().Add(time.Hour)}

	require.NoError(t, store.Save(ctx, s, time.Hour))

	got, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, s.UserId, got.UserId)

	require.NoError(t, store.Delete(ctx, "sid-1"))

	got, err = store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreExpires(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	require.NoError(t, store.Save(ctx, &entity.Session{Id: "short"}, 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	got, err := store.Get(ctx, "short")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	s := &entity.Session{Id: "sid"}
	require.NoError(t, store.Save(ctx, s, time.Hour))

	s.Id = "mutated"

	got, err := store.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "sid", got.Id)
}
