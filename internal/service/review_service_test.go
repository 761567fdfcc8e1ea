package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"ai-blog-be/internal/dto"
	"ai-blog-be/internal/entity"
	"ai-blog-be/internal/pkg/logger"
	"ai-blog-be/internal/repository/contract"
	"ai-blog-be/pkg/apperror"
	"ai-blog-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPost(db *memoryDB, authorId uuid.UUID) *entity.Post {
	p := &entity.Post{
		Id:        uuid.New(),
		Title:     "Post",
		Content:   "Content.",
		AuthorId:  authorId,
		ReviewIds: []uuid.UUID{},
		CreatedAt: time.Now(),
	}
	db.posts[p.Id] = p
	return p
}

func newReviewFixture() (*memoryDB, *recordingPublisher, IReviewService) {
	db := newMemoryDB()
	pub := &recordingPublisher{}
	return db, pub, NewReviewService(fakeFactory{db}, pub, logger.NewNopLogger())
}

func TestCreateReviewAppendsToPost(t *testing.T) {
	db, pub, svc := newReviewFixture()
	post := seedPost(db, uuid.New())
	author := uuid.New()

	res, err := svc.Create(context.Background(), author, &dto.CreateReviewRequest{PostId: post.Id, Rating: 4, Body: " Nice read "})

	require.NoError(t, err)
	stored := db.reviews[res.Id]
	require.NotNil(t, stored)
	assert.Equal(t, author, stored.AuthorId)
	assert.Equal(t, "Nice read", stored.Body)
	assert.Equal(t, []uuid.UUID{res.Id}, db.posts[post.Id].ReviewIds)
	assert.Equal(t, 1, db.commits)
	assert.Equal(t, []string{events.TypeReviewCreated}, pub.types())
}

func TestCreateReviewLocksPostInsideTransaction(t *testing.T) {
	db, _, svc := newReviewFixture()
	post := seedPost(db, uuid.New())

	_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateReviewRequest{PostId: post.Id, Rating: 5, Body: "Great"})

	require.NoError(t, err)
	assert.Equal(t, []string{"share"}, db.postLocks)
}

func TestCreateReviewPostDeletedConcurrently(t *testing.T) {
	db, pub, svc := newReviewFixture()
	post := seedPost(db, uuid.New())
	db.failNext = fmt.Errorf("%w: fk_reviews_post", contract.ErrNotFound)

	_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateReviewRequest{PostId: post.Id, Rating: 5, Body: "Great"})

	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.Empty(t, db.posts[post.Id].ReviewIds)
	assert.Equal(t, 0, db.commits)
	assert.Empty(t, pub.types())
}

func TestCreateReviewRejectsInvalidPayload(t *testing.T) {
	db, _, svc := newReviewFixture()
	post := seedPost(db, uuid.New())

	for _, req := range []*dto.CreateReviewRequest{
		{PostId: post.Id, Rating: 0, Body: "ok"},
		{PostId: post.Id, Rating: 6, Body: "ok"},
		{PostId: post.Id, Rating: 3, Body: "   "},
	} {
		_, err := svc.Create(context.Background(), uuid.New(), req)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	}
	assert.Empty(t, db.reviews)
	assert.Empty(t, db.posts[post.Id].ReviewIds)
}

func TestCreateReviewUnknownPost(t *testing.T) {
	db, _, svc := newReviewFixture()

	_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateReviewRequest{PostId: uuid.New(), Rating: 5, Body: "x"})

	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.Empty(t, db.reviews)
}

func TestConcurrentReviewsAreAllKept(t *testing.T) {
	db, _, svc := newReviewFixture()
	post := seedPost(db, uuid.New())

	const n = 20
	var wg sync.WaitGroup
	ids := make(chan uuid.UUID, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.Create(context.Background(), uuid.New(), &dto.CreateReviewRequest{PostId: post.Id, Rating: 3, Body: "hi"})
			if assert.NoError(t, err) {
				ids <- res.Id
			}
		}()
	}
	wg.Wait()
	close(ids)

	var want []uuid.UUID
	for id := range ids {
		want = append(want, id)
	}
	assert.ElementsMatch(t, want, db.posts[post.Id].ReviewIds)
}

func TestDestroyReviewDetachesIdempotently(t *testing.T) {
	db, pub, svc := newReviewFixture()
	post := seedPost(db, uuid.New())
	author := uuid.New()
	ctx := context.Background()

	keep, err := svc.Create(ctx, author, &dto.CreateReviewRequest{PostId: post.Id, Rating: 5, Body: "keep"})
	require.NoError(t, err)
	drop, err := svc.Create(ctx, author, &dto.CreateReviewRequest{PostId: post.Id, Rating: 1, Body: "drop"})
	require.NoError(t, err)

	review, err := svc.FindById(ctx, drop.Id)
	require.NoError(t, err)

	require.NoError(t, svc.Destroy(ctx, review))
	require.NoError(t, svc.Destroy(ctx, review), "second destroy is a no-op")

	assert.Equal(t, []uuid.UUID{keep.Id}, db.posts[post.Id].ReviewIds)
	assert.NotContains(t, db.reviews, drop.Id)
	assert.Contains(t, db.posts, post.Id, "post survives review deletion")
	assert.Contains(t, pub.types(), events.TypeReviewDeleted)
}

func TestListReviews(t *testing.T) {
	db, _, svc := newReviewFixture()
	post := seedPost(db, uuid.New())
	ctx := context.Background()

	_, err := svc.Create(ctx, uuid.New(), &dto.CreateReviewRequest{PostId: post.Id, Rating: 2, Body: "a"})
	require.NoError(t, err)

	list, err := svc.List(ctx, post.Id)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.List(ctx, uuid.New())
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}
