package service

import (
	"context"
	"sort"
	"sync"

	"ai-blog-be/internal/entity"
	"ai-blog-be/internal/repository/contract"
	"ai-blog-be/internal/repository/specification"
	"ai-blog-be/internal/repository/unitofwork"
	"ai-blog-be/pkg/events"

	"github.com/google/uuid"
)

// memoryDB backs the fake repositories. It understands the lookup
// specifications the services use and ignores ordering and paging.
type memoryDB struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*entity.User
	posts   map[uuid.UUID]*entity.Post
	reviews map[uuid.UUID]*entity.Review

	commits   int
	rollbacks int
	failNext  error
	// row locks taken on posts, "share" or "update", suffixed with
	// " outside tx" when no transaction was open
	postLocks []string
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		users:   map[uuid.UUID]*entity.User{},
		posts:   map[uuid.UUID]*entity.Post{},
		reviews: map[uuid.UUID]*entity.Review{},
	}
}

func (db *memoryDB) takeFailure() error {
	err := db.failNext
	db.failNext = nil
	return err
}

type fakeFactory struct{ db *memoryDB }

func (f fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{db: f.db}
}

type fakeUow struct {
	db     *memoryDB
	active bool
}

func (u *fakeUow) Begin(ctx context.Context) error { u.active = true; return nil }

func (u *fakeUow) Commit() error {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	u.active = false
	u.db.commits++
	return nil
}

func (u *fakeUow) Rollback() error {
	if !u.active {
		return nil
	}
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	u.active = false
	u.db.rollbacks++
	return nil
}

func (u *fakeUow) UserRepository() contract.UserRepository     { return fakeUsers{u.db} }
func (u *fakeUow) PostRepository() contract.PostRepository     { return fakePosts{db: u.db, tx: u.active} }
func (u *fakeUow) ReviewRepository() contract.ReviewRepository { return fakeReviews{u.db} }

type fakeUsers struct{ db *memoryDB }

func (r fakeUsers) Create(ctx context.Context, user *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.takeFailure(); err != nil {
		return err
	}
	c := *user
	r.db.users[user.Id] = &c
	return nil
}

func (r fakeUsers) Update(ctx context.Context, user *entity.User) error { return r.Create(ctx, user) }

func (r fakeUsers) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.users, id)
	return nil
}

func (r fakeUsers) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r fakeUsers) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.User
	for _, u := range r.db.users {
		if matchUser(u, specs) {
			c := *u
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r fakeUsers) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func matchUser(u *entity.User, specs []specification.Specification) bool {
	for _, s := range specs {
		switch s := s.(type) {
		case specification.ByID:
			if u.Id != s.ID {
				return false
			}
		case specification.ByUsername:
			if u.Username != s.Username {
				return false
			}
		case specification.ByEmail:
			if u.Email != s.Email {
				return false
			}
		case specification.ByUsernameOrEmail:
			if u.Username != s.Identifier && u.Email != s.Identifier {
				return false
			}
		}
	}
	return true
}

type fakePosts struct {
	db *memoryDB
	tx bool
}

func (r fakePosts) Create(ctx context.Context, post *entity.Post) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.takeFailure(); err != nil {
		return err
	}
	c := *post
	c.ReviewIds = append([]uuid.UUID{}, post.ReviewIds...)
	r.db.posts[post.Id] = &c
	return nil
}

func (r fakePosts) Update(ctx context.Context, post *entity.Post) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	existing, ok := r.db.posts[post.Id]
	if !ok {
		return contract.ErrNotFound
	}
	existing.Title = post.Title
	existing.Content = post.Content
	existing.ImageRef = post.ImageRef
	existing.Summary = post.Summary
	return nil
}

func (r fakePosts) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.posts, id)
	return nil
}

func (r fakePosts) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Post, error) {
	r.recordLocks(specs)
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r fakePosts) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Post
	for _, p := range r.db.posts {
		if matchPost(p, specs) {
			c := *p
			c.ReviewIds = append([]uuid.UUID{}, p.ReviewIds...)
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r fakePosts) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r fakePosts) AppendReview(ctx context.Context, postId, reviewId uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.posts[postId]
	if !ok {
		return contract.ErrNotFound
	}
	for _, id := range p.ReviewIds {
		if id == reviewId {
			return nil
		}
	}
	p.ReviewIds = append(p.ReviewIds, reviewId)
	return nil
}

func (r fakePosts) DetachReview(ctx context.Context, postId, reviewId uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.posts[postId]
	if !ok {
		return nil
	}
	kept := p.ReviewIds[:0]
	for _, id := range p.ReviewIds {
		if id != reviewId {
			kept = append(kept, id)
		}
	}
	p.ReviewIds = kept
	return nil
}

func (r fakePosts) UpdateSummary(ctx context.Context, postId uuid.UUID, summary string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if p, ok := r.db.posts[postId]; ok {
		p.Summary = summary
	}
	return nil
}

func (r fakePosts) recordLocks(specs []specification.Specification) {
	for _, s := range specs {
		var lock string
		switch s.(type) {
		case specification.ForShare:
			lock = "share"
		case specification.ForUpdate:
			lock = "update"
		default:
			continue
		}
		if !r.tx {
			lock += " outside tx"
		}
		r.db.mu.Lock()
		r.db.postLocks = append(r.db.postLocks, lock)
		r.db.mu.Unlock()
	}
}

func matchPost(p *entity.Post, specs []specification.Specification) bool {
	for _, s := range specs {
		switch s := s.(type) {
		case specification.ByID:
			if p.Id != s.ID {
				return false
			}
		case specification.AuthoredBy:
			if p.AuthorId != s.AuthorID {
				return false
			}
		case specification.MissingSummary:
			if p.Summary != "" {
				return false
			}
		}
	}
	return true
}

type fakeReviews struct{ db *memoryDB }

func (r fakeReviews) Create(ctx context.Context, review *entity.Review) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.takeFailure(); err != nil {
		return err
	}
	c := *review
	r.db.reviews[review.Id] = &c
	return nil
}

func (r fakeReviews) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.reviews, id)
	return nil
}

func (r fakeReviews) DeleteByPostId(ctx context.Context, postId uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, rv := range r.db.reviews {
		if rv.PostId == postId {
			delete(r.db.reviews, id)
		}
	}
	return nil
}

func (r fakeReviews) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Review, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r fakeReviews) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Review, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Review
	for _, rv := range r.db.reviews {
		ok := true
		for _, s := range specs {
			switch s := s.(type) {
			case specification.ByID:
				ok = ok && rv.Id == s.ID
			case specification.ByPostID:
				ok = ok && rv.PostId == s.PostID
			}
		}
		if ok {
			c := *rv
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type recordingQueue struct {
	mu       sync.Mutex
	payloads []interface{}
}

func (q *recordingQueue) Publish(ctx context.Context, payload interface{}) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.payloads = append(q.payloads, payload)
	return nil
}
