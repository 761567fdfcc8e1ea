package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"ai-blog-be/internal/dto"
	"ai-blog-be/internal/entity"
	"ai-blog-be/internal/pkg/logger"
	"ai-blog-be/internal/repository/contract"
	"ai-blog-be/internal/repository/scope"
	"ai-blog-be/internal/repository/specification"
	"ai-blog-be/internal/repository/unitofwork"
	"ai-blog-be/pkg/apperror"
	"ai-blog-be/pkg/events"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
)

const (
	defaultPageSize  = 10
	summaryBackfillN = 50
)

// ImageRemover deletes a stored upload by its public reference.
type ImageRemover interface {
	Remove(ref string) error
}

type IPostService interface {
	Create(ctx context.Context, authorId uuid.UUID, req *dto.CreatePostRequest) (*dto.CreatePostResponse, error)
	List(ctx context.Context, req *dto.ListPostsRequest) (*dto.ListPostsResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowPostResponse, error)
	FindById(ctx context.Context, id uuid.UUID) (*entity.Post, error)
	Update(ctx context.Context, post *entity.Post, req *dto.UpdatePostRequest) (*dto.UpdatePostResponse, error)
	Delete(ctx context.Context, post *entity.Post) error
	EnqueueMissingSummaries(ctx context.Context) (int, error)
}

type postService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   events.Publisher
	images           ImageRemover
	log              logger.ILogger
	markdown         goldmark.Markdown
}

func NewPostService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher events.Publisher,
	images ImageRemover,
	log logger.ILogger,
) IPostService {
	return &postService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		images:           images,
		log:              log,
		markdown:         goldmark.New(),
	}
}

func (s *postService) Create(ctx context.Context, authorId uuid.UUID, req *dto.CreatePostRequest) (*dto.CreatePostResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	post := &entity.Post{
		Id:        uuid.New(),
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		ImageRef:  req.ImageRef,
		AuthorId:  authorId,
		ReviewIds: []uuid.UUID{},
		CreatedAt: time.Now(),
	}

	if err := uow.PostRepository().Create(ctx, post); err != nil {
		return nil, apperror.Persistence(err)
	}

	s.log.Info("POST", "Post created", map[string]interface{}{
		"post_id":   post.Id.String(),
		"author_id": authorId.String(),
	})

	s.enqueueSummary(ctx, post.Id)
	publishEvent(ctx, s.eventPublisher, s.log, events.PostCreated(post.Id, authorId))

	return &dto.CreatePostResponse{Id: post.Id, ImageRef: post.ImageRef}, nil
}

func (s *postService) enqueueSummary(ctx context.Context, postId uuid.UUID) {
	if s.publisherService == nil {
		return
	}
	if err := s.publisherService.Publish(ctx, dto.SummarizePostMessage{PostId: postId}); err != nil {
		s.log.Warn("POST", "Failed to enqueue summary", map[string]interface{}{
			"post_id": postId.String(),
			"error":   err.Error(),
		})
	}
}

func (s *postService) List(ctx context.Context, req *dto.ListPostsRequest) (*dto.ListPostsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	page, pageSize := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	var filters []specification.Specification
	if req.AuthorId != uuid.Nil {
		filters = append(filters, specification.AuthoredBy{AuthorID: req.AuthorId})
	}
	if q := strings.TrimSpace(req.Search); q != "" {
		filters = append(filters, specification.TitleContains{Query: q})
	}

	total, err := uow.PostRepository().Count(ctx, filters...)
	if err != nil {
		return nil, apperror.Persistence(err)
	}

	specs := append(filters,
		specification.Scoped(scope.OrderByCreatedDesc),
		specification.Pagination{Limit: pageSize, Offset: (page - 1) * pageSize},
	)
	posts, err := uow.PostRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, apperror.Persistence(err)
	}

	items := make([]*dto.PostSummaryResponse, len(posts))
	for i, p := range posts {
		items[i] = &dto.PostSummaryResponse{
			Id:          p.Id,
			Title:       p.Title,
			Summary:     p.Summary,
			ImageRef:    p.ImageRef,
			AuthorId:    p.AuthorId,
			ReviewCount: len(p.ReviewIds),
			CreatedAt:   p.CreatedAt,
		}
	}

	return &dto.ListPostsResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *postService) FindById(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	post, err := uow.PostRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	return post, nil
}

func (s *postService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowPostResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	post, err := uow.PostRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if post == nil {
		return nil, apperror.NotFound("post not found")
	}

	reviews, err := uow.ReviewRepository().FindAll(ctx,
		specification.ByPostID{PostID: post.Id},
		specification.Scoped(scope.OrderByCreatedAsc),
	)
	if err != nil {
		return nil, apperror.Persistence(err)
	}

	return &dto.ShowPostResponse{
		Id:          post.Id,
		Title:       post.Title,
		Content:     post.Content,
		ContentHTML: s.renderMarkdown(post),
		Summary:     post.Summary,
		ImageRef:    post.ImageRef,
		AuthorId:    post.AuthorId,
		Reviews:     toReviewResponses(reviews),
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}, nil
}

func (s *postService) renderMarkdown(post *entity.Post) string {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(post.Content), &buf); err != nil {
		s.log.Warn("POST", "Failed to render markdown", map[string]interface{}{
			"post_id": post.Id.String(),
			"error":   err.Error(),
		})
		return ""
	}
	return buf.String()
}

// Update changes title and content of a post already loaded and
// authorised by the route. A content change clears the summary and
// schedules a new one.
func (s *postService) Update(ctx context.Context, post *entity.Post, req *dto.UpdatePostRequest) (*dto.UpdatePostResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	contentChanged := post.Content != req.Content
	post.Title = strings.TrimSpace(req.Title)
	post.Content = req.Content
	if contentChanged {
		post.Summary = ""
	}

	if err := uow.PostRepository().Update(ctx, post); err != nil {
		if errors.Is(err, contract.ErrNotFound) {
			return nil, apperror.NotFound("post not found")
		}
		return nil, apperror.Persistence(err)
	}

	if contentChanged {
		s.enqueueSummary(ctx, post.Id)
	}

	return &dto.UpdatePostResponse{Id: post.Id}, nil
}

// Delete removes the post together with its reviews.
func (s *postService) Delete(ctx context.Context, post *entity.Post) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return apperror.Persistence(err)
	}
	defer uow.Rollback()

	// Waits for review transactions holding a share lock on the post, so
	// their reviews are visible to the delete below.
	locked, err := uow.PostRepository().FindOne(ctx, specification.ByID{ID: post.Id}, specification.ForUpdate{})
	if err != nil {
		return apperror.Persistence(err)
	}
	if locked == nil {
		return apperror.NotFound("post not found")
	}

	if err := uow.ReviewRepository().DeleteByPostId(ctx, post.Id); err != nil {
		return apperror.Persistence(err)
	}
	if err := uow.PostRepository().Delete(ctx, post.Id); err != nil {
		return apperror.Persistence(err)
	}
	if err := uow.Commit(); err != nil {
		return apperror.Persistence(err)
	}

	if s.images != nil && post.ImageRef != "" {
		if err := s.images.Remove(post.ImageRef); err != nil {
			s.log.Warn("POST", "Failed to remove image", map[string]interface{}{
				"post_id": post.Id.String(),
				"error":   err.Error(),
			})
		}
	}

	s.log.Info("POST", "Post deleted", map[string]interface{}{"post_id": post.Id.String()})
	publishEvent(ctx, s.eventPublisher, s.log, events.PostDeleted(post.Id, post.AuthorId))
	return nil
}

// EnqueueMissingSummaries re-queues posts whose summary was never filled,
// for example because the summarizer was down when they were created.
func (s *postService) EnqueueMissingSummaries(ctx context.Context) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	posts, err := uow.PostRepository().FindAll(ctx,
		specification.MissingSummary{},
		specification.Scoped(scope.OrderByCreatedAsc),
		specification.Pagination{Limit: summaryBackfillN},
	)
	if err != nil {
		return 0, apperror.Persistence(err)
	}

	for _, p := range posts {
		s.enqueueSummary(ctx, p.Id)
	}
	return len(posts), nil
}

func toReviewResponses(reviews []*entity.Review) []*dto.ReviewResponse {
	out := make([]*dto.ReviewResponse, len(reviews))
	for i, r := range reviews {
		out[i] = &dto.ReviewResponse{
			Id:        r.Id,
			PostId:    r.PostId,
			AuthorId:  r.AuthorId,
			Rating:    r.Rating,
			Body:      r.Body,
			CreatedAt: r.CreatedAt,
		}
	}
	return out
}
