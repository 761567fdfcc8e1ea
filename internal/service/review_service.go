package service

import (
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
)

type IReviewService interface {
	Create(ctx context.Context, authorId uuid.UUID, req *dto.CreateReviewRequest) (*dto.CreateReviewResponse, error)
	List(ctx context.Context, postId uuid.UUID) ([]*dto.ReviewResponse, error)
	FindById(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	Destroy(ctx context.Context, review *entity.Review) error
}

type reviewService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher events.Publisher
	log            logger.ILogger
}

func NewReviewService(uowFactory unitofwork.RepositoryFactory, eventPublisher events.Publisher, log logger.ILogger) IReviewService {
	return &reviewService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

// Create stores the review and appends it to the post's review collection
// in one transaction. The append is a single UPDATE, so concurrent reviews
// on the same post are all kept.
func (s *reviewService) Create(ctx context.Context, authorId uuid.UUID, req *dto.CreateReviewRequest) (*dto.CreateReviewResponse, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperror.Validation("rating must be between 1 and 5")
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, apperror.Validation("body is required")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Persistence(err)
	}
	defer uow.Rollback()

	// The share lock holds off a concurrent post delete until this review
	// is committed, so the delete sees it and removes it too.
	post, err := uow.PostRepository().FindOne(ctx, specification.ByID{ID: req.PostId}, specification.ForShare{})
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if post == nil {
		return nil, apperror.NotFound("post not found")
	}

	review := &entity.Review{
		Id:        uuid.New(),
		PostId:    post.Id,
		AuthorId:  authorId,
		Rating:    req.Rating,
		Body:      strings.TrimSpace(req.Body),
		CreatedAt: time.Now(),
	}

	if err := uow.ReviewRepository().Create(ctx, review); err != nil {
		if errors.Is(err, contract.ErrNotFound) {
			return nil, apperror.NotFound("post not found")
		}
		return nil, apperror.Persistence(err)
	}
	if err := uow.PostRepository().AppendReview(ctx, post.Id, review.Id); err != nil {
		if errors.Is(err, contract.ErrNotFound) {
			return nil, apperror.NotFound("post not found")
		}
		return nil, apperror.Persistence(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Persistence(err)
	}

	s.log.Info("REVIEW", "Review created", map[string]interface{}{
		"review_id": review.Id.String(),
		"post_id":   post.Id.String(),
	})
	publishEvent(ctx, s.eventPublisher, s.log, events.ReviewCreated(review.Id, post.Id, authorId, review.Rating))

	return &dto.CreateReviewResponse{Id: review.Id}, nil
}

func (s *reviewService) List(ctx context.Context, postId uuid.UUID) ([]*dto.ReviewResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	post, err := uow.PostRepository().FindOne(ctx, specification.ByID{ID: postId})
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if post == nil {
		return nil, apperror.NotFound("post not found")
	}

	reviews, err := uow.ReviewRepository().FindAll(ctx,
		specification.ByPostID{PostID: postId},
		specification.Scoped(scope.OrderByCreatedAsc),
	)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	return toReviewResponses(reviews), nil
}

func (s *reviewService) FindById(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	review, err := uow.ReviewRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	return review, nil
}

// Destroy deletes a review the caller has already been authorised for and
// detaches it from its post. Detaching is idempotent and never touches
// the post row otherwise.
func (s *reviewService) Destroy(ctx context.Context, review *entity.Review) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return apperror.Persistence(err)
	}
	defer uow.Rollback()

	if err := uow.ReviewRepository().Delete(ctx, review.Id); err != nil {
		return apperror.Persistence(err)
	}
	if err := uow.PostRepository().DetachReview(ctx, review.PostId, review.Id); err != nil {
		return apperror.Persistence(err)
	}
	if err := uow.Commit(); err != nil {
		return apperror.Persistence(err)
	}

	s.log.Info("REVIEW", "Review deleted", map[string]interface{}{
		"review_id": review.Id.String(),
		"post_id":   review.PostId.String(),
	})
	publishEvent(ctx, s.eventPublisher, s.log, events.ReviewDeleted(review.Id, review.PostId))
	return nil
}
