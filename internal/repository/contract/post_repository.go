package contract

import (
	"context"

	"ai-blog-be/internal/entity"
	"ai-blog-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	Update(ctx context.Context, post *entity.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Post, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Post, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// AppendReview adds reviewId to the post's review collection in a single
	// statement, so concurrent appends never overwrite each other.
	AppendReview(ctx context.Context, postId, reviewId uuid.UUID) error
	// DetachReview removes reviewId from the collection. Removing an id that
	// is not present is a no-op.
	DetachReview(ctx context.Context, postId, reviewId uuid.UUID) error
	UpdateSummary(ctx context.Context, postId uuid.UUID, summary string) error
}
