package contract

import (
	"context"

	"ai-blog-be/internal/entity"
	"ai-blog-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByPostId(ctx context.Context, postId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Review, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Review, error)
}
