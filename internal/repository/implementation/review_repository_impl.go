package implementation

import (
	"context"
	"errors"

	"ai-blog-be/internal/entity"
	"ai-blog-be/internal/mapper"
	"ai-blog-be/internal/model"
	"ai-blog-be/internal/repository/contract"
	"ai-blog-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ReviewMapper
}

func NewReviewRepository(db *gorm.DB) contract.ReviewRepository {
	return &ReviewRepositoryImpl{
		db:     db,
		mapper: mapper.NewReviewMapper(),
	}
}

func (r *ReviewRepositoryImpl) Create(ctx context.Context, review *entity.Review) error {
	modelReview := r.mapper.ToModel(review)
	if err := r.db.WithContext(ctx).Create(modelReview).Error; err != nil {
		return translateWriteError(err)
	}
	*review = *r.mapper.ToEntity(modelReview)
	return nil
}

func (r *ReviewRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Review{}).Error
}

func (r *ReviewRepositoryImpl) DeleteByPostId(ctx context.Context, postId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("post_id = ?", postId).Delete(&model.Review{}).Error
}

func (r *ReviewRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Review, error) {
	var modelReview model.Review
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelReview).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelReview), nil
}

func (r *ReviewRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Review, error) {
	var modelReviews []*model.Review
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelReviews).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(modelReviews), nil
}
