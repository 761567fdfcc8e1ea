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

type PostRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PostMapper
}

func NewPostRepository(db *gorm.DB) contract.PostRepository {
	return &PostRepositoryImpl{
		db:     db,
		mapper: mapper.NewPostMapper(),
	}
}

func (r *PostRepositoryImpl) Create(ctx context.Context, post *entity.Post) error {
	modelPost := r.mapper.ToModel(post)
	if err := r.db.WithContext(ctx).Create(modelPost).Error; err != nil {
		return err
	}
	*post = *r.mapper.ToEntity(modelPost)
	return nil
}

// Update writes the editable columns only. review_ids is owned by
// AppendReview and DetachReview and is never overwritten from a stale copy.
func (r *PostRepositoryImpl) Update(ctx context.Context, post *entity.Post) error {
	modelPost := r.mapper.ToModel(post)
	res := r.db.WithContext(ctx).Model(modelPost).
		Select("title", "content", "image_ref", "summary", "updated_at").
		Updates(modelPost)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return contract.ErrNotFound
	}
	return nil
}

func (r *PostRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Post{}).Error
}

func (r *PostRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Post, error) {
	var modelPost model.Post
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelPost).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelPost), nil
}

func (r *PostRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Post, error) {
	var modelPosts []*model.Post
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelPosts).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(modelPosts), nil
}

func (r *PostRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Post{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostRepositoryImpl) AppendReview(ctx context.Context, postId, reviewId uuid.UUID) error {
	id := reviewId.String()
	res := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", postId).
		UpdateColumn("review_ids", gorm.Expr(
			"CASE WHEN review_ids @> jsonb_build_array(?::text) THEN review_ids ELSE review_ids || jsonb_build_array(?::text) END",
			id, id,
		))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return contract.ErrNotFound
	}
	return nil
}

func (r *PostRepositoryImpl) DetachReview(ctx context.Context, postId, reviewId uuid.UUID) error {
	// jsonb - text drops every string element equal to the id
	return r.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", postId).
		UpdateColumn("review_ids", gorm.Expr("review_ids - ?::text", reviewId.String())).
		Error
}

func (r *PostRepositoryImpl) UpdateSummary(ctx context.Context, postId uuid.UUID, summary string) error {
	return r.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", postId).
		UpdateColumn("summary", summary).
		Error
}
