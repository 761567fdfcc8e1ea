package mapper

import (
	"ai-blog-be/internal/entity"
	"ai-blog-be/internal/model"
)

type ReviewMapper struct{}

func NewReviewMapper() *ReviewMapper {
	return &ReviewMapper{}
}

func (m *ReviewMapper) ToEntity(r *model.Review) *entity.Review {
	if r == nil {
		return nil
	}
	return &entity.Review{
		Id:        r.Id,
		PostId:    r.PostId,
		AuthorId:  r.AuthorId,
		Rating:    r.Rating,
		Body:      r.Body,
		CreatedAt: r.CreatedAt,
	}
}

func (m *ReviewMapper) ToModel(r *entity.Review) *model.Review {
	if r == nil {
		return nil
	}
	return &model.Review{
		Id:        r.Id,
		PostId:    r.PostId,
		AuthorId:  r.AuthorId,
		Rating:    r.Rating,
		Body:      r.Body,
		CreatedAt: r.CreatedAt,
	}
}

func (m *ReviewMapper) ToEntities(reviews []*model.Review) []*entity.Review {
	entities := make([]*entity.Review, len(reviews))
	for i, r := range reviews {
		entities[i] = m.ToEntity(r)
	}
	return entities
}
