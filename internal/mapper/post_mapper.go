package mapper

import (
	"time"

	"ai-blog-be/internal/entity"
	"ai-blog-be/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PostMapper struct{}

func NewPostMapper() *PostMapper {
	return &PostMapper{}
}

func (m *PostMapper) ToEntity(p *model.Post) *entity.Post {
	if p == nil {
		return nil
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	reviewIds := make([]uuid.UUID, len(p.ReviewIds))
	copy(reviewIds, p.ReviewIds)

	return &entity.Post{
		Id:        p.Id,
		Title:     p.Title,
		Content:   p.Content,
		ImageRef:  p.ImageRef,
		Summary:   p.Summary,
		AuthorId:  p.AuthorId,
		ReviewIds: reviewIds,
		CreatedAt: p.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *PostMapper) ToModel(p *entity.Post) *model.Post {
	if p == nil {
		return nil
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	reviewIds := datatypes.JSONSlice[uuid.UUID]{}
	reviewIds = append(reviewIds, p.ReviewIds...)

	return &model.Post{
		Id:        p.Id,
		Title:     p.Title,
		Content:   p.Content,
		ImageRef:  p.ImageRef,
		Summary:   p.Summary,
		AuthorId:  p.AuthorId,
		ReviewIds: reviewIds,
		CreatedAt: p.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *PostMapper) ToEntities(posts []*model.Post) []*entity.Post {
	entities := make([]*entity.Post, len(posts))
	for i, p := range posts {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
