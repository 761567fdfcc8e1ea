package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateReviewRequest struct {
	PostId uuid.UUID `json:"-"`
	Rating int       `json:"rating" validate:"required,min=1,max=5"`
	Body   string    `json:"body" validate:"required,notblank"`
}

type CreateReviewResponse struct {
	Id uuid.UUID `json:"id"`
}

type ReviewResponse struct {
	Id        uuid.UUID `json:"id"`
	PostId    uuid.UUID `json:"post_id"`
	AuthorId  uuid.UUID `json:"author_id"`
	Rating    int       `json:"rating"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
