package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreatePostRequest is filled from multipart form fields; the image part is
// handled separately by the controller.
type CreatePostRequest struct {
	Title    string `form:"title" json:"title" validate:"required,notblank,max=255"`
	Content  string `form:"content" json:"content" validate:"required,notblank"`
	ImageRef string `json:"-"`
}

type CreatePostResponse struct {
	Id       uuid.UUID `json:"id"`
	ImageRef string    `json:"image_ref"`
}

type UpdatePostRequest struct {
	Id      uuid.UUID `json:"-"`
	Title   string    `json:"title" validate:"required,notblank,max=255"`
	Content string    `json:"content" validate:"required,notblank"`
}

type UpdatePostResponse struct {
	Id uuid.UUID `json:"id"`
}

type ListPostsRequest struct {
	Page     int       `query:"page" validate:"omitempty,min=1"`
	PageSize int       `query:"page_size" validate:"omitempty,min=1,max=100"`
	AuthorId uuid.UUID `query:"-"`
	Search   string    `query:"q"`
}

type PostSummaryResponse struct {
	Id          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	ImageRef    string    `json:"image_ref"`
	AuthorId    uuid.UUID `json:"author_id"`
	ReviewCount int       `json:"review_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type ListPostsResponse struct {
	Items    []*PostSummaryResponse `json:"items"`
	Total    int64                  `json:"total"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
}

type ShowPostResponse struct {
	Id          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Content     string            `json:"content"`
	ContentHTML string            `json:"content_html"`
	Summary     string            `json:"summary"`
	ImageRef    string            `json:"image_ref"`
	AuthorId    uuid.UUID         `json:"author_id"`
	Reviews     []*ReviewResponse `json:"reviews"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   *time.Time        `json:"updated_at"`
}
