package entity

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	Id        uuid.UUID
	Title     string
	Content   string
	ImageRef  string
	Summary   string
	AuthorId  uuid.UUID
	ReviewIds []uuid.UUID
	CreatedAt time.Time
	UpdatedAt *time.Time
}
