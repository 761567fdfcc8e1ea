package entity

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	Id        uuid.UUID
	PostId    uuid.UUID
	AuthorId  uuid.UUID
	Rating    int
	Body      string
	CreatedAt time.Time
}
