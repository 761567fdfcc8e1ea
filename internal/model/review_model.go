package model

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PostId    uuid.UUID `gorm:"type:uuid;not null;index"`
	AuthorId  uuid.UUID `gorm:"type:uuid;not null;index"`
	Rating    int       `gorm:"type:smallint;not null;check:rating >= 1 AND rating <= 5"`
	Body      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Review) TableName() string {
	return "reviews"
}
