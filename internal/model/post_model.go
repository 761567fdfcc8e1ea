package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Post struct {
	Id        uuid.UUID                      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title     string                         `gorm:"type:varchar(255);not null"`
	Content   string                         `gorm:"type:text;not null"`
	ImageRef  string                         `gorm:"type:text"`
	Summary   string                         `gorm:"type:text"`
	AuthorId  uuid.UUID                      `gorm:"type:uuid;not null;index"`
	ReviewIds datatypes.JSONSlice[uuid.UUID] `gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt time.Time                      `gorm:"autoCreateTime"`
	UpdatedAt time.Time                      `gorm:"autoUpdateTime"`
}

func (Post) TableName() string {
	return "posts"
}
