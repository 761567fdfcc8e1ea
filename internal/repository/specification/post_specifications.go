package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthoredBy struct {
	AuthorID uuid.UUID
}

func (s AuthoredBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("author_id = ?", s.AuthorID)
}

type ByPostID struct {
	PostID uuid.UUID
}

func (s ByPostID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("post_id = ?", s.PostID)
}

// TitleContains does a case-insensitive title search.
type TitleContains struct {
	Query string
}

func (s TitleContains) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("title ILIKE ?", "%"+s.Query+"%")
}

// MissingSummary selects posts the summary consumer has not filled yet.
type MissingSummary struct{}

func (s MissingSummary) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("summary = '' OR summary IS NULL")
}
