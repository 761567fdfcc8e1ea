package specification

import "gorm.io/gorm"

// Specification defines the interface for query specifications
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}

// Scoped adapts a plain GORM scope function.
type Scoped func(db *gorm.DB) *gorm.DB

func (s Scoped) Apply(db *gorm.DB) *gorm.DB {
	return s(db)
}
