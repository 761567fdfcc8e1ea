package specification

import (
	"gorm.io/gorm"
)

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

type ByUsername struct {
	Username string
}

func (s ByUsername) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("username = ?", s.Username)
}

// ByUsernameOrEmail matches a login identifier against either column.
type ByUsernameOrEmail struct {
	Identifier string
}

func (s ByUsernameOrEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("username = ? OR email = ?", s.Identifier, s.Identifier)
}
