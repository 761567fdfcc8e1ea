package unitofwork

import (
	"context"

	"ai-blog-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	PostRepository() contract.PostRepository
	ReviewRepository() contract.ReviewRepository
}
