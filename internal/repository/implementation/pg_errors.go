package implementation

import (
	"errors"
	"fmt"

	"ai-blog-be/internal/repository/contract"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// translateWriteError maps constraint violations raised by Postgres to the
// contract errors services understand. A foreign key violation means the
// referenced row is gone.
func translateWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s", contract.ErrDuplicate, pgErr.ConstraintName)
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %s", contract.ErrNotFound, pgErr.ConstraintName)
	}
	return err
}
