package postgres

import (
	"errors"

	"github.com/dom/profile-feed/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateError maps driver errors onto domain kinds. duplicate and
// missingParent are returned for unique and foreign key violations.
func translateError(err, duplicate, missingParent error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if duplicate != nil {
				return duplicate
			}
			return domain.ErrDuplicate
		case pgForeignKeyViolation:
			if missingParent != nil {
				return missingParent
			}
			return domain.ErrNotFound
		}
	}
	return err
}
