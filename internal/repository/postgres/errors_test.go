package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dom/profile-feed/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	other := errors.New("connection reset")

	tests := []struct {
		name          string
		err           error
		duplicate     error
		missingParent error
		want          error
	}{
		{name: "nil", err: nil, want: nil},
		{name: "record not found", err: gorm.ErrRecordNotFound, want: domain.ErrNotFound},
		{
			name:      "unique violation",
			err:       fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgUniqueViolation}),
			duplicate: domain.ErrDuplicateEmail,
			want:      domain.ErrDuplicateEmail,
		},
		{
			name: "unique violation without a specific error",
			err:  &pgconn.PgError{Code: pgUniqueViolation},
			want: domain.ErrDuplicate,
		},
		{
			name:          "foreign key violation",
			err:           &pgconn.PgError{Code: pgForeignKeyViolation},
			missingParent: domain.ErrUserNotFound,
			want:          domain.ErrUserNotFound,
		},
		{name: "other postgres error", err: &pgconn.PgError{Code: "42P01"}},
		{name: "unrelated error", err: other, want: other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.err, tt.duplicate, tt.missingParent)
			if tt.want == nil && tt.err != nil {
				assert.Equal(t, tt.err, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
