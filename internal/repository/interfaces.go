package repository

import (
	"context"

	"github.com/dom/profile-feed/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// DeleteByEmail removes the user together with its profile and interests
	// and returns the removed row.
	DeleteByEmail(ctx context.Context, email string) (*domain.User, error)
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	// Update saves the scalar fields and replaces the whole interest set with
	// labels inside one transaction.
	Update(ctx context.Context, profile *domain.Profile, labels []string) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	List(ctx context.Context, opts domain.FeedOptions) ([]*domain.Profile, error)
}

type Repositories struct {
	User    UserRepository
	Profile ProfileRepository
}
