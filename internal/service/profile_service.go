package service

import (
	"context"
	"errors"
	"strings"

	"github.com/dom/profile-feed/internal/domain"
	"github.com/dom/profile-feed/internal/repository"
	"github.com/dom/profile-feed/internal/validate"
	"github.com/google/uuid"
)

const (
	DefaultFeedLimit = 50
	MaxFeedLimit     = 200
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
	userRepo    repository.UserRepository
}

func NewProfileService(profileRepo repository.ProfileRepository, userRepo repository.UserRepository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		userRepo:    userRepo,
	}
}

type CreateProfileInput struct {
	Name      string   `json:"name" validate:"required"`
	Bio       string   `json:"bio"`
	Headline  string   `json:"headline"`
	PhotoURL  *string  `json:"photoUrl" validate:"omitempty,http_url"`
	Interests []string `json:"interests" validate:"dive,required"`
}

// UpdateProfileInput leaves a field untouched when its pointer is nil.
// Interests are not optional: the given list replaces the stored one.
type UpdateProfileInput struct {
	Name      *string  `json:"name"`
	Bio       *string  `json:"bio"`
	Headline  *string  `json:"headline"`
	PhotoURL  *string  `json:"photoUrl" validate:"omitempty,http_url"`
	Interests []string `json:"interests" validate:"dive,required"`
}

// ProfileView is a profile optionally joined with its owner's public fields.
type ProfileView struct {
	*domain.Profile
	User *domain.PublicUser `json:"user,omitempty"`
}

func (s *ProfileService) CreateProfile(ctx context.Context, userID uuid.UUID, input CreateProfileInput) (*domain.Profile, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Bio = strings.TrimSpace(input.Bio)
	input.Headline = strings.TrimSpace(input.Headline)
	input.PhotoURL = trimOptional(input.PhotoURL)
	if input.PhotoURL != nil && *input.PhotoURL == "" {
		input.PhotoURL = nil
	}
	input.Interests = trimLabels(input.Interests)
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	existing, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrProfileExists
	}

	profile := &domain.Profile{
		ID:       uuid.New(),
		UserID:   userID,
		Name:     input.Name,
		Bio:      input.Bio,
		Headline: input.Headline,
		PhotoURL: input.PhotoURL,
	}
	profile.Interests = domain.NewInterests(profile.ID, input.Interests)

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetProfile returns domain.ErrProfileNotFound when the user has no profile.
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID, includeUser bool) (*ProfileView, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &ProfileView{Profile: profile}
	if includeUser {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		public := user.Public()
		view.User = &public
	}
	return view, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.Profile, error) {
	input.Name = trimOptional(input.Name)
	input.Bio = trimOptional(input.Bio)
	input.Headline = trimOptional(input.Headline)
	input.PhotoURL = trimOptional(input.PhotoURL)
	input.Interests = trimLabels(input.Interests)
	if input.Name != nil && *input.Name == "" {
		return nil, domain.NewValidationError("name is required")
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		profile.Name = *input.Name
	}
	if input.Bio != nil {
		profile.Bio = *input.Bio
	}
	if input.Headline != nil {
		profile.Headline = *input.Headline
	}
	if input.PhotoURL != nil {
		profile.PhotoURL = input.PhotoURL
		if *input.PhotoURL == "" {
			profile.PhotoURL = nil
		}
	}

	if err := s.profileRepo.Update(ctx, profile, input.Interests); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByUserID(ctx, userID)
}

// DeleteProfile removes the profile and its interests and returns what was removed.
func (s *ProfileService) DeleteProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return s.profileRepo.DeleteByUserID(ctx, userID)
}

// Feed lists profiles newest first. Limit is clamped to MaxFeedLimit and
// defaults to DefaultFeedLimit.
func (s *ProfileService) Feed(ctx context.Context, opts domain.FeedOptions) ([]*domain.Profile, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultFeedLimit
	}
	if opts.Limit > MaxFeedLimit {
		opts.Limit = MaxFeedLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	profiles, err := s.profileRepo.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []*domain.Profile{}
	}
	return profiles, nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}

// trimLabels never returns nil so an omitted list still clears interests.
func trimLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		out = append(out, strings.TrimSpace(l))
	}
	return out
}
