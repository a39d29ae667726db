package postgres

import (
	"context"
	"errors"

	"github.com/dom/profile-feed/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *profileRepository {
	return &profileRepository{db: db}
}

// Create inserts the profile and its interests in one statement batch.
func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	err := r.db.WithContext(ctx).Create(profile).Error
	return translateError(err, domain.ErrProfileExists, domain.ErrUserNotFound)
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var profile domain.Profile
	err := r.db.WithContext(ctx).
		Preload("Interests", orderInterests).
		First(&profile, "user_id = ?", userID).Error
	if err != nil {
		return nil, profileNotFound(err)
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.Profile, labels []string) error {
	interests := domain.NewInterests(profile.ID, labels)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", profile.ID).Delete(&domain.Interest{}).Error; err != nil {
			return err
		}
		if len(interests) > 0 {
			if err := tx.Create(&interests).Error; err != nil {
				return err
			}
		}

		// Model on a bare Profile so the stale Interests slice is not re-saved.
		res := tx.Model(&domain.Profile{}).Where("id = ?", profile.ID).Updates(map[string]any{
			"name":      profile.Name,
			"bio":       profile.Bio,
			"headline":  profile.Headline,
			"photo_url": profile.PhotoURL,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		// Interests of a missing profile fail the foreign key first.
		return translateError(profileNotFound(err), nil, domain.ErrProfileNotFound)
	}

	profile.Interests = interests
	return nil
}

func (r *profileRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var profile domain.Profile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Interests", orderInterests).First(&profile, "user_id = ?", userID).Error; err != nil {
			return err
		}
		if err := tx.Where("profile_id = ?", profile.ID).Delete(&domain.Interest{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Profile{}, "id = ?", profile.ID).Error
	})
	if err != nil {
		return nil, profileNotFound(err)
	}
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context, opts domain.FeedOptions) ([]*domain.Profile, error) {
	var profiles []*domain.Profile
	query := r.db.WithContext(ctx).
		Preload("Interests", orderInterests).
		Order("created_at DESC").
		Order("id")
	if opts.ExcludeUserID != nil {
		query = query.Where("user_id <> ?", *opts.ExcludeUserID)
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	if err := query.Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func orderInterests(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

func profileNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrProfileNotFound
	}
	return err
}
