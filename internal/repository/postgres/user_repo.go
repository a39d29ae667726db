package postgres

import (
	"context"
	"errors"

	"github.com/dom/profile-feed/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	return translateError(err, domain.ErrDuplicateEmail, nil)
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, userNotFound(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		return nil, userNotFound(err)
	}
	return &user, nil
}

func (r *userRepository) DeleteByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "email = ?", email).Error; err != nil {
			return err
		}

		profiles := tx.Model(&domain.Profile{}).Select("id").Where("user_id = ?", user.ID)
		if err := tx.Where("profile_id IN (?)", profiles).Delete(&domain.Interest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&domain.Profile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.User{}, "id = ?", user.ID).Error
	})
	if err != nil {
		return nil, userNotFound(err)
	}
	return &user, nil
}

func userNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrUserNotFound
	}
	return err
}
