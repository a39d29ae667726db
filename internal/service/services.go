package service

import (
	"github.com/dom/profile-feed/internal/auth"
	"github.com/dom/profile-feed/internal/repository"
)

type Services struct {
	Auth    *AuthService
	Profile *ProfileService
}

func NewServices(repos *repository.Repositories, codec *auth.TokenCodec) *Services {
	return &Services{
		Auth:    NewAuthService(repos.User, codec),
		Profile: NewProfileService(repos.Profile, repos.User),
	}
}
