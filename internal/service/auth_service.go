package service

import (
	"context"
	"errors"

	"github.com/dom/profile-feed/internal/auth"
	"github.com/dom/profile-feed/internal/domain"
	"github.com/dom/profile-feed/internal/repository"
	"github.com/dom/profile-feed/internal/validate"
	"github.com/google/uuid"
)

type AuthService struct {
	userRepo repository.UserRepository
	codec    *auth.TokenCodec
}

func NewAuthService(userRepo repository.UserRepository, codec *auth.TokenCodec) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		codec:    codec,
	}
}

type CredentialsInput struct {
	Email    string `json:"email" validate:"required,email_shape"`
	Password string `json:"password" validate:"required,strong_password"`
}

// sanitize applies the same normalization for signup and login.
func (in CredentialsInput) sanitize() CredentialsInput {
	return CredentialsInput{
		Email:    validate.SanitizeEmail(in.Email),
		Password: validate.SanitizePassword(in.Password),
	}
}

type AuthResult struct {
	User  *domain.User
	Token string
}

var errMissingCredentials = domain.NewValidationError("Email and password are required")

// CreateUser validates the credentials, hashes the password and stores the
// user. A taken email yields domain.ErrDuplicateEmail.
func (s *AuthService) CreateUser(ctx context.Context, input CredentialsInput) (*domain.User, error) {
	input = input.sanitize()
	if input.Email == "" || input.Password == "" {
		return nil, errMissingCredentials
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	existing, err := s.FindUserByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateEmail
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Signup creates the user and issues its first session token.
func (s *AuthService) Signup(ctx context.Context, input CredentialsInput) (*AuthResult, error) {
	user, err := s.CreateUser(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// FindUserByEmail returns nil without error when no user has that email.
func (s *AuthService) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, validate.SanitizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate returns the user only when both the email and the password
// match. Unknown email and wrong password both yield (nil, nil) and cost one
// bcrypt comparison each.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	hash := ""
	if user != nil {
		hash = user.PasswordHash
	}
	if !auth.VerifyPassword(validate.SanitizePassword(password), hash) || user == nil {
		return nil, nil
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, input CredentialsInput) (*AuthResult, error) {
	input = input.sanitize()
	if input.Email == "" || input.Password == "" {
		return nil, errMissingCredentials
	}

	user, err := s.Authenticate(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	return s.issue(user)
}

// Me loads the user behind a verified session.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// DeleteUser removes the user with its profile and interests. It returns nil
// without error when no such user exists.
func (s *AuthService) DeleteUser(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.DeleteByEmail(ctx, validate.SanitizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount re-checks the password of the session owner before deleting.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) (*domain.User, error) {
	password = validate.SanitizePassword(password)
	if password == "" {
		return nil, domain.NewValidationError("Password is required")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	deleted, err := s.DeleteUser(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		return nil, domain.ErrUserNotFound
	}
	return deleted, nil
}

// VerifyToken resolves a session token to its claims.
func (s *AuthService) VerifyToken(token string) (*auth.Claims, error) {
	return s.codec.Verify(token)
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, err := s.codec.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}
