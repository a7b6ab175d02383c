package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	passwordvalidator "github.com/wagslane/go-password-validator"
	"golang.org/x/crypto/bcrypt"

	"passvault/internal/auth"
	apperrors "passvault/internal/errors"
	"passvault/internal/model"
	"passvault/internal/repository"
)

const bcryptCost = 10

// AuthService handles registration, login and token verification.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (token string, err error)
	VerifyToken(token string) (uuid.UUID, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	minEntropy float64
}

var _ auth.TokenVerifier = (AuthService)(nil)

// NewAuthService creates a new authentication service. A positive minEntropy
// rejects registration secrets weaker than that many bits.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, minEntropy float64) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		minEntropy: minEntropy,
	}
}

// Register creates a user with a bcrypt-hashed secret and no entries. The
// existence check is advisory; the store's unique index settles races.
func (s *authService) Register(ctx context.Context, email, password string) (*model.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", apperrors.ErrValidation)
	}
	if s.minEntropy > 0 {
		if err := passwordvalidator.Validate(password, s.minEntropy); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Entries:      model.Entries{},
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login checks the secret and returns a signed token carrying the user id.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return "", apperrors.ErrUserNotFound
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}

// VerifyToken yields the user id embedded in a valid token.
func (s *authService) VerifyToken(token string) (uuid.UUID, error) {
	return s.jwtService.ValidateToken(token)
}
