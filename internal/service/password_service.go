package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	passwordvalidator "github.com/wagslane/go-password-validator"

	"passvault/internal/breach"
	apperrors "passvault/internal/errors"
)

const (
	// Charset is the alphabet generated passwords are drawn from.
	Charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()_+"
	// DefaultLength applies when no positive length is requested.
	DefaultLength = 16
	// MaxLength bounds a single generated password.
	MaxLength = 1024
)

// CheckResult combines the breach verdict with a local strength estimate.
type CheckResult struct {
	IsLeaked    bool    `json:"isLeaked"`
	BreachCount int     `json:"breachCount"`
	EntropyBits float64 `json:"entropyBits"`
}

// PasswordService generates passwords and checks candidates for leaks.
type PasswordService interface {
	Generate(length int) (string, error)
	Check(ctx context.Context, candidate string) (*CheckResult, error)
}

type passwordService struct {
	checker breach.Checker
}

// NewPasswordService builds a PasswordService over a breach checker.
func NewPasswordService(checker breach.Checker) PasswordService {
	return &passwordService{checker: checker}
}

func (s *passwordService) Generate(length int) (string, error) {
	return GeneratePassword(length)
}

// Check asks the breach oracle once; its failure is returned as is.
func (s *passwordService) Check(ctx context.Context, candidate string) (*CheckResult, error) {
	if candidate == "" {
		return nil, fmt.Errorf("%w: password is required", apperrors.ErrValidation)
	}

	res, err := s.checker.CheckPassword(ctx, candidate)
	if err != nil {
		return nil, err
	}

	return &CheckResult{
		IsLeaked:    res.IsLeaked,
		BreachCount: res.BreachCount,
		EntropyBits: passwordvalidator.GetEntropy(candidate),
	}, nil
}

// GeneratePassword returns length characters drawn uniformly from Charset
// using crypto/rand. Non-positive lengths fall back to DefaultLength.
func GeneratePassword(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}
	if length > MaxLength {
		return "", fmt.Errorf("%w: length must be at most %d", apperrors.ErrValidation, MaxLength)
	}

	max := big.NewInt(int64(len(Charset)))
	password := make([]byte, length)
	for i := range password {
		index, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("random index: %w", err)
		}
		password[i] = Charset[index.Int64()]
	}
	return string(password), nil
}
