package auth

import (
	"context"
	"errors"
	"time"
)

// UseCase describes user administration.
type UseCase interface {
	AddUser(ctx context.Context, telegramID int64, role Role) (created bool, err error)
	IssueToken(ctx context.Context, telegramID int64) (string, error)
}

type service struct {
	repo   UserRepository
	tokens TokenGenerator
}

// NewService returns default implementation of UseCase. tokens may be nil
// when no component issues admin tokens.
func NewService(repo UserRepository, tokens TokenGenerator) UseCase {
	return &service{repo: repo, tokens: tokens}
}

func (s *service) AddUser(ctx context.Context, telegramID int64, role Role) (bool, error) {
	if telegramID <= 0 {
		return false, errors.New("telegram id must be positive")
	}
	if !role.Valid() {
		return false, ErrInvalidRole
	}
	return s.repo.Create(ctx, User{
		TelegramID: telegramID,
		Role:       role,
		CreatedAt:  time.Now().UTC(),
	})
}

// IssueToken signs an admin API token; only admins may receive one.
func (s *service) IssueToken(ctx context.Context, telegramID int64) (string, error) {
	if s.tokens == nil {
		return "", errors.New("token generator is not configured")
	}
	user, err := s.repo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return "", err
	}
	if !user.IsAdmin() {
		return "", ErrForbidden
	}
	return s.tokens.Generate(ctx, user)
}
