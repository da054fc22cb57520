package auth

import (
	"context"
	"errors"
)

// Common errors used by repository/use cases
var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidRole = errors.New("role must be HR, Employer or Admin")
	ErrForbidden   = errors.New("forbidden")
)

// UserRepository abstracts persistence concerns from the domain layer.
type UserRepository interface {
	// Create inserts the user unless the identity already exists.
	// created is false when the row was already there; its role is left untouched.
	Create(ctx context.Context, user User) (created bool, err error)
	GetByTelegramID(ctx context.Context, telegramID int64) (User, error)
}
