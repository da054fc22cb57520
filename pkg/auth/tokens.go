package auth

import "context"

// TokenGenerator abstracts token creation (e.g., JWT) for the admin HTTP API.
type TokenGenerator interface {
	Generate(ctx context.Context, user User) (string, error)
}
