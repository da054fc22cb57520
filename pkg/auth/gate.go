package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/artem13815/hrbot/pkg/logger"
)

// Gate answers "may this identity use the bot". Lookup failures never
// surface as errors: the caller is simply treated as unauthorized.
type Gate struct {
	repo UserRepository
	log  *zap.Logger
}

func NewGate(repo UserRepository, log *zap.Logger) *Gate {
	return &Gate{repo: repo, log: logger.OrNop(log)}
}

// IsAuthorized reports whether the identity holds any known role.
func (g *Gate) IsAuthorized(ctx context.Context, telegramID int64) bool {
	user, ok := g.lookup(ctx, telegramID)
	return ok && user.Role.Valid()
}

// IsAdmin reports whether the identity holds the Admin role.
func (g *Gate) IsAdmin(ctx context.Context, telegramID int64) bool {
	user, ok := g.lookup(ctx, telegramID)
	return ok && user.Role == RoleAdmin
}

func (g *Gate) lookup(ctx context.Context, telegramID int64) (User, bool) {
	user, err := g.repo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			g.log.Debug("unknown identity", zap.Int64("telegram_id", telegramID))
			return User{}, false
		}
		g.log.Error("authorization check failed", zap.Int64("telegram_id", telegramID), zap.Error(err))
		return User{}, false
	}
	return user, true
}
