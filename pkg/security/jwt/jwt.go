package jwt

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/artem13815/hrbot/pkg/auth"
)

// ErrEmptySecret is returned when tokens are requested without JWT_SECRET.
var ErrEmptySecret = errors.New("jwt secret is empty")

type Generator struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewGenerator(secret, issuer string, ttl time.Duration) *Generator {
	return &Generator{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// Claims: subject is the Telegram id, Role the bot role at issue time.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// TelegramID parses the subject.
func (c Claims) TelegramID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

func (g *Generator) Generate(_ context.Context, user auth.User) (string, error) {
	if len(g.secret) == 0 {
		return "", ErrEmptySecret
	}
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   strconv.FormatInt(user.TelegramID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
		Role: string(user.Role),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(g.secret)
}
