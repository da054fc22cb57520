package jwt

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/artem13815/hrbot/pkg/auth"
)

// Locals keys set by NewAuthMiddleware.
const (
	LocalTelegramID = "telegramId"
	LocalRole       = "role"
)

// NewAuthMiddleware returns a Fiber middleware that validates Bearer JWT (HS256).
// On success the Telegram id (int64) and role are stored in c.Locals.
func NewAuthMiddleware(secret, expectedIssuer string) fiber.Handler {
	secretBytes := []byte(secret)
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "missing Authorization header"})
		}
		// Support both "Bearer <token>" and "<token>" (no prefix).
		tokenStr := strings.TrimSpace(authHeader)
		if scheme, rest, ok := strings.Cut(tokenStr, " "); ok && strings.EqualFold(scheme, "Bearer") {
			tokenStr = strings.TrimSpace(rest)
		}
		if tokenStr == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "empty token"})
		}
		token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
			return secretBytes, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
		if err != nil || !token.Valid {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "invalid or expired token"})
		}
		claims, ok := token.Claims.(*Claims)
		if !ok {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "invalid token claims"})
		}
		if expectedIssuer != "" && claims.Issuer != expectedIssuer {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "invalid token issuer"})
		}
		telegramID, err := claims.TelegramID()
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "invalid token subject"})
		}
		c.Locals(LocalTelegramID, telegramID)
		c.Locals(LocalRole, auth.Role(claims.Role))
		return c.Next()
	}
}

// RequireAdmin rejects requests whose token role is not Admin. It must run
// after NewAuthMiddleware.
func RequireAdmin(c *fiber.Ctx) error {
	role, _ := c.Locals(LocalRole).(auth.Role)
	if role != auth.RoleAdmin {
		return c.Status(http.StatusForbidden).JSON(fiber.Map{"message": "admin role required"})
	}
	return c.Next()
}
