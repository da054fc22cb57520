package auth

import (
	"strings"
	"time"
)

// Role is one of the closed set of recruiter roles.
type Role string

const (
	RoleHR       Role = "HR"
	RoleEmployer Role = "Employer"
	RoleAdmin    Role = "Admin"
)

// Roles lists every valid role in display order.
var Roles = []Role{RoleHR, RoleEmployer, RoleAdmin}

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRole matches s case-insensitively against the known roles.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	for _, known := range Roles {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return "", ErrInvalidRole
}

// User is a Telegram identity allowed to talk to the bot.
type User struct {
	TelegramID int64
	Role       Role
	CreatedAt  time.Time
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
