package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

type page struct {
	Limit  int
	Offset int
}

// pageFromQuery reads ?limit= and ?offset=, ignoring values out of range.
func pageFromQuery(c *fiber.Ctx) page {
	p := page{Limit: defaultPageLimit}
	if n, err := strconv.Atoi(strings.TrimSpace(c.Query("limit"))); err == nil && n > 0 && n <= maxPageLimit {
		p.Limit = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(c.Query("offset"))); err == nil && n >= 0 {
		p.Offset = n
	}
	return p
}
