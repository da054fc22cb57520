package resume

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ShortlistSize is how many candidates /finish reports.
const ShortlistSize = 3

var ErrEmptyText = errors.New("empty resume content")

// UseCase describes storing scored resumes and reading them back ranked.
type UseCase interface {
	Save(ctx context.Context, r Resume) (Resume, error)
	Shortlist(ctx context.Context, vacancyID int64) ([]Resume, error)
	ListAll(ctx context.Context) ([]Resume, error)
	ListPage(ctx context.Context, limit, offset int) (Page, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) UseCase { return &service{repo: repo} }

func (s *service) Save(ctx context.Context, r Resume) (Resume, error) {
	if strings.TrimSpace(r.Text) == "" {
		return Resume{}, ErrEmptyText
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return s.repo.Create(ctx, r)
}

func (s *service) Shortlist(ctx context.Context, vacancyID int64) ([]Resume, error) {
	return s.repo.TopByVacancy(ctx, vacancyID, ShortlistSize)
}

func (s *service) ListAll(ctx context.Context) ([]Resume, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) ListPage(ctx context.Context, limit, offset int) (Page, error) {
	return s.repo.ListPage(ctx, limit, offset)
}
