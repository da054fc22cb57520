package vacancy

import (
	"context"
	"strings"
	"time"
)

// UseCase инкапсулирует приложение для работы с вакансиями.
type UseCase interface {
	Create(ctx context.Context, userID int64, in Input) (Vacancy, error)
	GetByID(ctx context.Context, id int64) (Vacancy, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) UseCase { return &service{repo: repo} }

func (s *service) Create(ctx context.Context, userID int64, in Input) (Vacancy, error) {
	if in.Salary == "" {
		in.Salary = SalaryUnspecified
	}
	return s.repo.Create(ctx, Vacancy{
		UserID:    userID,
		Data:      in.Describe(),
		CreatedAt: time.Now().UTC(),
	})
}

func (s *service) GetByID(ctx context.Context, id int64) (Vacancy, error) {
	return s.repo.GetByID(ctx, id)
}

// ParseInput splits "Должность, Требования[, Зарплата]" on the first two commas.
// ok is false when fewer than two parts are present; blank parts are accepted.
func ParseInput(text string) (in Input, ok bool) {
	parts := strings.SplitN(text, ",", 3)
	if len(parts) < 2 {
		return Input{}, false
	}
	in.Position = strings.TrimSpace(parts[0])
	in.Requirements = strings.TrimSpace(parts[1])
	in.Salary = SalaryUnspecified
	if len(parts) > 2 {
		in.Salary = strings.TrimSpace(parts[2])
	}
	return in, true
}
