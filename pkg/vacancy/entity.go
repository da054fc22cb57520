package vacancy

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("vacancy not found")

// SalaryUnspecified is stored when the recruiter omits the salary part.
const SalaryUnspecified = "Не указана"

// Vacancy описывает вакансию, введённую рекрутером в чате.
type Vacancy struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Data      string    `json:"data"`
	CreatedAt time.Time `json:"createdAt"`
}

// Input — разобранный текст вакансии.
type Input struct {
	Position     string
	Requirements string
	Salary       string
}

// Describe renders the canonical text stored with the vacancy and sent to the scorer.
func (in Input) Describe() string {
	return "Должность: " + in.Position + ", Требования: " + in.Requirements + ", Зарплата: " + in.Salary
}

// Repository — порт для работы с вакансиями.
type Repository interface {
	// Create inserts v and returns it with the id assigned by the store.
	Create(ctx context.Context, v Vacancy) (Vacancy, error)
	GetByID(ctx context.Context, id int64) (Vacancy, error)
}
