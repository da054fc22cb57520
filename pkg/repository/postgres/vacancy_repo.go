package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/hrbot/pkg/vacancy"
)

// VacancyRepository хранит вакансии.
type VacancyRepository struct {
	pool *pgxpool.Pool
}

func NewVacancyRepository(pool *pgxpool.Pool) *VacancyRepository {
	return &VacancyRepository{pool: pool}
}

// Create inserts the vacancy and reads back its id in the same statement.
func (r *VacancyRepository) Create(ctx context.Context, v vacancy.Vacancy) (vacancy.Vacancy, error) {
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	err := r.pool.QueryRow(ctx, `
INSERT INTO vacancies (user_id, vacancy_data, created_at)
VALUES ($1, $2, $3)
RETURNING id
`, v.UserID, v.Data, v.CreatedAt).Scan(&v.ID)
	if err != nil {
		return vacancy.Vacancy{}, err
	}
	return v, nil
}

func (r *VacancyRepository) GetByID(ctx context.Context, id int64) (vacancy.Vacancy, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, user_id, vacancy_data, created_at FROM vacancies WHERE id = $1
`, id)
	var v vacancy.Vacancy
	var created time.Time
	if err := row.Scan(&v.ID, &v.UserID, &v.Data, &created); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return vacancy.Vacancy{}, vacancy.ErrNotFound
		}
		return vacancy.Vacancy{}, err
	}
	v.CreatedAt = created.UTC()
	return v, nil
}
