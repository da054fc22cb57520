package postgres

import (
	"context"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/hrbot/pkg/resume"
)

// ResumeRepository хранит резюме, оценку и анализ.
type ResumeRepository struct {
	pool *pgxpool.Pool
}

func NewResumeRepository(pool *pgxpool.Pool) *ResumeRepository {
	return &ResumeRepository{pool: pool}
}

func (r *ResumeRepository) Create(ctx context.Context, rs resume.Resume) (resume.Resume, error) {
	if rs.CreatedAt.IsZero() {
		rs.CreatedAt = time.Now().UTC()
	}
	err := r.pool.QueryRow(ctx, `
INSERT INTO resumes (vacancy_id, user_id, resume_text, score, analysis, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id
`, rs.VacancyID, rs.UserID, rs.Text, rs.Score, rs.Analysis, rs.CreatedAt).Scan(&rs.ID)
	if err != nil {
		return resume.Resume{}, err
	}
	return rs, nil
}

// TopByVacancy ranks by score; equal scores keep insertion order.
func (r *ResumeRepository) TopByVacancy(ctx context.Context, vacancyID int64, limit int) ([]resume.Resume, error) {
	if limit <= 0 {
		limit = resume.ShortlistSize
	}
	rows, err := r.pool.Query(ctx, `
SELECT id, vacancy_id, user_id, resume_text, score, analysis, created_at
FROM resumes WHERE vacancy_id = $1
ORDER BY score DESC, id ASC
LIMIT $2
`, vacancyID, limit)
	if err != nil {
		return nil, err
	}
	return collectResumes(rows)
}

const summaryColumns = `id, vacancy_id, user_id, '' AS resume_text, score, analysis, created_at`

func (r *ResumeRepository) ListAll(ctx context.Context) ([]resume.Resume, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+summaryColumns+` FROM resumes ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	return collectResumes(rows)
}

// ListPage windows the id-ordered list in SQL; Total counts every row.
func (r *ResumeRepository) ListPage(ctx context.Context, limit, offset int) (resume.Page, error) {
	var page resume.Page
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM resumes`).Scan(&page.Total); err != nil {
		return resume.Page{}, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+summaryColumns+` FROM resumes ORDER BY id ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return resume.Page{}, err
	}
	page.Items, err = collectResumes(rows)
	if err != nil {
		return resume.Page{}, err
	}
	return page, nil
}

func collectResumes(rows pgx.Rows) ([]resume.Resume, error) {
	defer rows.Close()
	var res []resume.Resume
	for rows.Next() {
		var m resume.Resume
		var score float32
		var created time.Time
		if err := rows.Scan(&m.ID, &m.VacancyID, &m.UserID, &m.Text, &score, &m.Analysis, &created); err != nil {
			return nil, err
		}
		m.Score = roundScore(score)
		m.CreatedAt = created.UTC()
		res = append(res, m)
	}
	return res, rows.Err()
}

// roundScore undoes REAL's float32 noise; scores carry one decimal place.
func roundScore(v float32) float64 {
	return math.Round(float64(v)*10) / 10
}
