package resume

import (
	"context"
	"time"
)

// Resume — загруженный документ кандидата с оценкой и анализом.
type Resume struct {
	ID        int64     `json:"id"`
	VacancyID int64     `json:"vacancyId"`
	UserID    int64     `json:"userId"`
	Text      string    `json:"-"`
	Score     float64   `json:"score"`
	Analysis  string    `json:"analysis"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repository — порт доступа к резюме.
type Repository interface {
	Create(ctx context.Context, r Resume) (Resume, error)
	// TopByVacancy returns at most limit resumes of the vacancy, best score first,
	// earlier inserts first among equal scores.
	TopByVacancy(ctx context.Context, vacancyID int64, limit int) ([]Resume, error)
	// admin: both omit Text
	ListAll(ctx context.Context) ([]Resume, error)
	ListPage(ctx context.Context, limit, offset int) (Page, error)
}

// Page is one window of the id-ordered resume list; Total counts every row.
type Page struct {
	Items []Resume
	Total int
}
