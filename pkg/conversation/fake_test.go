package conversation

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/artem13815/hrbot/pkg/auth"
	"github.com/artem13815/hrbot/pkg/report"
	"github.com/artem13815/hrbot/pkg/resume"
	"github.com/artem13815/hrbot/pkg/scoring"
	"github.com/artem13815/hrbot/pkg/session"
	"github.com/artem13815/hrbot/pkg/sheets"
	"github.com/artem13815/hrbot/pkg/vacancy"
)

type userRepo struct {
	mu    sync.Mutex
	users map[int64]auth.User
	err   error
}

func (r *userRepo) Create(_ context.Context, u auth.User) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.TelegramID]; ok {
		return false, nil
	}
	r.users[u.TelegramID] = u
	return true, nil
}

func (r *userRepo) GetByTelegramID(_ context.Context, id int64) (auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return auth.User{}, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return auth.User{}, auth.ErrNotFound
	}
	return u, nil
}

type vacancyRepo struct {
	mu   sync.Mutex
	rows []vacancy.Vacancy
}

func (r *vacancyRepo) Create(_ context.Context, v vacancy.Vacancy) (vacancy.Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v.ID = int64(len(r.rows) + 1)
	r.rows = append(r.rows, v)
	return v, nil
}

func (r *vacancyRepo) GetByID(_ context.Context, id int64) (vacancy.Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.rows {
		if v.ID == id {
			return v, nil
		}
	}
	return vacancy.Vacancy{}, vacancy.ErrNotFound
}

type resumeRepo struct {
	mu   sync.Mutex
	rows []resume.Resume
	err  error
}

func (r *resumeRepo) Create(_ context.Context, rs resume.Resume) (resume.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return resume.Resume{}, r.err
	}
	rs.ID = int64(len(r.rows) + 1)
	r.rows = append(r.rows, rs)
	return rs, nil
}

func (r *resumeRepo) TopByVacancy(_ context.Context, vacancyID int64, limit int) ([]resume.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []resume.Resume
	for _, rs := range r.rows {
		if rs.VacancyID == vacancyID {
			out = append(out, rs)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *resumeRepo) ListAll(context.Context) ([]resume.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]resume.Resume(nil), r.rows...), nil
}

func (r *resumeRepo) ListPage(_ context.Context, limit, offset int) (resume.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	page := resume.Page{Total: len(r.rows)}
	if offset < len(r.rows) {
		page.Items = append(page.Items, r.rows[offset:min(offset+limit, len(r.rows))]...)
	}
	return page, nil
}

type sentDocument struct {
	name, caption string
	data          []byte
}

type messenger struct {
	mu    sync.Mutex
	texts map[int64][]string
	docs  []sentDocument
}

func (m *messenger) SendText(_ context.Context, chatID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts[chatID] = append(m.texts[chatID], text)
	return nil
}

func (m *messenger) SendDocument(_ context.Context, _ int64, name, caption string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = append(m.docs, sentDocument{name: name, caption: caption, data: data})
	return nil
}

func (m *messenger) last(chatID int64) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.texts[chatID]
	if len(t) == 0 {
		return ""
	}
	return t[len(t)-1]
}

func (m *messenger) all(chatID int64) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.texts[chatID]...)
}

// downloader materialises every file id as a small temp file.
type downloader struct {
	dir      string
	suffixes []string
	err      error
}

func (d *downloader) Download(_ context.Context, fileID, suffix string) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	d.suffixes = append(d.suffixes, suffix)
	path := filepath.Join(d.dir, fileID+suffix)
	return path, os.WriteFile(path, []byte(fileID), 0o600)
}

// extractor returns texts[fileName] and removes the file like the real one.
type extractor struct {
	texts map[string]string
}

func (e *extractor) ExtractFile(path, _ string) string {
	defer os.Remove(path)
	return e.texts[filepath.Base(path)]
}

type scorer struct {
	scores []float64
	calls  int
}

func (s *scorer) Score(_ context.Context, resumeText, _ string) scoring.Result {
	score := scoring.DefaultScore
	if s.calls < len(s.scores) {
		score = s.scores[s.calls]
	}
	s.calls++
	return scoring.Result{Score: score, Narrative: "Анализ " + resumeText + ": " + strconv.FormatFloat(score, 'f', 1, 64)}
}

type reporter struct {
	err  error
	data []report.Data
}

func (r *reporter) Render(_ context.Context, d report.Data) ([]byte, error) {
	r.data = append(r.data, d)
	return []byte("%PDF"), r.err
}

type exporter struct {
	rows []sheets.Row
	err  error
}

func (e *exporter) Append(_ context.Context, row sheets.Row) error {
	e.rows = append(e.rows, row)
	return e.err
}

type failingStore struct {
	session.Store
	err error
}

func (f failingStore) Get(context.Context, int64) (session.Session, error) {
	return session.Session{}, f.err
}
