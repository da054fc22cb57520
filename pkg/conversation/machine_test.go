package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/hrbot/pkg/auth"
	"github.com/artem13815/hrbot/pkg/resume"
	"github.com/artem13815/hrbot/pkg/session"
	"github.com/artem13815/hrbot/pkg/vacancy"
)

const (
	hrID       int64 = 100
	adminID    int64 = 200
	employerID int64 = 300
	strangerID int64 = 999
)

type harness struct {
	t         *testing.T
	m         *Machine
	users     *userRepo
	vacancies *vacancyRepo
	resumes   *resumeRepo
	sessions  *session.MemoryStore
	msgs      *messenger
	files     *downloader
	extract   *extractor
	scorer    *scorer
}

func newHarness(t *testing.T, opts ...func(*Deps)) *harness {
	t.Helper()
	h := &harness{
		t: t,
		users: &userRepo{users: map[int64]auth.User{
			hrID:       {TelegramID: hrID, Role: auth.RoleHR},
			adminID:    {TelegramID: adminID, Role: auth.RoleAdmin},
			employerID: {TelegramID: employerID, Role: auth.RoleEmployer},
		}},
		vacancies: &vacancyRepo{},
		resumes:   &resumeRepo{},
		sessions:  session.NewMemoryStore(),
		msgs:      &messenger{texts: map[int64][]string{}},
		files:     &downloader{dir: t.TempDir()},
		extract:   &extractor{texts: map[string]string{}},
		scorer:    &scorer{},
	}
	d := Deps{
		Gate:      auth.NewGate(h.users, nil),
		Users:     auth.NewService(h.users, nil),
		Vacancies: vacancy.NewService(h.vacancies),
		Resumes:   resume.NewService(h.resumes),
		Sessions:  h.sessions,
		Files:     h.files,
		Extractor: h.extract,
		Scorer:    h.scorer,
		Messenger: h.msgs,
	}
	for _, o := range opts {
		o(&d)
	}
	h.m = NewMachine(d)
	return h
}

// chat ids equal user ids in these tests
func (h *harness) command(userID int64, name string, args ...string) {
	h.t.Helper()
	require.NoError(h.t, h.m.Handle(context.Background(), Event{
		ChatID: userID, UserID: userID, Kind: CommandKind(name), Text: "/" + name, Args: args,
	}))
}

func (h *harness) text(userID int64, text string) {
	h.t.Helper()
	require.NoError(h.t, h.m.Handle(context.Background(), Event{
		ChatID: userID, UserID: userID, Kind: EventText, Text: text,
	}))
}

// upload sends a document whose extracted text is content ("" means unreadable).
func (h *harness) upload(userID int64, fileID, content string) {
	h.t.Helper()
	if content != "" {
		h.extract.texts[fileID+".pdf"] = content
	}
	require.NoError(h.t, h.m.Handle(context.Background(), Event{
		ChatID: userID, UserID: userID, Kind: EventDocument,
		Document: &Document{FileID: fileID, FileName: fileID + ".pdf", MimeType: resume.MimePDF},
	}))
}

func (h *harness) state(chatID int64) State {
	h.t.Helper()
	s, err := h.sessions.Get(context.Background(), chatID)
	if errors.Is(err, session.ErrNotFound) {
		return StateIdle
	}
	require.NoError(h.t, err)
	return s.State
}

func TestUnauthorizedStartIsDenied(t *testing.T) {
	h := newHarness(t)

	h.command(strangerID, "start")

	assert.Equal(t, []string{msgDenyStart}, h.msgs.all(strangerID))
	assert.Empty(t, h.vacancies.rows)
	assert.Empty(t, h.resumes.rows)
	assert.Equal(t, StateIdle, h.state(strangerID))
}

func TestStartGreetsAuthorized(t *testing.T) {
	h := newHarness(t)
	h.command(employerID, "start")
	assert.Equal(t, msgGreeting, h.msgs.last(employerID))
}

func TestUnauthorizedAddVacancyTerminates(t *testing.T) {
	h := newHarness(t)

	h.command(strangerID, "add_vacancy")
	assert.Equal(t, msgDenyVacancy, h.msgs.last(strangerID))
	assert.Equal(t, StateIdle, h.state(strangerID))

	h.text(strangerID, "Engineer, Python")
	assert.Empty(t, h.vacancies.rows)
}

func TestVacancyWithTooFewPartsReprompts(t *testing.T) {
	for _, input := range []string{"Engineer", "", "Python developer 100k"} {
		t.Run(input, func(t *testing.T) {
			h := newHarness(t)
			h.command(hrID, "add_vacancy")
			require.Equal(t, msgVacancyPrompt, h.msgs.last(hrID))

			h.text(hrID, input)

			assert.Equal(t, msgVacancyReprompt, h.msgs.last(hrID))
			assert.Equal(t, StateVacancy, h.state(hrID))
			assert.Empty(t, h.vacancies.rows)
		})
	}
}

func TestVacancySaved(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "Engineer, Python", want: "Должность: Engineer, Требования: Python, Зарплата: Не указана"},
		{input: "Engineer, Python, 100k", want: "Должность: Engineer, Требования: Python, Зарплата: 100k"},
		{input: " QA ,tests, 90k, remote", want: "Должность: QA, Требования: tests, Зарплата: 90k, remote"},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			h := newHarness(t)
			h.command(hrID, "add_vacancy")
			h.text(hrID, tc.input)

			require.Len(t, h.vacancies.rows, 1)
			assert.Equal(t, tc.want, h.vacancies.rows[0].Data)
			assert.Equal(t, hrID, h.vacancies.rows[0].UserID)
			assert.Equal(t, msgVacancySaved, h.msgs.last(hrID))

			s, err := h.sessions.Get(context.Background(), hrID)
			require.NoError(t, err)
			assert.Equal(t, StateResume, s.State)
			assert.Equal(t, int64(1), s.VacancyID)
			assert.Equal(t, tc.want, s.VacancyText)
		})
	}
}

func TestBlankVacancyPartsStillCreateVacancy(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: ",", want: "Должность: , Требования: , Зарплата: Не указана"},
		{input: " , ", want: "Должность: , Требования: , Зарплата: Не указана"},
		{input: ", , 100k", want: "Должность: , Требования: , Зарплата: 100k"},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			h := newHarness(t)
			h.command(hrID, "add_vacancy")
			h.text(hrID, tc.input)

			require.Len(t, h.vacancies.rows, 1)
			assert.Equal(t, tc.want, h.vacancies.rows[0].Data)
			assert.Equal(t, msgVacancySaved, h.msgs.last(hrID))
			assert.Equal(t, StateResume, h.state(hrID))
		})
	}
}

func TestEmptyExtractionStaysInResume(t *testing.T) {
	h := newHarness(t)
	h.command(hrID, "add_vacancy")
	h.text(hrID, "Engineer, Python")

	h.upload(hrID, "blank", "")

	assert.Equal(t, msgExtractionFailed, h.msgs.last(hrID))
	assert.Equal(t, StateResume, h.state(hrID))
	assert.Empty(t, h.resumes.rows)
	assert.Zero(t, h.scorer.calls)
}

func TestResumeStateRequiresDocument(t *testing.T) {
	h := newHarness(t)
	h.command(hrID, "add_vacancy")
	h.text(hrID, "Engineer, Python")

	h.text(hrID, "вот моё резюме")
	assert.Equal(t, msgNeedDocument, h.msgs.last(hrID))
	assert.Equal(t, StateResume, h.state(hrID))
}

func TestUnsupportedDocumentIsNotDownloaded(t *testing.T) {
	h := newHarness(t)
	h.command(hrID, "add_vacancy")
	h.text(hrID, "Engineer, Python")

	require.NoError(t, h.m.Handle(context.Background(), Event{
		ChatID: hrID, UserID: hrID, Kind: EventDocument,
		Document: &Document{FileID: "img", FileName: "photo.png", MimeType: "image/png"},
	}))
	assert.Equal(t, msgExtractionFailed, h.msgs.last(hrID))
	assert.Empty(t, h.files.suffixes)
	assert.Equal(t, StateResume, h.state(hrID))
}

func TestDownloadFailureReprompts(t *testing.T) {
	h := newHarness(t)
	h.files.err = errors.New("telegram is down")
	h.command(hrID, "add_vacancy")
	h.text(hrID, "Engineer, Python")

	h.upload(hrID, "cv", "Go developer")
	assert.Equal(t, msgExtractionFailed, h.msgs.last(hrID))
	assert.Equal(t, StateResume, h.state(hrID))
}

func TestHREndToEnd(t *testing.T) {
	h := newHarness(t)
	h.scorer.scores = []float64{8.5}

	h.command(hrID, "add_vacancy")
	h.text(hrID, "Engineer, Python, 100k")
	h.upload(hrID, "cv", "Python engineer, 5 years")

	require.Len(t, h.resumes.rows, 1)
	saved := h.resumes.rows[0]
	assert.Equal(t, int64(1), saved.VacancyID)
	assert.Equal(t, "Python engineer, 5 years", saved.Text)
	assert.Equal(t, 8.5, saved.Score)
	assert.Equal(t, []string{".pdf"}, h.files.suffixes)
	assert.True(t, strings.HasPrefix(h.msgs.last(hrID), "🎉 Резюме обработано! Оценка: 8.5, Анализ: "))
	assert.Equal(t, StateProcessing, h.state(hrID))

	h.command(hrID, "finish")

	msgs := h.msgs.all(hrID)
	tail := msgs[len(msgs)-2:]
	assert.Equal(t, msgShortlistHeader, tail[0])
	assert.Equal(t, msgCandidate(1, 8.5, saved.Analysis), tail[1])
	assert.Equal(t, StateIdle, h.state(hrID))
}

func TestFinishRanksTopThree(t *testing.T) {
	h := newHarness(t)
	h.scorer.scores = []float64{7.5, 9.0, 3.0, 7.5}
	h.command(hrID, "add_vacancy")
	h.text(hrID, "Engineer, Python")

	for i, id := range []string{"a", "b", "c", "d"} {
		if i > 0 {
			// the machine restarts vacancy capture, so attach the rest directly
			s, err := h.sessions.Get(context.Background(), hrID)
			require.NoError(t, err)
			s.State = StateResume
			require.NoError(t, h.sessions.Save(context.Background(), s))
		}
		h.upload(hrID, id, "cv "+id)
	}
	require.Len(t, h.resumes.rows, 4)

	h.command(hrID, "finish")

	msgs := h.msgs.all(hrID)
	candidates := msgs[len(msgs)-3:]
	assert.Equal(t, msgShortlistHeader, msgs[len(msgs)-4])
	assert.Equal(t, msgCandidate(1, 9.0, h.resumes.rows[1].Analysis), candidates[0])
	assert.Equal(t, msgCandidate(2, 7.5, h.resumes.rows[0].Analysis), candidates[1])
	assert.Equal(t, msgCandidate(3, 7.5, h.resumes.rows[3].Analysis), candidates[2])
}

func TestFinishWithoutVacancy(t *testing.T) {
	h := newHarness(t)

	h.command(hrID, "finish")
	assert.Equal(t, []string{msgNoVacancy}, h.msgs.all(hrID))

	h.command(hrID, "add_vacancy")
	h.command(hrID, "finish")
	assert.Equal(t, msgNoVacancy, h.msgs.last(hrID))
	assert.Equal(t, StateIdle, h.state(hrID))
}

func TestFinishWithoutResumes(t *testing.T) {
	h := newHarness(t)
	h.command(hrID, "add_vacancy")
	h.text(hrID, "Engineer, Python")

	h.command(hrID, "finish")
	assert.Equal(t, msgShortlistEmpty, h.msgs.last(hrID))
	assert.Equal(t, StateIdle, h.state(hrID))
}

func TestUnauthorizedFinish(t *testing.T) {
	h := newHarness(t)
	h.command(strangerID, "finish")
	assert.Equal(t, []string{msgDenyFinish}, h.msgs.all(strangerID))
}

func TestAddResumeRestartsVacancyCapture(t *testing.T) {
	h := newHarness(t)
	h.command(hrID, "add_vacancy")
	h.text(hrID, "Engineer, Python")
	h.upload(hrID, "cv", "text")
	require.Equal(t, StateProcessing, h.state(hrID))

	h.command(hrID, "add_resume")
	assert.Equal(t, msgVacancyPrompt, h.msgs.last(hrID))
	assert.Equal(t, StateVacancy, h.state(hrID))

	s, err := h.sessions.Get(context.Background(), hrID)
	require.NoError(t, err)
	assert.False(t, s.HasVacancy())

	h.text(hrID, "Designer, Figma")
	require.Len(t, h.vacancies.rows, 2)
	s, err = h.sessions.Get(context.Background(), hrID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), s.VacancyID)
}

func TestFallbackHints(t *testing.T) {
	h := newHarness(t)

	h.text(hrID, "привет")
	assert.Equal(t, msgIdleHint, h.msgs.last(hrID))

	h.command(hrID, "add_resume")
	assert.Equal(t, msgIdleHint, h.msgs.last(hrID))

	h.command(hrID, "add_vacancy")
	h.upload(hrID, "early", "text")
	assert.Equal(t, msgVacancyReprompt, h.msgs.last(hrID))
	assert.Equal(t, StateVacancy, h.state(hrID))

	h.text(hrID, "Engineer, Python")
	h.command(hrID, "unknown")
	assert.Equal(t, msgNeedDocument, h.msgs.last(hrID))
	assert.Equal(t, StateResume, h.state(hrID))

	h.upload(hrID, "cv", "text")
	h.text(hrID, "ещё?")
	assert.Equal(t, msgProcessingHint, h.msgs.last(hrID))
	assert.Equal(t, StateProcessing, h.state(hrID))

	h.text(strangerID, "привет")
	assert.Equal(t, msgDenyStart, h.msgs.last(strangerID))
}

func TestAddUser(t *testing.T) {
	h := newHarness(t)

	h.command(strangerID, "add_user", "5", "HR")
	assert.Equal(t, msgDenyAddUser, h.msgs.last(strangerID))

	h.command(hrID, "add_user", "5", "HR")
	assert.Equal(t, msgAdminAddUser, h.msgs.last(hrID))

	h.command(adminID, "add_user", "5")
	assert.Equal(t, msgAddUserUsage, h.msgs.last(adminID))

	h.command(adminID, "add_user", "abc", "HR")
	assert.Equal(t, msgAddUserUsage, h.msgs.last(adminID))

	h.command(adminID, "add_user", "5", "boss")
	assert.Equal(t, msgInvalidRole, h.msgs.last(adminID))

	h.command(adminID, "add_user", "5", "hr")
	assert.Equal(t, msgUserAdded(5, "HR"), h.msgs.last(adminID))
	assert.Equal(t, auth.RoleHR, h.users.users[5].Role)

	h.command(adminID, "add_user", "5", "admin")
	assert.Equal(t, msgUserExists(5), h.msgs.last(adminID))
	assert.Equal(t, auth.RoleHR, h.users.users[5].Role)
}

func TestAddUserKeepsConversationState(t *testing.T) {
	h := newHarness(t)
	h.command(adminID, "add_vacancy")
	h.command(adminID, "add_user", "6", "Employer")
	assert.Equal(t, StateVacancy, h.state(adminID))
}

func TestAdminView(t *testing.T) {
	h := newHarness(t)

	h.command(employerID, "admin_view")
	assert.Equal(t, msgAdminOnly, h.msgs.last(employerID))

	h.command(strangerID, "admin_view")
	assert.Equal(t, msgDenyAdmin, h.msgs.last(strangerID))

	h.command(adminID, "admin_view")
	assert.Equal(t, msgAdminEmpty, h.msgs.last(adminID))

	h.resumes.rows = []resume.Resume{
		{ID: 1, VacancyID: 3, Score: 6.5, Analysis: strings.Repeat("х", 150)},
		{ID: 2, VacancyID: 4, Score: 9, Analysis: "коротко"},
	}
	h.command(adminID, "admin_view")
	msgs := h.msgs.all(adminID)
	assert.Equal(t, []string{
		"🌟 Вакансия #3: Оценка 6.5, Анализ: " + strings.Repeat("х", 100) + "...",
		"🌟 Вакансия #4: Оценка 9.0, Анализ: коротко...",
	}, msgs[len(msgs)-2:])
}

func TestReportAndExport(t *testing.T) {
	rep := &reporter{}
	exp := &exporter{}
	h := newHarness(t, func(d *Deps) {
		d.Reporter = rep
		d.Exporter = exp
	})
	h.scorer.scores = []float64{6.0}
	h.command(hrID, "add_vacancy")
	h.text(hrID, "Engineer, Python")
	h.upload(hrID, "cv", "resume text")

	require.Len(t, rep.data, 1)
	assert.Equal(t, int64(1), rep.data[0].VacancyID)
	require.Len(t, h.msgs.docs, 1)
	assert.Equal(t, "report_1.pdf", h.msgs.docs[0].name)
	assert.Equal(t, msgReportCaption, h.msgs.docs[0].caption)
	require.Len(t, exp.rows, 1)
	assert.Equal(t, "resume text", exp.rows[0].ResumeText)
	assert.Equal(t, 6.0, exp.rows[0].Score)
}

func TestReportAndExportFailuresDoNotBlock(t *testing.T) {
	h := newHarness(t, func(d *Deps) {
		d.Reporter = &reporter{err: errors.New("no chrome")}
		d.Exporter = &exporter{err: errors.New("quota")}
	})
	h.command(hrID, "add_vacancy")
	h.text(hrID, "Engineer, Python")
	h.upload(hrID, "cv", "resume text")

	assert.Empty(t, h.msgs.docs)
	assert.Equal(t, StateProcessing, h.state(hrID))
}

func TestPersistenceFailureSurfaces(t *testing.T) {
	h := newHarness(t)
	h.command(hrID, "add_vacancy")
	h.text(hrID, "Engineer, Python")
	h.resumes.err = errors.New("connection reset")
	h.extract.texts["cv.pdf"] = "text"

	err := h.m.Handle(context.Background(), Event{
		ChatID: hrID, UserID: hrID, Kind: EventDocument,
		Document: &Document{FileID: "cv", FileName: "cv.pdf", MimeType: resume.MimePDF},
	})
	require.ErrorContains(t, err, "connection reset")
	assert.Equal(t, StateResume, h.state(hrID))
}

func TestSessionStoreFailureSurfaces(t *testing.T) {
	h := newHarness(t, func(d *Deps) {
		d.Sessions = failingStore{err: errors.New("redis down")}
	})
	err := h.m.Handle(context.Background(), Event{ChatID: 1, UserID: hrID, Kind: EventStart})
	require.ErrorContains(t, err, "redis down")
}

func TestAuthStoreFailureDenies(t *testing.T) {
	h := newHarness(t)
	h.users.err = errors.New("db unreachable")
	h.command(hrID, "start")
	assert.Equal(t, msgDenyStart, h.msgs.last(hrID))
}

func TestChatsAreIndependent(t *testing.T) {
	h := newHarness(t)
	var wg sync.WaitGroup
	for _, id := range []int64{hrID, adminID, employerID} {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_ = h.m.Handle(context.Background(), Event{ChatID: id, UserID: id, Kind: EventAddVacancy})
			_ = h.m.Handle(context.Background(), Event{ChatID: id, UserID: id, Kind: EventText, Text: "Engineer, Go"})
		}(id)
	}
	wg.Wait()

	for _, id := range []int64{hrID, adminID, employerID} {
		assert.Equal(t, StateResume, h.state(id))
	}
	assert.Len(t, h.vacancies.rows, 3)
	assert.Empty(t, h.m.locks.m)
}

func TestCommandKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, EventStart, CommandKind("start"))
	assert.Equal(t, EventAddVacancy, CommandKind("/add_vacancy"))
	assert.Equal(t, EventFinish, CommandKind("FINISH"))
	assert.Equal(t, EventCommand, CommandKind("help"))
	assert.Equal(t, "add_resume", EventAddResume.String())
}
