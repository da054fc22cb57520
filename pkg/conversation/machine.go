package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/artem13815/hrbot/pkg/auth"
	"github.com/artem13815/hrbot/pkg/logger"
	"github.com/artem13815/hrbot/pkg/report"
	"github.com/artem13815/hrbot/pkg/resume"
	"github.com/artem13815/hrbot/pkg/scoring"
	"github.com/artem13815/hrbot/pkg/session"
	"github.com/artem13815/hrbot/pkg/sheets"
	"github.com/artem13815/hrbot/pkg/vacancy"
)

type Authorizer interface {
	IsAuthorized(ctx context.Context, telegramID int64) bool
	IsAdmin(ctx context.Context, telegramID int64) bool
}

// Messenger delivers replies to a chat.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, name, caption string, data []byte) error
}

// Downloader stores an attached file in a temporary file with the given suffix
// and returns its path. The caller owns the file.
type Downloader interface {
	Download(ctx context.Context, fileID, suffix string) (string, error)
}

type Extractor interface {
	ExtractFile(path, mimeType string) string
}

type Scorer interface {
	Score(ctx context.Context, resumeText, vacancyText string) scoring.Result
}

type Reporter interface {
	Render(ctx context.Context, d report.Data) ([]byte, error)
}

type Exporter interface {
	Append(ctx context.Context, row sheets.Row) error
}

// Deps are the collaborators of the Machine. Reporter and Exporter are optional.
type Deps struct {
	Gate      Authorizer
	Users     auth.UseCase
	Vacancies vacancy.UseCase
	Resumes   resume.UseCase
	Sessions  session.Store
	Files     Downloader
	Extractor Extractor
	Scorer    Scorer
	Messenger Messenger
	Reporter  Reporter
	Exporter  Exporter
	Log       *zap.Logger
}

// handler runs one transition and returns the state to move to.
type handler func(m *Machine, ctx context.Context, ev Event, s *session.Session) (State, error)

type transitionKey struct {
	state State
	kind  EventKind
}

// transitions are valid only in the given state.
var transitions = map[transitionKey]handler{
	{StateVacancy, EventText}:         (*Machine).saveVacancy,
	{StateResume, EventDocument}:      (*Machine).handleResume,
	{StateResume, EventText}:          (*Machine).handleResume,
	{StateProcessing, EventAddResume}: (*Machine).addVacancy,
}

// globals are commands accepted in every state.
var globals = map[EventKind]handler{
	EventStart:      (*Machine).start,
	EventAddVacancy: (*Machine).addVacancy,
	EventFinish:     (*Machine).finish,
	EventAddUser:    (*Machine).addUser,
	EventAdminView:  (*Machine).adminView,
}

// Machine drives recruiter conversations: vacancy entry, repeated resume
// upload and the final shortlist. Events of one chat are handled one at a time.
type Machine struct {
	d     Deps
	log   *zap.Logger
	locks chatLocks
}

func NewMachine(d Deps) *Machine {
	return &Machine{
		d:     d,
		log:   logger.OrNop(d.Log).Named("conversation"),
		locks: chatLocks{m: make(map[int64]*chatLock)},
	}
}

// Handle applies ev to the chat's session. Only store failures are returned;
// everything the recruiter can fix is answered with a reply.
func (m *Machine) Handle(ctx context.Context, ev Event) error {
	unlock := m.locks.lock(ev.ChatID)
	defer unlock()

	log := logger.WithChat(m.log, ev.ChatID, ev.UserID)

	s, err := m.d.Sessions.Get(ctx, ev.ChatID)
	existed := err == nil
	switch {
	case errors.Is(err, session.ErrNotFound):
		s = session.New(ev.ChatID, ev.UserID, StateIdle)
	case err != nil:
		return fmt.Errorf("load session: %w", err)
	}

	from := s.State
	h := resolve(from, ev.Kind)
	next, err := h(m, ctx, ev, &s)
	if err != nil {
		log.Error("transition failed", zap.String("state", string(from)), zap.Stringer("event", ev.Kind), zap.Error(err))
		return err
	}
	log.Debug("transition", zap.String("from", string(from)), zap.Stringer("event", ev.Kind), zap.String("to", string(next)))

	if next == StateIdle {
		if !existed {
			return nil
		}
		if err := m.d.Sessions.Delete(ctx, ev.ChatID); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	}
	s.State = next
	if err := m.d.Sessions.Save(ctx, s); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func resolve(state State, kind EventKind) handler {
	if h, ok := transitions[transitionKey{state, kind}]; ok {
		return h
	}
	if h, ok := globals[kind]; ok {
		return h
	}
	return (*Machine).fallback
}

func (m *Machine) reply(ctx context.Context, chatID int64, text string) {
	if err := m.d.Messenger.SendText(ctx, chatID, text); err != nil {
		m.log.Error("send reply", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

type chatLock struct {
	sync.Mutex
	refs int
}

// chatLocks hands out one mutex per chat and forgets it when nobody waits.
type chatLocks struct {
	mu sync.Mutex
	m  map[int64]*chatLock
}

func (l *chatLocks) lock(chatID int64) func() {
	l.mu.Lock()
	cl, ok := l.m[chatID]
	if !ok {
		cl = &chatLock{}
		l.m[chatID] = cl
	}
	cl.refs++
	l.mu.Unlock()

	cl.Lock()
	return func() {
		cl.Unlock()
		l.mu.Lock()
		cl.refs--
		if cl.refs == 0 {
			delete(l.m, chatID)
		}
		l.mu.Unlock()
	}
}
