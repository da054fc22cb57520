package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// State is the conversation step a chat is waiting in.
type State string

const (
	StateIdle       State = "idle"
	StateVacancy    State = "vacancy"
	StateResume     State = "resume"
	StateProcessing State = "processing"
)

// Session is the in-progress intake of one chat. It holds at most one vacancy.
type Session struct {
	ID          uuid.UUID `json:"id"`
	ChatID      int64     `json:"chat_id"`
	UserID      int64     `json:"user_id"`
	State       State     `json:"state"`
	VacancyID   int64     `json:"vacancy_id,omitempty"`
	VacancyText string    `json:"vacancy_text,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func New(chatID, userID int64, state State) Session {
	now := time.Now().UTC()
	return Session{
		ID:        uuid.New(),
		ChatID:    chatID,
		UserID:    userID,
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasVacancy reports whether a vacancy was saved in this session.
func (s Session) HasVacancy() bool { return s.VacancyID != 0 }

// Store keeps one session per chat.
type Store interface {
	Get(ctx context.Context, chatID int64) (Session, error)
	Save(ctx context.Context, s Session) error
	Delete(ctx context.Context, chatID int64) error
}
