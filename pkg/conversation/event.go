package conversation

import (
	"strings"

	"github.com/artem13815/hrbot/pkg/session"
)

// State is the step a chat is waiting in. StateIdle doubles as the terminal
// state: a chat that reaches it has no stored session.
type State = session.State

const (
	StateIdle       = session.StateIdle
	StateVacancy    = session.StateVacancy
	StateResume     = session.StateResume
	StateProcessing = session.StateProcessing
)

type EventKind int

const (
	EventText EventKind = iota
	EventDocument
	EventCommand // unknown command
	EventStart
	EventAddVacancy
	EventAddResume
	EventFinish
	EventAddUser
	EventAdminView
)

var kindNames = map[EventKind]string{
	EventText:       "text",
	EventDocument:   "document",
	EventCommand:    "command",
	EventStart:      "start",
	EventAddVacancy: "add_vacancy",
	EventAddResume:  "add_resume",
	EventFinish:     "finish",
	EventAddUser:    "add_user",
	EventAdminView:  "admin_view",
}

func (k EventKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

var commands = map[string]EventKind{
	"start":       EventStart,
	"add_vacancy": EventAddVacancy,
	"add_resume":  EventAddResume,
	"finish":      EventFinish,
	"add_user":    EventAddUser,
	"admin_view":  EventAdminView,
}

// CommandKind maps a bot command name (without the slash) onto its event kind.
// Unknown names give EventCommand.
func CommandKind(name string) EventKind {
	if k, ok := commands[strings.ToLower(strings.TrimPrefix(name, "/"))]; ok {
		return k
	}
	return EventCommand
}

// Document is a file attached to an inbound message.
type Document struct {
	FileID   string
	FileName string
	MimeType string
	Size     int64
}

// Event is one inbound message of a chat.
type Event struct {
	ChatID   int64
	UserID   int64
	Kind     EventKind
	Text     string
	Args     []string
	Document *Document
}
