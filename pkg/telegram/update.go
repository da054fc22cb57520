package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/artem13815/hrbot/pkg/conversation"
)

// EventFromUpdate converts an inbound update into a conversation event.
// ok is false for updates the bot does not react to (edits, channel posts,
// callbacks, messages without a sender).
func EventFromUpdate(u tgbotapi.Update) (ev conversation.Event, ok bool) {
	msg := u.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return conversation.Event{}, false
	}
	ev = conversation.Event{
		ChatID: msg.Chat.ID,
		UserID: msg.From.ID,
		Text:   msg.Text,
	}
	switch {
	case msg.IsCommand():
		ev.Kind = conversation.CommandKind(msg.Command())
		ev.Args = strings.Fields(msg.CommandArguments())
	case msg.Document != nil:
		ev.Kind = conversation.EventDocument
		ev.Document = &conversation.Document{
			FileID:   msg.Document.FileID,
			FileName: msg.Document.FileName,
			MimeType: msg.Document.MimeType,
			Size:     int64(msg.Document.FileSize),
		}
	default:
		ev.Kind = conversation.EventText
	}
	return ev, true
}
