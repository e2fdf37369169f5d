package projection

import (
	"chat-widget/domain/chat"
	"time"
)

func at(seconds int64) *time.Time {
	t := time.Unix(seconds, 0).UTC()
	return &t
}

func message(id, sender, body string, seconds int64) chat.Message {
	return chat.Message{ID: id, Sender: sender, Body: body, CreatedAt: at(seconds)}
}

func utcFormat(t time.Time) string {
	return chat.FormatTime(t.UTC())
}
