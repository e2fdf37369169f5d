package sink

import (
	"chat-widget/domain/chat"
	"chat-widget/domain/event"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/gookit/color"
)

const shortIDLength = 8

var (
	unreadStyle = color.New(color.FgCyan, color.OpBold)
	senderStyle = color.New(color.FgGreen)
	timeStyle   = color.New(color.FgGray)
	starStyle   = color.New(color.FgYellow)
	linkStyle   = color.New(color.FgBlue, color.OpUnderscore)
	errorStyle  = color.New(color.FgRed, color.OpBold)
	promptStyle = color.New(color.FgYellow)
)

// TerminalSink draws session events as lines on a terminal.
type TerminalSink struct {
	mu       sync.Mutex
	out      io.Writer
	location *time.Location
	shown    map[string]chat.Message
}

func NewTerminalSink(out io.Writer, location *time.Location) *TerminalSink {
	if location == nil {
		location = time.Local
	}
	return &TerminalSink{out: out, location: location, shown: make(map[string]chat.Message)}
}

func (t *TerminalSink) Consume(_ context.Context, e event.DomainEvent) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var line string
	switch evt := e.(type) {
	case event.MessageRendered:
		// Redelivered history, after a resubscription, is already on screen
		if shown, ok := t.shown[evt.Message.ID]; ok && !evt.Inserted && shown.Same(evt.Message) {
			return nil
		}
		t.shown[evt.Message.ID] = evt.Message
		line = t.renderMessage(evt)
	case event.MessageStarred:
		line = starStyle.Sprintf("★ %s %s", ShortID(evt.Message.ID), evt.Message.Body)
	case event.MessageUnstarred:
		line = starStyle.Sprintf("☆ %s", ShortID(evt.ID))
	case event.AllRead:
		line = timeStyle.Sprintf("%d message(s) marked as read", len(evt.IDs))
	case event.RecipientsUpdated:
		line = timeStyle.Sprintf("recipients: %s", strings.Join(evt.Recipients, ", "))
	case event.SubscriptionFailed:
		line = errorStyle.Sprint(evt.Err.Error())
	case event.SendFailed:
		line = promptStyle.Sprint(evt.Prompt)
	case event.Exported:
		line = timeStyle.Sprintf("%d line(s) exported to %s", evt.Lines, evt.Path)
	default:
		return nil
	}
	_, err := fmt.Fprintln(t.out, line)
	return err
}

func (t *TerminalSink) renderMessage(evt event.MessageRendered) string {
	m := evt.Message
	marker := " "
	if evt.Unread {
		marker = unreadStyle.Sprint("●")
	}
	star := "☆"
	if evt.Starred {
		star = starStyle.Sprint("★")
	}
	var at string
	if m.CreatedAt != nil {
		at = chat.FormatTime(m.CreatedAt.In(t.location))
	}
	prefix := ""
	if !evt.Inserted {
		prefix = timeStyle.Sprint("(updated) ")
	}
	return fmt.Sprintf("%s %s %s %s %s%s: %s",
		marker, star, ShortID(m.ID), timeStyle.Sprint(at), prefix,
		senderStyle.Sprint(m.SenderLabel()), highlightLinks(m.Body),
	)
}

func highlightLinks(body string) string {
	for _, link := range chat.Links(body) {
		body = strings.Replace(body, link, linkStyle.Sprint(link), 1)
	}
	return body
}

// ShortID is the id prefix shown to users and accepted back by commands.
func ShortID(id string) string {
	if len(id) > shortIDLength {
		return id[:shortIDLength]
	}
	return id
}
