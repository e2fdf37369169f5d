package services

import (
	"chat-widget/domain/chat"
	"chat-widget/domain/event"
	"chat-widget/errors"
	stderrors "errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func at(seconds int64) *time.Time {
	t := time.Unix(seconds, 0).UTC()
	return &t
}

func added(id, sender, body string, seconds int64) event.Change {
	return event.Change{Kind: event.Added, ID: id, Data: chat.Message{Sender: sender, Body: body, CreatedAt: at(seconds)}}
}

func newTestSession(t *testing.T, caps Capabilities) *Session {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	session, err := NewSession(log, SessionOptions{
		Collection:   "room",
		LocalUser:    "alice",
		Capabilities: caps,
		Location:     time.UTC,
	}, time.Unix(1000, 0))
	require.NoError(t, err)
	return session
}

func TestNewSession_MissingCollection(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	_, err := NewSession(log, SessionOptions{}, time.Now())
	var configErr errors.ConfigurationError
	req.True(stderrors.As(err, &configErr))
	req.ErrorIs(err, errors.ErrMissingCollection)

	session, err := NewSession(log, SessionOptions{AllowDefaultCollection: true}, time.Now())
	req.NoError(err)
	req.Equal(chat.DefaultCollection, session.Collection())
}

func TestSession_Scenario(t *testing.T) {
	req := require.New(t)
	session := newTestSession(t, AllCapabilities())

	// Given a message older than the session
	events := session.Apply(added("a", "alice", "hi", 999))
	req.Len(events, 1)
	req.False(events[0].(event.MessageRendered).Unread)

	// Given a message newer than the session from another user
	events = session.Apply(added("b", "bob", "yo", 1001))
	req.Len(events, 2)
	rendered := events[0].(event.MessageRendered)
	req.True(rendered.Unread)
	req.True(rendered.Inserted)
	req.Equal(event.RecipientsUpdated{Recipients: []string{"bob"}}, events[1])
	req.Equal([]string{"bob"}, session.Recipients())

	// When b is starred then everything is read
	starEvents, err := session.ToggleStar("b")
	req.NoError(err)
	req.IsType(event.MessageStarred{}, starEvents[0])
	session.MarkAllRead()

	// Then the overlays are independent
	req.False(session.IsUnread("b"))
	req.True(session.IsStarred("b"))
	view := session.View()
	req.Zero(view.Unread)
	req.Len(view.Starred, 1)

	// And the export lists newest first
	doc, err := session.Export()
	req.NoError(err)
	req.Equal("room.txt", doc.Name)
	lines := strings.Split(doc.Content, "\n")
	req.Len(lines, 2)
	req.Equal("1970/1/1(木) 0:16:41\tbob\tyo", lines[0])
	req.Equal("1970/1/1(木) 0:16:39\talice\thi", lines[1])
}

func TestSession_PendingInsertNeverMaterialized(t *testing.T) {
	req := require.New(t)
	session := newTestSession(t, AllCapabilities())
	pending := event.Change{Kind: event.Added, ID: "p", Data: chat.Message{Sender: "bob", Body: "soon"}}

	for i := 0; i < 3; i++ {
		req.Empty(session.Apply(pending))
	}
	req.Zero(session.Timeline().Len())
	req.Zero(session.View().Unread)

	// When the committed modification arrives
	events := session.ApplyBatch(event.Batch{Changes: []event.Change{{
		Kind: event.Modified, ID: "p",
		Data: chat.Message{Sender: "bob", Body: "soon", CreatedAt: at(1002)},
	}}})

	req.NotEmpty(events)
	req.Equal(1, session.Timeline().Len())
	req.True(session.IsUnread("p"))
}

func TestSession_UndatedModificationIsNotMaterialized(t *testing.T) {
	req := require.New(t)
	session := newTestSession(t, AllCapabilities())

	// Given a modification delivered before the server timestamp
	undated := event.Change{Kind: event.Modified, ID: "m", Data: chat.Message{Sender: "bob", Body: "soon"}}
	req.Empty(session.Apply(undated))
	req.Zero(session.Timeline().Len())
	req.Empty(session.Recipients())

	// When the dated modification follows
	events := session.Apply(event.Change{
		Kind: event.Modified, ID: "m",
		Data: chat.Message{Sender: "bob", Body: "soon", CreatedAt: at(1001)},
	})

	// Then it is inserted once and judged against the session start
	req.True(events[0].(event.MessageRendered).Inserted)
	req.True(session.IsUnread("m"))
	req.Equal([]string{"bob"}, session.Recipients())
}

func TestSession_RedeliveryIsIdempotent(t *testing.T) {
	req := require.New(t)
	session := newTestSession(t, AllCapabilities())
	change := added("b", "bob", "yo", 1001)

	session.Apply(change)
	session.MarkAllRead()
	events := session.Apply(change)

	// Then the entry is updated in place, not re-marked unread, no chime
	req.Len(events, 1)
	rendered := events[0].(event.MessageRendered)
	req.False(rendered.Inserted)
	req.False(rendered.Unread)
	req.False(rendered.Chime)
	req.Equal(1, session.Timeline().Len())
	req.Equal([]string{"bob"}, session.Recipients())
}

func TestSession_Chime(t *testing.T) {
	req := require.New(t)
	session := newTestSession(t, AllCapabilities())

	events := session.Apply(added("a", "bob", "1", 1001))
	req.True(events[0].(event.MessageRendered).Chime)

	session.SetMuted(true)
	events = session.Apply(added("b", "bob", "2", 1002))
	req.False(events[0].(event.MessageRendered).Chime)

	silent := newTestSession(t, Capabilities{})
	events = silent.Apply(added("a", "bob", "1", 1001))
	req.False(events[0].(event.MessageRendered).Chime)
}

func TestSession_RecipientsDisabled(t *testing.T) {
	req := require.New(t)
	session := newTestSession(t, Capabilities{Stars: true})

	events := session.Apply(added("a", "bob", "1", 1001))

	req.Len(events, 1)
	req.Empty(session.Recipients())
}

func TestSession_ToggleStar(t *testing.T) {
	req := require.New(t)
	session := newTestSession(t, AllCapabilities())
	session.Apply(added("a", "bob", "1", 1001))

	events, err := session.ToggleStar("a")
	req.NoError(err)
	req.Equal(event.MessageStarred{Message: chat.Message{ID: "a", Sender: "bob", Body: "1", CreatedAt: at(1001)}}, events[0])

	events, err = session.ToggleStar("a")
	req.NoError(err)
	req.Equal([]event.DomainEvent{event.MessageUnstarred{ID: "a"}}, events)
	req.True(session.IsUnread("a"))

	// Unknown ids are ignored
	events, err = session.ToggleStar("ghost")
	req.NoError(err)
	req.Empty(events)

	disabled := newTestSession(t, Capabilities{})
	_, err = disabled.ToggleStar("a")
	req.ErrorIs(err, errors.ErrFeatureDisabled)
}

func TestSession_SubscriptionError(t *testing.T) {
	req := require.New(t)
	session := newTestSession(t, AllCapabilities())

	events := session.ApplyBatch(event.Batch{Err: stderrors.New("permission denied")})

	req.Len(events, 1)
	failed := events[0].(event.SubscriptionFailed)
	var subErr errors.SubscriptionError
	req.True(stderrors.As(failed.Err, &subErr))
	req.Equal("room", subErr.Collection)
}

func TestSession_ExportDisabled(t *testing.T) {
	session := newTestSession(t, Capabilities{})
	_, err := session.Export()
	require.ErrorIs(t, err, errors.ErrFeatureDisabled)
}
