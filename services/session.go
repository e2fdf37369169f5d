package services

import (
	"chat-widget/domain/chat"
	"chat-widget/domain/event"
	"chat-widget/errors"
	"chat-widget/projection"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Capabilities selects the optional features of a widget variant.
type Capabilities struct {
	Stars      bool
	Recipients bool
	Sound      bool
	Download   bool
	RaiseHand  bool
}

// AllCapabilities is the fully featured widget.
func AllCapabilities() Capabilities {
	return Capabilities{Stars: true, Recipients: true, Sound: true, Download: true, RaiseHand: true}
}

type SessionOptions struct {
	Collection string
	// AllowDefaultCollection falls back to chat.DefaultCollection instead of failing.
	AllowDefaultCollection bool
	LocalUser              string
	Muted                  bool
	Capabilities           Capabilities
	// Location is used to format export timestamps, time.Local when nil.
	Location *time.Location
}

// Session owns the local view of one collection: timeline, overlays and
// recipient registry. It is not safe for concurrent use, a single goroutine
// applies every change and gesture.
type Session struct {
	log        *slog.Logger
	collection string
	caps       Capabilities
	location   *time.Location
	localUser  string
	muted      bool
	clock      projection.SessionClock
	timeline   *projection.Timeline
	overlay    *projection.Overlay
	recipients *projection.Recipients
}

func NewSession(log *slog.Logger, opts SessionOptions, now time.Time) (*Session, error) {
	collection := opts.Collection
	if collection == "" {
		if !opts.AllowDefaultCollection {
			return nil, errors.ConfigurationError{Err: errors.ErrMissingCollection}
		}
		collection = chat.DefaultCollection
	}
	location := opts.Location
	if location == nil {
		location = time.Local
	}
	clock := projection.NewSessionClock(now)
	timeline := projection.NewTimeline()
	return &Session{
		log:        log,
		collection: collection,
		caps:       opts.Capabilities,
		location:   location,
		localUser:  opts.LocalUser,
		muted:      opts.Muted,
		clock:      clock,
		timeline:   timeline,
		overlay:    projection.NewOverlay(clock, timeline),
		recipients: projection.NewRecipients(),
	}, nil
}

func (s *Session) Collection() string { return s.collection }
func (s *Session) Capabilities() Capabilities { return s.caps }
func (s *Session) StartedAt() int64 { return s.clock.StartedAt() }
func (s *Session) LocalUser() string { return s.localUser }
func (s *Session) Muted() bool { return s.muted }
func (s *Session) SetLocalUser(user string) { s.localUser = user }
func (s *Session) SetMuted(muted bool) { s.muted = muted }
func (s *Session) Timeline() *projection.Timeline { return s.timeline }

// ApplyBatch applies one subscription delivery and returns what the
// presentation layer must be told, in order.
func (s *Session) ApplyBatch(batch event.Batch) []event.DomainEvent {
	if batch.Err != nil {
		err := errors.SubscriptionError{Collection: s.collection, Err: batch.Err}
		s.log.Error("Subscription failed", "collection", s.collection, "error", batch.Err)
		return []event.DomainEvent{event.SubscriptionFailed{Err: err}}
	}
	var events []event.DomainEvent
	for _, change := range batch.Changes {
		events = append(events, s.Apply(change)...)
	}
	return events
}

// Apply runs one raw change through classification, the timeline, the
// overlays and the recipient registry.
func (s *Session) Apply(change event.Change) []event.DomainEvent {
	if !projection.Accept(change) {
		s.log.Debug("Change discarded", "kind", change.Kind, "id", change.ID)
		return nil
	}
	message := change.Data
	message.ID = change.ID
	// An undated record has no place in the view nor an unread verdict yet
	if !message.HasTimestamp() {
		s.log.Debug("Undated change discarded", "kind", change.Kind, "id", change.ID)
		return nil
	}

	inserted := s.timeline.Upsert(message)
	if inserted {
		s.overlay.OnMessageInserted(message.ID, message.Seconds())
	}

	events := []event.DomainEvent{event.MessageRendered{
		Message:  message,
		Inserted: inserted,
		Unread:   s.overlay.IsUnread(message.ID),
		Starred:  s.overlay.IsStarred(message.ID),
		Chime:    inserted && s.caps.Sound && !s.muted,
	}}

	if inserted && s.caps.Recipients && s.recipients.Observe(message.Sender, s.localUser) {
		events = append(events, event.RecipientsUpdated{Recipients: s.recipients.All()})
	}
	return events
}

// ToggleStar stars or unstars a rendered message. Unknown ids are ignored.
func (s *Session) ToggleStar(id string) ([]event.DomainEvent, error) {
	if !s.caps.Stars {
		return nil, errors.ErrFeatureDisabled
	}
	starred, ok := s.overlay.ToggleStar(id)
	if !ok {
		s.log.Debug("Star toggled on unknown message", "id", id)
		return nil, nil
	}
	if !starred {
		return []event.DomainEvent{event.MessageUnstarred{ID: id}}, nil
	}
	message, _ := s.timeline.Get(id)
	return []event.DomainEvent{event.MessageStarred{Message: message}}, nil
}

func (s *Session) MarkAllRead() []event.DomainEvent {
	return []event.DomainEvent{event.AllRead{IDs: s.overlay.MarkAllRead()}}
}

func (s *Session) IsUnread(id string) bool { return s.overlay.IsUnread(id) }
func (s *Session) IsStarred(id string) bool { return s.overlay.IsStarred(id) }
func (s *Session) Recipients() []string { return s.recipients.All() }

func (s *Session) View() projection.ViewModel {
	return projection.Project(s.timeline, s.overlay, s.recipients)
}

// Document is the plain-text export of the timeline.
type Document struct {
	Name    string
	Content string
}

// Lines counts the exported messages.
func (d Document) Lines() int {
	if d.Content == "" {
		return 0
	}
	return strings.Count(d.Content, "\n") + 1
}

func (s *Session) Export() (Document, error) {
	if !s.caps.Download {
		return Document{}, errors.ErrFeatureDisabled
	}
	content := s.timeline.Export(func(t time.Time) string {
		return chat.FormatTime(t.In(s.location))
	})
	return Document{Name: ExportName(s.collection), Content: content}, nil
}

func ExportName(collection string) string {
	return fmt.Sprintf("%s.txt", collection)
}
