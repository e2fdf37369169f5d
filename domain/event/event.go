// Package event defines what flows in and out of a chat session:
// raw changes reported by the remote log, and the events the session
// publishes to the presentation layer.
package event

import (
	"chat-widget/domain/chat"
)

type ChangeKind string

const (
	Added    ChangeKind = "added"
	Modified ChangeKind = "modified"
	Removed  ChangeKind = "removed"
)

// Change is one raw change of the remote log. Data.CreatedAt may be nil
// while the server timestamp is pending.
type Change struct {
	Kind ChangeKind
	ID   string
	Data chat.Message
}

// Batch is one delivery of the subscription. A batch carrying Err is the
// last one, the channel is closed right after.
type Batch struct {
	Changes []Change
	Err     error
}

type DomainEvent interface {
	Name() string
}

// MessageRendered is published for every accepted change.
type MessageRendered struct {
	Message  chat.Message
	Inserted bool // false when an existing entry was updated in place
	Unread   bool
	Starred  bool
	Chime    bool
}

func (MessageRendered) Name() string { return "MessageRendered" }

// MessageStarred carries a snapshot for the starred view.
type MessageStarred struct {
	Message chat.Message
}

func (MessageStarred) Name() string { return "MessageStarred" }

type MessageUnstarred struct {
	ID string
}

func (MessageUnstarred) Name() string { return "MessageUnstarred" }

type AllRead struct {
	IDs []string
}

func (AllRead) Name() string { return "AllRead" }

type RecipientsUpdated struct {
	Recipients []string
}

func (RecipientsUpdated) Name() string { return "RecipientsUpdated" }

type SubscriptionFailed struct {
	Err error
}

func (SubscriptionFailed) Name() string { return "SubscriptionFailed" }

type MessageSent struct {
	ID string
}

func (MessageSent) Name() string { return "MessageSent" }

type SendFailed struct {
	Err error
	// Prompt is shown to the user, the draft is kept.
	Prompt string
}

func (SendFailed) Name() string { return "SendFailed" }

// Exported is published after the export document has been written.
type Exported struct {
	Path  string
	Lines int
}

func (Exported) Name() string { return "Exported" }
