// Package projection builds the local view of a remote message log.
// Handles classification, ordering, deduplication and session overlays.
// Does not emit events or interact with UI directly.
package projection

import "time"

// SessionClock remembers when the session started, truncated to seconds.
type SessionClock struct {
	startedAt int64
}

func NewSessionClock(now time.Time) SessionClock {
	return SessionClock{startedAt: now.Unix()}
}

func (c SessionClock) StartedAt() int64 {
	return c.startedAt
}

// IsPostStart is strict: a message created in the very second the session
// started is considered pre-existing.
func (c SessionClock) IsPostStart(seconds int64) bool {
	return seconds > c.startedAt
}
