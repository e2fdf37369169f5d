package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newOverlay(start int64, ids ...string) (*Overlay, *Timeline) {
	timeline := NewTimeline()
	for _, id := range ids {
		timeline.Upsert(message(id, "someone", "body", start))
	}
	return NewOverlay(NewSessionClock(time.Unix(start, 0)), timeline), timeline
}

func TestSessionClock_StrictBoundary(t *testing.T) {
	req := require.New(t)
	clock := NewSessionClock(time.Unix(1000, 999_000_000))

	req.Equal(int64(1000), clock.StartedAt())
	req.False(clock.IsPostStart(999))
	req.False(clock.IsPostStart(1000))
	req.True(clock.IsPostStart(1001))
}

func TestOverlay_OnMessageInserted(t *testing.T) {
	req := require.New(t)
	overlay, _ := newOverlay(1000, "old", "same", "new")

	req.False(overlay.OnMessageInserted("old", 999))
	req.False(overlay.OnMessageInserted("same", 1000))
	req.True(overlay.OnMessageInserted("new", 1001))

	req.False(overlay.IsUnread("old"))
	req.False(overlay.IsUnread("same"))
	req.True(overlay.IsUnread("new"))
	req.Equal(1, overlay.UnreadCount())
}

func TestOverlay_MarkAllRead_Idempotent(t *testing.T) {
	req := require.New(t)
	overlay, _ := newOverlay(1000, "a", "b")
	overlay.OnMessageInserted("a", 1001)
	overlay.OnMessageInserted("b", 1002)
	overlay.ToggleStar("a")

	cleared := overlay.MarkAllRead()
	req.ElementsMatch([]string{"a", "b"}, cleared)
	req.Zero(overlay.UnreadCount())

	// Then a second call is a no-op and stars are untouched
	req.Empty(overlay.MarkAllRead())
	req.True(overlay.IsStarred("a"))
}

func TestOverlay_ToggleStar_IsItsOwnInverse(t *testing.T) {
	req := require.New(t)
	overlay, _ := newOverlay(1000, "a", "b")
	overlay.OnMessageInserted("a", 1001)
	overlay.ToggleStar("b")
	before := overlay.Starred()

	starred, ok := overlay.ToggleStar("a")
	req.True(ok)
	req.True(starred)
	req.Equal([]string{"b", "a"}, overlay.Starred())

	starred, ok = overlay.ToggleStar("a")
	req.True(ok)
	req.False(starred)

	req.Equal(before, overlay.Starred())
	req.True(overlay.IsUnread("a"))
}

func TestOverlay_ToggleStar_UnknownID(t *testing.T) {
	req := require.New(t)
	overlay, _ := newOverlay(1000, "a")

	starred, ok := overlay.ToggleStar("ghost")

	req.False(ok)
	req.False(starred)
	req.Empty(overlay.Starred())
}
