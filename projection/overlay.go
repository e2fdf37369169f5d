package projection

import "github.com/samber/lo"

// Lookup tells whether a message id is part of the local view.
type Lookup interface {
	Has(id string) bool
}

// Overlay holds the session-local unread and starred sets.
// Both only ever reference ids known to the Lookup.
type Overlay struct {
	clock   SessionClock
	lookup  Lookup
	unread  map[string]struct{}
	starred []string // star order, used by the starred view
}

func NewOverlay(clock SessionClock, lookup Lookup) *Overlay {
	return &Overlay{
		clock:  clock,
		lookup: lookup,
		unread: make(map[string]struct{}),
	}
}

// OnMessageInserted marks id unread when it was created after session start.
// It must be called once, at insertion; updates never re-evaluate.
func (o *Overlay) OnMessageInserted(id string, createdAtSeconds int64) bool {
	if !o.clock.IsPostStart(createdAtSeconds) {
		return false
	}
	o.unread[id] = struct{}{}
	return true
}

// MarkAllRead empties the unread set and returns the ids it held.
func (o *Overlay) MarkAllRead() []string {
	ids := lo.Keys(o.unread)
	clear(o.unread)
	return ids
}

// ToggleStar flips the star of id. ok is false, and nothing changes, when id
// is not in the view.
func (o *Overlay) ToggleStar(id string) (starred bool, ok bool) {
	if !o.lookup.Has(id) {
		return false, false
	}
	if o.IsStarred(id) {
		o.starred = lo.Without(o.starred, id)
		return false, true
	}
	o.starred = append(o.starred, id)
	return true, true
}

func (o *Overlay) IsUnread(id string) bool {
	_, ok := o.unread[id]
	return ok
}

func (o *Overlay) IsStarred(id string) bool {
	return lo.Contains(o.starred, id)
}

func (o *Overlay) UnreadCount() int {
	return len(o.unread)
}

// Starred returns starred ids in the order they were starred.
func (o *Overlay) Starred() []string {
	return append([]string(nil), o.starred...)
}
