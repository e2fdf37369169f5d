package projection

import (
	"chat-widget/domain/chat"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Timeline is the ordered, deduplicated local projection of the log.
// Front to back is newest accepted first. Order is the order in which
// changes were accepted, there is no re-sort on CreatedAt.
type Timeline struct {
	order []string
	byID  map[string]chat.Message
}

func NewTimeline() *Timeline {
	return &Timeline{byID: make(map[string]chat.Message)}
}

// Upsert inserts an unknown message at the front, or replaces a known one
// in place. It reports whether an insertion happened.
func (t *Timeline) Upsert(message chat.Message) bool {
	if _, ok := t.byID[message.ID]; ok {
		t.byID[message.ID] = message
		return false
	}
	t.byID[message.ID] = message
	t.order = append([]string{message.ID}, t.order...)
	return true
}

func (t *Timeline) Get(id string) (chat.Message, bool) {
	m, ok := t.byID[id]
	return m, ok
}

func (t *Timeline) Has(id string) bool {
	_, ok := t.byID[id]
	return ok
}

func (t *Timeline) Len() int {
	return len(t.order)
}

// All returns a copy of the messages, newest accepted first.
func (t *Timeline) All() []chat.Message {
	return lo.Map(t.order, func(id string, _ int) chat.Message {
		return t.byID[id]
	})
}

// Export renders one "time\tsender\tbody" line per message, in timeline order.
func (t *Timeline) Export(format func(time.Time) string) string {
	lines := lo.Map(t.All(), func(m chat.Message, _ int) string {
		var at string
		if m.CreatedAt != nil {
			at = format(*m.CreatedAt)
		}
		return strings.Join([]string{at, m.SenderLabel(), m.Body}, "\t")
	})
	return strings.Join(lines, "\n")
}
