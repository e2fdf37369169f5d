package projection

import (
	"chat-widget/domain/event"

	"github.com/samber/lo"
)

// Accept keeps inserts that already carry the server timestamp and every
// modification. An insert without timestamp is a pending local write: the
// modification that follows it is the one materialized, for the writer and
// for every other reader alike. Removals never happen on an append-only log.
func Accept(change event.Change) bool {
	switch change.Kind {
	case event.Added:
		return change.Data.HasTimestamp()
	case event.Modified:
		return true
	default:
		return false
	}
}

// Classify filters a batch down to its accepted changes, keeping order.
func Classify(changes []event.Change) []event.Change {
	return lo.Filter(changes, func(c event.Change, _ int) bool {
		return Accept(c)
	})
}
