package projection

import (
	"chat-widget/domain/chat"

	"github.com/samber/lo"
)

// Item is one rendered message with its overlay flags.
type Item struct {
	Message chat.Message
	Unread  bool
	Starred bool
	Links   []string
}

// ViewModel is everything a presentation layer needs to draw the widget.
type ViewModel struct {
	Messages   []Item // newest first
	Starred    []Item // in star order
	Recipients []string
	Unread     int
}

// Project is a pure function of the session state.
func Project(timeline *Timeline, overlay *Overlay, recipients *Recipients) ViewModel {
	toItem := func(m chat.Message) Item {
		return Item{
			Message: m,
			Unread:  overlay.IsUnread(m.ID),
			Starred: overlay.IsStarred(m.ID),
			Links:   chat.Links(m.Body),
		}
	}
	starred := lo.FilterMap(overlay.Starred(), func(id string, _ int) (Item, bool) {
		m, ok := timeline.Get(id)
		if !ok {
			return Item{}, false
		}
		return toItem(m), true
	})
	return ViewModel{
		Messages:   lo.Map(timeline.All(), func(m chat.Message, _ int) Item { return toItem(m) }),
		Starred:    starred,
		Recipients: recipients.All(),
		Unread:     overlay.UnreadCount(),
	}
}
