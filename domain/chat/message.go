// Package chat contains core concepts of the chat widget.
// Messages are immutable once the log has assigned them an id and a timestamp.
// No runtime, network, or UI logic should be added here.
package chat

import (
	"fmt"
	"regexp"
	"time"
)

// AnonymousLabel is displayed in place of an empty sender.
const AnonymousLabel = "(匿名)"

// DefaultCollection is used by variants that do not require a collection name.
const DefaultCollection = "messages"

// EmptySenderPrompt is shown when a message is submitted without a name.
const EmptySenderPrompt = "なまえを入力してください。"

// EmptyBodyPrompt is shown when a variant rejects empty messages.
const EmptyBodyPrompt = "メッセージを入力してください。"

// Message is one entry of the remote log.
type Message struct {
	ID        string // assigned by the log on first successful append
	Sender    string
	Recipient string // empty means broadcast
	Body      string
	CreatedAt *time.Time // nil until the server timestamp is committed
}

// Record is what the outbox appends. The log assigns the id and the timestamp.
type Record struct {
	Sender    string
	Recipient string
	Body      string
}

// HasTimestamp reports whether the server has committed CreatedAt.
func (m Message) HasTimestamp() bool {
	return m.CreatedAt != nil
}

// Seconds returns CreatedAt truncated to whole seconds, 0 when absent.
func (m Message) Seconds() int64 {
	if m.CreatedAt == nil {
		return 0
	}
	return m.CreatedAt.Unix()
}

// Same reports whether both messages carry the same content and timestamp.
func (m Message) Same(other Message) bool {
	if m.ID != other.ID || m.Sender != other.Sender || m.Recipient != other.Recipient || m.Body != other.Body {
		return false
	}
	if m.CreatedAt == nil || other.CreatedAt == nil {
		return m.CreatedAt == other.CreatedAt
	}
	return m.CreatedAt.Equal(*other.CreatedAt)
}

func (m Message) IsBroadcast() bool {
	return m.Recipient == ""
}

// SenderLabel is the sender (or the anonymous placeholder), followed by
// " => recipient" for targeted messages.
func (m Message) SenderLabel() string {
	label := m.Sender
	if label == "" {
		label = AnonymousLabel
	}
	if m.Recipient != "" {
		label += " => " + m.Recipient
	}
	return label
}

var weekdays = [...]string{"日", "月", "火", "水", "木", "金", "土"}

// FormatTime renders t as "2006/1/2(月) 15:04:05" with a Japanese weekday.
// Hours are not padded, minutes and seconds are.
func FormatTime(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d(%s) %d:%02d:%02d",
		t.Year(), int(t.Month()), t.Day(),
		weekdays[t.Weekday()],
		t.Hour(), t.Minute(), t.Second(),
	)
}

var linkPattern = regexp.MustCompile(`(?i)https?://\S+`)

// Links returns every http(s) URL found in body, in order of appearance.
func Links(body string) []string {
	return linkPattern.FindAllString(body, -1)
}

// RaiseHandBody is the fixed notification sent by the raise-hand gesture.
func RaiseHandBody(sender string) string {
	return sender + "さんが手を挙げました。"
}
