package projection

import "github.com/samber/lo"

// Recipients is the insertion-ordered set of senders seen during the session,
// used to offer a target for outgoing messages. It never shrinks.
type Recipients struct {
	identities []string
}

func NewRecipients() *Recipients {
	return &Recipients{}
}

// Observe registers sender unless it is the local user, anonymous, or already
// known. It reports whether the registry changed.
func (r *Recipients) Observe(sender, localUser string) bool {
	if sender == "" || sender == localUser || lo.Contains(r.identities, sender) {
		return false
	}
	r.identities = append(r.identities, sender)
	return true
}

func (r *Recipients) All() []string {
	return append([]string(nil), r.identities...)
}
