package conversation

import "strings"

// State describes the confirmation position of a conversation.
type State int

const (
	// NoPendingEntry means nothing is awaiting confirmation.
	NoPendingEntry State = iota
	// PendingConfirmation means a draft is waiting for an affirmative reply.
	PendingConfirmation
)

func (s State) String() string {
	if s == PendingConfirmation {
		return "pending_confirmation"
	}
	return "no_pending_entry"
}

// State derives the confirmation state from the stored entry. TTL expiry of
// the entry is an implicit reset to NoPendingEntry.
func (e *Entry) State() State {
	if e != nil && e.PendingDraft != nil {
		return PendingConfirmation
	}
	return NoPendingEntry
}

// IsAffirmative reports whether the inbound text is a commit signal.
func IsAffirmative(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "y", "yes":
		return true
	}
	return false
}
