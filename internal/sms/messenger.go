package sms

import "context"

// Messenger delivers a composed reply back to the end user's handset.
type Messenger interface {
	SendReply(ctx context.Context, to, body string) error
}

// EmptyTwiML is the no-op acknowledgement envelope the transport expects
// from a webhook. The actual reply goes out through the Messenger.
func EmptyTwiML() string {
	return `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`
}
