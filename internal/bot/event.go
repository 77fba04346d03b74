// Package bot classifies inbound Instagram messaging events and routes them
// to the welcome flow, a domain handler, or the dialogue API.
package bot

import "time"

// EventKind is the classified shape of an inbound webhook event.
type EventKind string

const (
	EventText       EventKind = "text"
	EventQuickReply EventKind = "quick_reply"
	EventAttachment EventKind = "attachment"
	EventPostback   EventKind = "postback"
	EventReferral   EventKind = "referral"
)

// OpenThread is the referral type sent when a user opens the thread from a
// m.me or ig.me link.
const OpenThread = "OPEN_THREAD"

// InboundEvent is one messaging event from the webhook. Exactly one variant
// field group is populated, matching Kind.
type InboundEvent struct {
	Kind        EventKind
	SenderID    string
	RecipientID string
	MessageID   string
	Timestamp   time.Time

	// Text and IsEcho are set for text messages.
	Text   string
	IsEcho bool

	QuickReplyPayload string
	Attachments       []Attachment
	Postback          *Postback
	Referral          *Referral
}

// Attachment describes media the user sent.
type Attachment struct {
	Type string
	URL  string
}

// Postback is a button tap.
type Postback struct {
	Title    string
	Payload  string
	Referral *Referral
}

// Referral carries the ref token of a link or ad that opened the thread.
type Referral struct {
	Ref    string
	Source string
	Type   string
}
