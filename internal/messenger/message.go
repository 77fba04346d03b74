// Package messenger builds the message objects accepted by the Messenger
// Platform send API (Instagram and Page messaging share the same shapes).
package messenger

import "time"

// Kind names the rendered primitive a Message carries.
type Kind string

const (
	KindText            Kind = "text"
	KindQuickReply      Kind = "quick_reply"
	KindImage           Kind = "image"
	KindGenericTemplate Kind = "generic_template"
	KindCarousel        Kind = "carousel"
)

// Message is one outbound message. Delay never serializes; the delivery
// sequencer reads it to schedule the send and then strips it.
type Message struct {
	Text         string           `json:"text,omitempty"`
	QuickReplies []QuickReplyItem `json:"quick_replies,omitempty"`
	Attachment   *Attachment      `json:"attachment,omitempty"`

	Delay *time.Duration `json:"-"`

	kind Kind
}

// QuickReplyItem is a single quick-reply chip under a text message.
type QuickReplyItem struct {
	ContentType string `json:"content_type"`
	Title       string `json:"title"`
	Payload     string `json:"payload"`
}

// Attachment is an image or template attachment.
type Attachment struct {
	Type    string            `json:"type"`
	Payload AttachmentPayload `json:"payload"`
}

// AttachmentPayload holds either a media url or a template body.
type AttachmentPayload struct {
	URL          string    `json:"url,omitempty"`
	TemplateType string    `json:"template_type,omitempty"`
	Elements     []Element `json:"elements,omitempty"`
}

// Element is one card of a generic template.
type Element struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
	Buttons  []Button `json:"buttons,omitempty"`
}

// Button is a template button.
type Button struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Payload string `json:"payload,omitempty"`
	URL     string `json:"url,omitempty"`
}

// Option is the builder input for a quick reply.
type Option struct {
	Title   string
	Payload string
}

// Kind reports which primitive the message renders as.
func (m Message) Kind() Kind {
	if m.kind != "" {
		return m.kind
	}
	switch {
	case m.Attachment != nil && m.Attachment.Type == "image":
		return KindImage
	case m.Attachment != nil && len(m.Attachment.Payload.Elements) > 1:
		return KindCarousel
	case m.Attachment != nil:
		return KindGenericTemplate
	case m.QuickReplies != nil:
		return KindQuickReply
	default:
		return KindText
	}
}

// WithDelay returns a copy of m scheduled d after delivery starts.
func (m Message) WithDelay(d time.Duration) Message {
	m.Delay = &d
	return m
}

// WithoutDelay returns a copy of m with the delay removed.
func (m Message) WithoutDelay() Message {
	m.Delay = nil
	return m
}
