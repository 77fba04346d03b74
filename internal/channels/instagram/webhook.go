package instagram

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wolfman30/igdm-router/internal/bot"
	"github.com/wolfman30/igdm-router/pkg/logging"
)

const maxWebhookBody = 1 << 20

// EventFunc receives each classified messaging event of a delivery.
type EventFunc func(ctx context.Context, ev bot.InboundEvent)

// WebhookHandler handles Instagram webhook verification and inbound messages.
type WebhookHandler struct {
	verifyToken string
	appSecret   string
	onEvent     EventFunc
	logger      *logging.Logger
}

// NewWebhookHandler creates a new webhook handler.
// onEvent is called for each parsed event after the 200 has been written.
func NewWebhookHandler(verifyToken, appSecret string, onEvent EventFunc, logger *logging.Logger) *WebhookHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookHandler{
		verifyToken: verifyToken,
		appSecret:   appSecret,
		onEvent:     onEvent,
		logger:      logger,
	}
}

// HandleVerification handles the GET webhook verification challenge from Meta.
func (h *WebhookHandler) HandleVerification(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		h.logger.Info("instagram: webhook verified")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, challenge)
		return
	}

	h.logger.Warn("instagram: webhook verification failed", "mode", mode)
	http.Error(w, "Forbidden", http.StatusForbidden)
}

// HandleInbound handles POST webhook events (incoming messages).
func (h *WebhookHandler) HandleInbound(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get("X-Hub-Signature-256")
	if !VerifySignature(h.appSecret, body, signature) {
		h.logger.Warn("instagram: invalid webhook signature", "remote_addr", r.RemoteAddr)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if event.Object != ObjectInstagram && event.Object != ObjectPage {
		http.NotFound(w, r)
		return
	}

	// Must respond 200 quickly to avoid Meta retries
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "EVENT_RECEIVED")

	if h.onEvent == nil {
		return
	}
	ctx := context.WithoutCancel(r.Context())
	for _, ev := range ParseWebhookEvent(event) {
		h.onEvent(ctx, ev)
	}
}

// ParseWebhookEvent classifies every messaging entry of a delivery.
// Entries that are none of message, postback or referral are dropped.
func ParseWebhookEvent(event WebhookEvent) []bot.InboundEvent {
	var events []bot.InboundEvent
	for _, entry := range event.Entry {
		for _, m := range entry.Messaging {
			if ev, ok := toInboundEvent(m); ok {
				events = append(events, ev)
			}
		}
	}
	return events
}

func toInboundEvent(m Messaging) (bot.InboundEvent, bool) {
	ev := bot.InboundEvent{
		SenderID:    m.Sender.ID,
		RecipientID: m.Recipient.ID,
		Timestamp:   time.UnixMilli(m.Timestamp),
	}

	switch {
	case m.Message != nil:
		msg := m.Message
		ev.MessageID = msg.MID
		switch {
		case msg.IsEcho:
			ev.Kind = bot.EventText
			ev.IsEcho = true
			ev.Text = msg.Text
		case msg.QuickReply != nil:
			ev.Kind = bot.EventQuickReply
			ev.QuickReplyPayload = msg.QuickReply.Payload
		case len(msg.Attachments) > 0:
			ev.Kind = bot.EventAttachment
			for _, a := range msg.Attachments {
				ev.Attachments = append(ev.Attachments, bot.Attachment{Type: a.Type, URL: a.Payload.URL})
			}
		case msg.Text != "":
			ev.Kind = bot.EventText
			ev.Text = msg.Text
		default:
			return bot.InboundEvent{}, false
		}

	case m.Postback != nil:
		ev.Kind = bot.EventPostback
		ev.MessageID = m.Postback.MID
		ev.Postback = &bot.Postback{
			Title:    m.Postback.Title,
			Payload:  m.Postback.Payload,
			Referral: toReferral(m.Postback.Referral),
		}

	case m.Referral != nil:
		ev.Kind = bot.EventReferral
		ev.Referral = toReferral(m.Referral)

	default:
		return bot.InboundEvent{}, false
	}
	return ev, true
}

func toReferral(r *Referral) *bot.Referral {
	if r == nil {
		return nil
	}
	return &bot.Referral{Ref: r.Ref, Source: r.Source, Type: r.Type}
}

// VerifySignature verifies the X-Hub-Signature-256 header.
func VerifySignature(appSecret string, body []byte, signature string) bool {
	if appSecret == "" || signature == "" {
		return false
	}

	// Signature format: "sha256=<hex>"
	const prefix = "sha256="
	if len(signature) <= len(prefix) || signature[:len(prefix)] != prefix {
		return false
	}
	sigHex := signature[len(prefix):]

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(sigHex))
}
