package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wolfman30/igdm-router/internal/dialogue"
	"github.com/wolfman30/igdm-router/internal/i18n"
	"github.com/wolfman30/igdm-router/internal/messenger"
	"github.com/wolfman30/igdm-router/internal/observability/metrics"
	"github.com/wolfman30/igdm-router/internal/session"
	"github.com/wolfman30/igdm-router/pkg/logging"
)

// Payload tokens the router and its handlers understand.
const (
	PayloadGetStarted = "GET_STARTED"
	PayloadDevDocs    = "DEVDOCS"
	PayloadGitHub     = "GITHUB"
	PayloadCuration   = "CURATION"
	PayloadCareHelp   = "CARE_HELP"
)

const genericErrorFormat = "An error has occurred: '%v'. We have been notified and will fix the issue shortly!"

var startTriggers = []string{"start over", "get started", "hi"}

// ErrNoResponder is returned when a dialogue-bound event arrives and the
// router was built without a responder.
var ErrNoResponder = errors.New("bot: no dialogue responder configured")

// Responder is the dialogue API pathway.
type Responder interface {
	Respond(ctx context.Context, conversationID string, action dialogue.Action) ([]messenger.Message, error)
}

// PayloadHandler handles one family of payload tokens.
type PayloadHandler interface {
	HandlePayload(ctx context.Context, user *session.Session, payload string) (Reply, error)
}

// PayloadHandlerFunc adapts a function to PayloadHandler.
type PayloadHandlerFunc func(ctx context.Context, user *session.Session, payload string) (Reply, error)

func (f PayloadHandlerFunc) HandlePayload(ctx context.Context, user *session.Session, payload string) (Reply, error) {
	return f(ctx, user, payload)
}

// Handlers are the domain handlers. A nil handler lets its tokens fall
// through to the dialogue API.
type Handlers struct {
	Curation PayloadHandler
	Care     PayloadHandler
	Order    PayloadHandler
	Survey   PayloadHandler
}

type route struct {
	family string
	match  func(payload string) bool
	handle func(ctx context.Context, user *session.Session, payload string) (Reply, error)
}

// Router turns one inbound event into a Reply. It keeps no state between
// events except the session it is handed; callers must not route two events
// for the same session concurrently.
type Router struct {
	responder Responder
	catalog   *i18n.Catalog
	routes    []route
	metrics   *metrics.BotMetrics
	logger    *logging.Logger
}

// NewRouter builds a router. catalog, metrics and logger may be nil.
func NewRouter(responder Responder, handlers Handlers, catalog *i18n.Catalog, m *metrics.BotMetrics, logger *logging.Logger) *Router {
	if logger == nil {
		logger = logging.Default()
	}
	if catalog == nil {
		catalog = i18n.New("")
	}
	r := &Router{
		responder: responder,
		catalog:   catalog,
		metrics:   m,
		logger:    logger,
	}

	// Order matters: the welcome family wins over curation, curation over
	// care, and so on.
	r.routes = append(r.routes, route{
		family: "welcome",
		match: func(p string) bool {
			return p == PayloadGetStarted || p == PayloadDevDocs || p == PayloadGitHub
		},
		handle: func(_ context.Context, user *session.Session, _ string) (Reply, error) {
			return r.welcome(user), nil
		},
	})
	r.routes = appendHandler(r.routes, "curation", handlers.Curation, "CURATION", "COUPON")
	r.routes = appendHandler(r.routes, "care", handlers.Care, "CARE")
	r.routes = appendHandler(r.routes, "order", handlers.Order, "ORDER")
	r.routes = appendHandler(r.routes, "survey", handlers.Survey, "CSAT")
	return r
}

func appendHandler(routes []route, family string, h PayloadHandler, markers ...string) []route {
	if h == nil {
		return routes
	}
	return append(routes, route{
		family: family,
		match: func(p string) bool {
			for _, m := range markers {
				if strings.Contains(p, m) {
					return true
				}
			}
			return false
		},
		handle: h.HandlePayload,
	})
}

// Route classifies ev and produces the reply for user. Handler and dialogue
// failures, panics included, become a single generic error text; the reply
// is empty only for echoes and unclassifiable events.
func (r *Router) Route(ctx context.Context, ev InboundEvent, user *session.Session) (reply Reply) {
	if user == nil {
		user = session.New(ev.SenderID, "")
	}
	family := "none"

	defer func() {
		if rec := recover(); rec != nil {
			reply = r.failure(ev, family, fmt.Errorf("panic: %v", rec))
		}
	}()

	reply, family, err := r.route(ctx, ev, user)
	if err != nil {
		return r.failure(ev, family, err)
	}
	if !reply.IsEmpty() {
		r.metrics.ObserveReply(family, "ok")
	}
	return reply
}

func (r *Router) route(ctx context.Context, ev InboundEvent, user *session.Session) (Reply, string, error) {
	switch {
	case ev.IsEcho:
		return Reply{}, "echo", nil

	case ev.Kind == EventQuickReply:
		return r.dispatch(ctx, ev, user, ev.QuickReplyPayload)

	case ev.Kind == EventAttachment:
		r.logger.Info("bot: received attachment", "sender_id", ev.SenderID, "attachments", len(ev.Attachments))
		return Single(r.attachmentPrompt()), "attachment", nil

	case ev.Kind == EventText:
		return r.handleText(ctx, ev, user)

	case ev.Kind == EventPostback && ev.Postback != nil:
		payload := ev.Postback.Payload
		if ref := ev.Postback.Referral; ref != nil && ref.Type == OpenThread {
			payload = ref.Ref
		}
		return r.dispatch(ctx, ev, user, payload)

	case ev.Kind == EventReferral && ev.Referral != nil:
		return r.dispatch(ctx, ev, user, ev.Referral.Ref)
	}

	r.logger.Debug("bot: unclassified event", "sender_id", ev.SenderID, "kind", ev.Kind)
	return Reply{}, "none", nil
}

func (r *Router) handleText(ctx context.Context, ev InboundEvent, user *session.Session) (Reply, string, error) {
	text := strings.ToLower(strings.TrimSpace(ev.Text))
	r.logger.Info("bot: received text", "sender_id", ev.SenderID, "user_name", user.Name, "text", text)

	action := dialogue.TextAction(text)
	if isStartTrigger(text) {
		user.StartConversation()
		action = dialogue.LaunchAction()
		r.logger.Info("bot: conversation started", "sender_id", ev.SenderID, "conversation_id", user.ConversationID)
	}
	reply, err := r.respond(ctx, user, action)
	return reply, "dialogue", err
}

func isStartTrigger(text string) bool {
	for _, trigger := range startTriggers {
		if strings.Contains(text, trigger) {
			return true
		}
	}
	return false
}

func (r *Router) dispatch(ctx context.Context, ev InboundEvent, user *session.Session, payload string) (Reply, string, error) {
	r.logger.Info("bot: received payload", "sender_id", ev.SenderID, "kind", ev.Kind, "payload", payload)

	for _, rt := range r.routes {
		if rt.match(payload) {
			reply, err := rt.handle(ctx, user, payload)
			return reply, rt.family, err
		}
	}
	reply, err := r.respond(ctx, user, dialogue.IntentAction(payload))
	return reply, "dialogue", err
}

func (r *Router) respond(ctx context.Context, user *session.Session, action dialogue.Action) (Reply, error) {
	if r.responder == nil {
		return Reply{}, ErrNoResponder
	}
	if user.ConversationID == "" {
		user.StartConversation()
	}
	msgs, err := r.responder.Respond(ctx, user.ConversationID, action)
	if err != nil {
		return Reply{}, fmt.Errorf("bot: dialogue %s: %w", action.Type, err)
	}
	return replyOf(msgs), nil
}

func (r *Router) welcome(user *session.Session) Reply {
	c := r.catalog
	return Batch(
		messenger.Text(c.T("get_started.welcome", "userName", user.Name)),
		messenger.Text(c.T("get_started.guidance")),
		messenger.QuickReply(c.T("get_started.help"), []messenger.Option{
			{Title: c.T("menu.suggestion"), Payload: PayloadCuration},
			{Title: c.T("menu.help"), Payload: PayloadCareHelp},
		}),
	)
}

func (r *Router) attachmentPrompt() messenger.Message {
	c := r.catalog
	return messenger.QuickReply(c.T("fallback.attachment"), []messenger.Option{
		{Title: c.T("menu.help"), Payload: PayloadCareHelp},
		{Title: c.T("menu.start_over"), Payload: PayloadGetStarted},
	})
}

func (r *Router) failure(ev InboundEvent, family string, err error) Reply {
	r.logger.Error("bot: route failed",
		"sender_id", ev.SenderID,
		"kind", ev.Kind,
		"family", family,
		"error", err,
	)
	r.metrics.ObserveReply(family, "error")
	return Single(messenger.Text(fmt.Sprintf(genericErrorFormat, err)))
}
