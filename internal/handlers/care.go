package handlers

import (
	"context"
	"time"

	"github.com/wolfman30/igdm-router/internal/bot"
	"github.com/wolfman30/igdm-router/internal/i18n"
	"github.com/wolfman30/igdm-router/internal/messenger"
	"github.com/wolfman30/igdm-router/internal/session"
)

// agentHandoffDelay spaces the hand-off notice from the topic confirmation.
const agentHandoffDelay = 5 * time.Second

var careTopics = map[string]string{
	"CARE_ORDER":   "care.order",
	"CARE_BILLING": "care.billing",
	"CARE_OTHER":   "care.other",
}

// Care triages support requests and hands the thread to a human agent.
type Care struct {
	catalog *i18n.Catalog
}

func (h *Care) HandlePayload(_ context.Context, user *session.Session, payload string) (bot.Reply, error) {
	c := h.catalog
	if payload == bot.PayloadCareHelp {
		return bot.Single(messenger.QuickReply(c.T("care.prompt", "userName", user.Name), []messenger.Option{
			{Title: c.T("care.order"), Payload: "CARE_ORDER"},
			{Title: c.T("care.billing"), Payload: "CARE_BILLING"},
			{Title: c.T("care.other"), Payload: "CARE_OTHER"},
		})), nil
	}

	key, ok := careTopics[payload]
	if !ok {
		return bot.Single(messenger.Text(c.T("care.unknown"))), nil
	}
	return bot.Batch(
		messenger.Text(c.T("care.issue", "topic", c.T(key))),
		messenger.Text(c.T("care.end")).WithDelay(agentHandoffDelay),
	), nil
}
