package handlers

import (
	"context"

	"github.com/wolfman30/igdm-router/internal/bot"
	"github.com/wolfman30/igdm-router/internal/i18n"
	"github.com/wolfman30/igdm-router/internal/messenger"
	"github.com/wolfman30/igdm-router/internal/session"
)

var csatRatings = []messenger.Option{
	{Title: "\U0001F600", Payload: "CSAT_GOOD"},
	{Title: "\U0001F642", Payload: "CSAT_AVERAGE"},
	{Title: "\U0001F641", Payload: "CSAT_BAD"},
}

// Survey collects a customer satisfaction rating. Any CSAT token that is not
// a rating asks for one.
type Survey struct {
	catalog *i18n.Catalog
}

func (h *Survey) HandlePayload(_ context.Context, _ *session.Session, payload string) (bot.Reply, error) {
	c := h.catalog
	for _, r := range csatRatings {
		if payload == r.Payload {
			return bot.Batch(
				messenger.Text(c.T("survey.thanks")),
				messenger.Text(c.T("survey.suggestion")),
			), nil
		}
	}
	return bot.Single(messenger.QuickReply(c.T("survey.prompt"), csatRatings)), nil
}
