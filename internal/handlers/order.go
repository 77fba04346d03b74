package handlers

import (
	"context"
	"net/url"
	"strings"

	"github.com/wolfman30/igdm-router/internal/bot"
	"github.com/wolfman30/igdm-router/internal/i18n"
	"github.com/wolfman30/igdm-router/internal/messenger"
	"github.com/wolfman30/igdm-router/internal/session"
)

const (
	orderTrack  = "TRACK_ORDER"
	orderNumber = "ORDER_NUMBER"
	orderLink   = "LINK_ORDER"
	orderStatus = "ORDER_STATUS_"
)

// Order answers order tracking and account linking requests.
type Order struct {
	catalog *i18n.Catalog
	shopURL string
}

func (h *Order) HandlePayload(_ context.Context, _ *session.Session, payload string) (bot.Reply, error) {
	c := h.catalog
	switch {
	case payload == orderTrack:
		return bot.Single(messenger.QuickReply(c.T("order.help"), []messenger.Option{
			{Title: c.T("menu.order"), Payload: orderNumber},
			{Title: c.T("order.account"), Payload: orderLink},
		})), nil

	case payload == orderNumber:
		return bot.Single(messenger.Text(c.T("order.prompt"))), nil

	case payload == orderLink:
		return bot.Single(messenger.GenericTemplate(h.shopURL+"/images/account.jpg", c.T("order.account"), "", []messenger.Button{
			messenger.URLButton(c.T("order.account"), h.shopURL+"/account"),
		})), nil

	case strings.HasPrefix(payload, orderStatus) && len(payload) > len(orderStatus):
		number := strings.TrimPrefix(payload, orderStatus)
		return bot.Batch(
			messenger.Text(c.T("order.status", "number", number)),
			messenger.GenericTemplate(h.shopURL+"/images/shipping.jpg", "#"+number, "", []messenger.Button{
				messenger.URLButton(c.T("order.track"), h.shopURL+"/orders/"+url.PathEscape(number)),
			}),
		), nil
	}

	return bot.Single(messenger.QuickReply(c.T("order.unknown"), mainMenu(c))), nil
}
