// Package handlers implements the shop's domain payload handlers: style
// curation and coupons, customer care, order lookup and satisfaction surveys.
package handlers

import (
	"strings"

	"github.com/wolfman30/igdm-router/internal/bot"
	"github.com/wolfman30/igdm-router/internal/i18n"
	"github.com/wolfman30/igdm-router/internal/messenger"
)

// New returns the full handler set for the router.
func New(catalog *i18n.Catalog, shopURL string) bot.Handlers {
	if catalog == nil {
		catalog = i18n.New("")
	}
	shopURL = strings.TrimRight(shopURL, "/")
	return bot.Handlers{
		Curation: &Curation{catalog: catalog, shopURL: shopURL},
		Care:     &Care{catalog: catalog},
		Order:    &Order{catalog: catalog, shopURL: shopURL},
		Survey:   &Survey{catalog: catalog},
	}
}

// mainMenu is the quick reply offered after a flow finishes.
func mainMenu(c *i18n.Catalog) []messenger.Option {
	return []messenger.Option{
		{Title: c.T("menu.suggestion"), Payload: bot.PayloadCuration},
		{Title: c.T("menu.help"), Payload: bot.PayloadCareHelp},
		{Title: c.T("menu.start_over"), Payload: bot.PayloadGetStarted},
	}
}
