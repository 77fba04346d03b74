package handlers

import (
	"context"
	"strings"

	"github.com/wolfman30/igdm-router/internal/bot"
	"github.com/wolfman30/igdm-router/internal/i18n"
	"github.com/wolfman30/igdm-router/internal/messenger"
	"github.com/wolfman30/igdm-router/internal/session"
)

const (
	curationForMe      = "CURATION_FOR_ME"
	curationForSomeone = "CURATION_SOMEONE_ELSE"
	curationOtherStyle = "CURATION_OTHER_STYLE"
	curationOccasion   = "CURATION_OCCASION_"
	curationBudget     = "CURATION_BUDGET_"

	couponCode = "SUMMER10"
)

var occasions = []string{"WORK", "DINNER", "PARTY"}

// Curation walks the user through a short style quiz and offers coupons.
type Curation struct {
	catalog *i18n.Catalog
	shopURL string
}

func (h *Curation) HandlePayload(_ context.Context, _ *session.Session, payload string) (bot.Reply, error) {
	c := h.catalog
	switch {
	case strings.Contains(payload, "COUPON"):
		return bot.Batch(
			messenger.Text(c.T("curation.coupon", "code", couponCode)),
			messenger.QuickReply(c.T("get_started.help"), mainMenu(c)),
		), nil

	case payload == curationForMe, payload == curationForSomeone, payload == curationOtherStyle:
		options := make([]messenger.Option, 0, len(occasions))
		for _, o := range occasions {
			options = append(options, messenger.Option{
				Title:   c.T("curation." + strings.ToLower(o)),
				Payload: curationOccasion + o,
			})
		}
		return bot.Single(messenger.QuickReply(c.T("curation.occasion"), options)), nil

	case strings.HasPrefix(payload, curationOccasion):
		occasion := strings.TrimPrefix(payload, curationOccasion)
		return bot.Single(messenger.QuickReply(c.T("curation.budget"), []messenger.Option{
			{Title: c.T("curation.price_50"), Payload: curationBudget + "50_" + occasion},
			{Title: c.T("curation.price_100"), Payload: curationBudget + "100_" + occasion},
			{Title: c.T("curation.price_200"), Payload: curationBudget + "200_" + occasion},
		})), nil

	case strings.HasPrefix(payload, curationBudget):
		return h.look(strings.TrimPrefix(payload, curationBudget)), nil
	}

	return bot.Single(messenger.QuickReply(c.T("curation.prompt"), []messenger.Option{
		{Title: c.T("curation.me"), Payload: curationForMe},
		{Title: c.T("curation.someone"), Payload: curationForSomeone},
	})), nil
}

// look renders the curated outfit for a "<budget>_<occasion>" selection.
func (h *Curation) look(selection string) bot.Reply {
	c := h.catalog
	budget, occasion, _ := strings.Cut(selection, "_")
	occasion = strings.ToLower(occasion)
	if occasion == "" {
		occasion = "work"
	}

	image := h.shopURL + "/styles/" + occasion + ".jpg"
	shop := h.shopURL + "/shop?budget=" + budget + "&occasion=" + occasion
	return bot.Batch(
		messenger.Text(c.T("curation.show")),
		messenger.GenericTemplate(image, c.T("curation."+occasion), c.T("curation.price_"+budget), []messenger.Button{
			messenger.URLButton(c.T("curation.shop"), shop),
			messenger.PostbackButton(c.T("curation.other"), curationOtherStyle),
		}),
		messenger.QuickReply(c.T("get_started.help"), mainMenu(c)),
	)
}
