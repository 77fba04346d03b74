package bootstrap

import (
	"fmt"

	"github.com/wolfman30/igdm-router/internal/bot"
	appconfig "github.com/wolfman30/igdm-router/internal/config"
	"github.com/wolfman30/igdm-router/internal/dialogue"
	"github.com/wolfman30/igdm-router/internal/handlers"
	"github.com/wolfman30/igdm-router/internal/i18n"
	"github.com/wolfman30/igdm-router/internal/observability/metrics"
	"github.com/wolfman30/igdm-router/pkg/logging"
)

// BuildRouter wires the dialogue responder, copy catalog and domain handlers
// into a payload router.
func BuildRouter(cfg *appconfig.Config, m *metrics.BotMetrics, logger *logging.Logger) (*bot.Router, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	if cfg.VoiceflowAPIKey == "" {
		logger.Warn("VOICEFLOW_API_KEY not set; dialogue replies will fail with a generic error")
	}
	client := dialogue.NewClient(dialogue.Config{
		BaseURL:     cfg.VoiceflowBaseURL,
		APIKey:      cfg.VoiceflowAPIKey,
		HTTPTimeout: cfg.VoiceflowTimeout,
	})
	responder := dialogue.NewResponder(client, m, logger)

	catalog := i18n.New(cfg.Locale)
	logger.Info("copy catalog loaded", "locale", catalog.Locale())

	return bot.NewRouter(responder, handlers.New(catalog, cfg.ShopURL), catalog, m, logger), nil
}
