package instagram

import (
	"context"
	"net/http"

	"github.com/wolfman30/igdm-router/internal/messenger"
	"github.com/wolfman30/igdm-router/pkg/logging"
)

// Config holds the Meta app credentials for the channel.
type Config struct {
	PageAccessToken string
	AppSecret       string
	VerifyToken     string
	GraphAPIBase    string
}

// Adapter is the Instagram DM channel adapter.
// It handles inbound webhooks from Meta and sends outbound messages
// via the Graph API.
type Adapter struct {
	client  *Client
	webhook *WebhookHandler
	logger  *logging.Logger
}

// NewAdapter creates a new Instagram DM adapter. onEvent receives every
// classified inbound event.
func NewAdapter(cfg Config, onEvent EventFunc, logger *logging.Logger) *Adapter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Adapter{
		client:  NewClient(cfg.PageAccessToken, cfg.GraphAPIBase),
		webhook: NewWebhookHandler(cfg.VerifyToken, cfg.AppSecret, onEvent, logger),
		logger:  logger,
	}
}

// HandleVerification handles GET /webhook (Meta challenge).
func (a *Adapter) HandleVerification(w http.ResponseWriter, r *http.Request) {
	a.webhook.HandleVerification(w, r)
}

// HandleWebhook handles POST /webhook (inbound messages).
func (a *Adapter) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	a.webhook.HandleInbound(w, r)
}

// SendMessage sends a rendered message to the given Instagram user.
// Failures are returned for the caller to log and count.
func (a *Adapter) SendMessage(ctx context.Context, recipientID string, msg messenger.Message) error {
	resp, err := a.client.Send(ctx, recipientID, msg)
	if err != nil {
		return err
	}
	a.logger.Debug("instagram: message sent", "recipient_id", recipientID, "message_id", resp.MessageID)
	return nil
}

// DisplayName returns the user's profile name, or "" when the lookup fails.
func (a *Adapter) DisplayName(ctx context.Context, userID string) string {
	profile, err := a.client.GetUserProfile(ctx, userID)
	if err != nil {
		a.logger.Warn("instagram: user profile lookup failed", "sender_id", userID, "error", err)
		return ""
	}
	return profile.Name
}
