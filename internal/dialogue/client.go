// Package dialogue talks to the Voiceflow Dialog Manager API and adapts its
// trace stream into Messenger messages.
package dialogue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultBaseURL     = "https://general-runtime.voiceflow.com"
	defaultHTTPTimeout = 15 * time.Second
)

var dialogueTracer = otel.Tracer("igdm.internal.dialogue")

// Config is the per-client API configuration.
type Config struct {
	BaseURL     string
	APIKey      string
	HTTPTimeout time.Duration
}

// Client calls the interact endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Dialog Manager client.
func NewClient(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &Client{
		baseURL:    base,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type interactRequest struct {
	Action Action         `json:"action"`
	Config interactConfig `json:"config"`
}

type interactConfig struct {
	TTS       bool `json:"tts"`
	StripSSML bool `json:"stripSSML"`
}

// Interact sends action for the given conversation and returns the decoded traces.
func (c *Client) Interact(ctx context.Context, conversationID string, action Action) ([]Trace, error) {
	if c.apiKey == "" {
		return nil, ErrAPIKeyMissing
	}
	if conversationID == "" {
		return nil, ErrConversationRequired
	}

	ctx, span := dialogueTracer.Start(ctx, "dialogue.interact")
	defer span.End()
	span.SetAttributes(
		attribute.String("igdm.conversation_id", conversationID),
		attribute.String("igdm.action_type", action.Type),
	)

	traces, err := c.interact(ctx, conversationID, action)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("igdm.trace_count", len(traces)))
	return traces, nil
}

func (c *Client) interact(ctx context.Context, conversationID string, action Action) ([]Trace, error) {
	body, err := json.Marshal(interactRequest{
		Action: action,
		Config: interactConfig{TTS: false, StripSSML: true},
	})
	if err != nil {
		return nil, fmt.Errorf("dialogue: marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/state/user/%s/interact", c.baseURL, url.PathEscape(conversationID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("dialogue: create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dialogue: interact: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("dialogue: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return DecodeTraces(respBody)
}
