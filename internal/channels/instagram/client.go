package instagram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/igdm-router/internal/messenger"
)

const (
	defaultGraphAPIBase = "https://graph.facebook.com/v11.0"
	defaultHTTPTimeout  = 10 * time.Second
)

var graphTracer = otel.Tracer("igdm.internal.channels.instagram")

// ErrRecipientRequired is returned when a send has no recipient id.
var ErrRecipientRequired = errors.New("instagram: recipient id required")

// Client sends messages via the Instagram/Meta Graph API.
type Client struct {
	pageAccessToken string
	graphAPIBase    string
	httpClient      *http.Client
}

// NewClient creates a new Graph API client. An empty graphAPIBase uses the
// public Graph API at v11.0.
func NewClient(pageAccessToken, graphAPIBase string) *Client {
	base := strings.TrimRight(graphAPIBase, "/")
	if base == "" {
		base = defaultGraphAPIBase
	}
	return &Client{
		pageAccessToken: pageAccessToken,
		graphAPIBase:    base,
		httpClient:      &http.Client{Timeout: defaultHTTPTimeout},
	}
}

// SetGraphAPIBase overrides the Graph API base URL (useful for testing).
func (c *Client) SetGraphAPIBase(base string) {
	c.graphAPIBase = strings.TrimRight(base, "/")
}

// SendMessage sends msg to recipientID. It satisfies delivery.Transport.
func (c *Client) SendMessage(ctx context.Context, recipientID string, msg messenger.Message) error {
	_, err := c.Send(ctx, recipientID, msg)
	return err
}

// Send posts msg to /me/messages and returns the Graph response.
func (c *Client) Send(ctx context.Context, recipientID string, msg messenger.Message) (*SendResponse, error) {
	if recipientID == "" {
		return nil, ErrRecipientRequired
	}

	ctx, span := graphTracer.Start(ctx, "instagram.send")
	defer span.End()
	span.SetAttributes(
		attribute.String("igdm.recipient_id", recipientID),
		attribute.String("igdm.message_kind", string(msg.Kind())),
	)

	resp, err := c.send(ctx, SendRequest{
		Recipient: SendRecipient{ID: recipientID},
		Message:   msg.WithoutDelay(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return resp, err
	}
	span.SetAttributes(attribute.String("igdm.message_id", resp.MessageID))
	return resp, nil
}

func (c *Client) send(ctx context.Context, req SendRequest) (*SendResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("instagram: marshal send request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/me/messages?access_token=%s", c.graphAPIBase, url.QueryEscape(c.pageAccessToken))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("instagram: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("instagram: send message: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("instagram: read response: %w", err)
	}

	var sendResp SendResponse
	if err := json.Unmarshal(respBody, &sendResp); err != nil {
		return nil, fmt.Errorf("instagram: unmarshal response (status %d): %w", resp.StatusCode, err)
	}

	if sendResp.Error != nil {
		return &sendResp, sendResp.Error
	}

	if resp.StatusCode != http.StatusOK {
		return &sendResp, fmt.Errorf("instagram: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	return &sendResp, nil
}

// GetUserProfile fetches the display name of an Instagram-scoped user id.
func (c *Client) GetUserProfile(ctx context.Context, userID string) (*UserProfile, error) {
	if userID == "" {
		return nil, ErrRecipientRequired
	}

	ctx, span := graphTracer.Start(ctx, "instagram.user_profile")
	defer span.End()
	span.SetAttributes(attribute.String("igdm.user_id", userID))

	profile, err := c.getUserProfile(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return profile, nil
}

func (c *Client) getUserProfile(ctx context.Context, userID string) (*UserProfile, error) {
	q := url.Values{}
	q.Set("fields", "name,profile_pic")
	q.Set("access_token", c.pageAccessToken)
	endpoint := fmt.Sprintf("%s/%s?%s", c.graphAPIBase, url.PathEscape(userID), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("instagram: create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("instagram: get user profile: %w", err)
	}
	defer resp.Body.Close()

	var profile UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("instagram: decode user profile (status %d): %w", resp.StatusCode, err)
	}
	if profile.Error != nil {
		return nil, profile.Error
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("instagram: unexpected status %d", resp.StatusCode)
	}
	return &profile, nil
}
