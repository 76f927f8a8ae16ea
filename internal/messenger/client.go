package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"karinderya/internal/config"
	"karinderya/internal/logger"
)

// DefaultAPIBaseURL is the Graph API endpoint used when the config leaves
// it unset.
const DefaultAPIBaseURL = "https://graph.facebook.com/v17.0"

// Client sends messages through the Messenger Send API
type Client struct {
	httpClient *http.Client
	baseURL    string
	pageToken  string
	logger     *logger.Logger
}

// NewClient creates a new Send API client
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	baseURL := cfg.Messenger.APIBaseURL
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		pageToken:  cfg.Messenger.PageToken,
		logger:     log,
	}
}

// QuickReply is one tappable reply option attached to a message.
type QuickReply struct {
	ContentType string `json:"content_type"`
	Title       string `json:"title"`
	Payload     string `json:"payload"`
}

type sendRequest struct {
	MessagingType string      `json:"messaging_type"`
	Recipient     recipient   `json:"recipient"`
	Message       sendMessage `json:"message"`
}

type recipient struct {
	ID string `json:"id"`
}

type sendMessage struct {
	Text         string       `json:"text"`
	QuickReplies []QuickReply `json:"quick_replies,omitempty"`
}

// SendText sends a plain text message to a recipient.
func (c *Client) SendText(ctx context.Context, recipientID, text string) error {
	return c.send(ctx, sendRequest{
		MessagingType: "RESPONSE",
		Recipient:     recipient{ID: recipientID},
		Message:       sendMessage{Text: text},
	})
}

// SendQuickReply sends a text message with tappable quick-reply options.
func (c *Client) SendQuickReply(ctx context.Context, recipientID, text string, replies []QuickReply) error {
	return c.send(ctx, sendRequest{
		MessagingType: "RESPONSE",
		Recipient:     recipient{ID: recipientID},
		Message:       sendMessage{Text: text, QuickReplies: replies},
	})
}

func (c *Client) send(ctx context.Context, payload sendRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal send request: %w", err)
	}

	url := fmt.Sprintf("%s/me/messages?access_token=%s", c.baseURL, c.pageToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("messenger_send_failed",
			fmt.Sprintf("Send API returned %d", resp.StatusCode),
			"", nil, map[string]interface{}{
				"recipient_id": payload.Recipient.ID,
				"status_code":  resp.StatusCode,
				"body":         string(respBody),
			})
		return fmt.Errorf("send API returned status %d", resp.StatusCode)
	}

	c.logger.Debug("messenger_sent", "Message sent", "", map[string]interface{}{
		"recipient_id": payload.Recipient.ID,
	})
	return nil
}
