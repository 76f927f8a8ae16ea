package messenger

import (
	"encoding/json"
	"fmt"

	"karinderya/internal/models"
)

// Event types produced by ToIncoming.
const (
	EventText       = "text"
	EventQuickReply = "quick_reply"
	EventPostback   = "postback"
	EventUnknown    = "unknown"
)

// WebhookPayload is the envelope the platform POSTs to the webhook.
type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry groups the messaging events of one page.
type Entry struct {
	ID        string           `json:"id"`
	Time      int64            `json:"time"`
	Messaging []MessagingEvent `json:"messaging"`
}

// MessagingEvent is one sender action: a text message, a quick-reply tap or
// a postback button press.
type MessagingEvent struct {
	Sender    Participant `json:"sender"`
	Recipient Participant `json:"recipient"`
	Timestamp int64       `json:"timestamp"`
	Message   *Message    `json:"message,omitempty"`
	Postback  *Postback   `json:"postback,omitempty"`
}

// Participant identifies a sender or recipient.
type Participant struct {
	ID string `json:"id"`
}

// Message is the message part of an event.
type Message struct {
	MID        string          `json:"mid"`
	Text       string          `json:"text"`
	QuickReply *QuickReplyHint `json:"quick_reply,omitempty"`
}

// QuickReplyHint carries the payload of a tapped quick reply.
type QuickReplyHint struct {
	Payload string `json:"payload"`
}

// Postback carries the payload of a pressed button.
type Postback struct {
	Title   string `json:"title"`
	Payload string `json:"payload"`
}

// ParseWebhook decodes a webhook body and checks it is a page subscription.
func ParseWebhook(body []byte) (*WebhookPayload, error) {
	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode webhook payload: %w", err)
	}
	if payload.Object != "page" {
		return nil, fmt.Errorf("unexpected webhook object %q", payload.Object)
	}
	return &payload, nil
}

// ToIncoming normalizes a messaging event. Quick replies win over the text
// they ride on; events with neither message nor postback come back as
// unknown.
func (e MessagingEvent) ToIncoming() models.IncomingMessage {
	msg := models.IncomingMessage{
		SenderID:  e.Sender.ID,
		Timestamp: e.Timestamp,
	}

	switch {
	case e.Message != nil && e.Message.QuickReply != nil:
		msg.Type = EventQuickReply
		msg.Text = e.Message.Text
		msg.Payload = e.Message.QuickReply.Payload
	case e.Message != nil:
		msg.Type = EventText
		msg.Text = e.Message.Text
	case e.Postback != nil:
		msg.Type = EventPostback
		msg.Text = e.Postback.Title
		msg.Payload = e.Postback.Payload
	default:
		msg.Type = EventUnknown
	}

	return msg
}
