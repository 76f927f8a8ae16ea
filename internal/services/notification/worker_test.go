package notification

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"karinderya/internal/logger"
	"karinderya/internal/models"
)

type fakeSender struct {
	sent []struct{ recipient, text string }
	err  error
}

func (f *fakeSender) SendText(ctx context.Context, recipientID, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, struct{ recipient, text string }{recipientID, text})
	return nil
}

func testWorker(s sender) *Worker {
	return NewWorker(nil, s, logger.New("notification-test"))
}

func marshal(t *testing.T, n *models.CustomerNotification) []byte {
	t.Helper()
	body, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("failed to marshal notification: %v", err)
	}
	return body
}

func TestHandleConfirmationUsesPreformattedText(t *testing.T) {
	sender := &fakeSender{}
	worker := testWorker(sender)

	body := marshal(t, &models.CustomerNotification{
		Type:        models.NotificationOrderConfirmation,
		RecipientID: "psid-1",
		OrderID:     12,
		Text:        "Salamat! Order #12 received.",
		Timestamp:   time.Now().UTC(),
	})

	if err := worker.handle(context.Background(), body); err != nil {
		t.Fatalf("handle returned error: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}
	if sender.sent[0].recipient != "psid-1" {
		t.Errorf("recipient = %q, want psid-1", sender.sent[0].recipient)
	}
	if sender.sent[0].text != "Salamat! Order #12 received." {
		t.Errorf("text = %q", sender.sent[0].text)
	}
}

func TestHandleStatusUpdateFormatsText(t *testing.T) {
	sender := &fakeSender{}
	worker := testWorker(sender)

	body := marshal(t, &models.CustomerNotification{
		Type:        models.NotificationStatusUpdate,
		RecipientID: "psid-2",
		OrderID:     34,
		OldStatus:   "new",
		NewStatus:   "accepted",
		Timestamp:   time.Now().UTC(),
	})

	if err := worker.handle(context.Background(), body); err != nil {
		t.Fatalf("handle returned error: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0].text, "Order #34 has been accepted") {
		t.Errorf("text = %q", sender.sent[0].text)
	}
}

func TestHandleSwallowsDeliveryFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("send API down")}
	worker := testWorker(sender)

	body := marshal(t, &models.CustomerNotification{
		Type:        models.NotificationStatusUpdate,
		RecipientID: "psid-3",
		OrderID:     56,
		NewStatus:   "voided",
	})

	if err := worker.handle(context.Background(), body); err != nil {
		t.Fatalf("delivery failure must be swallowed, got: %v", err)
	}
}

func TestHandleSkipsUndecodableMessage(t *testing.T) {
	sender := &fakeSender{}
	worker := testWorker(sender)

	if err := worker.handle(context.Background(), []byte("not json")); err != nil {
		t.Fatalf("undecodable message must be dropped, got: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Errorf("sent %d messages for bad payload", len(sender.sent))
	}
}

func TestStatusTexts(t *testing.T) {
	cases := []struct {
		status models.OrderStatus
		want   string
	}{
		{models.StatusAccepted, "accepted"},
		{models.StatusFinished, "ready"},
		{models.StatusCompleted, "complete"},
		{models.StatusVoided, "cancelled"},
	}

	for _, tc := range cases {
		text := StatusText(1, tc.status)
		if !strings.Contains(strings.ToLower(text), tc.want) {
			t.Errorf("StatusText(1, %s) = %q, want mention of %q", tc.status, text, tc.want)
		}
	}
}
