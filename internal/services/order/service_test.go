package order

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"karinderya/internal/logger"
	"karinderya/internal/models"
	"karinderya/internal/parser"
)

type fakeRepo struct {
	orders     map[int]*models.Order
	nextID     int
	createErr  error
	updateErr  error
	lastUpdate struct {
		id       int
		from, to models.OrderStatus
	}
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: map[int]*models.Order{}, nextID: 1}
}

func (f *fakeRepo) CreateOrder(ctx context.Context, o *models.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	o.ID = f.nextID
	f.nextID++
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	stored := *o
	f.orders[o.ID] = &stored
	return nil
}

func (f *fakeRepo) GetOrderByID(ctx context.Context, id int) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (f *fakeRepo) ListOrders(ctx context.Context, filter Filter) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeRepo) UpdateOrderStatus(ctx context.Context, id int, from, to models.OrderStatus) (time.Time, error) {
	f.lastUpdate.id = id
	f.lastUpdate.from = from
	f.lastUpdate.to = to
	if f.updateErr != nil {
		return time.Time{}, f.updateErr
	}
	o, ok := f.orders[id]
	if !ok || o.Status != from {
		return time.Time{}, ErrStatusConflict
	}
	o.Status = to
	o.UpdatedAt = time.Now()
	return o.UpdatedAt, nil
}

type fakePublisher struct {
	published []*models.CustomerNotification
	err       error
}

func (f *fakePublisher) PublishNotification(ctx context.Context, notification interface{}) error {
	if f.err != nil {
		return f.err
	}
	if n, ok := notification.(*models.CustomerNotification); ok {
		f.published = append(f.published, n)
	}
	return nil
}

func testService(repo *fakeRepo, pub *fakePublisher) *Service {
	catalog := parser.NewMemoryCatalog([]models.MenuItem{
		{ID: 1, Name: "Burger", Price: 75, Aliases: []string{"burgers"}},
		{ID: 2, Name: "Fried Chicken", NameTagalog: "Pritong Manok", Price: 120},
	})
	p := parser.New(catalog, parser.DefaultLexicon())
	return NewService(repo, pub, p, logger.New("order-test"))
}

func TestCreateFromMessagePersistsOrder(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	service := testService(repo, pub)

	msg := &models.IncomingMessage{
		Type:     "text",
		SenderID: "psid-1",
		Text:     "2 burgers, deliver to 123 Main St",
	}

	order, parsed, err := service.CreateFromMessage(context.Background(), msg, "req_test")
	if err != nil {
		t.Fatalf("CreateFromMessage returned error: %v", err)
	}
	if order == nil {
		t.Fatalf("expected an order, parse errors: %v", parsed.Errors)
	}
	if order.Status != models.StatusNew {
		t.Errorf("new order status = %s, want new", order.Status)
	}
	if order.CustomerID != "psid-1" {
		t.Errorf("customer id = %q, want psid-1", order.CustomerID)
	}
	if order.TotalPrice != 150 {
		t.Errorf("total price = %v, want 150", order.TotalPrice)
	}

	if len(pub.published) != 1 {
		t.Fatalf("published %d notifications, want 1", len(pub.published))
	}
	n := pub.published[0]
	if n.Type != models.NotificationOrderConfirmation {
		t.Errorf("notification type = %s, want order_confirmation", n.Type)
	}
	if !strings.Contains(n.Text, "Total: P150.00") {
		t.Errorf("confirmation text missing total: %q", n.Text)
	}
}

func TestCreateFromMessageRejectsUnparseable(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	service := testService(repo, pub)

	msg := &models.IncomingMessage{
		Type:     "text",
		SenderID: "psid-2",
		Text:     "hello po",
	}

	order, parsed, err := service.CreateFromMessage(context.Background(), msg, "req_test")
	if err != nil {
		t.Fatalf("CreateFromMessage returned error: %v", err)
	}
	if order != nil {
		t.Fatal("expected no order for an unparseable message")
	}
	if len(parsed.Errors) == 0 {
		t.Fatal("expected parse errors")
	}
	if len(repo.orders) != 0 {
		t.Errorf("repo has %d orders, want 0", len(repo.orders))
	}

	if len(pub.published) != 1 {
		t.Fatalf("published %d notifications, want 1 problem reply", len(pub.published))
	}
	if !strings.Contains(pub.published[0].Text, "couldn't place that order") {
		t.Errorf("problem reply text = %q", pub.published[0].Text)
	}
}

func TestUpdateStatusPublishesNotification(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	service := testService(repo, pub)

	repo.orders[7] = &models.Order{ID: 7, CustomerID: "psid-3", Status: models.StatusNew}

	order, err := service.UpdateStatus(context.Background(), 7, models.StatusAccepted, "req_test")
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if order.Status != models.StatusAccepted {
		t.Errorf("status = %s, want accepted", order.Status)
	}

	if len(pub.published) != 1 {
		t.Fatalf("published %d notifications, want 1", len(pub.published))
	}
	n := pub.published[0]
	if n.Type != models.NotificationStatusUpdate {
		t.Errorf("notification type = %s, want status_update", n.Type)
	}
	if n.OldStatus != "new" || n.NewStatus != "accepted" {
		t.Errorf("transition = %s -> %s, want new -> accepted", n.OldStatus, n.NewStatus)
	}
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	service := testService(repo, pub)

	repo.orders[8] = &models.Order{ID: 8, CustomerID: "psid-4", Status: models.StatusNew}

	if _, err := service.UpdateStatus(context.Background(), 8, models.StatusCompleted, "req_test"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("error = %v, want ErrInvalidTransition", err)
	}
	if repo.orders[8].Status != models.StatusNew {
		t.Errorf("status changed to %s on rejected transition", repo.orders[8].Status)
	}
	if len(pub.published) != 0 {
		t.Errorf("published %d notifications on rejected transition", len(pub.published))
	}
}

func TestUpdateStatusNormalizesPending(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	service := testService(repo, pub)

	repo.orders[9] = &models.Order{ID: 9, CustomerID: "psid-5", Status: models.StatusPending}

	order, err := service.UpdateStatus(context.Background(), 9, models.StatusAccepted, "req_test")
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if order.Status != models.StatusAccepted {
		t.Errorf("status = %s, want accepted", order.Status)
	}
	// The conditional write must target the stored literal, or the update
	// can never match the row.
	if repo.lastUpdate.from != models.StatusPending {
		t.Errorf("repo write used from = %s, want stored pending", repo.lastUpdate.from)
	}
	if len(pub.published) != 1 {
		t.Fatalf("published %d notifications, want 1", len(pub.published))
	}
	if pub.published[0].OldStatus != "new" {
		t.Errorf("notification old status = %q, want normalized new", pub.published[0].OldStatus)
	}
}

func TestUpdateStatusSurvivesPublishFailure(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{err: errors.New("broker down")}
	service := testService(repo, pub)

	repo.orders[10] = &models.Order{ID: 10, CustomerID: "psid-6", Status: models.StatusAccepted}

	order, err := service.UpdateStatus(context.Background(), 10, models.StatusFinished, "req_test")
	if err != nil {
		t.Fatalf("UpdateStatus returned error on publish failure: %v", err)
	}
	if order.Status != models.StatusFinished {
		t.Errorf("status = %s, want finished", order.Status)
	}
	if repo.orders[10].Status != models.StatusFinished {
		t.Errorf("persisted status = %s, want finished", repo.orders[10].Status)
	}
}

func TestUpdateStatusConflict(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	service := testService(repo, pub)

	repo.orders[11] = &models.Order{ID: 11, CustomerID: "psid-7", Status: models.StatusNew}
	repo.updateErr = ErrStatusConflict

	if _, err := service.UpdateStatus(context.Background(), 11, models.StatusAccepted, "req_test"); !errors.Is(err, ErrStatusConflict) {
		t.Fatalf("error = %v, want ErrStatusConflict", err)
	}
	if len(pub.published) != 0 {
		t.Errorf("published %d notifications on conflicting update", len(pub.published))
	}
}

func TestConfirmationEchoesCustomerLanguage(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	service := testService(repo, pub)

	msg := &models.IncomingMessage{
		Type:     "text",
		SenderID: "psid-8",
		Text:     "2 pritong manok po please deliver to 123 Main St",
	}

	order, parsed, err := service.CreateFromMessage(context.Background(), msg, "req_test")
	if err != nil {
		t.Fatalf("CreateFromMessage returned error: %v", err)
	}
	if order == nil {
		t.Fatalf("expected an order, parse errors: %v", parsed.Errors)
	}
	if len(order.Items) != 1 || order.Items[0].Name != "Pritong Manok" {
		t.Fatalf("items = %+v, want one Pritong Manok line", order.Items)
	}
	if len(pub.published) != 1 || !strings.Contains(pub.published[0].Text, "2x Pritong Manok") {
		t.Errorf("confirmation text = %q, want Tagalog item name", pub.published[0].Text)
	}

	// An English mention keeps the English name.
	msg = &models.IncomingMessage{
		Type:     "text",
		SenderID: "psid-9",
		Text:     "2 burgers, deliver to 123 Main St",
	}
	order, parsed, err = service.CreateFromMessage(context.Background(), msg, "req_test")
	if err != nil {
		t.Fatalf("CreateFromMessage returned error: %v", err)
	}
	if order == nil {
		t.Fatalf("expected an order, parse errors: %v", parsed.Errors)
	}
	if order.Items[0].Name != "Burger" {
		t.Errorf("item name = %q, want Burger", order.Items[0].Name)
	}
}
