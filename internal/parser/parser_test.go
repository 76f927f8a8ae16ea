package parser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"karinderya/internal/models"
)

func testMenu() []models.MenuItem {
	return []models.MenuItem{
		{ID: 1, Name: "Burger", NameTagalog: "Burger", Price: 120.99, Category: "mains"},
		{ID: 2, Name: "French Fries", NameTagalog: "Pritong Patatas", Price: 40.99, Category: "sides"},
		{ID: 3, Name: "Fried Chicken", NameTagalog: "Pritong Manok", Price: 150.99, Category: "mains"},
		{ID: 4, Name: "Soda", NameTagalog: "Softdrinks", Price: 25.99, Category: "drinks"},
	}
}

func newTestParser() *Parser {
	return New(NewMemoryCatalog(testMenu()), DefaultLexicon())
}

func itemNames(result models.ParsedOrder) []string {
	names := make([]string, len(result.Items))
	for i, it := range result.Items {
		names[i] = it.Item.Name
	}
	return names
}

func TestParseSimpleEnglishOrder(t *testing.T) {
	p := newTestParser()
	result := p.ParseOrderText(context.Background(),
		"I want to order 2 burger and 1 fries, deliver to 123 Main St")

	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d (%v)", len(result.Items), itemNames(result))
	}
	if result.Items[0].Item.Name != "Burger" || result.Items[0].Quantity != 2 {
		t.Errorf("item 0 = %s x%d, want Burger x2", result.Items[0].Item.Name, result.Items[0].Quantity)
	}
	if result.Items[1].Item.Name != "French Fries" || result.Items[1].Quantity != 1 {
		t.Errorf("item 1 = %s x%d, want French Fries x1", result.Items[1].Item.Name, result.Items[1].Quantity)
	}
	if !strings.Contains(result.DeliveryAddress, "123 Main St") {
		t.Errorf("delivery address %q does not contain street", result.DeliveryAddress)
	}
	if result.OrderType != models.Delivery {
		t.Errorf("order type = %s, want delivery", result.OrderType)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

func TestParseTagalogOrder(t *testing.T) {
	p := newTestParser()
	result := p.ParseOrderText(context.Background(),
		"gusto ko po ng 2 pritong manok at 1 softdrinks, address sa 123 Main St")

	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d (%v)", len(result.Items), itemNames(result))
	}
	if result.Items[0].Item.Name != "Fried Chicken" || result.Items[0].Quantity != 2 {
		t.Errorf("item 0 = %s x%d, want Fried Chicken x2", result.Items[0].Item.Name, result.Items[0].Quantity)
	}
	if result.Items[1].Item.Name != "Soda" || result.Items[1].Quantity != 1 {
		t.Errorf("item 1 = %s x%d, want Soda x1", result.Items[1].Item.Name, result.Items[1].Quantity)
	}
	if !strings.Contains(result.DeliveryAddress, "123 Main St") {
		t.Errorf("delivery address %q does not contain street", result.DeliveryAddress)
	}
}

func TestBilingualEquivalence(t *testing.T) {
	p := newTestParser()
	messages := []string{
		"I want 1 burger and fries deliver to 123 Main St",
		"Gusto ko po ng burger at fries, address po sa 123 Main St",
	}

	for _, msg := range messages {
		result := p.ParseOrderText(context.Background(), msg)
		if len(result.Items) != 2 {
			t.Errorf("%q: expected 2 items, got %d (%v)", msg, len(result.Items), itemNames(result))
		}
		if !strings.Contains(result.DeliveryAddress, "123 Main St") {
			t.Errorf("%q: delivery address %q does not contain street", msg, result.DeliveryAddress)
		}
	}
}

func TestAggregatesRepeatedItems(t *testing.T) {
	p := newTestParser()
	result := p.ParseOrderText(context.Background(),
		"2 burger and 1 burger and 3 burger to 123 Main St")

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 aggregated item, got %d (%v)", len(result.Items), itemNames(result))
	}
	if result.Items[0].Item.Name != "Burger" || result.Items[0].Quantity != 6 {
		t.Errorf("got %s x%d, want Burger x6", result.Items[0].Item.Name, result.Items[0].Quantity)
	}
}

func TestQuantityDefaultsToOne(t *testing.T) {
	p := newTestParser()
	result := p.ParseOrderText(context.Background(), "burger and fries to 123 Main St")

	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	for _, item := range result.Items {
		if item.Quantity != 1 {
			t.Errorf("%s quantity = %d, want 1", item.Item.Name, item.Quantity)
		}
	}
}

func TestWordQuantities(t *testing.T) {
	p := newTestParser()
	result := p.ParseOrderText(context.Background(),
		"order two burger, one fries and 3 soda to 456 Side St")

	if len(result.Items) != 3 {
		t.Fatalf("expected 3 items, got %d (%v)", len(result.Items), itemNames(result))
	}
	want := []int{2, 1, 3}
	for i, q := range want {
		if result.Items[i].Quantity != q {
			t.Errorf("item %d quantity = %d, want %d", i, result.Items[i].Quantity, q)
		}
	}
}

func TestTagalogLinkerQuantities(t *testing.T) {
	p := newTestParser()
	result := p.ParseOrderText(context.Background(),
		"dalawang burger at isang pritong patatas")

	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d (%v)", len(result.Items), itemNames(result))
	}
	if result.Items[0].Quantity != 2 {
		t.Errorf("burger quantity = %d, want 2", result.Items[0].Quantity)
	}
	if result.Items[1].Quantity != 1 {
		t.Errorf("fries quantity = %d, want 1", result.Items[1].Quantity)
	}
}

func TestCompoundPhraseNotSplit(t *testing.T) {
	p := newTestParser()
	result := p.ParseOrderText(context.Background(), "1 pritong manok to 123 Main St")

	if len(result.Items) != 1 {
		t.Fatalf("compound phrase split into %d items (%v)", len(result.Items), itemNames(result))
	}
	if result.Items[0].Item.Name != "Fried Chicken" {
		t.Errorf("matched %s, want Fried Chicken", result.Items[0].Item.Name)
	}
}

func TestCustomerInfoExtraction(t *testing.T) {
	p := newTestParser()
	result := p.ParseOrderText(context.Background(),
		"name: John Doe\nphone: +639123456789\n1 burger to 123 Main St")

	if result.CustomerName != "John Doe" {
		t.Errorf("customer name = %q, want John Doe", result.CustomerName)
	}
	if result.CustomerPhone != "+639123456789" {
		t.Errorf("customer phone = %q, want +639123456789", result.CustomerPhone)
	}
	if len(result.Items) != 1 {
		t.Errorf("expected 1 item, got %d", len(result.Items))
	}
}

func TestTagalogCustomerInfo(t *testing.T) {
	p := newTestParser()
	result := p.ParseOrderText(context.Background(),
		"pangalan: Juan Dela Cruz\nnumero: 09123456789\n2 burger at 1 fries address sa 123 Main St")

	if result.CustomerName != "Juan Dela Cruz" {
		t.Errorf("customer name = %q, want Juan Dela Cruz", result.CustomerName)
	}
	if result.CustomerPhone != "09123456789" {
		t.Errorf("customer phone = %q, want 09123456789", result.CustomerPhone)
	}
}

func TestFirstNameLineWins(t *testing.T) {
	p := newTestParser()
	result := p.ParseOrderText(context.Background(),
		"name: First Caller\nname: Second Caller\n1 burger to 123 Main St")

	if result.CustomerName != "First Caller" {
		t.Errorf("customer name = %q, want First Caller", result.CustomerName)
	}
}

func TestPhoneSanitization(t *testing.T) {
	p := newTestParser()
	result := p.ParseOrderText(context.Background(),
		"phone: 0912-345-6789\n1 burger to 123 Main St")

	if result.CustomerPhone != "09123456789" {
		t.Errorf("customer phone = %q, want 09123456789", result.CustomerPhone)
	}
}

func TestInvalidPhoneDiagnostic(t *testing.T) {
	p := newTestParser()
	result := p.ParseOrderText(context.Background(),
		"name: John Smith\nphone: invalid\n1 burger to 123 Main St")

	if result.CustomerPhone != "" {
		t.Errorf("customer phone = %q, want empty", result.CustomerPhone)
	}
	if len(result.Errors) != 1 || !strings.Contains(strings.ToLower(result.Errors[0]), "phone") {
		t.Errorf("expected a single phone diagnostic, got %v", result.Errors)
	}
}

func TestMissingAddressDiagnostic(t *testing.T) {
	p := newTestParser()
	result := p.ParseOrderText(context.Background(), "order 1 burger and 1 fries")

	if result.DeliveryAddress != "" {
		t.Errorf("delivery address = %q, want empty", result.DeliveryAddress)
	}
	if len(result.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(result.Items))
	}
	found := false
	for _, e := range result.Errors {
		if strings.Contains(strings.ToLower(e), "address") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected address diagnostic, got %v", result.Errors)
	}
}

func TestUnknownItemDiagnostic(t *testing.T) {
	p := newTestParser()
	result := p.ParseOrderText(context.Background(), "I want 1 pizza deliver to 123 Main St")

	if len(result.Items) != 0 {
		t.Fatalf("expected no items, got %d (%v)", len(result.Items), itemNames(result))
	}
	found := false
	for _, e := range result.Errors {
		if strings.Contains(e, "pizza") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected diagnostic naming pizza, got %v", result.Errors)
	}
}

func TestZeroQuantityDiagnostic(t *testing.T) {
	p := newTestParser()
	result := p.ParseOrderText(context.Background(), "0 burger to 123 Main St")

	found := false
	for _, e := range result.Errors {
		if strings.Contains(e, "zero quantity") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected zero-quantity diagnostic, got %v", result.Errors)
	}
}

func TestSpecialInstructions(t *testing.T) {
	p := newTestParser()
	result := p.ParseOrderText(context.Background(),
		"order 1 burger with extra cheese and 1 fries no salt to 123 Main St")

	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d (%v)", len(result.Items), itemNames(result))
	}
	if result.SpecialInstructions != "extra cheese, no salt" {
		t.Errorf("special instructions = %q, want %q", result.SpecialInstructions, "extra cheese, no salt")
	}
}

func TestMultipleInstructions(t *testing.T) {
	p := newTestParser()
	result := p.ParseOrderText(context.Background(),
		"order 1 burger no onions extra cheese and 1 fries extra crispy no salt to 123 Main St")

	for _, want := range []string{"no onions", "extra cheese", "extra crispy", "no salt"} {
		if !strings.Contains(result.SpecialInstructions, want) {
			t.Errorf("special instructions %q missing %q", result.SpecialInstructions, want)
		}
	}
}

func TestTaglishInstructions(t *testing.T) {
	p := newTestParser()
	result := p.ParseOrderText(context.Background(),
		"order po ng 2 burger at isang pritong patatas with extra sauce sa 123 Main St")

	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d (%v)", len(result.Items), itemNames(result))
	}
	if result.Items[0].Quantity != 2 || result.Items[1].Quantity != 1 {
		t.Errorf("quantities = %d, %d, want 2, 1", result.Items[0].Quantity, result.Items[1].Quantity)
	}
	if result.SpecialInstructions != "extra sauce" {
		t.Errorf("special instructions = %q, want %q", result.SpecialInstructions, "extra sauce")
	}
}

func TestPickupOrder(t *testing.T) {
	p := newTestParser()
	result := p.ParseOrderText(context.Background(), "1 burger pick up na lang po")

	if result.OrderType != models.Pickup {
		t.Fatalf("order type = %s, want pickup", result.OrderType)
	}
	if len(result.Items) != 1 {
		t.Errorf("expected 1 item, got %d (%v)", len(result.Items), itemNames(result))
	}
	for _, e := range result.Errors {
		if strings.Contains(strings.ToLower(e), "address") {
			t.Errorf("pickup order should not demand an address: %v", result.Errors)
		}
	}
}

func TestRequestedTime(t *testing.T) {
	p := newTestParser()
	result := p.ParseOrderText(context.Background(),
		"1 burger by 7:30 pm deliver to 123 Main St")

	if result.RequestedTime != "7:30 pm" {
		t.Errorf("requested time = %q, want %q", result.RequestedTime, "7:30 pm")
	}
	if len(result.Items) != 1 {
		t.Errorf("expected 1 item, got %d (%v)", len(result.Items), itemNames(result))
	}
}

func TestPaymentMethod(t *testing.T) {
	p := newTestParser()
	result := p.ParseOrderText(context.Background(),
		"1 burger, gcash payment, deliver to 123 Main St")

	if result.PaymentMethod != models.PaymentGCash {
		t.Errorf("payment method = %q, want gcash", result.PaymentMethod)
	}
}

func TestDiscountCode(t *testing.T) {
	p := newTestParser()
	result := p.ParseOrderText(context.Background(),
		"1 burger promo code save10 deliver to 123 Main St")

	if result.DiscountCode != "SAVE10" {
		t.Errorf("discount code = %q, want SAVE10", result.DiscountCode)
	}
}

type failingCatalog struct{}

func (failingCatalog) FindByName(ctx context.Context, phrase string) ([]models.MenuItem, error) {
	return nil, errors.New("catalog unavailable")
}

func TestDegradedParseOnCatalogFailure(t *testing.T) {
	p := New(failingCatalog{}, DefaultLexicon())
	result := p.ParseOrderText(context.Background(), "1 burger to 123 Main St")

	if result.Items == nil || len(result.Items) != 0 {
		t.Errorf("degraded result should have empty items, got %v", result.Items)
	}
	if result.OrderType != models.Delivery {
		t.Errorf("degraded order type = %s, want delivery", result.OrderType)
	}
	if result.OriginalText != "1 burger to 123 Main St" {
		t.Errorf("degraded result lost original text: %q", result.OriginalText)
	}
	if len(result.Errors) == 0 {
		t.Error("degraded result should carry a parse-failure diagnostic")
	}
}

func TestEmptyMessage(t *testing.T) {
	p := newTestParser()
	result := p.ParseOrderText(context.Background(), "")

	if result.Items == nil {
		t.Fatal("items must never be nil")
	}
	if len(result.Items) != 0 {
		t.Errorf("expected no items, got %d", len(result.Items))
	}
	if len(result.Errors) == 0 {
		t.Error("empty message should produce a diagnostic")
	}
}

func TestOriginalTextRetained(t *testing.T) {
	p := newTestParser()
	text := "name: Ana\n2 burger deliver to 9 Mabini St"
	result := p.ParseOrderText(context.Background(), text)

	if result.OriginalText != text {
		t.Errorf("original text = %q, want untouched input", result.OriginalText)
	}
}

func TestRequestedTimeUsesLexiconIndicators(t *testing.T) {
	lex := DefaultLexicon()
	lex.TimeIndicators = []string{"pagdating"}
	p := New(NewMemoryCatalog(testMenu()), lex)

	result := p.ParseOrderText(context.Background(),
		"1 burger pagdating 7:30 pm, deliver to 123 Main St")
	if result.RequestedTime != "7:30 pm" {
		t.Errorf("requested time = %q, want %q", result.RequestedTime, "7:30 pm")
	}

	result = p.ParseOrderText(context.Background(),
		"1 burger by 7:30 pm, deliver to 123 Main St")
	if result.RequestedTime != "" {
		t.Errorf("requested time = %q, want none for an unlisted indicator", result.RequestedTime)
	}
}
