// Package parser converts free-form bilingual (English/Tagalog) chat
// messages into structured orders using layered heuristic extraction and
// fuzzy menu-item matching against a catalog.
package parser

import (
	"context"
	"strings"

	"karinderya/internal/models"
)

// Catalog resolves a free-text phrase to ranked menu item candidates:
// exact name match first, then prefix, then alias/substring, ties broken
// by name. Lookups must be case-insensitive.
type Catalog interface {
	FindByName(ctx context.Context, phrase string) ([]models.MenuItem, error)
}

// Parser extracts structured orders from chat messages. Each call to
// ParseOrderText is independent; a Parser is safe for concurrent use.
type Parser struct {
	catalog Catalog
	lexicon Lexicon
}

// New creates a Parser over the given catalog and vocabulary.
func New(catalog Catalog, lexicon Lexicon) *Parser {
	return &Parser{
		catalog: catalog,
		lexicon: lexicon,
	}
}

// ParseOrderText parses a raw chat message into a ParsedOrder.
//
// The pipeline: customer-info lines are peeled off, the delivery address is
// split from the order text, the metadata extractors run (pickup,
// instructions, requested time, payment method, discount code), the
// remainder is tokenized and scanned for quantities and menu items, and
// validation populates Errors.
//
// ParseOrderText never fails: any internal panic or catalog error degrades
// into a minimal well-formed ParsedOrder carrying a parse-failure
// diagnostic, so the chat flow always has something to respond with.
func (p *Parser) ParseOrderText(ctx context.Context, text string) (result models.ParsedOrder) {
	defer func() {
		if r := recover(); r != nil {
			result = degradedResult(text)
		}
	}()

	result = models.ParsedOrder{
		Items:        []models.ParsedItem{},
		OrderType:    models.Delivery,
		OriginalText: text,
		Errors:       []string{},
	}

	info := p.extractCustomerInfo(text)
	result.CustomerName = info.name
	result.CustomerPhone = info.phone

	working := info.remaining
	if strings.TrimSpace(working) == "" {
		working = text
	}

	orderText, address := p.extractAddress(working)
	result.DeliveryAddress = address

	isPickup, orderText := p.extractPickup(orderText)
	if isPickup {
		result.OrderType = models.Pickup
	}

	result.SpecialInstructions, orderText = p.extractInstructions(orderText)
	result.RequestedTime, orderText = p.extractTime(orderText)
	result.PaymentMethod, orderText = p.extractPayment(orderText)
	result.DiscountCode, orderText = p.extractDiscount(orderText)

	tokens := p.cleanText(orderText)

	items, err := p.findMenuItems(ctx, tokens)
	if err != nil {
		return degradedResult(text)
	}
	result.Items = items

	p.validate(&result, info.rawPhone)
	return result
}

// degradedResult is the minimal well-formed ParsedOrder returned when
// parsing fails outright.
func degradedResult(text string) models.ParsedOrder {
	return models.ParsedOrder{
		Items:        []models.ParsedItem{},
		OrderType:    models.Delivery,
		OriginalText: text,
		Errors:       []string{"Failed to parse order text"},
	}
}
