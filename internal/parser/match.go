package parser

import (
	"context"
	"strings"

	"karinderya/internal/models"
)

// maxMatchWindow caps how many tokens a single menu lookup may span.
const maxMatchWindow = 4

// findMenuItems walks the token stream once, resolving quantities and menu
// items together. A quantity token sets the quantity for the next matched
// item; each match resets it to 1. Lookups run strictly left to right: the
// cursor position and the phrase cache are mutated per match, so the order
// of catalog calls is load-bearing and must stay sequential.
//
// Repeated mentions of the same menu item are aggregated into one entry
// with the quantities summed, never appended twice.
func (p *Parser) findMenuItems(ctx context.Context, tokens []string) ([]models.ParsedItem, error) {
	items := []models.ParsedItem{}
	position := make(map[int]int)             // menu item ID -> index in items
	cache := make(map[string]models.MenuItem) // phrases already resolved

	record := func(item models.MenuItem, quantity int) {
		if idx, ok := position[item.ID]; ok {
			items[idx].Quantity += quantity
			return
		}
		position[item.ID] = len(items)
		items = append(items, models.ParsedItem{Item: item, Quantity: quantity})
	}

	currentQuantity := 1

	for i := 0; i < len(tokens); {
		token := tokens[i]

		if q, ok := p.lexicon.quantityOf(token); ok {
			currentQuantity = q
			i++
			continue
		}

		matched := false
		window := maxMatchWindow
		if rest := len(tokens) - i; rest < window {
			window = rest
		}

		// Longest window first, so "fried chicken" beats "chicken".
		for w := window; w >= 1; w-- {
			phrase := strings.Join(tokens[i:i+w], " ")

			if item, ok := cache[phrase]; ok {
				record(item, currentQuantity)
				currentQuantity = 1
				i += w
				matched = true
				break
			}

			candidates, err := p.catalog.FindByName(ctx, phrase)
			if err != nil {
				return nil, err
			}
			if len(candidates) > 0 {
				cache[phrase] = candidates[0]
				record(candidates[0], currentQuantity)
				currentQuantity = 1
				i += w
				matched = true
				break
			}
		}

		// Unmatched tokens are dropped silently; validation reports them
		// only when nothing in the message resolved to a menu item.
		if !matched {
			i++
		}
	}

	return items, nil
}
