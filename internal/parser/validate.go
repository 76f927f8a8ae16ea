package parser

import (
	"regexp"
	"strings"

	"karinderya/internal/models"
)

var (
	zeroQuantityRe   = regexp.MustCompile(`\b0\s+\w+\b`)
	plausiblePhoneRe = regexp.MustCompile(`^\+?\d{7,15}$`)
)

// validate appends human-readable diagnostics to the parse result. It never
// fails; multiple diagnostics may coexist.
func (p *Parser) validate(result *models.ParsedOrder, rawPhone string) {
	if zeroQuantityRe.MatchString(result.OriginalText) {
		result.Errors = append(result.Errors, "Order contains items with zero quantity")
	}

	if len(result.Items) == 0 {
		if unknown := p.unknownWords(result.OriginalText); len(unknown) > 0 {
			result.Errors = append(result.Errors,
				"Unknown menu items: "+strings.Join(unknown, ", "))
		} else {
			result.Errors = append(result.Errors, "No menu items found in order")
		}
	}

	if result.DeliveryAddress == "" && result.OrderType == models.Delivery {
		result.Errors = append(result.Errors, "No delivery address found in order")
	}

	if result.CustomerPhone != "" && !plausiblePhoneRe.MatchString(result.CustomerPhone) {
		result.CustomerPhone = ""
	}
	if rawPhone != "" && result.CustomerPhone == "" {
		result.Errors = append(result.Errors, "Invalid phone number: "+rawPhone)
	}
}

// unknownWords collects words longer than three characters that are not
// filter words, as a hint about what the customer may have tried to order.
func (p *Parser) unknownWords(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', '!', '?', ':':
			return -1
		}
		return r
	}, strings.ToLower(text))

	var unknown []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 3 || p.lexicon.isFilterWord(word) {
			continue
		}
		unknown = append(unknown, word)
	}
	return unknown
}
