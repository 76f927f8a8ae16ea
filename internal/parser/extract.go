package parser

import (
	"regexp"
	"strings"

	"karinderya/internal/models"
)

// The extractors below each scan the working text for one kind of metadata
// and return the extracted value together with the text with the matched
// span removed. They never touch unrelated text. The orchestrator runs them
// in a fixed order on successively shrinking text:
// pickup -> instructions -> time -> payment -> discount.

// extractPickup reports whether the message asks for pickup instead of
// delivery, removing the matched indicator phrase.
func (p *Parser) extractPickup(text string) (bool, string) {
	lowerText := strings.ToLower(text)

	isPickup := false
	remainder := text
	p.lexicon.eachPhrase(p.lexicon.PickupIndicators, func(indicator string) bool {
		idx := strings.Index(lowerText, indicator)
		if idx == -1 {
			return false
		}
		isPickup = true
		remainder = strings.TrimSpace(text[:idx] + " " + text[idx+len(indicator):])
		return true
	})

	return isPickup, remainder
}

var instructionWordRe = regexp.MustCompile(`^[A-Za-z]+$`)

// extractInstructions collects special-instruction phrases such as
// "extra cheese" or "no onions". Each instruction is an indicator word
// followed by one or more plain words; the capture stops before the next
// indicator, a connective, or anything non-alphabetic, so item names and
// quantities stay untouched. Matched spans are removed from the text and
// the full spans are joined with ", " in order of appearance.
func (p *Parser) extractInstructions(text string) (string, string) {
	indicators := make(map[string]bool)
	p.lexicon.eachPhrase(p.lexicon.InstructionIndicators, func(indicator string) bool {
		indicators[indicator] = true
		return false
	})

	stop := func(word string) bool {
		return indicators[word] || p.lexicon.isFilterWord(word)
	}

	words := strings.Fields(text)
	var instructions []string
	var kept []string

	for i := 0; i < len(words); {
		word := strings.ToLower(strings.Trim(words[i], ".,!?"))
		if !indicators[word] {
			kept = append(kept, words[i])
			i++
			continue
		}

		// Capture the run of plain words following the indicator.
		j := i + 1
		for j < len(words) {
			next := strings.ToLower(strings.Trim(words[j], ".,!?"))
			if !instructionWordRe.MatchString(next) || stop(next) {
				break
			}
			j++
		}

		if j == i+1 {
			// Indicator with nothing to qualify ("with" right before
			// another indicator); leave it for the tokenizer to filter.
			kept = append(kept, words[i])
			i++
			continue
		}

		span := make([]string, 0, j-i)
		span = append(span, word)
		for k := i + 1; k < j; k++ {
			span = append(span, strings.ToLower(strings.Trim(words[k], ".,!?")))
		}
		instructions = append(instructions, strings.Join(span, " "))
		i = j
	}

	return strings.Join(instructions, ", "), strings.Join(kept, " ")
}

// extractTime pulls the first "<indicator> <time>" expression out of the
// text, where the time is H:MM or H.MM with optional am/pm, or a bare hour
// with a mandatory am/pm. The captured value is kept raw and unnormalized.
func (p *Parser) extractTime(text string) (string, string) {
	alternation := strings.Join(p.lexicon.TimeIndicators, "|")
	re := regexp.MustCompile(
		`(?i)\b(?:` + alternation + `)\s+(\d{1,2}[:.]\d{2}\s*(?:am|pm)?|\d{1,2}\s*(?:am|pm))\b`)

	loc := re.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", text
	}
	value := strings.TrimSpace(text[loc[2]:loc[3]])
	remainder := strings.TrimSpace(text[:loc[0]] + " " + text[loc[1]:])
	return value, remainder
}

// extractPayment finds the first payment-method indicator. Wallet methods
// are checked before "cash" since "gcash" contains it.
func (p *Parser) extractPayment(text string) (models.PaymentMethod, string) {
	lowerText := strings.ToLower(text)

	for _, payment := range p.lexicon.Payments {
		for _, phrase := range payment.Phrases {
			idx := strings.Index(lowerText, phrase)
			if idx == -1 {
				continue
			}
			remainder := strings.TrimSpace(text[:idx] + " " + text[idx+len(phrase):])
			return payment.Method, remainder
		}
	}

	return "", text
}

// extractDiscount pulls a discount/promo code out of the text. Consecutive
// indicator words ("discount code") are swallowed together so the code is
// never mistaken for the word "code" itself. The captured code is
// upper-cased.
func (p *Parser) extractDiscount(text string) (string, string) {
	alternation := strings.Join(p.lexicon.DiscountIndicators, "|")
	re := regexp.MustCompile(
		`(?i)\b(?:` + alternation + `)(?:\s+(?:` + alternation + `))*\s*:?\s*([A-Za-z0-9]+)\b`)

	loc := re.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", text
	}
	code := strings.ToUpper(text[loc[2]:loc[3]])
	remainder := strings.TrimSpace(text[:loc[0]] + " " + text[loc[1]:])
	return code, remainder
}
