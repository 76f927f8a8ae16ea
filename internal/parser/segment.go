package parser

import "strings"

// customerInfo is the result of peeling name/phone lines off a message.
type customerInfo struct {
	name      string
	phone     string
	rawPhone  string
	remaining string
}

// extractCustomerInfo splits the message into lines and checks each line for
// name and phone indicator phrases. The first match across all lines wins
// for each field; later lines never overwrite it. Lines that yielded a name
// or phone are excluded from the remaining text.
func (p *Parser) extractCustomerInfo(text string) customerInfo {
	if text == "" {
		return customerInfo{}
	}

	var info customerInfo
	var remainingLines []string

	for _, line := range strings.Split(text, "\n") {
		isInfoLine := false
		lowerLine := strings.ToLower(line)

		if info.name == "" {
			p.lexicon.eachPhrase(p.lexicon.NameIndicators, func(indicator string) bool {
				idx := strings.Index(lowerLine, indicator)
				if idx == -1 {
					return false
				}
				info.name = strings.TrimSpace(line[idx+len(indicator):])
				isInfoLine = true
				return true
			})
		}

		if info.phone == "" {
			p.lexicon.eachPhrase(p.lexicon.PhoneIndicators, func(indicator string) bool {
				idx := strings.Index(lowerLine, indicator)
				if idx == -1 {
					return false
				}
				info.rawPhone = strings.TrimSpace(line[idx+len(indicator):])
				info.phone = sanitizePhone(info.rawPhone)
				isInfoLine = true
				return true
			})
		}

		if !isInfoLine {
			remainingLines = append(remainingLines, line)
		}
	}

	info.remaining = strings.Join(remainingLines, "\n")
	return info
}

// sanitizePhone strips everything except digits, keeping a single leading +.
func sanitizePhone(raw string) string {
	var b strings.Builder
	for i, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// addressCollisionSlack widens the window around a compound phrase inside
// which an address indicator is ignored. Heuristic constant carried over
// from the chat logs this parser was tuned on; tunable, not load-bearing.
const addressCollisionSlack = 5

// extractAddress scans for address indicator phrases and splits the text at
// the first accepted occurrence: everything before it is order text,
// everything from the indicator onward is the address. An occurrence is
// rejected when it falls within len(phrase)+addressCollisionSlack characters
// of a known compound menu phrase, so "pritong manok" never loses its "to".
func (p *Parser) extractAddress(text string) (orderText, address string) {
	lowerText := strings.ToLower(text)

	// First occurrence of each compound phrase present in the text.
	var compounds []struct {
		index  int
		length int
	}
	for _, phrase := range p.lexicon.CompoundPhrases {
		if idx := strings.Index(lowerText, phrase); idx != -1 {
			compounds = append(compounds, struct {
				index  int
				length int
			}{idx, len(phrase)})
		}
	}

	splitAt := -1
	p.lexicon.eachPhrase(p.lexicon.AddressIndicators, func(indicator string) bool {
		// Only the first occurrence of each indicator is considered; a
		// colliding occurrence disqualifies the indicator rather than
		// falling through to later ones.
		idx := strings.Index(lowerText, indicator)
		if idx == -1 {
			return false
		}

		for _, c := range compounds {
			dist := idx - c.index
			if dist < 0 {
				dist = -dist
			}
			if dist < c.length+addressCollisionSlack {
				return false
			}
		}

		splitAt = idx
		return true
	})

	if splitAt == -1 {
		return text, ""
	}
	return strings.TrimSpace(text[:splitAt]), strings.TrimSpace(text[splitAt:])
}
