package parser

import (
	"sort"
	"strings"
)

// cleanText lowercases and tokenizes order text. Compound menu phrases are
// replaced by underscore-joined tokens before splitting so whitespace
// tokenization cannot break them apart, then the underscores are restored.
// Filter words are dropped.
func (p *Parser) cleanText(text string) []string {
	processed := strings.ToLower(text)

	// Longest first, so "pakpak ng manok" is protected before "manok"-bearing
	// shorter phrases get a chance to overlap it.
	sorted := make([]string, len(p.lexicon.CompoundPhrases))
	copy(sorted, p.lexicon.CompoundPhrases)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	for _, phrase := range sorted {
		protected := strings.ReplaceAll(phrase, " ", "_")
		processed = strings.ReplaceAll(processed, phrase, protected)
	}

	processed = strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', '!', '?':
			return -1
		}
		return r
	}, processed)

	var tokens []string
	for _, token := range strings.Fields(processed) {
		token = strings.ReplaceAll(token, "_", " ")
		if p.lexicon.isFilterWord(token) {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}
