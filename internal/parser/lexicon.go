package parser

import "karinderya/internal/models"

// Languages are checked in this order wherever per-language phrase lists
// exist. English first mirrors how customers mix the two in practice.
var defaultLanguages = []string{"english", "tagalog"}

// PaymentIndicators maps a payment method to the phrases that signal it.
// Order matters: "gcash" contains "cash", so the wallet methods are checked
// before the generic ones.
type PaymentIndicators struct {
	Method  models.PaymentMethod
	Phrases []string
}

// Lexicon carries every vocabulary table the parser consults. It is
// immutable configuration injected at construction time so tests can swap
// in alternate vocabularies without shared state.
type Lexicon struct {
	Languages []string

	// FilterWords are dropped during tokenization (articles, connectives,
	// politeness particles).
	FilterWords map[string][]string

	NameIndicators  map[string][]string
	PhoneIndicators map[string][]string

	AddressIndicators map[string][]string
	PickupIndicators  map[string][]string

	InstructionIndicators map[string][]string
	DiscountIndicators    []string
	TimeIndicators        []string
	Payments              []PaymentIndicators

	// Quantities maps quantity words and digit literals to values.
	Quantities map[string]map[string]int

	// CompoundPhrases are multi-word menu terms that must survive
	// tokenization as a single token.
	CompoundPhrases []string
}

// DefaultLexicon returns the built-in English/Tagalog vocabulary.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Languages: defaultLanguages,

		FilterWords: map[string][]string{
			"english": {
				"i", "want", "to", "order", "please", "and", "with", "also",
				"get", "would", "like", "a", "an", "the", "can", "me", "for",
			},
			"tagalog": {
				"po", "nga", "sana", "ako", "gusto", "ko", "ng", "at", "pati",
				"rin", "din", "mag", "order", "pa", "yung", "na", "lang",
				"akin", "para", "sa", "dito",
			},
		},

		NameIndicators: map[string][]string{
			"english": {"name:", "name is", "this is", "i am", "caller:", "from:"},
			"tagalog": {"pangalan:", "ako si", "ito si", "tawag:", "mula kay:"},
		},
		PhoneIndicators: map[string][]string{
			"english": {"phone:", "contact:", "number:", "cell:", "mobile:"},
			"tagalog": {"numero:", "telepono:", "cellphone:"},
		},

		AddressIndicators: map[string][]string{
			"english": {"deliver", "address", "location", "send", "to"},
			"tagalog": {
				"address", "lugar", "lokasyon", "dito", "sa", "padala",
				"deliver", "ipadala", "punta", "doon", "diyan",
			},
		},
		PickupIndicators: map[string][]string{
			"english": {"pick up", "pickup", "pick-up", "for take out", "takeout"},
			"tagalog": {"kunin ko", "kunin", "babalikan", "susunduin"},
		},

		InstructionIndicators: map[string][]string{
			"english": {"extra", "without", "no", "with"},
			"tagalog": {"walang", "dagdagan"},
		},
		DiscountIndicators: []string{"discount", "promo", "kupon", "voucher", "code"},
		TimeIndicators:     []string{"at", "by", "around", "before", "after", "alas", "mga"},
		Payments: []PaymentIndicators{
			{models.PaymentGCash, []string{"gcash", "g-cash"}},
			{models.PaymentPayMaya, []string{"paymaya", "pay maya"}},
			{models.PaymentCard, []string{"credit card", "debit card", "card"}},
			{models.PaymentCash, []string{"cash"}},
		},

		Quantities: map[string]map[string]int{
			"english": {
				"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
				"1": 1, "2": 2, "3": 3, "4": 4, "5": 5,
			},
			"tagalog": {
				"isa": 1, "dalawa": 2, "tatlo": 3, "apat": 4, "lima": 5,
				// linker forms: "dalawang burger", "isang fries"
				"isang": 1, "dalawang": 2, "tatlong": 3, "limang": 5,
				"1": 1, "2": 2, "3": 3, "4": 4, "5": 5,
			},
		},

		CompoundPhrases: []string{
			"pritong manok",
			"pritong patatas",
			"pakpak ng manok",
			"ice cream",
			"soft drink",
			"french fries",
			"fried chicken",
		},
	}
}

// quantityOf reports the quantity value of a token, if it is one.
func (l Lexicon) quantityOf(token string) (int, bool) {
	for _, lang := range l.Languages {
		if q, ok := l.Quantities[lang][token]; ok {
			return q, true
		}
	}
	return 0, false
}

// isFilterWord reports whether the token is dropped during tokenization.
func (l Lexicon) isFilterWord(token string) bool {
	for _, lang := range l.Languages {
		for _, w := range l.FilterWords[lang] {
			if token == w {
				return true
			}
		}
	}
	return false
}

// eachPhrase walks a per-language phrase table in language order.
func (l Lexicon) eachPhrase(table map[string][]string, fn func(phrase string) bool) {
	for _, lang := range l.Languages {
		for _, phrase := range table[lang] {
			if fn(phrase) {
				return
			}
		}
	}
}
