package models

import "time"

// MenuItem represents an item on the menu, with an English name, a Tagalog
// name and optional aliases used by the order parser for lookups.
type MenuItem struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	NameTagalog string    `json:"name_tagalog"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Aliases     []string  `json:"aliases"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// DisplayName returns the item name in the requested language, falling back
// to the English name when no Tagalog name is set.
func (m MenuItem) DisplayName(language string) string {
	if language == "tagalog" && m.NameTagalog != "" {
		return m.NameTagalog
	}
	return m.Name
}
