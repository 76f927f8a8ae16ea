package parser

import (
	"context"
	"sort"
	"strings"

	"karinderya/internal/models"
)

// MemoryCatalog is an in-memory Catalog. It backs tests and local runs
// without a database, ranking candidates the same way the Postgres catalog
// does: exact name match, then prefix, then alias/substring, ties by name.
type MemoryCatalog struct {
	items []models.MenuItem
}

// NewMemoryCatalog creates a catalog over a fixed set of menu items.
func NewMemoryCatalog(items []models.MenuItem) *MemoryCatalog {
	return &MemoryCatalog{items: items}
}

func (c *MemoryCatalog) FindByName(ctx context.Context, phrase string) ([]models.MenuItem, error) {
	needle := strings.ToLower(strings.TrimSpace(phrase))
	if needle == "" {
		return nil, nil
	}

	type ranked struct {
		item models.MenuItem
		rank int
	}

	var matches []ranked
	for _, item := range c.items {
		if rank, ok := rankMatch(item, needle); ok {
			matches = append(matches, ranked{item, rank})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].rank != matches[j].rank {
			return matches[i].rank < matches[j].rank
		}
		return matches[i].item.Name < matches[j].item.Name
	})

	result := make([]models.MenuItem, len(matches))
	for i, m := range matches {
		result[i] = m.item
	}
	return result, nil
}

// rankMatch scores how well a menu item matches a lookup phrase:
// 1 exact, 2 prefix, 3 alias or substring.
func rankMatch(item models.MenuItem, needle string) (int, bool) {
	name := strings.ToLower(item.Name)
	tagalog := strings.ToLower(item.NameTagalog)

	if name == needle || (tagalog != "" && tagalog == needle) {
		return 1, true
	}
	for _, alias := range item.Aliases {
		if strings.ToLower(alias) == needle {
			return 1, true
		}
	}
	if strings.HasPrefix(name, needle) || (tagalog != "" && strings.HasPrefix(tagalog, needle)) {
		return 2, true
	}
	if strings.Contains(name, needle) || (tagalog != "" && strings.Contains(tagalog, needle)) {
		return 3, true
	}
	for _, alias := range item.Aliases {
		if strings.Contains(strings.ToLower(alias), needle) {
			return 3, true
		}
	}
	return 0, false
}
