// Package catalog provides the in-memory medicine catalog and the
// autocomplete matcher used when composing prescription line items.
// The catalog is built once from a list of display strings
// ("Paracetamol 500mg") and is immutable afterwards; lookups never
// mutate it, so it is safe to share across goroutines.
package catalog

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultSuggestLimit caps how many autocomplete suggestions are returned
// to the client in one call.
const DefaultSuggestLimit = 10

// Catalog is an immutable, canonically sorted set of medicine display
// strings. Sort order is fixed at build time and bounds the ordering of
// every Suggest result.
type Catalog struct {
	entries []string
	// lowered mirrors entries in lower case, index-aligned, so Suggest
	// does not re-fold the whole catalog on every keystroke.
	lowered []string
	index   map[string]struct{}
}

// New builds a catalog from raw entries. Blank entries are dropped,
// duplicates collapse to one, and the survivors are sorted with an
// English collator so the order is stable regardless of input order.
func New(raw []string) *Catalog {
	seen := make(map[string]struct{}, len(raw))
	entries := make([]string, 0, len(raw))

	for _, e := range raw {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		entries = append(entries, e)
	}

	collate.New(language.English, collate.Loose).SortStrings(entries)

	lowered := make([]string, len(entries))
	for i, e := range entries {
		lowered[i] = strings.ToLower(e)
	}

	return &Catalog{
		entries: entries,
		lowered: lowered,
		index:   seen,
	}
}

// Suggest returns up to limit entries whose full display string starts
// with prefix, compared case-insensitively. An empty or whitespace-only
// prefix yields no suggestions: there is no browse-all mode. Results
// preserve catalog order.
func (c *Catalog) Suggest(prefix string, limit int) []string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" || limit <= 0 {
		return nil
	}

	needle := strings.ToLower(prefix)
	var matches []string
	for i, low := range c.lowered {
		if strings.HasPrefix(low, needle) {
			matches = append(matches, c.entries[i])
			if len(matches) == limit {
				break
			}
		}
	}
	return matches
}

// Contains reports whether the exact display string is a catalog entry.
// Free-text names that are not in the catalog are still valid line item
// names; the catalog only informs suggestions.
func (c *Catalog) Contains(entry string) bool {
	_, ok := c.index[entry]
	return ok
}

// Entries returns the catalog in canonical order. The returned slice is
// shared; callers must not modify it.
func (c *Catalog) Entries() []string {
	return c.entries
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}
