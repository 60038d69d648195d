// Package interactions implements the pairwise drug interaction checker
// run over a draft's medicine names. The rule table maps a base drug
// name to the base names it is flagged against; lookups test both
// directions. Results are advisory only, recomputed fresh on every call,
// never accumulated.
package interactions

import "strings"

// Pair is one detected interaction between two base drug names. Members
// are ordered lexicographically so the rendered string is independent of
// the order the medicines were added in.
type Pair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// String renders the pair the way the alert panel shows it.
func (p Pair) String() string {
	return p.A + " ⚠️ " + p.B
}

// Checker evaluates medicine name lists against a static rule table.
// The zero value is unusable; build one with New.
type Checker struct {
	rules map[string][]string

	// strict switches the rule match from the historical substring
	// containment ("NSAIDs" matching any base containing "NSAID") to
	// exact base-name equality.
	strict bool
}

// New builds a checker over the given rule table. The table is read-only
// after this call. strict selects exact base-name matching instead of
// substring containment.
func New(rules map[string][]string, strict bool) *Checker {
	return &Checker{rules: rules, strict: strict}
}

// Strict reports whether exact matching is active.
func (c *Checker) Strict() bool {
	return c.strict
}

// RuleCount returns the number of base drugs in the rule table.
func (c *Checker) RuleCount() int {
	return len(c.rules)
}

// BaseName strips the dosage/strength suffix from a medicine display
// name by taking its first whitespace-delimited token.
func BaseName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Check scans all distinct pairs of the given medicine names and
// returns every interacting pair exactly once, in the order first
// discovered. Blank names are skipped; a drug never interacts with
// itself.
func (c *Checker) Check(names []string) []Pair {
	bases := make([]string, 0, len(names))
	for _, n := range names {
		if b := BaseName(n); b != "" {
			bases = append(bases, b)
		}
	}

	var found []Pair
	seen := make(map[Pair]struct{})

	for i := 0; i < len(bases); i++ {
		for j := i + 1; j < len(bases); j++ {
			if bases[i] == bases[j] {
				continue
			}
			if !c.interacts(bases[i], bases[j]) && !c.interacts(bases[j], bases[i]) {
				continue
			}
			p := orderedPair(bases[i], bases[j])
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			found = append(found, p)
		}
	}
	return found
}

// CheckStrings is Check with each pair pre-rendered for display.
func (c *Checker) CheckStrings(names []string) []string {
	pairs := c.Check(names)
	if len(pairs) == 0 {
		return nil
	}
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = p.String()
	}
	return out
}

// interacts tests the directional rule table[a] against base b.
func (c *Checker) interacts(a, b string) bool {
	for _, flagged := range c.rules[a] {
		if c.strict {
			if b == flagged {
				return true
			}
			continue
		}
		// Historical behavior: a table entry matches when the other
		// base contains it as a substring, which lets class entries
		// like "NSAIDs" flag compound names loosely.
		if strings.Contains(b, flagged) {
			return true
		}
	}
	return false
}

func orderedPair(a, b string) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}
