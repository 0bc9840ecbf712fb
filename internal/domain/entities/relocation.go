package entities

import "fmt"

// RelocationRule rewrites internal namespace references inside a binary.
// Rules are applied in declaration order; for overlapping patterns the first
// matching rule in declaration order wins.
type RelocationRule struct {
	From string
	To   string
}

// ParseRelocationPairs converts a flat pattern/replacement list into rules.
// The list must have even cardinality; each element may carry the '!'
// literal-escape marker. Validation happens before any I/O.
func ParseRelocationPairs(pairs []string) ([]RelocationRule, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("%w: %d entries", ErrMalformedRelocationRule, len(pairs))
	}
	rules := make([]RelocationRule, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		rules = append(rules, RelocationRule{
			From: Unescape(pairs[i]),
			To:   Unescape(pairs[i+1]),
		})
	}
	return rules, nil
}
