package services

import (
	"bytes"

	"github.com/ochairo/cellar/internal/domain/entities"
)

// Relocate rewrites every internal reference in data matching a rule's From
// pattern with its To pattern. Rules apply in declaration order; for
// overlapping patterns the first matching rule in declaration order wins, and
// a rewritten region is never re-matched within the same pass.
//
// The transform is pure: the input slice is never mutated.
func Relocate(data []byte, rules []entities.RelocationRule) []byte {
	if len(rules) == 0 {
		return data
	}
	var out bytes.Buffer
	out.Grow(len(data))

	for i := 0; i < len(data); {
		matched := false
		for _, rule := range rules {
			if rule.From == "" {
				continue
			}
			if bytes.HasPrefix(data[i:], []byte(rule.From)) {
				out.WriteString(rule.To)
				i += len(rule.From)
				matched = true
				break
			}
		}
		if !matched {
			out.WriteByte(data[i])
			i++
		}
	}
	return out.Bytes()
}
