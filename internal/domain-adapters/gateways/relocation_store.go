package gateways

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/ochairo/cellar/internal/domain/entities"
	"github.com/ochairo/cellar/internal/domain/services"
)

// RelocationStore materializes relocated variants of cached binaries. The
// pristine cached artifact is never rewritten in place; the variant lives
// beside it, keyed by a digest of the rule list, so future callers with
// non-conflicting rules reuse the original.
type RelocationStore struct {
	sums *ChecksumVerifier
}

// NewRelocationStore creates a relocation store.
func NewRelocationStore() *RelocationStore {
	return &RelocationStore{sums: NewChecksumVerifier()}
}

// EnsureRelocated returns the path of the binary at jarPath rewritten by
// rules. With no rules the original path is returned untouched. An existing
// variant for the same rule list is reused without rewriting.
func (r *RelocationStore) EnsureRelocated(jarPath string, rules []entities.RelocationRule) (string, error) {
	if len(rules) == 0 {
		return jarPath, nil
	}

	variant := r.variantPath(jarPath, rules)
	if _, err := os.Stat(variant); err == nil {
		return variant, nil
	}

	//nolint:gosec // G304: jarPath is derived from the cache layout
	data, err := os.ReadFile(jarPath)
	if err != nil {
		return "", fmt.Errorf("failed to read artifact: %w", err)
	}
	relocated := services.Relocate(data, rules)
	if err := publishBytes(relocated, variant); err != nil {
		return "", err
	}
	return variant, nil
}

func (r *RelocationStore) variantPath(jarPath string, rules []entities.RelocationRule) string {
	var key strings.Builder
	for _, rule := range rules {
		key.WriteString(rule.From)
		key.WriteByte(0)
		key.WriteString(rule.To)
		key.WriteByte(0)
	}
	sum := sha256.Sum256([]byte(key.String()))
	tag := hex.EncodeToString(sum[:4])

	ext := ""
	base := jarPath
	if i := strings.LastIndex(jarPath, "."); i > strings.LastIndex(jarPath, string(os.PathSeparator)) {
		base, ext = jarPath[:i], jarPath[i:]
	}
	return base + "-relocated-" + tag + ext
}
