// Package gateways defines interfaces for external service adapters.
package gateways

import (
	"context"

	"github.com/ochairo/cellar/internal/domain/entities"
)

// PresenceProbe answers whether a symbol marker is already reachable in the
// hosting process. It backs the skip-if-satisfied test and must never touch
// the network.
type PresenceProbe interface {
	// IsPresent reports whether the marker resolves in the host process.
	IsPresent(marker string) bool
}

// PresenceProbeFunc adapts a function to the PresenceProbe interface.
type PresenceProbeFunc func(marker string) bool

// IsPresent calls the wrapped function.
func (f PresenceProbeFunc) IsPresent(marker string) bool { return f(marker) }

// SearchPath is the runtime search-path primitive. It accepts verified,
// possibly relocated binaries and makes their contents resolvable to the
// hosting process; the core decides only what to inject and in what order.
type SearchPath interface {
	// Append makes the binary at path resolvable to the host process and
	// records the coordinate it satisfies.
	Append(ctx context.Context, coordinate entities.Coordinate, path string) error

	// InjectedVersion returns the version of the group:artifact already
	// injected into the process, or "" when none is.
	InjectedVersion(group, artifact string) string
}

// SignatureVerifier checks a detached signature for a fetched artifact.
type SignatureVerifier interface {
	// VerifyDetached validates the armored signature sig against the content
	// of the file at path.
	VerifyDetached(ctx context.Context, path string, sig []byte) error
}
