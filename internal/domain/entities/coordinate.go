// Package entities defines core domain models and data structures.
package entities

import (
	"fmt"
	"strings"
)

// Coordinate identifies a library by its group, artifact and version.
// Identity for caching and deduplication is the full triple; there is no
// version-range matching.
type Coordinate struct {
	Group    string
	Artifact string
	Version  string
}

// ParseCoordinate parses a "group:artifact:version" string. A leading '!'
// literal-escape marker is stripped before splitting.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(Unescape(s), ":")
	if len(parts) != 3 {
		return Coordinate{}, fmt.Errorf("%w: %q: expected group:artifact:version", ErrMalformedCoordinate, s)
	}
	for _, p := range parts {
		if p == "" {
			return Coordinate{}, fmt.Errorf("%w: %q: empty field", ErrMalformedCoordinate, s)
		}
	}
	return Coordinate{Group: parts[0], Artifact: parts[1], Version: parts[2]}, nil
}

// String formats the coordinate as "group:artifact:version", the inverse of
// ParseCoordinate.
func (c Coordinate) String() string {
	return c.Group + ":" + c.Artifact + ":" + c.Version
}

// GroupPath returns the group with dots translated into path segments.
func (c Coordinate) GroupPath() string {
	return strings.ReplaceAll(c.Group, ".", "/")
}

// IsZero reports whether the coordinate is empty.
func (c Coordinate) IsZero() bool {
	return c == Coordinate{}
}

// Unescape strips the '!' literal-escape marker from a user-supplied string.
// The marker means "treat the remainder as a literal value"; it is applied
// uniformly to coordinates, test expressions and relocation patterns.
func Unescape(s string) string {
	return strings.TrimPrefix(s, "!")
}
