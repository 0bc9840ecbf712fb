package entities

// Dependency is one declared library requirement handed to the core by the
// requirement-scanning boundary. The core treats it as plain data; it never
// knows how the record was discovered.
type Dependency struct {
	// Coordinate is the "group:artifact:version" request, possibly carrying
	// the '!' literal-escape marker.
	Coordinate string

	// Relocate is a flat pattern/replacement pair list.
	Relocate []string

	// Repository is a literal address or a logical name resolvable through
	// the repo-<name> override store. Empty selects the central default.
	Repository string

	// Test holds comma-separated presence markers; when all resolve as
	// present in the host process, acquisition is skipped entirely.
	Test string

	IgnoreOptional  bool
	IgnoreException bool
	Transitive      bool

	// Scopes is the requested scope set; empty means DefaultScopes.
	Scopes []Scope
}

// RequestedScopes returns the declaration's scope set, defaulted when empty.
func (d Dependency) RequestedScopes() []Scope {
	if len(d.Scopes) == 0 {
		return DefaultScopes
	}
	return d.Scopes
}

// ResolvedDependency is a coordinate pulled into a closure, carrying the
// scope under which it was reached and the relocation rules to apply to its
// binary. Closures hold set semantics over the coordinate: multiple
// resolution paths reaching the same coordinate collapse to one entry.
type ResolvedDependency struct {
	Coordinate Coordinate
	Scope      Scope
	Relocation []RelocationRule
}
