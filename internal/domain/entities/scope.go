package entities

import "strings"

// Scope classifies when a dependency is needed.
type Scope string

// Dependency scopes as declared in repository descriptors.
const (
	ScopeCompile  Scope = "compile"
	ScopeRuntime  Scope = "runtime"
	ScopeTest     Scope = "test"
	ScopeProvided Scope = "provided"
	ScopeSystem   Scope = "system"
	ScopeImport   Scope = "import"
)

// DefaultScopes is the scope set requested when a declaration does not
// specify one.
var DefaultScopes = []Scope{ScopeRuntime, ScopeCompile}

// ParseScope normalizes a descriptor scope string. An empty declaration
// defaults to compile, matching repository descriptor semantics.
func ParseScope(s string) Scope {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ScopeCompile
	}
	return Scope(s)
}

// In reports whether the scope is a member of the requested scope set.
func (s Scope) In(scopes []Scope) bool {
	for _, candidate := range scopes {
		if s == candidate {
			return true
		}
	}
	return false
}
