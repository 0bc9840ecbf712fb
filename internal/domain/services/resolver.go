// Package services contains pure domain logic for dependency resolution.
package services

import (
	"context"
	"fmt"

	"github.com/ochairo/cellar/internal/domain/entities"
	"github.com/ochairo/cellar/internal/domain/interfaces"
)

// DescriptorSource supplies a coordinate's descriptor, from cache or from the
// configured repositories.
type DescriptorSource interface {
	Descriptor(ctx context.Context, repos []entities.Repository, c entities.Coordinate, transitive bool) (*entities.Descriptor, error)
}

// ResolveOptions control how a closure is expanded from a root coordinate.
type ResolveOptions struct {
	// Transitive enables the descriptor walk; when false only the root
	// coordinate is resolved.
	Transitive bool

	// IgnoreOptional excludes children marked optional.
	IgnoreOptional bool

	// IgnoreException drops a branch whose descriptor cannot be resolved
	// instead of failing the whole call.
	IgnoreException bool

	// Scopes is the requested scope set; a child is included only when its
	// declared scope is a member.
	Scopes []entities.Scope

	// Relocation is attached to every resolved entry so the acquisition
	// stage can rewrite the whole closure consistently.
	Relocation []entities.RelocationRule
}

// Resolver expands one coordinate into its deduplicated transitive closure.
type Resolver struct {
	source DescriptorSource
	logger interfaces.Logger
}

// NewResolver creates a resolver over the given descriptor source.
func NewResolver(source DescriptorSource, logger interfaces.Logger) *Resolver {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &Resolver{source: source, logger: logger}
}

// Resolve returns the closure rooted at root, root first, in deterministic
// visitation order (depth-first, children in descriptor declaration order).
// Exact coordinate identity is the deduplication key, which also breaks
// cycles. A failing root descriptor always fails the call; failing child
// branches are dropped only under IgnoreException.
func (r *Resolver) Resolve(ctx context.Context, repos []entities.Repository, root entities.Coordinate, opts ResolveOptions) ([]entities.ResolvedDependency, error) {
	scopes := opts.Scopes
	if len(scopes) == 0 {
		scopes = entities.DefaultScopes
	}

	closure := []entities.ResolvedDependency{{
		Coordinate: root,
		Scope:      entities.ScopeRuntime,
		Relocation: opts.Relocation,
	}}
	if !opts.Transitive {
		return closure, nil
	}

	seen := map[entities.Coordinate]bool{root: true}

	var walk func(c entities.Coordinate) error
	walk = func(c entities.Coordinate) error {
		desc, err := r.source.Descriptor(ctx, repos, c, true)
		if err != nil {
			return err
		}
		for _, child := range desc.Children {
			if child.Optional && opts.IgnoreOptional {
				continue
			}
			// System-scoped children point at host paths and are never
			// downloaded.
			if child.Scope == entities.ScopeSystem {
				continue
			}
			if !child.Scope.In(scopes) {
				continue
			}
			if seen[child.Coordinate] {
				continue
			}
			seen[child.Coordinate] = true
			closure = append(closure, entities.ResolvedDependency{
				Coordinate: child.Coordinate,
				Scope:      child.Scope,
				Relocation: opts.Relocation,
			})
			if err := walk(child.Coordinate); err != nil {
				if opts.IgnoreException {
					r.logger.Warn("dropping unresolvable branch",
						interfaces.F("coordinate", child.Coordinate.String()),
						interfaces.F("error", err.Error()))
					continue
				}
				return fmt.Errorf("%w: %s: %v", entities.ErrUnresolvedChild, child.Coordinate, err)
			}
		}
		return nil
	}

	if err := walk(root); err != nil {
		return nil, err
	}
	return closure, nil
}
