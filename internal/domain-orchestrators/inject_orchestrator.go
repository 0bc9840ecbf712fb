// Package orchestrators coordinates the acquisition pipeline across domain
// services and gateways.
package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ochairo/cellar/internal/domain/entities"
	"github.com/ochairo/cellar/internal/domain/interfaces"
	igateways "github.com/ochairo/cellar/internal/domain/interfaces/gateways"
	"github.com/ochairo/cellar/internal/domain/interfaces/repositories"
	"github.com/ochairo/cellar/internal/domain/services"
)

// Downloader interface for acquiring binary artifacts into the cache
type Downloader interface {
	Download(ctx context.Context, repos []entities.Repository, c entities.Coordinate) (string, error)
}

// Relocator interface for materializing relocated variants of cached binaries
type Relocator interface {
	EnsureRelocated(path string, rules []entities.RelocationRule) (string, error)
}

// AssetFetcher interface for acquiring static assets into the cache
type AssetFetcher interface {
	Fetch(ctx context.Context, asset entities.Asset) (string, error)
}

// VersionResolver interface for resolving symbolic versions
type VersionResolver interface {
	Resolve(ctx context.Context, repos []entities.Repository, group, artifact, requested string) (string, error)
}

// RepositoryOverrides resolves a logical repository name through the
// persisted repo-<name> override store.
type RepositoryOverrides interface {
	Resolve(name string) (string, bool)
}

// InjectOrchestrator drives the whole pipeline for each declared dependency
// and asset: skip-if-satisfied test, validation, descriptor resolution,
// artifact acquisition, relocation, and the ordered handoff to the runtime
// search path.
type InjectOrchestrator struct {
	resolver   *services.Resolver
	downloader Downloader
	relocator  Relocator
	assets     AssetFetcher
	versions   VersionResolver
	overrides  RepositoryOverrides
	searchPath igateways.SearchPath
	probe      igateways.PresenceProbe
	central    entities.Repository
	logger     interfaces.Logger
}

// InjectOrchestratorConfig holds configuration for the orchestrator
type InjectOrchestratorConfig struct {
	// Central is the fallback repository address used when a declaration
	// names none. Empty selects the public central repository.
	Central string
}

// NewInjectOrchestrator creates a new inject orchestrator
func NewInjectOrchestrator(
	resolver *services.Resolver,
	downloader Downloader,
	relocator Relocator,
	assets AssetFetcher,
	versions VersionResolver,
	overrides RepositoryOverrides,
	searchPath igateways.SearchPath,
	probe igateways.PresenceProbe,
	config InjectOrchestratorConfig,
	logger interfaces.Logger,
) *InjectOrchestrator {
	central := config.Central
	if central == "" {
		central = entities.CentralRepository
	}
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &InjectOrchestrator{
		resolver:   resolver,
		downloader: downloader,
		relocator:  relocator,
		assets:     assets,
		versions:   versions,
		overrides:  overrides,
		searchPath: searchPath,
		probe:      probe,
		central:    entities.NewRepository(central),
		logger:     logger,
	}
}

// Inject provisions every declared asset and dependency of one consumer.
// Assets load before libraries so library code finds its resources on first
// use.
func (o *InjectOrchestrator) Inject(ctx context.Context, manifest *repositories.Manifest) error {
	for _, asset := range manifest.Assets {
		if err := o.InjectAsset(ctx, asset); err != nil {
			return err
		}
	}
	for _, dep := range manifest.Dependencies {
		if err := o.InjectDependency(ctx, dep); err != nil {
			return err
		}
	}
	return nil
}

// InjectAsset acquires one declared asset into the asset cache.
func (o *InjectOrchestrator) InjectAsset(ctx context.Context, asset entities.Asset) error {
	if _, err := o.assets.Fetch(ctx, asset); err != nil {
		return fmt.Errorf("asset %s: %w", asset.EntryName(), err)
	}
	return nil
}

// InjectDependency runs the full pipeline for one declared dependency. The
// closure is fully resolved and acquired before anything reaches the search
// path; a failed closure injects nothing.
func (o *InjectOrchestrator) InjectDependency(ctx context.Context, dep entities.Dependency) error {
	if o.satisfied(dep) {
		o.logger.Debug("dependency already satisfied", interfaces.F("coordinate", dep.Coordinate))
		return nil
	}

	closure, repos, err := o.resolve(ctx, dep)
	if err != nil {
		return err
	}
	if closure == nil {
		return nil
	}

	// Acquire the whole closure before injecting any of it.
	type acquired struct {
		coordinate entities.Coordinate
		path       string
	}
	binaries := make([]acquired, 0, len(closure))
	for i, rd := range closure {
		if o.searchPath.InjectedVersion(rd.Coordinate.Group, rd.Coordinate.Artifact) == rd.Coordinate.Version {
			continue
		}
		path, err := o.downloader.Download(ctx, repos, rd.Coordinate)
		if err != nil {
			if i > 0 && dep.IgnoreException && errors.Is(err, entities.ErrRepositoryUnreachable) {
				o.logger.Warn("dropping unreachable dependency",
					interfaces.F("coordinate", rd.Coordinate.String()),
					interfaces.F("error", err.Error()))
				continue
			}
			return err
		}
		if len(rd.Relocation) > 0 {
			path, err = o.relocator.EnsureRelocated(path, rd.Relocation)
			if err != nil {
				return err
			}
		}
		binaries = append(binaries, acquired{coordinate: rd.Coordinate, path: path})
	}

	for _, bin := range binaries {
		if err := o.searchPath.Append(ctx, bin.coordinate, bin.path); err != nil {
			return fmt.Errorf("failed to inject %s: %w", bin.coordinate, err)
		}
	}
	return nil
}

// Resolve expands a declaration into its closure without acquiring anything.
// A nil closure with nil error means the shared-runtime check found the exact
// version already injected.
func (o *InjectOrchestrator) Resolve(ctx context.Context, dep entities.Dependency) ([]entities.ResolvedDependency, error) {
	closure, _, err := o.resolve(ctx, dep)
	return closure, err
}

func (o *InjectOrchestrator) resolve(ctx context.Context, dep entities.Dependency) ([]entities.ResolvedDependency, []entities.Repository, error) {
	// Validation happens before any I/O.
	rules, err := entities.ParseRelocationPairs(dep.Relocate)
	if err != nil {
		return nil, nil, err
	}
	root, err := entities.ParseCoordinate(dep.Coordinate)
	if err != nil {
		return nil, nil, err
	}

	repos := o.repositories(dep)

	version, err := o.versions.Resolve(ctx, repos, root.Group, root.Artifact, root.Version)
	if err != nil {
		return nil, nil, err
	}
	root.Version = version

	// Shared-runtime check: an equivalent runtime of the same version already
	// injected by another consumer makes re-acquisition, relocation and
	// re-injection all unnecessary.
	if o.searchPath.InjectedVersion(root.Group, root.Artifact) == root.Version {
		o.logger.Debug("equivalent runtime already injected", interfaces.F("coordinate", root.String()))
		return nil, nil, nil
	}

	closure, err := o.resolver.Resolve(ctx, repos, root, services.ResolveOptions{
		Transitive:      dep.Transitive,
		IgnoreOptional:  dep.IgnoreOptional,
		IgnoreException: dep.IgnoreException,
		Scopes:          dep.RequestedScopes(),
		Relocation:      rules,
	})
	if err != nil {
		return nil, nil, err
	}
	return closure, repos, nil
}

// repositories returns the priority-ordered repository list for a
// declaration: its own repository first (a literal address, or a logical
// name resolved through the override store), then the central fallback.
func (o *InjectOrchestrator) repositories(dep entities.Dependency) []entities.Repository {
	declared := strings.TrimSpace(dep.Repository)
	if declared == "" {
		return []entities.Repository{o.central}
	}
	if o.overrides != nil {
		if address, ok := o.overrides.Resolve(declared); ok {
			declared = address
		}
	}
	repo := entities.NewRepository(declared)
	if repo == o.central {
		return []entities.Repository{repo}
	}
	return []entities.Repository{repo, o.central}
}

// satisfied evaluates the declaration's comma-separated presence tests. All
// must resolve as present for the skip to apply; an empty test after
// unescaping never satisfies. No network is touched here.
func (o *InjectOrchestrator) satisfied(dep entities.Dependency) bool {
	if o.probe == nil || strings.TrimSpace(dep.Test) == "" {
		return false
	}
	for _, test := range strings.Split(dep.Test, ",") {
		marker := entities.Unescape(strings.TrimSpace(test))
		if marker == "" || !o.probe.IsPresent(marker) {
			return false
		}
	}
	return true
}
