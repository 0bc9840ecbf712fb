package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ochairo/cellar/internal/domain/entities"
	igateways "github.com/ochairo/cellar/internal/domain/interfaces/gateways"
	"github.com/ochairo/cellar/internal/domain/interfaces/repositories"
	"github.com/ochairo/cellar/internal/domain/services"
)

// events is a shared log the fakes append to, so tests can assert ordering
// across the acquisition and injection stages.
type events struct {
	log []string
}

func (e *events) add(format string, args ...interface{}) {
	e.log = append(e.log, fmt.Sprintf(format, args...))
}

type fakeSource struct {
	descriptors map[string]*entities.Descriptor
	calls       int
}

func (f *fakeSource) Descriptor(_ context.Context, _ []entities.Repository, c entities.Coordinate, _ bool) (*entities.Descriptor, error) {
	f.calls++
	if d, ok := f.descriptors[c.String()]; ok {
		return d, nil
	}
	return &entities.Descriptor{Coordinate: c}, nil
}

type fakeDownloader struct {
	events      *events
	failing     map[string]error
	repos       [][]entities.Repository
	coordinates []string
}

func (f *fakeDownloader) Download(_ context.Context, repos []entities.Repository, c entities.Coordinate) (string, error) {
	f.repos = append(f.repos, repos)
	f.coordinates = append(f.coordinates, c.String())
	f.events.add("download %s", c)
	if err, ok := f.failing[c.String()]; ok {
		return "", err
	}
	return "cache/" + c.Artifact + ".jar", nil
}

type fakeRelocator struct {
	events *events
}

func (f *fakeRelocator) EnsureRelocated(path string, rules []entities.RelocationRule) (string, error) {
	f.events.add("relocate %s", path)
	if len(rules) == 0 {
		return path, nil
	}
	return strings.TrimSuffix(path, ".jar") + "-relocated.jar", nil
}

type fakeAssetFetcher struct {
	events *events
	err    error
}

func (f *fakeAssetFetcher) Fetch(_ context.Context, asset entities.Asset) (string, error) {
	f.events.add("asset %s", asset.EntryName())
	if f.err != nil {
		return "", f.err
	}
	return "assets/" + asset.CachePath(), nil
}

type fakeVersionResolver struct {
	symbolic map[string]string
	calls    int
}

func (f *fakeVersionResolver) Resolve(_ context.Context, _ []entities.Repository, group, artifact, requested string) (string, error) {
	f.calls++
	if v, ok := f.symbolic[group+":"+artifact+":"+requested]; ok {
		return v, nil
	}
	return requested, nil
}

type fakeOverrides struct {
	entries map[string]string
}

func (f *fakeOverrides) Resolve(name string) (string, bool) {
	v, ok := f.entries[name]
	return v, ok
}

type fakeSearchPath struct {
	events   *events
	injected map[string]string
	appends  []string
}

func (f *fakeSearchPath) Append(_ context.Context, c entities.Coordinate, path string) error {
	f.events.add("append %s", c)
	f.appends = append(f.appends, c.String()+" <- "+path)
	if f.injected == nil {
		f.injected = make(map[string]string)
	}
	f.injected[c.Group+":"+c.Artifact] = c.Version
	return nil
}

func (f *fakeSearchPath) InjectedVersion(group, artifact string) string {
	return f.injected[group+":"+artifact]
}

type fixture struct {
	events     *events
	source     *fakeSource
	downloader *fakeDownloader
	assets     *fakeAssetFetcher
	versions   *fakeVersionResolver
	overrides  *fakeOverrides
	searchPath *fakeSearchPath
	probe      igateways.PresenceProbe
	config     InjectOrchestratorConfig
}

func newFixture() *fixture {
	ev := &events{}
	return &fixture{
		events:     ev,
		source:     &fakeSource{descriptors: map[string]*entities.Descriptor{}},
		downloader: &fakeDownloader{events: ev, failing: map[string]error{}},
		assets:     &fakeAssetFetcher{events: ev},
		versions:   &fakeVersionResolver{symbolic: map[string]string{}},
		overrides:  &fakeOverrides{entries: map[string]string{}},
		searchPath: &fakeSearchPath{events: ev, injected: map[string]string{}},
	}
}

func (f *fixture) orchestrator() *InjectOrchestrator {
	return NewInjectOrchestrator(
		services.NewResolver(f.source, nil),
		f.downloader,
		&fakeRelocator{events: f.events},
		f.assets,
		f.versions,
		f.overrides,
		f.searchPath,
		f.probe,
		f.config,
		nil,
	)
}

func coord(s string) entities.Coordinate {
	c, err := entities.ParseCoordinate(s)
	if err != nil {
		panic(err)
	}
	return c
}

func child(s string, scope entities.Scope) entities.DescriptorChild {
	return entities.DescriptorChild{Coordinate: coord(s), Scope: scope}
}

func TestInjectDependencyValidatesBeforeNetwork(t *testing.T) {
	tests := []struct {
		name string
		dep  entities.Dependency
		want error
	}{
		{
			name: "odd relocation pair list",
			dep:  entities.Dependency{Coordinate: "g:a:1", Relocate: []string{"from.only"}, Transitive: true},
			want: entities.ErrMalformedRelocationRule,
		},
		{
			name: "malformed coordinate",
			dep:  entities.Dependency{Coordinate: "g:a", Transitive: true},
			want: entities.ErrMalformedCoordinate,
		},
		{
			name: "empty coordinate field",
			dep:  entities.Dependency{Coordinate: "g::1", Transitive: true},
			want: entities.ErrMalformedCoordinate,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			err := f.orchestrator().InjectDependency(context.Background(), tt.dep)
			if !errors.Is(err, tt.want) {
				t.Fatalf("InjectDependency() error = %v, want %v", err, tt.want)
			}
			if f.versions.calls != 0 || f.source.calls != 0 || len(f.downloader.coordinates) != 0 {
				t.Errorf("validation failure still touched the network: versions=%d source=%d downloads=%d",
					f.versions.calls, f.source.calls, len(f.downloader.coordinates))
			}
		})
	}
}

func TestInjectDependencySkipWhenSatisfied(t *testing.T) {
	present := map[string]bool{"com.example.Lib": true, "com.example.Util": true}
	probe := igateways.PresenceProbeFunc(func(marker string) bool { return present[marker] })

	tests := []struct {
		name     string
		test     string
		acquired bool
	}{
		{"all markers present", "com.example.Lib,com.example.Util", false},
		{"escaped marker present", "!com.example.Lib", false},
		{"one marker absent", "com.example.Lib,com.example.Gone", true},
		{"empty expression never satisfies", "", true},
		{"bare escape is empty after unescaping", "!", true},
		{"whitespace only", "  ", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.probe = probe
			dep := entities.Dependency{Coordinate: "g:a:1", Test: tt.test, Transitive: true}
			if err := f.orchestrator().InjectDependency(context.Background(), dep); err != nil {
				t.Fatalf("InjectDependency() error = %v", err)
			}
			if got := len(f.downloader.coordinates) > 0; got != tt.acquired {
				t.Errorf("acquired = %v, want %v", got, tt.acquired)
			}
		})
	}
}

func TestInjectDependencySharedRuntimeSkip(t *testing.T) {
	f := newFixture()
	f.searchPath.injected["g:a"] = "1"

	dep := entities.Dependency{Coordinate: "g:a:1", Transitive: true}
	if err := f.orchestrator().InjectDependency(context.Background(), dep); err != nil {
		t.Fatalf("InjectDependency() error = %v", err)
	}
	if f.source.calls != 0 || len(f.downloader.coordinates) != 0 {
		t.Errorf("already-injected version was re-acquired: source=%d downloads=%d",
			f.source.calls, len(f.downloader.coordinates))
	}

	// A different version of the same runtime is not a match.
	f.searchPath.injected["g:a"] = "0.9"
	if err := f.orchestrator().InjectDependency(context.Background(), dep); err != nil {
		t.Fatalf("InjectDependency() error = %v", err)
	}
	if len(f.downloader.coordinates) == 0 {
		t.Error("version mismatch should force acquisition")
	}
}

func TestInjectDependencyAcquiresClosureBeforeInjecting(t *testing.T) {
	f := newFixture()
	f.source.descriptors["g:root:1"] = &entities.Descriptor{
		Coordinate: coord("g:root:1"),
		Children: []entities.DescriptorChild{
			child("g:left:1", entities.ScopeCompile),
			child("g:right:1", entities.ScopeRuntime),
		},
	}

	dep := entities.Dependency{Coordinate: "g:root:1", Transitive: true, IgnoreOptional: true}
	if err := f.orchestrator().InjectDependency(context.Background(), dep); err != nil {
		t.Fatalf("InjectDependency() error = %v", err)
	}

	want := []string{
		"download g:root:1",
		"download g:left:1",
		"download g:right:1",
		"append g:root:1",
		"append g:left:1",
		"append g:right:1",
	}
	if len(f.events.log) != len(want) {
		t.Fatalf("events = %v, want %v", f.events.log, want)
	}
	for i, e := range want {
		if f.events.log[i] != e {
			t.Fatalf("event %d = %q, want %q (full log: %v)", i, f.events.log[i], e, f.events.log)
		}
	}
}

func TestInjectDependencyRelocatesEveryClosureEntry(t *testing.T) {
	f := newFixture()
	f.source.descriptors["g:root:1"] = &entities.Descriptor{
		Coordinate: coord("g:root:1"),
		Children:   []entities.DescriptorChild{child("g:dep:1", entities.ScopeCompile)},
	}

	dep := entities.Dependency{
		Coordinate: "g:root:1",
		Relocate:   []string{"com.old", "com.shadow"},
		Transitive: true,
	}
	if err := f.orchestrator().InjectDependency(context.Background(), dep); err != nil {
		t.Fatalf("InjectDependency() error = %v", err)
	}
	if len(f.searchPath.appends) != 2 {
		t.Fatalf("appends = %v", f.searchPath.appends)
	}
	for _, a := range f.searchPath.appends {
		if !strings.Contains(a, "-relocated.jar") {
			t.Errorf("injected pristine path despite relocation rules: %s", a)
		}
	}
}

func TestInjectDependencySkipsAlreadyInjectedClosureEntries(t *testing.T) {
	f := newFixture()
	f.source.descriptors["g:root:1"] = &entities.Descriptor{
		Coordinate: coord("g:root:1"),
		Children:   []entities.DescriptorChild{child("g:shared:2", entities.ScopeCompile)},
	}
	f.searchPath.injected["g:shared"] = "2"

	dep := entities.Dependency{Coordinate: "g:root:1", Transitive: true}
	if err := f.orchestrator().InjectDependency(context.Background(), dep); err != nil {
		t.Fatalf("InjectDependency() error = %v", err)
	}
	if len(f.downloader.coordinates) != 1 || f.downloader.coordinates[0] != "g:root:1" {
		t.Errorf("downloads = %v, want only the root", f.downloader.coordinates)
	}
}

func TestInjectDependencyUnreachableChild(t *testing.T) {
	newDep := func(ignore bool) entities.Dependency {
		return entities.Dependency{Coordinate: "g:root:1", Transitive: true, IgnoreException: ignore}
	}
	descriptors := map[string]*entities.Descriptor{
		"g:root:1": {
			Coordinate: coord("g:root:1"),
			Children: []entities.DescriptorChild{
				child("g:gone:1", entities.ScopeCompile),
				child("g:ok:1", entities.ScopeCompile),
			},
		},
	}

	t.Run("fails by default", func(t *testing.T) {
		f := newFixture()
		f.source.descriptors = descriptors
		f.downloader.failing["g:gone:1"] = fmt.Errorf("fetch: %w", entities.ErrRepositoryUnreachable)

		err := f.orchestrator().InjectDependency(context.Background(), newDep(false))
		if !errors.Is(err, entities.ErrRepositoryUnreachable) {
			t.Fatalf("InjectDependency() error = %v", err)
		}
		if len(f.searchPath.appends) != 0 {
			t.Errorf("failed closure still injected: %v", f.searchPath.appends)
		}
	})

	t.Run("dropped under ignore_exception", func(t *testing.T) {
		f := newFixture()
		f.source.descriptors = descriptors
		f.downloader.failing["g:gone:1"] = fmt.Errorf("fetch: %w", entities.ErrRepositoryUnreachable)

		if err := f.orchestrator().InjectDependency(context.Background(), newDep(true)); err != nil {
			t.Fatalf("InjectDependency() error = %v", err)
		}
		if len(f.searchPath.appends) != 2 {
			t.Fatalf("appends = %v, want root and g:ok:1", f.searchPath.appends)
		}
	})

	t.Run("unreachable root always fails", func(t *testing.T) {
		f := newFixture()
		f.source.descriptors = descriptors
		f.downloader.failing["g:root:1"] = fmt.Errorf("fetch: %w", entities.ErrRepositoryUnreachable)

		err := f.orchestrator().InjectDependency(context.Background(), newDep(true))
		if !errors.Is(err, entities.ErrRepositoryUnreachable) {
			t.Fatalf("InjectDependency() error = %v", err)
		}
	})
}

func TestRepositorySelection(t *testing.T) {
	tests := []struct {
		name      string
		declared  string
		overrides map[string]string
		central   string
		want      []string
	}{
		{
			name: "no declaration falls back to central",
			want: []string{entities.CentralRepository},
		},
		{
			name:     "literal address gets central fallback",
			declared: "https://mirror.example.invalid/repo",
			want:     []string{"https://mirror.example.invalid/repo", entities.CentralRepository},
		},
		{
			name:      "logical name resolved through overrides",
			declared:  "snapshots",
			overrides: map[string]string{"snapshots": "https://snapshots.example.invalid/repo"},
			want:      []string{"https://snapshots.example.invalid/repo", entities.CentralRepository},
		},
		{
			name:     "declaration matching central is not duplicated",
			declared: entities.CentralRepository,
			want:     []string{entities.CentralRepository},
		},
		{
			name:     "configured central replaces the public one",
			declared: "",
			central:  "https://corp.example.invalid/maven2/",
			want:     []string{"https://corp.example.invalid/maven2"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.overrides.entries = tt.overrides
			f.config = InjectOrchestratorConfig{Central: tt.central}

			dep := entities.Dependency{Coordinate: "g:a:1", Repository: tt.declared, Transitive: false}
			if err := f.orchestrator().InjectDependency(context.Background(), dep); err != nil {
				t.Fatalf("InjectDependency() error = %v", err)
			}
			if len(f.downloader.repos) != 1 {
				t.Fatalf("downloads = %d, want 1", len(f.downloader.repos))
			}
			got := f.downloader.repos[0]
			if len(got) != len(tt.want) {
				t.Fatalf("repositories = %v, want %v", got, tt.want)
			}
			for i, repo := range got {
				if repo.Base != tt.want[i] {
					t.Errorf("repository %d = %q, want %q", i, repo.Base, tt.want[i])
				}
			}
		})
	}
}

func TestInjectDependencySymbolicVersion(t *testing.T) {
	f := newFixture()
	f.versions.symbolic["g:a:latest"] = "2.5.0"

	dep := entities.Dependency{Coordinate: "g:a:latest", Transitive: false}
	if err := f.orchestrator().InjectDependency(context.Background(), dep); err != nil {
		t.Fatalf("InjectDependency() error = %v", err)
	}
	if len(f.downloader.coordinates) != 1 || f.downloader.coordinates[0] != "g:a:2.5.0" {
		t.Errorf("downloads = %v, want the resolved concrete version", f.downloader.coordinates)
	}
}

func TestResolveWithoutAcquisition(t *testing.T) {
	f := newFixture()
	f.source.descriptors["g:root:1"] = &entities.Descriptor{
		Coordinate: coord("g:root:1"),
		Children:   []entities.DescriptorChild{child("g:dep:1", entities.ScopeRuntime)},
	}

	closure, err := f.orchestrator().Resolve(context.Background(), entities.Dependency{Coordinate: "g:root:1", Transitive: true})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(closure) != 2 {
		t.Fatalf("closure = %v", closure)
	}
	if len(f.downloader.coordinates) != 0 || len(f.searchPath.appends) != 0 {
		t.Error("Resolve() must not acquire or inject")
	}
}

func TestInjectRunsAssetsBeforeDependencies(t *testing.T) {
	f := newFixture()
	manifest := &repositories.Manifest{
		Dependencies: []entities.Dependency{{Coordinate: "g:a:1", Transitive: false}},
		Assets: []entities.Asset{
			{Name: "data.csv", Checksum: "ab12", URL: "https://example.invalid/data.csv"},
		},
	}
	if err := f.orchestrator().Inject(context.Background(), manifest); err != nil {
		t.Fatalf("Inject() error = %v", err)
	}
	if len(f.events.log) < 2 || !strings.HasPrefix(f.events.log[0], "asset ") {
		t.Errorf("assets should load before dependencies: %v", f.events.log)
	}
}

func TestInjectAssetFailureSurfaces(t *testing.T) {
	f := newFixture()
	f.assets.err = fmt.Errorf("checksum: %w", entities.ErrIntegrityMismatch)

	asset := entities.Asset{Checksum: "ab12", URL: "https://example.invalid/data.csv"}
	err := f.orchestrator().InjectAsset(context.Background(), asset)
	if !errors.Is(err, entities.ErrIntegrityMismatch) {
		t.Fatalf("InjectAsset() error = %v", err)
	}
}
