package yaml

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ochairo/cellar/internal/domain/interfaces/repositories"
)

// ManifestRepository implements repositories.ManifestRepository over a
// directory of YAML manifest files, one per consumer.
type ManifestRepository struct {
	manifestsDir string
	parser       *ManifestParser
}

// NewManifestRepository creates a new YAML-based manifest repository
func NewManifestRepository(manifestsDir string) *ManifestRepository {
	return &ManifestRepository{
		manifestsDir: manifestsDir,
		parser:       NewManifestParser(),
	}
}

// GetManifest loads the requirement records for a named consumer.
func (r *ManifestRepository) GetManifest(_ context.Context, name string) (*repositories.Manifest, error) {
	for _, ext := range []string{".yaml", ".yml"} {
		filePath := filepath.Join(r.manifestsDir, name+ext)
		if _, err := os.Stat(filePath); err == nil {
			return r.parser.ParseFile(filePath)
		}
	}
	return nil, fmt.Errorf("manifest not found: %s", name)
}

// ListManifests returns the names of all known consumers, sorted.
func (r *ManifestRepository) ListManifests(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.manifestsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifests directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		switch {
		case strings.HasSuffix(name, ".yaml"):
			names = append(names, strings.TrimSuffix(name, ".yaml"))
		case strings.HasSuffix(name, ".yml"):
			names = append(names, strings.TrimSuffix(name, ".yml"))
		}
	}
	sort.Strings(names)
	return names, nil
}
