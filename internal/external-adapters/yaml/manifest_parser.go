// Package yaml provides YAML-based requirement manifest parsing and
// repository implementations.
package yaml

import (
	"fmt"
	"os"

	"github.com/ochairo/cellar/internal/domain/entities"
	"github.com/ochairo/cellar/internal/domain/interfaces/repositories"
	"gopkg.in/yaml.v3"
)

// yamlManifest represents the raw YAML structure
type yamlManifest struct {
	Dependencies []yamlDependency `yaml:"dependencies"`
	Assets       []yamlAsset      `yaml:"assets"`
}

type yamlDependency struct {
	Coordinate      string   `yaml:"coordinate"`
	Relocate        []string `yaml:"relocate"`
	Repository      string   `yaml:"repository"`
	Test            string   `yaml:"test"`
	IgnoreOptional  *bool    `yaml:"ignore_optional"`
	IgnoreException bool     `yaml:"ignore_exception"`
	Transitive      *bool    `yaml:"transitive"`
	Scopes          []string `yaml:"scopes"`
}

type yamlAsset struct {
	Name     string `yaml:"name"`
	Checksum string `yaml:"checksum"`
	URL      string `yaml:"url"`
	Archived bool   `yaml:"archived"`
}

// ManifestParser parses YAML requirement manifests
type ManifestParser struct{}

// NewManifestParser creates a new YAML parser
func NewManifestParser() *ManifestParser {
	return &ManifestParser{}
}

// ParseFile parses a YAML manifest file into requirement records
func (p *ManifestParser) ParseFile(filePath string) (*repositories.Manifest, error) {
	//nolint:gosec // G304: filePath is a manifest path from the repository
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return p.Parse(data)
}

// Parse parses YAML bytes into requirement records. Declarations default to
// transitive resolution with optional children skipped, matching what a bare
// coordinate request means.
func (p *ManifestParser) Parse(data []byte) (*repositories.Manifest, error) {
	var raw yamlManifest
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	manifest := &repositories.Manifest{}
	for _, dep := range raw.Dependencies {
		if dep.Coordinate == "" {
			return nil, fmt.Errorf("dependency declaration must have a coordinate")
		}
		scopes := make([]entities.Scope, 0, len(dep.Scopes))
		for _, s := range dep.Scopes {
			scopes = append(scopes, entities.ParseScope(s))
		}
		manifest.Dependencies = append(manifest.Dependencies, entities.Dependency{
			Coordinate:      dep.Coordinate,
			Relocate:        dep.Relocate,
			Repository:      dep.Repository,
			Test:            dep.Test,
			IgnoreOptional:  boolOr(dep.IgnoreOptional, true),
			IgnoreException: dep.IgnoreException,
			Transitive:      boolOr(dep.Transitive, true),
			Scopes:          scopes,
		})
	}
	for _, asset := range raw.Assets {
		if asset.URL == "" || asset.Checksum == "" {
			return nil, fmt.Errorf("asset declaration must have url and checksum")
		}
		manifest.Assets = append(manifest.Assets, entities.Asset{
			Name:     asset.Name,
			Checksum: asset.Checksum,
			URL:      asset.URL,
			Archived: asset.Archived,
		})
	}
	return manifest, nil
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
