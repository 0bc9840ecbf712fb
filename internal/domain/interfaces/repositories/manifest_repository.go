// Package repositories defines interfaces for data access layers.
package repositories

import (
	"context"

	"github.com/ochairo/cellar/internal/domain/entities"
)

// Manifest is the full set of requirement records declared by one consumer.
type Manifest struct {
	Dependencies []entities.Dependency
	Assets       []entities.Asset
}

// ManifestRepository provides access to declared requirement records. The
// core never depends on how the records were discovered; this boundary hands
// them over as plain data.
type ManifestRepository interface {
	// GetManifest loads the requirement records for a named consumer.
	GetManifest(ctx context.Context, name string) (*Manifest, error)

	// ListManifests returns the names of all known consumers.
	ListManifests(ctx context.Context) ([]string, error)
}
