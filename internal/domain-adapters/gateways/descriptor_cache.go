package gateways

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ochairo/cellar/internal/domain/entities"
	"github.com/ochairo/cellar/internal/domain/interfaces"
)

// DescriptorParser turns a raw descriptor document into its domain form.
type DescriptorParser interface {
	Parse(data []byte, c entities.Coordinate) (*entities.Descriptor, error)
}

// DescriptorCache obtains descriptors from the local cache when the cached
// copy validates against its digest sidecar, falling back to the configured
// repositories. Once a validated entry exists it is treated as immutable.
type DescriptorCache struct {
	baseDir    string
	httpClient *http.Client
	parser     DescriptorParser
	sums       *ChecksumVerifier
	logger     interfaces.Logger
}

// NewDescriptorCache creates a descriptor cache rooted at baseDir.
func NewDescriptorCache(baseDir string, parser DescriptorParser, logger interfaces.Logger) *DescriptorCache {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &DescriptorCache{
		baseDir:    baseDir,
		httpClient: newHTTPClient(),
		parser:     parser,
		sums:       NewChecksumVerifier(),
		logger:     logger,
	}
}

// Descriptor returns the parsed descriptor for c. A cached copy whose sidecar
// validates is authoritative and costs no network call; otherwise each
// repository is tried in priority order, with one re-fetch on an integrity
// mismatch before the mismatch becomes fatal.
func (d *DescriptorCache) Descriptor(ctx context.Context, repos []entities.Repository, c entities.Coordinate, transitive bool) (*entities.Descriptor, error) {
	cachePath := filepath.Join(d.baseDir, filepath.FromSlash(c.DescriptorPath()))
	sidecar := cachePath + ".sha1"

	if err := d.sums.ValidateSidecar(cachePath, sidecar); err == nil {
		//nolint:gosec // G304: path is derived from the cache layout
		data, err := os.ReadFile(cachePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read cached descriptor: %w", err)
		}
		return d.parser.Parse(data, c)
	}

	var lastErr error
	for _, repo := range repos {
		data, err := d.fetch(ctx, repo, c, cachePath, sidecar, transitive)
		if err != nil {
			if errors.Is(err, entities.ErrRepositoryUnreachable) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return d.parser.Parse(data, c)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("%w: no repositories configured", entities.ErrRepositoryUnreachable)
	}
	return nil, fmt.Errorf("descriptor %s: %w", c, lastErr)
}

// fetch downloads the descriptor and its sidecar from one repository and
// publishes both atomically. When the repository serves the descriptor but
// not its sidecar, the sidecar is computed from the fetched bytes; a served
// sidecar that disagrees with the content triggers exactly one re-fetch.
func (d *DescriptorCache) fetch(ctx context.Context, repo entities.Repository, c entities.Coordinate, cachePath, sidecar string, transitive bool) ([]byte, error) {
	url := repo.DescriptorURL(c)
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		d.logger.Info("downloading library",
			interfaces.F("coordinate", c.String()),
			interfaces.F("transitive", transitive))

		data, err := fetchBytes(ctx, d.httpClient, url)
		if err != nil {
			return nil, err
		}

		expected, err := d.remoteDigest(ctx, url+".sha1")
		if err != nil {
			return nil, err
		}
		if expected == "" {
			expected = d.sums.Sha1(data)
		} else if d.sums.Sha1(data) != expected {
			lastErr = fmt.Errorf("%w: descriptor %s from %s", entities.ErrIntegrityMismatch, c, repo.Base)
			continue
		}

		if err := publishBytes(data, cachePath); err != nil {
			return nil, err
		}
		if err := publishBytes([]byte(expected), sidecar); err != nil {
			return nil, err
		}
		return data, nil
	}
	return nil, lastErr
}

// remoteDigest fetches a sidecar digest, returning "" when the repository
// does not serve one.
func (d *DescriptorCache) remoteDigest(ctx context.Context, url string) (string, error) {
	data, err := fetchBytes(ctx, d.httpClient, url)
	if err != nil {
		if errors.Is(err, entities.ErrRepositoryUnreachable) {
			return "", nil
		}
		return "", err
	}
	fields := strings.Fields(strings.ToLower(string(data)))
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], nil
}
