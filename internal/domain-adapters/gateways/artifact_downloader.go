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
	igateways "github.com/ochairo/cellar/internal/domain/interfaces/gateways"
)

// ArtifactDownloader fetches binary artifacts into the library cache and
// verifies them against their digest sidecars. A validated cached copy is
// never re-downloaded.
type ArtifactDownloader struct {
	baseDir    string
	httpClient *http.Client
	sums       *ChecksumVerifier
	signatures igateways.SignatureVerifier
	logger     interfaces.Logger
}

// NewArtifactDownloader creates a downloader over the library cache at
// baseDir. signatures may be nil; when set, each downloaded binary must carry
// a valid detached signature.
func NewArtifactDownloader(baseDir string, signatures igateways.SignatureVerifier, logger interfaces.Logger) *ArtifactDownloader {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &ArtifactDownloader{
		baseDir:    baseDir,
		httpClient: newHTTPClient(),
		sums:       NewChecksumVerifier(),
		signatures: signatures,
		logger:     logger,
	}
}

// Download ensures the coordinate's binary is present and verified in the
// library cache and returns its path. Repositories are tried in priority
// order on transport failure; an integrity mismatch triggers exactly one
// re-fetch against the same repository before becoming fatal.
func (a *ArtifactDownloader) Download(ctx context.Context, repos []entities.Repository, c entities.Coordinate) (string, error) {
	cachePath := filepath.Join(a.baseDir, filepath.FromSlash(c.ArtifactPath()))
	sidecar := cachePath + ".sha1"

	if err := a.sums.ValidateSidecar(cachePath, sidecar); err == nil {
		return cachePath, nil
	}

	var lastErr error
	for _, repo := range repos {
		err := a.fetch(ctx, repo, c, cachePath, sidecar)
		if err != nil {
			if errors.Is(err, entities.ErrRepositoryUnreachable) {
				lastErr = err
				continue
			}
			return "", err
		}
		return cachePath, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("%w: no repositories configured", entities.ErrRepositoryUnreachable)
	}
	return "", fmt.Errorf("artifact %s: %w", c, lastErr)
}

func (a *ArtifactDownloader) fetch(ctx context.Context, repo entities.Repository, c entities.Coordinate, cachePath, sidecar string) error {
	url := repo.ArtifactURL(c)
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		a.logger.Info("downloading artifact",
			interfaces.F("coordinate", c.String()),
			interfaces.F("repository", repo.Base))

		if err := fetchFile(ctx, a.httpClient, url, cachePath); err != nil {
			return err
		}

		expected, err := a.remoteDigest(ctx, url+".sha1")
		if err != nil {
			return err
		}
		if expected == "" {
			sum, err := a.sums.Sha1File(cachePath)
			if err != nil {
				return err
			}
			expected = sum
		} else if err := a.sums.Verify(cachePath, expected); err != nil {
			_ = os.Remove(cachePath)
			lastErr = fmt.Errorf("artifact %s from %s: %w", c, repo.Base, err)
			continue
		}

		if err := a.verifySignature(ctx, url, cachePath); err != nil {
			_ = os.Remove(cachePath)
			return err
		}

		if err := publishBytes([]byte(expected), sidecar); err != nil {
			return err
		}
		return nil
	}
	return lastErr
}

func (a *ArtifactDownloader) remoteDigest(ctx context.Context, url string) (string, error) {
	data, err := fetchBytes(ctx, a.httpClient, url)
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

// verifySignature enforces the detached .asc signature when a verifier is
// configured. A missing or invalid signature is an acquisition failure for
// that artifact.
func (a *ArtifactDownloader) verifySignature(ctx context.Context, url, cachePath string) error {
	if a.signatures == nil {
		return nil
	}
	sig, err := fetchBytes(ctx, a.httpClient, url+".asc")
	if err != nil {
		return fmt.Errorf("failed to fetch signature: %w", err)
	}
	if err := a.signatures.VerifyDetached(ctx, cachePath, sig); err != nil {
		return fmt.Errorf("signature verification failed for %s: %w", filepath.Base(cachePath), err)
	}
	return nil
}
