package gateways

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ochairo/cellar/internal/domain/entities"
	"github.com/ochairo/cellar/internal/domain/interfaces"
)

// AssetFetcher acquires plain static assets into the asset cache, extracting
// single entries from zip containers when the asset is archived.
type AssetFetcher struct {
	baseDir    string
	httpClient *http.Client
	sums       *ChecksumVerifier
	logger     interfaces.Logger
}

// NewAssetFetcher creates an asset fetcher rooted at baseDir.
func NewAssetFetcher(baseDir string, logger interfaces.Logger) *AssetFetcher {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &AssetFetcher{
		baseDir:    baseDir,
		httpClient: newHTTPClient(),
		sums:       NewChecksumVerifier(),
		logger:     logger,
	}
}

// Fetch ensures the asset is present and verified in the cache and returns
// its path. A cached copy matching the declared checksum is authoritative. A
// completed fetch whose checksum mismatches is retried once, then fails.
func (f *AssetFetcher) Fetch(ctx context.Context, asset entities.Asset) (string, error) {
	final := filepath.Join(f.baseDir, filepath.FromSlash(asset.CachePath()))
	if _, err := os.Stat(final); err == nil {
		if err := f.sums.Verify(final, asset.Checksum); err == nil {
			return final, nil
		}
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		f.logger.Info("downloading asset", interfaces.F("name", asset.EntryName()))

		var err error
		if asset.Archived {
			err = f.fetchArchived(ctx, asset, final)
		} else {
			err = fetchFile(ctx, f.httpClient, asset.URL, final)
		}
		if err != nil {
			return "", err
		}

		if err := f.sums.Verify(final, asset.Checksum); err != nil {
			_ = os.Remove(final)
			lastErr = fmt.Errorf("asset %s: %w", asset.EntryName(), err)
			continue
		}
		return final, nil
	}
	return "", lastErr
}

// fetchArchived downloads the zip container beside the final path, extracts
// exactly the named entry, and removes the container on every exit path.
func (f *AssetFetcher) fetchArchived(ctx context.Context, asset entities.Asset, final string) (err error) {
	container := final + ".zip"
	if err := fetchFile(ctx, f.httpClient, asset.URL+".zip", container); err != nil {
		return err
	}
	// The container must never outlive the call, success or failure.
	defer func() {
		_ = os.Remove(container)
	}()

	reader, err := zip.OpenReader(container)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	//nolint:errcheck // Defer close on read-only archive
	defer reader.Close()

	entry := asset.EntryName()
	for _, file := range reader.File {
		if file.Name != entry {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return fmt.Errorf("failed to open archive entry: %w", err)
		}
		// Size limit guards against decompression bombs.
		data, err := io.ReadAll(io.LimitReader(rc, 1<<30))
		_ = rc.Close()
		if err != nil {
			return fmt.Errorf("failed to read archive entry: %w", err)
		}
		return publishBytes(data, final)
	}
	return fmt.Errorf("%w: %s in %s", entities.ErrMissingArchiveEntry, entry, asset.URL+".zip")
}
