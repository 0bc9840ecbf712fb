package gateways

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"

	"github.com/ochairo/cellar/internal/domain/entities"
	"github.com/ochairo/cellar/internal/domain/interfaces"
)

// VersionResolver turns the symbolic versions "latest" and "release" into
// concrete versions using the repository's version metadata document.
// Concrete versions pass through untouched.
type VersionResolver struct {
	httpClient *http.Client
	logger     interfaces.Logger
}

// NewVersionResolver creates a version resolver.
func NewVersionResolver(logger interfaces.Logger) *VersionResolver {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &VersionResolver{
		httpClient: newHTTPClient(),
		logger:     logger,
	}
}

// versionMetadata mirrors the repository maven-metadata.xml shape.
type versionMetadata struct {
	Versioning struct {
		Latest   string   `xml:"latest"`
		Release  string   `xml:"release"`
		Versions []string `xml:"versions>version"`
	} `xml:"versioning"`
}

// Resolve maps a requested version to a concrete one. "release" prefers the
// metadata's release entry, "latest" its latest entry; both fall back to the
// last listed version.
func (v *VersionResolver) Resolve(ctx context.Context, repos []entities.Repository, group, artifact, requested string) (string, error) {
	if requested != "latest" && requested != "release" {
		return requested, nil
	}

	var lastErr error
	for _, repo := range repos {
		data, err := fetchBytes(ctx, v.httpClient, repo.MetadataURL(group, artifact))
		if err != nil {
			if errors.Is(err, entities.ErrRepositoryUnreachable) {
				lastErr = err
				continue
			}
			return "", err
		}

		var meta versionMetadata
		if err := xml.Unmarshal(data, &meta); err != nil {
			lastErr = fmt.Errorf("invalid version metadata from %s: %w", repo.Base, err)
			continue
		}

		version := pickVersion(meta, requested)
		if version == "" {
			lastErr = fmt.Errorf("no versions listed for %s:%s at %s", group, artifact, repo.Base)
			continue
		}
		v.logger.Info("resolved version",
			interfaces.F("artifact", group+":"+artifact),
			interfaces.F("requested", requested),
			interfaces.F("version", version))
		return version, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("%w: no repositories configured", entities.ErrRepositoryUnreachable)
	}
	return "", fmt.Errorf("version %s of %s:%s: %w", requested, group, artifact, lastErr)
}

func pickVersion(meta versionMetadata, requested string) string {
	if requested == "release" && meta.Versioning.Release != "" {
		return meta.Versioning.Release
	}
	if meta.Versioning.Latest != "" {
		return meta.Versioning.Latest
	}
	if n := len(meta.Versioning.Versions); n > 0 {
		return meta.Versioning.Versions[n-1]
	}
	return ""
}
