package gateways

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/ochairo/cellar/internal/domain/entities"
	"github.com/ochairo/cellar/internal/domain/interfaces"
)

// DirectorySearchPath is a runtime search-path primitive that links verified
// binaries into a single directory the host process resolves from, and keeps
// the process-wide registry of injected coordinates behind the shared-runtime
// skip.
type DirectorySearchPath struct {
	dir    string
	logger interfaces.Logger

	mu       sync.Mutex
	injected map[string]string // group:artifact -> version
}

// NewDirectorySearchPath creates a search path over dir.
func NewDirectorySearchPath(dir string, logger interfaces.Logger) *DirectorySearchPath {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &DirectorySearchPath{
		dir:      dir,
		logger:   logger,
		injected: make(map[string]string),
	}
}

// Append makes the binary at path resolvable and records its coordinate.
// Appending the same coordinate version twice is a no-op.
func (s *DirectorySearchPath) Append(ctx context.Context, coordinate entities.Coordinate, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := coordinate.Group + ":" + coordinate.Artifact
	if s.injected[key] == coordinate.Version {
		return nil
	}

	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return fmt.Errorf("failed to create search path directory: %w", err)
	}
	target := filepath.Join(s.dir, filepath.Base(path))
	if _, err := os.Stat(target); err != nil {
		if err := copyFile(path, target); err != nil {
			return err
		}
	}

	s.injected[key] = coordinate.Version
	s.logger.Debug("appended to search path",
		interfaces.F("coordinate", coordinate.String()),
		interfaces.F("path", target))
	return nil
}

// InjectedVersion returns the version already injected for group:artifact,
// or "" when none is.
func (s *DirectorySearchPath) InjectedVersion(group, artifact string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.injected[group+":"+artifact]
}

// Dir returns the directory binaries are resolved from.
func (s *DirectorySearchPath) Dir() string {
	return s.dir
}

func copyFile(src, dest string) error {
	//nolint:gosec // G304: src is derived from the cache layout
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".part-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to copy binary: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to publish binary: %w", err)
	}
	return nil
}
