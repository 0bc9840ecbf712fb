// Package gateways implements adapters for descriptor and artifact
// acquisition.
package gateways

import (
	"crypto/sha1" //nolint:gosec // G505: repository sidecars are SHA-1 by convention
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/ochairo/cellar/internal/domain/entities"
)

// ChecksumVerifier hashes cached files and validates them against expected
// digests and sidecar files. Pure Go, no external hashing binary.
type ChecksumVerifier struct{}

// NewChecksumVerifier creates a new checksum verifier
func NewChecksumVerifier() *ChecksumVerifier {
	return &ChecksumVerifier{}
}

// Verify checks the file at path against an expected hex digest. The digest
// length selects the algorithm: 40 characters is SHA-1 (repository sidecar
// convention), 64 is SHA-256.
func (v *ChecksumVerifier) Verify(path, expected string) error {
	expected = strings.ToLower(strings.TrimSpace(expected))
	var h hash.Hash
	switch len(expected) {
	case 40:
		h = sha1.New() //nolint:gosec // G401: sidecar digests are SHA-1
	case 64:
		h = sha256.New()
	default:
		return fmt.Errorf("%w: unsupported digest length %d", entities.ErrIntegrityMismatch, len(expected))
	}

	actual, err := hashFile(path, h)
	if err != nil {
		return err
	}
	if actual != expected {
		return fmt.Errorf("%w: %s: expected %s, got %s", entities.ErrIntegrityMismatch, path, expected, actual)
	}
	return nil
}

// ValidateSidecar checks the file at path against its digest sidecar file.
// A missing file or sidecar, or a digest mismatch, is a validation failure.
func (v *ChecksumVerifier) ValidateSidecar(path, sidecarPath string) error {
	expected, err := ReadSidecar(sidecarPath)
	if err != nil {
		return err
	}
	return v.Verify(path, expected)
}

// Sha1 returns the SHA-1 hex digest of data, the sidecar digest form.
func (v *ChecksumVerifier) Sha1(data []byte) string {
	sum := sha1.Sum(data) //nolint:gosec // G401: sidecar digests are SHA-1
	return hex.EncodeToString(sum[:])
}

// Sha1File returns the SHA-1 hex digest of the file at path.
func (v *ChecksumVerifier) Sha1File(path string) (string, error) {
	return hashFile(path, sha1.New()) //nolint:gosec // G401: sidecar digests are SHA-1
}

// Sha256 returns the SHA-256 hex digest of the file at path.
func (v *ChecksumVerifier) Sha256(path string) (string, error) {
	return hashFile(path, sha256.New())
}

// ReadSidecar reads a digest sidecar file. Sidecars may carry trailing
// "  filename" annotations; only the leading hex token counts.
func ReadSidecar(path string) (string, error) {
	//nolint:gosec // G304: sidecar path is derived from the cache layout
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read sidecar: %w", err)
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: empty sidecar %s", entities.ErrIntegrityMismatch, path)
	}
	return strings.ToLower(fields[0]), nil
}

func hashFile(path string, h hash.Hash) (string, error) {
	//nolint:gosec // G304: path is derived from the cache layout
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
