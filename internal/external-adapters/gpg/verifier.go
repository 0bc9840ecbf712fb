// Package gpg provides GPG signature verification capabilities.
package gpg

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// Verifier validates detached artifact signatures using ProtonMail's
// go-crypto, a maintained modern fork of golang.org/x/crypto/openpgp.
// This is in external-adapters to isolate the external dependency.
type Verifier struct {
	keyring openpgp.EntityList
}

// NewVerifier creates a new GPG verifier with an empty keyring
func NewVerifier() *Verifier {
	return &Verifier{
		keyring: make(openpgp.EntityList, 0),
	}
}

// ImportKeyFromFile imports GPG keys from a keyring file, armored or binary.
func (v *Verifier) ImportKeyFromFile(keyPath string) error {
	//nolint:gosec // G304: keyPath is user-provided for GPG key import
	f, err := os.Open(keyPath)
	if err != nil {
		return fmt.Errorf("failed to open key file: %w", err)
	}
	//nolint:errcheck // Defer close
	defer f.Close()

	keys, err := openpgp.ReadArmoredKeyRing(f)
	if err != nil {
		// Try reading as binary
		if _, seekErr := f.Seek(0, 0); seekErr != nil {
			return fmt.Errorf("failed to reset file: %w", seekErr)
		}
		keys, err = openpgp.ReadKeyRing(f)
		if err != nil {
			return fmt.Errorf("failed to read key: %w", err)
		}
	}

	if len(keys) == 0 {
		return fmt.Errorf("no keys found in file")
	}

	v.keyring = append(v.keyring, keys...)
	return nil
}

// VerifyDetached validates the detached signature sig against the content of
// the file at path. Armored signatures are the repository convention; binary
// signatures are accepted as a fallback.
func (v *Verifier) VerifyDetached(ctx context.Context, path string, sig []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(v.keyring) == 0 {
		return fmt.Errorf("no GPG keys in keyring")
	}

	//nolint:gosec // G304: path is derived from the cache layout
	signed, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open signed file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer signed.Close()

	if _, err := openpgp.CheckArmoredDetachedSignature(v.keyring, signed, bytes.NewReader(sig), nil); err == nil {
		return nil
	}
	if _, err := signed.Seek(0, 0); err != nil {
		return fmt.Errorf("failed to reset signed file: %w", err)
	}
	if _, err := openpgp.CheckDetachedSignature(v.keyring, signed, bytes.NewReader(sig), nil); err != nil {
		return fmt.Errorf("signature check failed: %w", err)
	}
	return nil
}
