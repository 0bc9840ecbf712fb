package entities

import "errors"

// Sentinel errors for the acquisition pipeline. Adapters wrap these with
// fmt.Errorf("...: %w", ...) so callers can branch with errors.Is while
// keeping the coordinate and repository context in the message.
var (
	// ErrMalformedCoordinate marks bad coordinate input; never retried.
	ErrMalformedCoordinate = errors.New("malformed coordinate")

	// ErrMalformedRelocationRule marks an odd-length relocation pair list;
	// fatal before any I/O occurs.
	ErrMalformedRelocationRule = errors.New("malformed relocation rule list")

	// ErrIntegrityMismatch marks a checksum failure; triggers one re-fetch,
	// then fatal if it recurs.
	ErrIntegrityMismatch = errors.New("integrity mismatch")

	// ErrRepositoryUnreachable marks a network or transport failure; retried
	// against the next configured repository, fatal once all are exhausted.
	ErrRepositoryUnreachable = errors.New("repository unreachable")

	// ErrMissingArchiveEntry marks an archive extraction target that is
	// absent from the container; fatal for that asset.
	ErrMissingArchiveEntry = errors.New("missing archive entry")

	// ErrUnresolvedChild marks a transitive child that cannot be resolved;
	// recoverable per-branch via ignoreException, otherwise propagated.
	ErrUnresolvedChild = errors.New("unresolved child dependency")
)
