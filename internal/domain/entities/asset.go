package entities

import "path"

// Asset is one declared static resource requirement.
type Asset struct {
	// Name is the cache-relative target path. When empty the path is derived
	// from the checksum so identical content from different callers shares
	// storage.
	Name string

	// Checksum is the expected content digest (hex).
	Checksum string

	// URL is the source address. For archived assets the container lives at
	// URL + ".zip" and the entry name is the last URL path segment.
	URL string

	// Archived marks the asset as packed inside a zip container.
	Archived bool
}

// CachePath returns the asset's path relative to the asset cache base
// directory. Unnamed assets shard by the first two checksum characters.
func (a Asset) CachePath() string {
	if a.Name != "" {
		return a.Name
	}
	if len(a.Checksum) < 2 {
		return a.Checksum
	}
	return path.Join(a.Checksum[:2], a.Checksum)
}

// EntryName returns the logical file name, the last segment of the source
// URL. For archived assets this is the container entry to extract.
func (a Asset) EntryName() string {
	return path.Base(a.URL)
}
