package entities

import (
	"fmt"
	"path"
	"strings"
)

// CentralRepository is the default repository address used when a
// declaration names neither a literal address nor a configured override.
const CentralRepository = "https://repo.maven.apache.org/maven2"

// Repository is a remote artifact repository endpoint. Identity is the
// resolved base address, not the logical name a declaration used to reach it.
type Repository struct {
	Base string
}

// NewRepository normalizes a base address into a repository endpoint.
func NewRepository(base string) Repository {
	return Repository{Base: strings.TrimRight(base, "/")}
}

// DescriptorURL returns the remote address of the coordinate's descriptor.
func (r Repository) DescriptorURL(c Coordinate) string {
	return r.Base + "/" + c.DescriptorPath()
}

// ArtifactURL returns the remote address of the coordinate's binary.
func (r Repository) ArtifactURL(c Coordinate) string {
	return r.Base + "/" + c.ArtifactPath()
}

// MetadataURL returns the remote address of the artifact's version metadata
// document, used to resolve "latest" and "release" version requests.
func (r Repository) MetadataURL(group, artifact string) string {
	return r.Base + "/" + strings.ReplaceAll(group, ".", "/") + "/" + artifact + "/maven-metadata.xml"
}

// DescriptorPath returns the repository-relative path of the coordinate's
// descriptor; the local cache mirrors this shape.
func (c Coordinate) DescriptorPath() string {
	return c.relPath("pom")
}

// ArtifactPath returns the repository-relative path of the coordinate's
// binary artifact.
func (c Coordinate) ArtifactPath() string {
	return c.relPath("jar")
}

func (c Coordinate) relPath(ext string) string {
	return path.Join(c.GroupPath(), c.Artifact, c.Version, fmt.Sprintf("%s-%s.%s", c.Artifact, c.Version, ext))
}
