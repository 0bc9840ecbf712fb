// Package xml parses repository dependency descriptors (POM documents) into
// domain entities.
package xml

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/ochairo/cellar/internal/domain/entities"
)

// pomProject mirrors the subset of the descriptor document the resolver
// needs: project identity, inheritable parent identity, properties and the
// direct dependency list.
type pomProject struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Parent     struct {
		GroupID    string `xml:"groupId"`
		ArtifactID string `xml:"artifactId"`
		Version    string `xml:"version"`
	} `xml:"parent"`
	Properties   pomProperties   `xml:"properties"`
	Dependencies []pomDependency `xml:"dependencies>dependency"`
}

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Scope      string `xml:"scope"`
	Optional   string `xml:"optional"`
}

// pomProperties captures arbitrary <properties> children as a name/value map.
type pomProperties struct {
	Entries map[string]string
}

// UnmarshalXML collects every child element's text under its local name.
func (p *pomProperties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	p.Entries = make(map[string]string)
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var value string
			if err := d.DecodeElement(&value, &t); err != nil {
				return err
			}
			p.Entries[t.Name.Local] = strings.TrimSpace(value)
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

// PomParser parses POM descriptor documents.
type PomParser struct{}

// NewPomParser creates a new POM parser
func NewPomParser() *PomParser {
	return &PomParser{}
}

// Parse decodes a descriptor document for coordinate c. Child dependencies
// carry interpolated coordinates; children whose version stays unresolved
// after interpolation are managed by ancestor descriptors and are omitted,
// since a single fixed resolution pass cannot negotiate them.
func (p *PomParser) Parse(data []byte, c entities.Coordinate) (*entities.Descriptor, error) {
	var project pomProject
	if err := xml.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("failed to parse descriptor for %s: %w", c, err)
	}

	props := p.effectiveProperties(project, c)
	desc := &entities.Descriptor{Coordinate: c}
	for _, dep := range project.Dependencies {
		group := interpolate(dep.GroupID, props)
		artifact := interpolate(dep.ArtifactID, props)
		version := interpolate(dep.Version, props)
		if group == "" || artifact == "" || version == "" || strings.Contains(group+artifact+version, "${") {
			continue
		}
		desc.Children = append(desc.Children, entities.DescriptorChild{
			Coordinate: entities.Coordinate{Group: group, Artifact: artifact, Version: version},
			Scope:      entities.ParseScope(dep.Scope),
			Optional:   strings.EqualFold(strings.TrimSpace(dep.Optional), "true"),
		})
	}
	return desc, nil
}

// effectiveProperties merges declared properties with the built-in project.*
// values, preferring the document's own identity and filling gaps from the
// parent declaration, then from the requested coordinate.
func (p *PomParser) effectiveProperties(project pomProject, c entities.Coordinate) map[string]string {
	props := make(map[string]string, len(project.Properties.Entries)+3)
	for k, v := range project.Properties.Entries {
		props[k] = v
	}

	group := firstNonEmpty(project.GroupID, project.Parent.GroupID, c.Group)
	artifact := firstNonEmpty(project.ArtifactID, c.Artifact)
	version := firstNonEmpty(project.Version, project.Parent.Version, c.Version)

	props["project.groupId"] = group
	props["project.artifactId"] = artifact
	props["project.version"] = version
	// Legacy property aliases still seen in older descriptors.
	props["pom.groupId"] = group
	props["pom.version"] = version
	return props
}

func interpolate(s string, props map[string]string) string {
	s = strings.TrimSpace(s)
	for i := 0; i < 5 && strings.Contains(s, "${"); i++ {
		replaced := s
		for k, v := range props {
			replaced = strings.ReplaceAll(replaced, "${"+k+"}", v)
		}
		if replaced == s {
			break
		}
		s = replaced
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
