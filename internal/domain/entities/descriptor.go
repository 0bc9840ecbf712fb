package entities

// Descriptor is a repository's declarative document for one coordinate,
// listing its direct dependencies with scope and optionality metadata.
type Descriptor struct {
	Coordinate Coordinate
	Children   []DescriptorChild
}

// DescriptorChild is one declared direct dependency read from a descriptor.
type DescriptorChild struct {
	Coordinate Coordinate
	Scope      Scope
	Optional   bool
}
