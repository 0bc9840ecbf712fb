package entities

import "testing"

func TestAssetCachePath(t *testing.T) {
	tests := []struct {
		name  string
		asset Asset
		want  string
	}{
		{
			name:  "named asset keeps its name",
			asset: Asset{Name: "data/words.txt", Checksum: "abcdef"},
			want:  "data/words.txt",
		},
		{
			name:  "unnamed asset shards by checksum prefix",
			asset: Asset{Checksum: "abcdef0123456789"},
			want:  "ab/abcdef0123456789",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.asset.CachePath(); got != tt.want {
				t.Errorf("CachePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAssetEntryName(t *testing.T) {
	asset := Asset{URL: "https://example.org/data/model.bin"}
	if got := asset.EntryName(); got != "model.bin" {
		t.Errorf("EntryName() = %q, want %q", got, "model.bin")
	}
}

func TestRepositoryURLs(t *testing.T) {
	repo := NewRepository("https://repo.example.org/maven/")
	c := Coordinate{Group: "org.example", Artifact: "lib", Version: "1.0.0"}

	wantDescriptor := "https://repo.example.org/maven/org/example/lib/1.0.0/lib-1.0.0.pom"
	if got := repo.DescriptorURL(c); got != wantDescriptor {
		t.Errorf("DescriptorURL() = %q, want %q", got, wantDescriptor)
	}
	wantArtifact := "https://repo.example.org/maven/org/example/lib/1.0.0/lib-1.0.0.jar"
	if got := repo.ArtifactURL(c); got != wantArtifact {
		t.Errorf("ArtifactURL() = %q, want %q", got, wantArtifact)
	}
	wantMetadata := "https://repo.example.org/maven/org/example/lib/maven-metadata.xml"
	if got := repo.MetadataURL("org.example", "lib"); got != wantMetadata {
		t.Errorf("MetadataURL() = %q, want %q", got, wantMetadata)
	}
}
