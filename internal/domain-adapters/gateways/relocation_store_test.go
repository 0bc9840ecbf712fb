package gateways

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ochairo/cellar/internal/domain/entities"
)

func TestEnsureRelocated(t *testing.T) {
	tmpDir := t.TempDir()
	jarPath := filepath.Join(tmpDir, "lib-1.0.0.jar")
	original := []byte("header kotlin.List kotlin.Map trailer")
	if err := os.WriteFile(jarPath, original, 0600); err != nil {
		t.Fatal(err)
	}

	store := NewRelocationStore()
	rules := []entities.RelocationRule{{From: "kotlin.", To: "kotlin200."}}

	variant, err := store.EnsureRelocated(jarPath, rules)
	if err != nil {
		t.Fatalf("EnsureRelocated() error = %v", err)
	}
	if variant == jarPath {
		t.Fatal("relocated variant shares the original path")
	}
	if !strings.HasSuffix(variant, ".jar") || !strings.Contains(variant, "-relocated-") {
		t.Errorf("variant path = %q", variant)
	}

	data, err := os.ReadFile(variant)
	if err != nil {
		t.Fatalf("failed to read variant: %v", err)
	}
	if string(data) != "header kotlin200.List kotlin200.Map trailer" {
		t.Errorf("variant content = %q", data)
	}

	// The pristine cached artifact is preserved for future reuse.
	pristine, err := os.ReadFile(jarPath)
	if err != nil || string(pristine) != string(original) {
		t.Errorf("original artifact changed: %q, %v", pristine, err)
	}

	// Same rule list reuses the variant.
	again, err := store.EnsureRelocated(jarPath, rules)
	if err != nil || again != variant {
		t.Errorf("EnsureRelocated() second call = %q, %v", again, err)
	}

	// A different rule list gets its own variant.
	other, err := store.EnsureRelocated(jarPath, []entities.RelocationRule{{From: "header", To: "HEAD"}})
	if err != nil {
		t.Fatalf("EnsureRelocated() with other rules error = %v", err)
	}
	if other == variant {
		t.Error("different rule lists collapsed to one variant")
	}
}

func TestEnsureRelocatedNoRules(t *testing.T) {
	tmpDir := t.TempDir()
	jarPath := filepath.Join(tmpDir, "lib.jar")
	if err := os.WriteFile(jarPath, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	store := NewRelocationStore()
	path, err := store.EnsureRelocated(jarPath, nil)
	if err != nil || path != jarPath {
		t.Errorf("EnsureRelocated() with no rules = %q, %v; want original path", path, err)
	}
}
