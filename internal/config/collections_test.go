package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCollectionsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "collections.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write collections file: %v", err)
	}
	return path
}

// TestLoadCollections tests a full collections file
func TestLoadCollections(t *testing.T) {
	path := writeCollectionsFile(t, `
collections:
  - name: notes
    id_attribute: id
    modification_attribute: updatedAt
    version_attribute: version
    endpoints:
      list: /notes
      create: /notes
      update: /notes/:id
      delete: /notes/:id
    load_first_remote: true
    auto_refresh_on_back_online: true
  - name: tags
    key: tags_v2
    id_attribute: id
    endpoints:
      list: /tags
`)

	specs, err := LoadCollections(path)
	if err != nil {
		t.Fatalf("LoadCollections failed: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("Expected 2 collections, got %d", len(specs))
	}

	notes := specs[0]
	if notes.Name != "notes" || notes.IDAttribute != "id" || notes.VersionAttribute != "version" {
		t.Errorf("Unexpected notes spec: %+v", notes)
	}
	if notes.Endpoints.Update != "/notes/:id" {
		t.Errorf("Update endpoint = %q", notes.Endpoints.Update)
	}
	if !notes.LoadFirstRemote || !notes.AutoRefreshOnBackOnline {
		t.Error("Expected both sync flags set")
	}

	// Key defaults to the name; an explicit key survives
	if notes.Key != "notes" {
		t.Errorf("Default key = %q, want notes", notes.Key)
	}
	if specs[1].Key != "tags_v2" {
		t.Errorf("Explicit key = %q, want tags_v2", specs[1].Key)
	}
}

// TestLoadCollectionsRejectsBadName tests the name format rule
func TestLoadCollectionsRejectsBadName(t *testing.T) {
	path := writeCollectionsFile(t, `
collections:
  - name: "has spaces"
    id_attribute: id
`)

	if _, err := LoadCollections(path); err == nil {
		t.Error("Expected a name with spaces to be rejected")
	}
}

// TestLoadCollectionsRejectsDuplicates tests duplicate detection
func TestLoadCollectionsRejectsDuplicates(t *testing.T) {
	path := writeCollectionsFile(t, `
collections:
  - name: notes
    id_attribute: id
  - name: notes
    id_attribute: id
`)

	if _, err := LoadCollections(path); err == nil {
		t.Error("Expected duplicate names to be rejected")
	}
}

// TestLoadCollectionsRejectsEmpty tests the empty-file case
func TestLoadCollectionsRejectsEmpty(t *testing.T) {
	path := writeCollectionsFile(t, `collections: []`)

	if _, err := LoadCollections(path); err == nil {
		t.Error("Expected an empty collections list to be rejected")
	}
}

// TestLoadCollectionsMissingFile tests missing-file handling
func TestLoadCollectionsMissingFile(t *testing.T) {
	if _, err := LoadCollections(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected a missing file to error")
	}
}

// TestLoadCollectionsBadYAML tests parse errors
func TestLoadCollectionsBadYAML(t *testing.T) {
	path := writeCollectionsFile(t, "collections:\n\t- broken")

	if _, err := LoadCollections(path); err == nil {
		t.Error("Expected malformed YAML to be rejected")
	}
}

// TestFindCollection tests lookup by name
func TestFindCollection(t *testing.T) {
	specs := []CollectionSpec{
		{Name: "notes"},
		{Name: "tags"},
	}

	spec, err := FindCollection(specs, "tags")
	if err != nil {
		t.Fatalf("FindCollection failed: %v", err)
	}
	if spec.Name != "tags" {
		t.Errorf("Found %q, want tags", spec.Name)
	}

	if _, err := FindCollection(specs, "missing"); err == nil {
		t.Error("Expected an unknown name to error")
	}
}
