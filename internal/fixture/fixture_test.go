package fixture

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()

	regions := `testRegions:
  europe:
    id: 1
    name: Europe
  australia:
    id: 2
    name: Australia
`
	campuses := `{
  "testCampusInfo": {
    "sydney": {"id": 1, "region_id": 2, "city": "Sydney"}
  }
}
`
	// Written out of numeric order on purpose.
	if err := os.WriteFile(filepath.Join(dir, "002-campuses.fixture.json"), []byte(campuses), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "001-regions.fixture.yaml"), []byte(regions), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	sources, err := LoadDir(dir, "test")
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}

	if len(sources) != 2 {
		t.Fatalf("Expected 2 sources, got %d", len(sources))
	}
	if sources[0].Name != "001-regions.fixture.yaml" {
		t.Errorf("Expected regions first, got %s", sources[0].Name)
	}
	if sources[1].Name != "002-campuses.fixture.json" {
		t.Errorf("Expected campuses second, got %s", sources[1].Name)
	}

	exp := sources[0].Exports[0]
	if exp.Table != "regions" {
		t.Errorf("Expected table regions, got %s", exp.Table)
	}
	if len(exp.Records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(exp.Records))
	}
	// Records come out sorted by semantic name: australia before europe.
	if exp.Records[0]["name"] != "Australia" {
		t.Errorf("Expected first record Australia, got %v", exp.Records[0]["name"])
	}
	if exp.Records[1]["id"] != 1 {
		t.Errorf("Expected europe id 1, got %v", exp.Records[1]["id"])
	}

	campus := sources[1].Exports[0]
	if campus.Table != "campus_info" {
		t.Errorf("Expected table campus_info, got %s", campus.Table)
	}
	if campus.Records[0]["city"] != "Sydney" {
		t.Errorf("Expected city Sydney, got %v", campus.Records[0]["city"])
	}
}

func TestLoadDirEmptyExport(t *testing.T) {
	dir := t.TempDir()

	content := `testRegions: {}
`
	if err := os.WriteFile(filepath.Join(dir, "001-regions.fixture.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	sources, err := LoadDir(dir, "test")
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}

	if len(sources[0].Exports) != 1 {
		t.Fatalf("Expected 1 export, got %d", len(sources[0].Exports))
	}
	if len(sources[0].Exports[0].Records) != 0 {
		t.Errorf("Expected empty record set, got %d records", len(sources[0].Exports[0].Records))
	}
}

func TestLoadDirBadExportName(t *testing.T) {
	dir := t.TempDir()

	content := `regions:
  europe: {id: 1}
`
	if err := os.WriteFile(filepath.Join(dir, "001-regions.fixture.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	if _, err := LoadDir(dir, "test"); err == nil {
		t.Error("Expected error for export without marker, got nil")
	}
}

func TestLoadDirInvalidYAML(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "001-bad.fixture.yaml"), []byte("::: not yaml"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	if _, err := LoadDir(dir, "test"); err == nil {
		t.Error("Expected error for invalid YAML, got nil")
	}
}
