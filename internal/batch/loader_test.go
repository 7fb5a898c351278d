package batch

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeManifest(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		for j, cell := range row {
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue("Sheet1", name, cell); err != nil {
				t.Fatal(err)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "manifest.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_DetectsColumnsByHeader(t *testing.T) {
	path := writeManifest(t, [][]any{
		{"Call ID", "City", "Recording URL"},
		{"C-1", "Austin", "https://cdn.example.com/c1.mp3"},
		{"C-2", "Boston", "https://cdn.example.com/c2.mp3"},
		{"C-3", "Denver", "not-a-url"},
	})

	entries, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2 (invalid source row skipped)", len(entries))
	}
	if entries[0].CallID != "C-1" || entries[0].Source != "https://cdn.example.com/c1.mp3" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
}

func TestLoad_LocalPathsAccepted(t *testing.T) {
	path := writeManifest(t, [][]any{
		{"id", "audio file"},
		{"1", "/calls/2026/jan/c1.wav"},
		{"2", "./c2.wav"},
	})

	entries, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
}

func TestLoad_NoSourceColumn(t *testing.T) {
	path := writeManifest(t, [][]any{
		{"name", "notes"},
		{"x", "y"},
	})
	if _, err := Load(path); err == nil {
		t.Fatal("expected error when no audio source column exists")
	}
}

func TestLoad_EmptySheet(t *testing.T) {
	path := writeManifest(t, [][]any{{"Recording URL"}})
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for manifest without data rows")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/manifest.xlsx"); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}
