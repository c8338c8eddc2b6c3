package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/istighfar/internal/ledger"
)

func sampleLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l := ledger.New()
	e := ledger.NewEngine(ledger.FixedTarget(100))
	if _, err := e.RecordCount(l, "2024-03-01", 150); err != nil {
		t.Fatal(err)
	}
	if _, err := e.RecordCount(l, "2024-03-02", 40); err != nil {
		t.Fatal(err)
	}
	if _, err := e.RecordCount(l, "2024-03-03", 0); err != nil {
		t.Fatal(err)
	}
	// Far enough ahead to stay a plan whatever the wall clock says.
	if err := e.SetTarget(l, "2999-01-01", 500); err != nil {
		t.Fatal(err)
	}
	return l
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	l := sampleLedger(t)
	path := filepath.Join(t.TempDir(), "test.csv")

	err := ToCSV(l.Entries(), path)
	if err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 3 data rows
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}

	// Check header
	header := records[0]
	expectedHeader := []string{"Date", "Count", "Target", "Progress", "Met"}
	for i, h := range expectedHeader {
		if header[i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, header[i], h)
		}
	}

	// Rows are in date order
	want := [][]string{
		{"2024-03-01", "150", "100", "100%", "yes"},
		{"2024-03-02", "40", "100", "40%", "no"},
		{"2024-03-03", "0", "100", "0%", "no"},
	}
	for i, row := range want {
		for j, cell := range row {
			if records[i+1][j] != cell {
				t.Fatalf("row %d col %d = %q, want %q", i+1, j, records[i+1][j], cell)
			}
		}
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	err := ToCSV(nil, path)
	if err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	r := csv.NewReader(f)
	records, _ := r.ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	err := ToCSV(nil, "/nonexistent/dir/file.csv")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	l := sampleLedger(t)
	path := filepath.Join(t.TempDir(), "test.json")

	err := ToJSON(l, path)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Count != 3 {
		t.Fatalf("count = %d, want 3", result.Count)
	}
	if result.Lifetime != 190 {
		t.Fatalf("lifetime = %d, want 190", result.Lifetime)
	}
	if len(result.PlannedTargets) != 1 || result.PlannedTargets[0].Target != 500 {
		t.Fatalf("planned targets = %+v", result.PlannedTargets)
	}
	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}
	if result.Entries[0].Date != "2024-03-01" {
		t.Fatalf("first entry = %+v", result.Entries[0])
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(ledger.New(), path)

	data, _ := os.ReadFile(path)
	// Pretty-printed JSON should contain newlines and indentation
	if !strings.Contains(string(data), "\n") {
		t.Fatal("JSON should be pretty-printed with newlines")
	}
	if !strings.Contains(string(data), "  ") {
		t.Fatal("JSON should be indented with spaces")
	}
}

func TestToJSONBadPath(t *testing.T) {
	err := ToJSON(ledger.New(), "/nonexistent/dir/file.json")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// Import
// ============================================================

func TestFromJSONRestoresBackup(t *testing.T) {
	l := sampleLedger(t)
	path := filepath.Join(t.TempDir(), "backup.json")
	if err := ToJSON(l, path); err != nil {
		t.Fatal(err)
	}

	got, stats, err := FromJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Dropped != 0 {
		t.Fatalf("dropped %d records", stats.Dropped)
	}
	if got.EntryCount() != 3 || got.PlanCount() != 1 {
		t.Fatalf("restored %d entries, %d plans", got.EntryCount(), got.PlanCount())
	}
}

func TestFromJSONRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.json")
	os.WriteFile(path, []byte("definitely not json"), 0o644)

	if _, _, err := FromJSON(path); err == nil {
		t.Fatal("expected error for garbage file")
	}
}

func TestFromJSONMissingFile(t *testing.T) {
	if _, _, err := FromJSON("/nonexistent/backup.json"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		p    float64
		want string
	}{
		{0, "0%"},
		{33.4, "33%"},
		{99.6, "100%"},
		{100, "100%"},
	}

	for _, tt := range tests {
		got := formatPercent(tt.p)
		if got != tt.want {
			t.Errorf("formatPercent(%v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}
