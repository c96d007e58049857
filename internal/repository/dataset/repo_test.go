package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/PatrikGranholm/nordiclaw/internal/domain/record"
	"github.com/PatrikGranholm/nordiclaw/internal/domain/span"
)

type mockLookups struct {
	abbrs map[string]string
}

func (m *mockLookups) DepositoryAbbreviation(_ context.Context, name string) (string, bool) {
	v, ok := m.abbrs[name]
	return v, ok
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRead_TSVWithAliasesAndExtras(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "catalog.tsv",
		"Repository\tShelfmark\tDate\tWatermark\n"+
			"Den Arnamagnæanske Samling\t343 fol.\t1350-1375\tcrown\n"+
			"Unknown place\t17 4to\tno date\t\n")

	repo := New(dir, &mockLookups{abbrs: map[string]string{
		"Den Arnamagnæanske Samling": "AM",
	}}, nil)

	ds, err := repo.Read(context.Background(), "catalog")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ds.SourceID != "catalog" {
		t.Errorf("SourceID = %q", ds.SourceID)
	}

	wantCols := []string{record.ColDepository, record.ColShelfmark, record.ColDating, "Watermark"}
	if len(ds.Columns) != len(wantCols) {
		t.Fatalf("Columns = %v, want %v", ds.Columns, wantCols)
	}
	for i, c := range wantCols {
		if ds.Columns[i] != c {
			t.Errorf("Columns[%d] = %q, want %q", i, ds.Columns[i], c)
		}
	}

	if len(ds.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(ds.Rows))
	}
	r0 := ds.Rows[0]
	if r0.Depository != "AM" {
		t.Errorf("depository not normalized: %q", r0.Depository)
	}
	if r0.Shelfmark != "343 fol." || r0.Dating != "1350-1375" {
		t.Errorf("row 0 = %+v", r0)
	}
	if r0.Extra["Watermark"] != "crown" {
		t.Errorf("extra column lost: %v", r0.Extra)
	}
	if r0.SourceRow != 0 || ds.Rows[1].SourceRow != 1 {
		t.Errorf("source rows = %d, %d", r0.SourceRow, ds.Rows[1].SourceRow)
	}

	// A name the lookup does not know stays verbatim.
	if ds.Rows[1].Depository != "Unknown place" {
		t.Errorf("unknown depository rewritten: %q", ds.Rows[1].Depository)
	}

	if ds.HasMerge {
		t.Error("no sidecar, HasMerge must be false")
	}
}

func TestRead_RaggedRowsTolerated(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "catalog.tsv",
		"Depository\tShelfmark\tDating\n"+
			"AM\t1\n")

	repo := New(dir, nil, nil)
	ds, err := repo.Read(context.Background(), "catalog")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ds.Rows[0].Dating != "" {
		t.Errorf("short row's missing cell = %q, want empty", ds.Rows[0].Dating)
	}
}

func TestRead_MissingFile(t *testing.T) {
	repo := New(t.TempDir(), nil, nil)
	if _, err := repo.Read(context.Background(), "nope"); err == nil {
		t.Error("expected an error for a missing source")
	}
}

func TestRead_MergeSidecar(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "catalog.tsv",
		"Repository\tName\nAM\tx\nAM\ty\n")
	writeSource(t, dir, filepath.Base(path)+".merges.json",
		`{"ranges":[
			{"minRow":0,"maxRow":1,"firstColumn":"Repository","lastColumn":"Repository"},
			{"minRow":3,"maxRow":2,"firstColumn":"Name","lastColumn":"Name"},
			{"minRow":0,"maxRow":1,"firstColumn":"","lastColumn":"Name"}
		]}`)

	repo := New(dir, nil, nil)
	ds, err := repo.Read(context.Background(), "catalog")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !ds.HasMerge {
		t.Fatal("sidecar present, HasMerge must be true")
	}
	if len(ds.Ranges) != 2 {
		t.Fatalf("got %d ranges, want 2 (malformed entry skipped)", len(ds.Ranges))
	}

	// Column bounds map through the same header aliases as the TSV.
	if ds.Ranges[0].FirstColumn != record.ColDepository {
		t.Errorf("FirstColumn = %q, want canonical %q", ds.Ranges[0].FirstColumn, record.ColDepository)
	}
	// Reversed row bounds are swapped.
	if ds.Ranges[1] != (span.Range{MinRow: 2, MaxRow: 3, FirstColumn: record.ColName, LastColumn: record.ColName}) {
		t.Errorf("range 1 = %+v", ds.Ranges[1])
	}
}

func TestRead_InvalidSidecarIgnored(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "catalog.tsv", "Depository\nAM\n")
	writeSource(t, dir, filepath.Base(path)+".merges.json", "{not json")

	repo := New(dir, nil, nil)
	ds, err := repo.Read(context.Background(), "catalog")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ds.HasMerge {
		t.Error("unparseable sidecar must count as no merge metadata")
	}
}

func TestCanonicalColumn(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Repository", record.ColDepository},
		{"DEPOSITORY", record.ColDepository},
		{"  Shelf mark ", record.ColShelfmark},
		{"Production units", record.ColProductionUnit},
		{"Watermark", "Watermark"},
	}
	for _, tt := range tests {
		if got := CanonicalColumn(tt.in); got != tt.want {
			t.Errorf("CanonicalColumn(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
