package tabfile

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"autostat/domain/dataset"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp csv: %v", err)
	}
	return path
}

func TestRead_CSVWithDatesAndGaps(t *testing.T) {
	path := writeTempCSV(t, "date,sales,region_code\n"+
		"2024-01-01,100.5,1\n"+
		"2024-01-02,,2\n"+
		"2024-01-03,102.25,abc\n")

	ds, err := NewReader(path).Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(ds.Columns) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(ds.Columns))
	}

	date := ds.Columns[0]
	if date.Kind != dataset.Temporal {
		t.Errorf("date column should coerce to temporal, got %s", date.Kind)
	}
	if date.Times[2].Day() != 3 {
		t.Errorf("date parsing is off: %v", date.Times[2])
	}

	sales := ds.Columns[1]
	if sales.Kind != dataset.Numeric {
		t.Fatalf("sales column should be numeric")
	}
	if sales.Values[0] != 100.5 {
		t.Errorf("expected 100.5, got %v", sales.Values[0])
	}
	if !math.IsNaN(sales.Values[1]) {
		t.Error("empty cell should read as missing")
	}

	region := ds.Columns[2]
	if !math.IsNaN(region.Values[2]) {
		t.Error("unparseable cell should read as missing")
	}
}

func TestRead_ThousandsSeparators(t *testing.T) {
	path := writeTempCSV(t, "sales\n\"1,250.5\"\n\"2,000\"\n")
	ds, err := NewReader(path).Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if ds.Columns[0].Values[0] != 1250.5 {
		t.Errorf("expected 1250.5, got %v", ds.Columns[0].Values[0])
	}
}

func TestRead_HeaderOnly(t *testing.T) {
	path := writeTempCSV(t, "a,b\n")
	if _, err := NewReader(path).Read(); err == nil {
		t.Fatal("header-only file should be rejected")
	}
}

func TestRead_MissingFile(t *testing.T) {
	if _, err := NewReader("/nonexistent/nope.csv").Read(); err == nil {
		t.Fatal("missing file should be rejected")
	}
}

func TestRead_EmptyHeaderName(t *testing.T) {
	path := writeTempCSV(t, "a,\n1,2\n")
	if _, err := NewReader(path).Read(); err == nil {
		t.Fatal("empty column name should be rejected")
	}
}
