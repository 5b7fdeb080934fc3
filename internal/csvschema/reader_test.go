package csvschema

import (
	"bytes"
	"strings"
	"testing"
)

func TestReadCSVStripsBOMAndPads(t *testing.T) {
	in := "\ufeffName, Level,Age\nAiko,beginner,9\nRen,advanced\n,,\n"
	rows, header, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if header[0] != "name" || header[1] != "level" {
		t.Fatalf("unexpected header %v", header)
	}
	if len(rows) != 2 {
		t.Fatalf("expected blank rows skipped, got %d", len(rows))
	}
	if rows[1]["age"] != "" || rows[0]["age"] != "9" {
		t.Fatalf("unexpected rows %v", rows)
	}
	if missing := MissingColumns(levelSchema(), header); len(missing) != 0 {
		t.Fatalf("unexpected missing columns %v", missing)
	}
}

func TestReadCSVEmpty(t *testing.T) {
	if _, _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	s, _ := Builtin("students")
	var buf bytes.Buffer
	if err := WriteCSV(&buf, s, GenerateSampleData(s, 3)); err != nil {
		t.Fatalf("write: %v", err)
	}
	rows, _, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if b := ValidateRows(rows, s); len(b.Valid) != 3 {
		t.Fatalf("expected all sample rows valid after round trip: %v", b.Errors)
	}
}

func TestGenerateDocumentationAligns(t *testing.T) {
	s, _ := Builtin("students")
	doc := GenerateDocumentation(s)
	lines := strings.Split(strings.TrimSpace(doc), "\n")
	if lines[0] != "# students" {
		t.Fatalf("unexpected title %q", lines[0])
	}
	var table []string
	for _, l := range lines {
		if strings.HasPrefix(l, "|") {
			table = append(table, l)
		}
	}
	if len(table) != len(s.Columns)+2 {
		t.Fatalf("expected header, separator and %d rows, got %d", len(s.Columns), len(table))
	}
	for _, l := range table[1:] {
		if len(l) != len(table[0]) {
			t.Fatalf("misaligned row %q", l)
		}
	}
	if !strings.Contains(doc, "beginner, intermediate, advanced") || !strings.Contains(doc, "3 to 18") {
		t.Fatalf("missing enum or range in doc:\n%s", doc)
	}
}
