package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Played", "Score", "Accuracy"}
	rows := [][]string{
		{"today", "1250", "97.5%"},
		{"サッカー", "80", "8.0%"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Played   Score Accuracy" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "today     1250    97.5%" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "サッカー    80     8.0%" {
		t.Fatalf("unexpected wide row line: %q", lines[2])
	}
}
