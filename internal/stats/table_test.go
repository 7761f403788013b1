package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Date", "Speed", "Test"}
	rows := [][]string{
		{"2026-01-02 10:00", "72 WPM", "60s"},
		{"2026-01-03 09:30", "8 WPM", "120s"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Date              Speed Test" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "2026-01-02 10:00 72 WPM  60s" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "2026-01-03 09:30  8 WPM 120s" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}
