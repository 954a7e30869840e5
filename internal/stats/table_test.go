package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Difficulty", "Hits", "Pace"}
	rows := [][]string{
		{"standard", "25", "1800ms"},
		{"intense", "7", "950ms"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Difficulty Hits   Pace" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "standard     25 1800ms" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "intense       7  950ms" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableHandlesShortRows(t *testing.T) {
	headers := []string{"A", "B"}
	rows := [][]string{{"x"}}
	lines := formatTable(headers, rows, nil)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[1] != "x  " {
		t.Fatalf("unexpected padded row: %q", lines[1])
	}
}
