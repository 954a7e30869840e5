package stats

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/akhutsishvili/hit-reflex-trainer/internal/model"
)

func TestFormatClock(t *testing.T) {
	cases := []struct {
		ms   float64
		want string
	}{
		{0, "00:00"},
		{999, "00:00"},
		{1000, "00:01"},
		{59000, "00:59"},
		{60000, "01:00"},
		{150000, "02:30"},
		{3600000, "60:00"},
		{-1000, "00:00"},
		{math.NaN(), "00:00"},
		{math.Inf(1), "00:00"},
	}
	for _, tc := range cases {
		if got := FormatClock(tc.ms); got != tc.want {
			t.Errorf("FormatClock(%v) = %q, want %q", tc.ms, got, tc.want)
		}
	}
}

func TestCompletionRate(t *testing.T) {
	cases := []struct {
		hits, total, want int
	}{
		{20, 30, 67},
		{30, 30, 100},
		{0, 30, 0},
		{15, 0, 0},
		{1, 3, 33},
	}
	for _, tc := range cases {
		if got := CompletionRate(tc.hits, tc.total); got != tc.want {
			t.Errorf("CompletionRate(%d, %d) = %d, want %d", tc.hits, tc.total, got, tc.want)
		}
	}
}

func TestAveragePace(t *testing.T) {
	pace, ok := AveragePace(5, 8000)
	if !ok || pace != 2000 {
		t.Fatalf("AveragePace(5, 8000) = %d, %v", pace, ok)
	}
	if _, ok := AveragePace(1, 8000); ok {
		t.Fatalf("pace defined for a single hit")
	}
	if _, ok := AveragePace(0, 8000); ok {
		t.Fatalf("pace defined for zero hits")
	}
	pace, ok = AveragePace(4, 10000)
	if !ok || pace != 3333 {
		t.Fatalf("AveragePace(4, 10000) = %d, %v", pace, ok)
	}
}

func TestHitsPerMinute(t *testing.T) {
	if got := HitsPerMinute(30, 60000); got != 30.0 {
		t.Fatalf("HitsPerMinute(30, 60000) = %v", got)
	}
	if got := HitsPerMinute(25, 90000); got != 16.7 {
		t.Fatalf("HitsPerMinute(25, 90000) = %v", got)
	}
	if got := HitsPerMinute(0, 60000); got != 0 {
		t.Fatalf("zero hits gave %v", got)
	}
	if got := HitsPerMinute(30, 0); got != 0 {
		t.Fatalf("zero duration gave %v", got)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil); got != "" {
		t.Fatalf("empty input gave %q", got)
	}
	flat := Sparkline([]float64{5, 5, 5})
	if len(flat) != 3 || strings.Count(flat, string(flat[0])) != 3 {
		t.Fatalf("flat series not uniform: %q", flat)
	}
	ramp := Sparkline([]float64{0, 50, 100})
	if len(ramp) != 3 {
		t.Fatalf("ramp length %d", len(ramp))
	}
	if ramp[0] != ' ' || ramp[2] != '@' {
		t.Fatalf("ramp endpoints wrong: %q", ramp)
	}
}

func TestRenderHistoryEmpty(t *testing.T) {
	var b strings.Builder
	if err := RenderHistory(&b, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(b.String(), "No sessions recorded yet.") {
		t.Fatalf("missing empty message: %q", b.String())
	}
}

func TestRenderHistoryReport(t *testing.T) {
	now := time.Date(2026, 8, 30, 18, 0, 0, 0, time.UTC)
	entries := []model.SessionHistoryEntry{
		{
			StartedAt:     now,
			EndedAt:       now.Add(time.Minute),
			DurationMs:    60000,
			Mode:          model.ModeBoth,
			TrainingType:  model.TypeSingle,
			Difficulty:    "standard",
			SessionIndex:  2,
			TotalSessions: 2,
			HitsCompleted: 30,
			TargetHits:    30,
		},
		{
			StartedAt:       now.Add(-time.Hour),
			EndedAt:         now.Add(-time.Hour + 90*time.Second),
			DurationMs:      90000,
			Mode:            model.ModeBoth,
			TrainingType:    model.TypeCombo,
			Difficulty:      "intense",
			SessionIndex:    1,
			TotalSessions:   2,
			HitsCompleted:   12,
			CombosCompleted: 4,
			TargetCombos:    10,
			Aborted:         true,
		},
	}
	var b strings.Builder
	if err := RenderHistory(&b, entries); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := b.String()
	for _, want := range []string{
		"Sessions: 2",
		"Total hits: 42",
		"Time trained: 02:30",
		"standard",
		"intense",
		"100%",   // single session completion
		"4/10",   // combo session done column
		"stopped",
		"Pace trend:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
