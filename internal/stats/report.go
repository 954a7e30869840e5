package stats

import (
	"fmt"
	"io"

	"github.com/akhutsishvili/hit-reflex-trainer/internal/model"
)

// RenderHistory prints a summary, a per-session table, and a pace trend
// for recorded sessions. Entries are expected newest first.
func RenderHistory(w io.Writer, entries []model.SessionHistoryEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No sessions recorded yet.")
		return err
	}

	totalHits := 0
	var totalDuration int64
	bestHPM := 0.0
	for _, e := range entries {
		totalHits += e.HitsCompleted
		totalDuration += e.DurationMs
		if hpm := HitsPerMinute(e.HitsCompleted, e.DurationMs); hpm > bestHPM {
			bestHPM = hpm
		}
	}

	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Sessions: %d\n", len(entries)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total hits: %d\n", totalHits); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Time trained: %s\n", FormatClock(float64(totalDuration))); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg pace: %.1f hits/min\n", HitsPerMinute(totalHits, totalDuration)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best session: %.1f hits/min\n", bestHPM); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	headers := []string{"When", "Difficulty", "Type", "Session", "Hits", "Done", "Pace", "Duration", ""}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, historyRow(e))
	}
	rightAlign := map[int]bool{3: true, 4: true, 5: true, 6: true, 7: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	// Oldest to newest, like reading a learning curve.
	hpms := make([]float64, len(entries))
	for i, e := range entries {
		hpms[len(entries)-1-i] = HitsPerMinute(e.HitsCompleted, e.DurationMs)
	}
	if _, err := fmt.Fprintf(w, "Pace trend: %s\n", Sparkline(hpms)); err != nil {
		return err
	}
	return nil
}

func historyRow(e model.SessionHistoryEntry) []string {
	pace := "n/a"
	if p, ok := AveragePace(e.HitsCompleted, e.DurationMs); ok {
		pace = fmt.Sprintf("%dms", p)
	}
	done := ""
	if e.TrainingType == model.TypeCombo {
		done = fmt.Sprintf("%d/%d", e.CombosCompleted, e.TargetCombos)
	} else {
		done = fmt.Sprintf("%d%%", CompletionRate(e.HitsCompleted, e.TargetHits))
	}
	note := ""
	if e.Aborted {
		note = "stopped"
	}
	return []string{
		e.EndedAt.Local().Format("2006-01-02 15:04"),
		e.Difficulty,
		string(e.TrainingType),
		fmt.Sprintf("%d/%d", e.SessionIndex, e.TotalSessions),
		fmt.Sprintf("%d", e.HitsCompleted),
		done,
		pace,
		FormatClock(float64(e.DurationMs)),
		note,
	}
}
