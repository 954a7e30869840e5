// Package history keeps a bounded, newest-first record of sessions.
package history

import (
	"context"
	"fmt"
	"os"

	"github.com/akhutsishvili/hit-reflex-trainer/internal/model"
	"github.com/akhutsishvili/hit-reflex-trainer/internal/store"
)

// MaxEntries is the history cap; the oldest entry is evicted on overflow.
const MaxEntries = 10

// Append prepends entry to entries and trims the result to max. The
// input slice is not modified.
func Append(entries []model.SessionHistoryEntry, entry model.SessionHistoryEntry, max int) []model.SessionHistoryEntry {
	out := make([]model.SessionHistoryEntry, 0, len(entries)+1)
	out = append(out, entry)
	out = append(out, entries...)
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

// Recorder persists session history through the store. Store failures
// are logged and never interrupt a run.
type Recorder struct {
	store   *store.Store
	entries []model.SessionHistoryEntry
}

// NewRecorder loads existing history from the store. A missing or
// unreadable history reads as empty.
func NewRecorder(st *store.Store) *Recorder {
	r := &Recorder{store: st}
	if st == nil {
		return r
	}
	entries, err := st.LoadHistory(context.Background())
	if err != nil {
		logErrf("failed to load history: %v\n", err)
		return r
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	r.entries = entries
	return r
}

// Record appends a session snapshot and persists the trimmed list.
func (r *Recorder) Record(entry model.SessionHistoryEntry) {
	r.entries = Append(r.entries, entry, MaxEntries)
	if r.store == nil {
		return
	}
	if err := r.store.SaveHistory(context.Background(), r.entries); err != nil {
		logErrf("failed to save history: %v\n", err)
	}
}

// Entries returns the recorded sessions, newest first.
func (r *Recorder) Entries() []model.SessionHistoryEntry {
	return r.entries
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
