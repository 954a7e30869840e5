package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/akhutsishvili/hit-reflex-trainer/internal/difficulty"
	"github.com/akhutsishvili/hit-reflex-trainer/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "reflex.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return st
}

func TestGetSetRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if err := st.Set(ctx, "k", map[string]int{"n": 7}); err != nil {
		t.Fatalf("set: %v", err)
	}
	var got map[string]int
	found, err := st.Get(ctx, "k", &got)
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	if got["n"] != 7 {
		t.Fatalf("got %v", got)
	}

	// Overwrite replaces the previous value.
	if err := st.Set(ctx, "k", map[string]int{"n": 8}); err != nil {
		t.Fatalf("set again: %v", err)
	}
	got = nil
	if _, err := st.Get(ctx, "k", &got); err != nil {
		t.Fatalf("get again: %v", err)
	}
	if got["n"] != 8 {
		t.Fatalf("overwrite lost: %v", got)
	}
}

func TestGetMissingKey(t *testing.T) {
	st := openTestStore(t)
	var out string
	found, err := st.Get(context.Background(), "nope", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatalf("missing key reported found")
	}
}

func TestCorruptValueReadsAsAbsent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if _, err := st.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)`, KeyHistory, "{not json"); err != nil {
		t.Fatalf("seed corrupt value: %v", err)
	}
	entries, err := st.LoadHistory(ctx)
	if err != nil {
		t.Fatalf("corrupt history must not error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("corrupt history read as %d entries", len(entries))
	}
}

func TestRemove(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.Set(ctx, "k", 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	var out int
	if found, _ := st.Get(ctx, "k", &out); found {
		t.Fatalf("key survived remove")
	}
	if err := st.Remove(ctx, "k"); err != nil {
		t.Fatalf("removing an absent key errored: %v", err)
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	entries := []model.SessionHistoryEntry{
		{
			StartedAt:     now.Add(-time.Minute),
			EndedAt:       now,
			DurationMs:    60000,
			Mode:          model.ModeBoth,
			TrainingType:  model.TypeSingle,
			Difficulty:    "standard",
			SessionIndex:  1,
			TotalSessions: 2,
			HitsCompleted: 25,
			TargetHits:    25,
		},
	}
	if err := st.SaveHistory(ctx, entries); err != nil {
		t.Fatalf("save history: %v", err)
	}
	got, err := st.LoadHistory(ctx)
	if err != nil {
		t.Fatalf("load history: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if !got[0].StartedAt.Equal(entries[0].StartedAt) || got[0].HitsCompleted != 25 {
		t.Fatalf("entry mangled: %+v", got[0])
	}
}

func TestProfilesAndActiveProfile(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	profiles, err := st.LoadProfiles(ctx)
	if err != nil {
		t.Fatalf("load profiles: %v", err)
	}
	if len(profiles) != 0 {
		t.Fatalf("fresh store has %d profiles", len(profiles))
	}

	min := 900
	if err := st.SaveProfile(ctx, "sprint", difficulty.Override{MinInterval: &min}); err != nil {
		t.Fatalf("save profile: %v", err)
	}
	profiles, err = st.LoadProfiles(ctx)
	if err != nil {
		t.Fatalf("reload profiles: %v", err)
	}
	saved, ok := profiles["sprint"]
	if !ok || saved.MinInterval == nil || *saved.MinInterval != 900 {
		t.Fatalf("profile not round-tripped: %+v", profiles)
	}

	if id, _ := st.ActiveProfile(ctx); id != "" {
		t.Fatalf("fresh store has active profile %q", id)
	}
	if err := st.SetActiveProfile(ctx, "sprint"); err != nil {
		t.Fatalf("set active: %v", err)
	}
	id, err := st.ActiveProfile(ctx)
	if err != nil || id != "sprint" {
		t.Fatalf("active profile = %q, err=%v", id, err)
	}
}

func TestLastProgramRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, found, err := st.LastProgram(ctx); err != nil || found {
		t.Fatalf("fresh store: found=%v err=%v", found, err)
	}
	program := model.TrainingProgram{
		Mode:         model.ModeStrikeA,
		TrainingType: model.TypeCombo,
		Sessions:     3,
		Difficulty:   "intense",
		MidRest:      true,
	}
	if err := st.SaveLastProgram(ctx, program); err != nil {
		t.Fatalf("save last program: %v", err)
	}
	got, found, err := st.LastProgram(ctx)
	if err != nil || !found {
		t.Fatalf("load last program: found=%v err=%v", found, err)
	}
	if got != program {
		t.Fatalf("last program mangled:\n got %+v\nwant %+v", got, program)
	}
}
