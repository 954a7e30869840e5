package schedule

import (
	"testing"
	"time"

	"github.com/akhutsishvili/hit-reflex-trainer/internal/model"
	"github.com/akhutsishvili/hit-reflex-trainer/internal/stimulus"
)

// harness drives the scheduler with a simulated clock: every returned
// timer is queued with an absolute due time and delivered in order.
type harness struct {
	t     *testing.T
	sched *Scheduler
	now   time.Time
	queue []queuedTimer

	views    []View
	viewAt   []time.Time
	sounds   []Sound
	entries  []model.SessionHistoryEntry
	requests int
	releases int
}

type queuedTimer struct {
	id  int64
	due time.Time
}

func newHarness(t *testing.T, profile model.DifficultyProfile, program model.TrainingProgram) *harness {
	h := &harness{t: t, now: time.Unix(1000, 0)}
	h.sched = New(profile, program, stimulus.NewSeeded(1), Collaborators{
		Presenter: harnessPresenter{h},
		Audio:     harnessAudio{h},
		Wake:      harnessWake{h},
		Recorder:  harnessRecorder{h},
	})
	return h
}

type harnessPresenter struct{ h *harness }

func (p harnessPresenter) Show(v View) {
	p.h.views = append(p.h.views, v)
	p.h.viewAt = append(p.h.viewAt, p.h.now)
}

type harnessAudio struct{ h *harness }

func (a harnessAudio) Play(s Sound) { a.h.sounds = append(a.h.sounds, s) }

type harnessWake struct{ h *harness }

func (w harnessWake) Request() { w.h.requests++ }
func (w harnessWake) Release() { w.h.releases++ }

type harnessRecorder struct{ h *harness }

func (r harnessRecorder) Record(e model.SessionHistoryEntry) { r.h.entries = append(r.h.entries, e) }

func (h *harness) start() {
	h.push(h.sched.Start(h.now))
}

func (h *harness) push(timers []Timer) {
	for _, t := range timers {
		h.queue = append(h.queue, queuedTimer{id: t.ID, due: h.now.Add(t.Delay)})
	}
}

// step delivers the earliest queued timer. Stale timers stay in the
// queue until delivered, exactly like real in-flight callbacks.
func (h *harness) step() bool {
	if len(h.queue) == 0 {
		return false
	}
	idx := 0
	for i, q := range h.queue {
		if q.due.Before(h.queue[idx].due) {
			idx = i
		}
	}
	next := h.queue[idx]
	h.queue = append(h.queue[:idx], h.queue[idx+1:]...)
	if next.due.After(h.now) {
		h.now = next.due
	}
	h.push(h.sched.TimerFired(next.id, h.now))
	return true
}

func (h *harness) runUntil(cond func() bool, maxSteps int) {
	h.t.Helper()
	for i := 0; i < maxSteps; i++ {
		if cond() {
			return
		}
		if !h.step() {
			h.t.Fatalf("timer queue drained before condition was met (phase %s)", h.sched.Phase())
		}
	}
	h.t.Fatalf("condition not met after %d steps (phase %s)", maxSteps, h.sched.Phase())
}

func (h *harness) countSound(want Sound) int {
	n := 0
	for _, s := range h.sounds {
		if s == want {
			n++
		}
	}
	return n
}

func (h *harness) stimulusCount() int {
	n := 0
	for _, v := range h.views {
		if v.Visible {
			n++
		}
	}
	return n
}

func fixedProfile() model.DifficultyProfile {
	return model.DifficultyProfile{
		ID:          "test",
		Name:        "Test",
		MinInterval: 1000,
		MaxInterval: 1000,
		TotalHits:   model.Range{Min: 10, Max: 10},
		ComboSize:   model.Range{Min: 3, Max: 3},
		StrikeGap:   model.Range{Min: 100, Max: 100},
		ComboRest:   model.Range{Min: 500, Max: 500},
		TotalCombos: 2,
		Rest:        model.Rest{Enabled: true, BreakDuration: 8000},
	}
}

func singleProgram(sessions int) model.TrainingProgram {
	return model.TrainingProgram{
		Mode:         model.ModeBoth,
		TrainingType: model.TypeSingle,
		Sessions:     sessions,
		Difficulty:   "test",
	}
}

func TestSingleProgramRunsToBreakAndSecondSession(t *testing.T) {
	h := newHarness(t, fixedProfile(), singleProgram(2))
	h.start()

	if h.sched.Phase() != model.PhaseCountdown {
		t.Fatalf("expected countdown after start, got %s", h.sched.Phase())
	}
	if h.requests != 1 {
		t.Fatalf("expected one wake request, got %d", h.requests)
	}

	h.runUntil(func() bool { return h.sched.Phase() == model.PhaseSessionEnd }, 100)
	if got := h.sched.Run().HitsCompleted; got != 10 {
		t.Fatalf("expected 10 hits at session end, got %d", got)
	}
	if got := h.stimulusCount(); got != 10 {
		t.Fatalf("expected exactly 10 presented stimuli, got %d", got)
	}
	// Only the session-end dwell timer may remain scheduled.
	if got := h.sched.PendingTimers(); got != 1 {
		t.Fatalf("expected 1 pending timer at session end, got %d", got)
	}

	h.runUntil(func() bool { return h.sched.Phase() == model.PhaseBreak }, 10)
	h.runUntil(func() bool { return h.sched.Phase() == model.PhaseCountdown }, 20)
	run := h.sched.Run()
	if run.Index != 2 {
		t.Fatalf("expected session 2 after break, got %d", run.Index)
	}
	if run.HitsCompleted != 0 {
		t.Fatalf("expected hits reset after break, got %d", run.HitsCompleted)
	}

	if len(h.entries) != 1 {
		t.Fatalf("expected one recorded session, got %d", len(h.entries))
	}
	entry := h.entries[0]
	if entry.HitsCompleted != 10 || entry.SessionIndex != 1 || entry.TotalSessions != 2 || entry.Aborted {
		t.Fatalf("unexpected history entry: %+v", entry)
	}
}

func TestProgramCompletesAndReleasesWake(t *testing.T) {
	h := newHarness(t, fixedProfile(), singleProgram(1))
	h.start()
	h.runUntil(func() bool { return h.sched.Phase() == model.PhaseComplete }, 100)

	if h.releases != 1 {
		t.Fatalf("expected one wake release, got %d", h.releases)
	}
	if h.sched.PendingTimers() != 0 {
		t.Fatalf("expected no pending timers when complete, got %d", h.sched.PendingTimers())
	}
	if h.sched.ProgramDuration() <= 0 {
		t.Fatalf("expected positive program duration")
	}
	if got := h.countSound(SoundSessionStart); got != 1 {
		t.Fatalf("expected one session start cue, got %d", got)
	}
	if got := h.countSound(SoundSessionEnd); got != 1 {
		t.Fatalf("expected one session end cue, got %d", got)
	}
}

func TestStopMidTrainingCancelsEverything(t *testing.T) {
	h := newHarness(t, fixedProfile(), singleProgram(2))
	h.start()
	h.runUntil(func() bool { return h.sched.Run().HitsCompleted == 3 }, 50)

	h.sched.Stop(h.now)
	if h.sched.Phase() != model.PhaseComplete {
		t.Fatalf("expected complete after stop, got %s", h.sched.Phase())
	}
	if h.sched.PendingTimers() != 0 {
		t.Fatalf("expected no pending timers after stop, got %d", h.sched.PendingTimers())
	}
	if h.releases != 1 {
		t.Fatalf("expected wake released on stop, got %d releases", h.releases)
	}

	stimuliBefore := h.stimulusCount()
	// Deliver every in-flight timer; all must be ignored as stale.
	for h.step() {
	}
	if got := h.stimulusCount(); got != stimuliBefore {
		t.Fatalf("stimulus fired after stop: %d -> %d", stimuliBefore, got)
	}
	if h.sched.Phase() != model.PhaseComplete {
		t.Fatalf("phase changed after stop: %s", h.sched.Phase())
	}

	if len(h.entries) != 1 {
		t.Fatalf("expected one recorded entry, got %d", len(h.entries))
	}
	entry := h.entries[0]
	if entry.HitsCompleted != 3 || !entry.Aborted {
		t.Fatalf("expected aborted entry with 3 hits, got %+v", entry)
	}
}

func TestComboStrikesFireAtSampledOffsets(t *testing.T) {
	profile := fixedProfile()
	program := model.TrainingProgram{
		Mode:         model.ModeBoth,
		TrainingType: model.TypeCombo,
		Sessions:     1,
		Difficulty:   "test",
	}
	h := newHarness(t, profile, program)
	h.start()
	h.runUntil(func() bool { return h.sched.Run().HitsCompleted == 3 }, 30)

	var strikeTimes []time.Time
	for i, v := range h.views {
		if v.Visible {
			strikeTimes = append(strikeTimes, h.viewAt[i])
		}
	}
	if len(strikeTimes) != 3 {
		t.Fatalf("expected 3 strikes, got %d", len(strikeTimes))
	}
	base := strikeTimes[0]
	for i, want := range []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond} {
		if got := strikeTimes[i].Sub(base); got != want {
			t.Fatalf("strike %d at offset %s, want %s", i, got, want)
		}
	}
}

func TestComboSessionCompletesByComboCount(t *testing.T) {
	profile := fixedProfile()
	program := model.TrainingProgram{
		Mode:         model.ModeBoth,
		TrainingType: model.TypeCombo,
		Sessions:     1,
		Difficulty:   "test",
	}
	h := newHarness(t, profile, program)
	h.start()
	h.runUntil(func() bool { return h.sched.Phase() == model.PhaseComplete }, 100)

	if len(h.entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(h.entries))
	}
	entry := h.entries[0]
	if entry.CombosCompleted != 2 || entry.TargetCombos != 2 {
		t.Fatalf("expected 2/2 combos, got %d/%d", entry.CombosCompleted, entry.TargetCombos)
	}
	if entry.HitsCompleted != 6 {
		t.Fatalf("expected 6 hits from 2 combos of 3, got %d", entry.HitsCompleted)
	}
}

func TestBreakWarningFiresOnceAtFiveSeconds(t *testing.T) {
	h := newHarness(t, fixedProfile(), singleProgram(2))
	h.start()
	h.runUntil(func() bool { return h.sched.Phase() == model.PhaseBreak }, 100)
	h.runUntil(func() bool { return h.sched.Phase() == model.PhaseCountdown && h.sched.Run().Index == 2 }, 30)

	if got := h.countSound(SoundWarning); got != 1 {
		t.Fatalf("expected exactly one break warning, got %d", got)
	}
}

func TestDisabledRestSkipsBreak(t *testing.T) {
	profile := fixedProfile()
	profile.Rest.Enabled = false
	h := newHarness(t, profile, singleProgram(2))
	h.start()
	h.runUntil(func() bool { return h.sched.Phase() == model.PhaseSessionEnd }, 100)

	// The session-end dwell elapses straight into the next countdown.
	h.runUntil(func() bool { return h.sched.Phase() == model.PhaseCountdown }, 5)
	if got := h.sched.Run().Index; got != 2 {
		t.Fatalf("expected session 2 after skipped break, got %d", got)
	}
}

func TestMidRestSuspendsWithoutAlteringCounters(t *testing.T) {
	program := singleProgram(1)
	program.MidRest = true
	h := newHarness(t, fixedProfile(), program)
	h.start()
	h.runUntil(func() bool { return h.sched.Phase() == model.PhaseMidRest }, 50)

	if got := h.sched.Run().HitsCompleted; got != 5 {
		t.Fatalf("expected mid-rest at 5 of 10 hits, got %d", got)
	}
	h.runUntil(func() bool { return h.sched.Phase() == model.PhaseTraining }, 5)
	if got := h.sched.Run().HitsCompleted; got != 5 {
		t.Fatalf("mid-rest altered counters: %d", got)
	}
	h.runUntil(func() bool { return h.sched.Phase() == model.PhaseComplete }, 50)
	if got := h.entries[0].HitsCompleted; got != 10 {
		t.Fatalf("expected 10 hits after mid-rest session, got %d", got)
	}
}

func TestInvalidTransitionsLeaveStateUnchanged(t *testing.T) {
	h := newHarness(t, fixedProfile(), singleProgram(1))

	h.sched.Stop(h.now)
	if h.sched.Phase() != model.PhaseIdle {
		t.Fatalf("stop from idle changed phase to %s", h.sched.Phase())
	}
	h.sched.Reset()
	if h.sched.Phase() != model.PhaseIdle {
		t.Fatalf("reset from idle changed phase to %s", h.sched.Phase())
	}

	h.start()
	if timers := h.sched.Start(h.now); timers != nil {
		t.Fatalf("start while running scheduled timers: %v", timers)
	}
	if h.sched.Phase() != model.PhaseCountdown {
		t.Fatalf("double start changed phase to %s", h.sched.Phase())
	}
}

func TestResetReturnsToIdleForAnotherRun(t *testing.T) {
	h := newHarness(t, fixedProfile(), singleProgram(1))
	h.start()
	h.runUntil(func() bool { return h.sched.Phase() == model.PhaseComplete }, 100)

	h.sched.Reset()
	if h.sched.Phase() != model.PhaseIdle {
		t.Fatalf("expected idle after reset, got %s", h.sched.Phase())
	}
	if run := h.sched.Run(); run.HitsCompleted != 0 || run.Index != 0 {
		t.Fatalf("reset left counters: %+v", run)
	}
	if h.sched.ProgramDuration() != 0 {
		t.Fatalf("reset left program timestamps")
	}

	h.start()
	h.runUntil(func() bool { return h.sched.Phase() == model.PhaseComplete }, 100)
	if len(h.entries) != 2 {
		t.Fatalf("expected two recorded sessions across runs, got %d", len(h.entries))
	}
}

func TestCountdownTicksThreeTimes(t *testing.T) {
	h := newHarness(t, fixedProfile(), singleProgram(1))
	h.start()
	h.runUntil(func() bool { return h.sched.Phase() == model.PhaseTraining }, 10)

	if got := h.countSound(SoundTick); got != 3 {
		t.Fatalf("expected 3 countdown ticks, got %d", got)
	}
	if got := h.now.Sub(time.Unix(1000, 0)); got != 3*time.Second+settleDelay {
		t.Fatalf("training began at %s after start, want %s", got, 3*time.Second+settleDelay)
	}
}
