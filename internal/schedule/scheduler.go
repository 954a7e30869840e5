// Package schedule runs the phase state machine for one training program.
//
// The scheduler is a pure event machine: it never sleeps or spawns
// goroutines. Every delay it needs is returned to the caller as a Timer
// request, and the caller feeds the timer back through TimerFired after
// the delay elapses. Each scheduled timer is registered in a pending set
// owned by the scheduler; leaving a phase clears that set, so a timer
// delivered after its phase ended is unknown and ignored. That makes
// "cancel everything on exit" a single operation and keeps duplicate or
// overlapping stimuli impossible even when transitions race with
// in-flight callbacks.
package schedule

import (
	"time"

	"github.com/akhutsishvili/hit-reflex-trainer/internal/model"
	"github.com/akhutsishvili/hit-reflex-trainer/internal/stimulus"
)

// Sound identifies an audio cue.
type Sound int

// Audio cues.
const (
	SoundStrikeA Sound = iota
	SoundStrikeB
	SoundSessionStart
	SoundSessionEnd
	SoundWarning
	SoundTick
)

// View is what the presentation sink receives on every change: the cue
// currently shown (if any) and session progress in hits or combos.
type View struct {
	Action  model.Action
	Visible bool
	Done    int
	Total   int
}

// Presenter consumes stimulus/progress updates. Implementations must
// tolerate being called rapidly and return nothing.
type Presenter interface {
	Show(View)
}

// AudioSink plays fire-and-forget cues.
type AudioSink interface {
	Play(Sound)
}

// WakeLock is the attention/sleep-prevention hold. Request and Release
// are idempotent.
type WakeLock interface {
	Request()
	Release()
}

// Recorder receives the history entry of every finished or aborted session.
type Recorder interface {
	Record(model.SessionHistoryEntry)
}

// Collaborators bundles the scheduler's external sinks. Any of them may
// be nil; the scheduler degrades gracefully rather than aborting a run.
type Collaborators struct {
	Presenter Presenter
	Audio     AudioSink
	Wake      WakeLock
	Recorder  Recorder
}

// Timer asks the embedding runtime to call TimerFired with ID once
// Delay has elapsed.
type Timer struct {
	ID    int64
	Delay time.Duration
}

// Fixed timing constants of the state machine.
const (
	countdownTicks   = 3
	countdownSpacing = time.Second
	settleDelay      = 500 * time.Millisecond
	displayWindow    = 600 * time.Millisecond
	sessionEndDwell  = 1500 * time.Millisecond
	midRestDuration  = 10 * time.Second
	breakTickSpacing = time.Second
	breakWarnAt      = 5 // seconds remaining
)

type timerKind int

const (
	timerCountdownTick timerKind = iota
	timerSettle
	timerStimulusDue
	timerDisplayDone
	timerStrikeDue
	timerComboDone
	timerComboRest
	timerMidRestDone
	timerSessionEndDone
	timerBreakTick
)

// Scheduler drives one program of 1-4 sessions. It is the sole owner of
// its phase and counter state; callers interact only through events.
type Scheduler struct {
	profile model.DifficultyProfile
	program model.TrainingProgram
	gen     *stimulus.Generator
	sinks   Collaborators

	phase        model.Phase
	run          model.SessionRun
	programStart time.Time
	programEnd   time.Time

	countdownLeft int
	breakLeft     int
	breakWarned   bool
	midRestTaken  bool

	combo       stimulus.ComboPlan
	strikeIndex int

	current model.Action
	visible bool

	pending     map[int64]timerKind
	lastTimerID int64
}

// New returns a scheduler in the idle phase. The profile must already
// have passed difficulty validation.
func New(profile model.DifficultyProfile, program model.TrainingProgram, gen *stimulus.Generator, sinks Collaborators) *Scheduler {
	return &Scheduler{
		profile: profile,
		program: program,
		gen:     gen,
		sinks:   sinks,
		phase:   model.PhaseIdle,
		pending: map[int64]timerKind{},
	}
}

// Phase returns the current phase.
func (s *Scheduler) Phase() model.Phase { return s.phase }

// Run returns a snapshot of the live session counters.
func (s *Scheduler) Run() model.SessionRun { return s.run }

// Program returns the program this scheduler runs.
func (s *Scheduler) Program() model.TrainingProgram { return s.program }

// Profile returns the resolved difficulty in use.
func (s *Scheduler) Profile() model.DifficultyProfile { return s.profile }

// CountdownLeft returns the current countdown value while in COUNTDOWN.
func (s *Scheduler) CountdownLeft() int { return s.countdownLeft }

// BreakRemaining returns the remaining break time in whole seconds.
func (s *Scheduler) BreakRemaining() int { return s.breakLeft }

// ProgramDuration returns the wall time between program start and end,
// or zero while either is unset.
func (s *Scheduler) ProgramDuration() time.Duration {
	if s.programStart.IsZero() || s.programEnd.IsZero() {
		return 0
	}
	return s.programEnd.Sub(s.programStart)
}

// PendingTimers returns the number of live timer handles.
func (s *Scheduler) PendingTimers() int { return len(s.pending) }

// Progress returns session progress: hits against the sampled target in
// single mode, combos against the configured total in combo mode.
func (s *Scheduler) Progress() (done, total int) {
	if s.program.TrainingType == model.TypeCombo {
		return s.run.CombosCompleted, s.profile.TotalCombos
	}
	return s.run.HitsCompleted, s.run.TargetHits
}

// Start begins a run. It is only valid from IDLE; any other phase leaves
// the state unchanged and returns no timers.
func (s *Scheduler) Start(now time.Time) []Timer {
	if s.phase != model.PhaseIdle {
		return nil
	}
	s.run = model.SessionRun{Index: 1}
	if s.programStart.IsZero() {
		s.programStart = now
	}
	s.wakeRequest()
	return s.enterCountdown()
}

// Stop aborts the run from any non-terminal phase: all pending timers
// are cancelled, accumulated counters are preserved in a history entry,
// and the scheduler moves straight to COMPLETE.
func (s *Scheduler) Stop(now time.Time) {
	switch s.phase {
	case model.PhaseIdle, model.PhaseComplete:
		return
	}
	phase := s.phase
	s.cancelAll()
	s.clearStimulus()
	s.show()
	// SESSION_END and BREAK already recorded the finished session;
	// re-recording it would duplicate the entry.
	if phase != model.PhaseSessionEnd && phase != model.PhaseBreak {
		s.run.EndedAt = now
		s.record(now, true)
	}
	s.programEnd = now
	s.phase = model.PhaseComplete
	s.wakeRelease()
}

// Reset returns a completed scheduler to IDLE for another run with the
// same configuration. Per-run counters and timestamps are cleared.
func (s *Scheduler) Reset() {
	if s.phase != model.PhaseComplete {
		return
	}
	s.cancelAll()
	s.run = model.SessionRun{}
	s.programStart = time.Time{}
	s.programEnd = time.Time{}
	s.phase = model.PhaseIdle
}

// TimerFired advances the machine for a previously scheduled timer.
// Unknown ids belong to a phase that has since been exited and are
// dropped without touching state.
func (s *Scheduler) TimerFired(id int64, now time.Time) []Timer {
	kind, ok := s.pending[id]
	if !ok {
		return nil
	}
	delete(s.pending, id)
	switch kind {
	case timerCountdownTick:
		return s.onCountdownTick()
	case timerSettle:
		return s.beginSession(now)
	case timerStimulusDue:
		return s.onStimulusDue()
	case timerDisplayDone:
		return s.onDisplayDone(now)
	case timerStrikeDue:
		return s.fireStrike()
	case timerComboDone:
		return s.onComboDone(now)
	case timerComboRest:
		return s.startCombo()
	case timerMidRestDone:
		return s.onMidRestDone()
	case timerSessionEndDone:
		return s.onSessionEndDone(now)
	case timerBreakTick:
		return s.onBreakTick()
	}
	return nil
}

func (s *Scheduler) enterCountdown() []Timer {
	s.phase = model.PhaseCountdown
	s.countdownLeft = countdownTicks
	s.play(SoundTick)
	return s.schedule(timerCountdownTick, countdownSpacing)
}

func (s *Scheduler) onCountdownTick() []Timer {
	s.countdownLeft--
	if s.countdownLeft > 0 {
		s.play(SoundTick)
		return s.schedule(timerCountdownTick, countdownSpacing)
	}
	return s.schedule(timerSettle, settleDelay)
}

func (s *Scheduler) beginSession(now time.Time) []Timer {
	s.phase = model.PhaseTraining
	s.midRestTaken = false
	s.run.TargetHits = s.gen.Draw(s.profile.TotalHits)
	s.run.StartedAt = now
	s.play(SoundSessionStart)
	s.show()
	if s.program.TrainingType == model.TypeCombo {
		// No rest before the first combo of a session.
		return s.startCombo()
	}
	return s.schedule(timerStimulusDue, s.interval())
}

func (s *Scheduler) interval() time.Duration {
	ms := s.gen.Draw(model.Range{Min: s.profile.MinInterval, Max: s.profile.MaxInterval})
	return time.Duration(ms) * time.Millisecond
}

func (s *Scheduler) onStimulusDue() []Timer {
	s.current = s.gen.Action(s.program.Mode)
	s.visible = true
	s.show()
	s.playStrike(s.current)
	return s.schedule(timerDisplayDone, displayWindow)
}

func (s *Scheduler) onDisplayDone(now time.Time) []Timer {
	s.clearStimulus()
	s.run.HitsCompleted++
	s.show()
	if s.run.HitsCompleted >= s.run.TargetHits {
		return s.endSession(now)
	}
	if s.program.MidRest && !s.midRestTaken && s.run.HitsCompleted >= (s.run.TargetHits+1)/2 {
		s.midRestTaken = true
		s.phase = model.PhaseMidRest
		return s.schedule(timerMidRestDone, midRestDuration)
	}
	return s.schedule(timerStimulusDue, s.interval())
}

func (s *Scheduler) onMidRestDone() []Timer {
	s.phase = model.PhaseTraining
	return s.schedule(timerStimulusDue, s.interval())
}

func (s *Scheduler) startCombo() []Timer {
	s.combo = s.gen.Combo(s.profile)
	s.strikeIndex = 0
	return s.fireStrike()
}

func (s *Scheduler) fireStrike() []Timer {
	s.current = s.gen.Action(s.program.Mode)
	s.visible = true
	s.run.HitsCompleted++
	s.show()
	s.playStrike(s.current)
	s.strikeIndex++
	if s.strikeIndex < s.combo.Size {
		gap := time.Duration(s.combo.GapsMs[s.strikeIndex-1]) * time.Millisecond
		return s.schedule(timerStrikeDue, gap)
	}
	// Last strike: the combo counts once its display window elapses.
	return s.schedule(timerComboDone, displayWindow)
}

func (s *Scheduler) onComboDone(now time.Time) []Timer {
	s.clearStimulus()
	s.run.CombosCompleted++
	s.show()
	if s.run.CombosCompleted >= s.profile.TotalCombos {
		return s.endSession(now)
	}
	rest := time.Duration(s.gen.Draw(s.profile.ComboRest)) * time.Millisecond
	return s.schedule(timerComboRest, rest)
}

func (s *Scheduler) endSession(now time.Time) []Timer {
	s.cancelAll()
	s.phase = model.PhaseSessionEnd
	s.clearStimulus()
	s.show()
	s.run.EndedAt = now
	s.play(SoundSessionEnd)
	s.record(now, false)
	return s.schedule(timerSessionEndDone, sessionEndDwell)
}

func (s *Scheduler) onSessionEndDone(now time.Time) []Timer {
	if s.run.Index < s.program.Sessions {
		return s.enterBreak()
	}
	s.complete(now)
	return nil
}

func (s *Scheduler) enterBreak() []Timer {
	s.phase = model.PhaseBreak
	if !s.profile.Rest.Enabled {
		// Zero-duration skip straight into the next countdown.
		return s.advanceSession()
	}
	s.breakLeft = (s.profile.Rest.BreakDuration + 999) / 1000
	s.breakWarned = false
	if s.breakLeft <= 0 {
		return s.advanceSession()
	}
	s.maybeWarnBreak()
	return s.schedule(timerBreakTick, breakTickSpacing)
}

func (s *Scheduler) onBreakTick() []Timer {
	s.breakLeft--
	if s.breakLeft <= 0 {
		return s.advanceSession()
	}
	s.maybeWarnBreak()
	return s.schedule(timerBreakTick, breakTickSpacing)
}

func (s *Scheduler) maybeWarnBreak() {
	if !s.breakWarned && s.breakLeft == breakWarnAt {
		s.breakWarned = true
		s.play(SoundWarning)
	}
}

func (s *Scheduler) advanceSession() []Timer {
	s.run = model.SessionRun{Index: s.run.Index + 1}
	return s.enterCountdown()
}

func (s *Scheduler) complete(now time.Time) {
	s.cancelAll()
	s.phase = model.PhaseComplete
	s.programEnd = now
	s.wakeRelease()
}

func (s *Scheduler) schedule(kind timerKind, delay time.Duration) []Timer {
	s.lastTimerID++
	s.pending[s.lastTimerID] = kind
	return []Timer{{ID: s.lastTimerID, Delay: delay}}
}

func (s *Scheduler) cancelAll() {
	s.pending = map[int64]timerKind{}
}

func (s *Scheduler) clearStimulus() {
	s.current = ""
	s.visible = false
}

func (s *Scheduler) record(now time.Time, aborted bool) {
	if s.sinks.Recorder == nil {
		return
	}
	var durMs int64
	if !s.run.StartedAt.IsZero() {
		durMs = now.Sub(s.run.StartedAt).Milliseconds()
	}
	targetCombos := 0
	if s.program.TrainingType == model.TypeCombo {
		targetCombos = s.profile.TotalCombos
	}
	s.sinks.Recorder.Record(model.SessionHistoryEntry{
		StartedAt:       s.run.StartedAt,
		EndedAt:         now,
		DurationMs:      durMs,
		Mode:            s.program.Mode,
		TrainingType:    s.program.TrainingType,
		Difficulty:      s.profile.ID,
		SessionIndex:    s.run.Index,
		TotalSessions:   s.program.Sessions,
		HitsCompleted:   s.run.HitsCompleted,
		CombosCompleted: s.run.CombosCompleted,
		TargetHits:      s.run.TargetHits,
		TargetCombos:    targetCombos,
		Aborted:         aborted,
	})
}

func (s *Scheduler) show() {
	if s.sinks.Presenter == nil {
		return
	}
	done, total := s.Progress()
	s.sinks.Presenter.Show(View{Action: s.current, Visible: s.visible, Done: done, Total: total})
}

func (s *Scheduler) play(sound Sound) {
	if s.sinks.Audio != nil {
		s.sinks.Audio.Play(sound)
	}
}

func (s *Scheduler) playStrike(action model.Action) {
	if action == model.ActionStrikeB {
		s.play(SoundStrikeB)
		return
	}
	s.play(SoundStrikeA)
}

func (s *Scheduler) wakeRequest() {
	if s.sinks.Wake != nil {
		s.sinks.Wake.Request()
	}
}

func (s *Scheduler) wakeRelease() {
	if s.sinks.Wake != nil {
		s.sinks.Wake.Release()
	}
}
