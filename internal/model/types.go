// Package model defines shared data structures.
package model

import "time"

// Action is one of the two cue kinds the trainee reacts to.
type Action string

// Cue kinds.
const (
	ActionStrikeA Action = "strike-a"
	ActionStrikeB Action = "strike-b"
)

// Mode restricts which actions a program may present.
type Mode string

// Presentation modes.
const (
	ModeStrikeA Mode = "a"
	ModeStrikeB Mode = "b"
	ModeBoth    Mode = "both"
)

// TrainingType selects isolated hits or multi-strike combos.
type TrainingType string

// Training types.
const (
	TypeSingle TrainingType = "single"
	TypeCombo  TrainingType = "combo"
)

// Phase is a state of the session scheduler.
type Phase string

// Scheduler phases. Idle and Complete are the only initial/terminal states.
const (
	PhaseIdle       Phase = "idle"
	PhaseCountdown  Phase = "countdown"
	PhaseTraining   Phase = "training"
	PhaseMidRest    Phase = "mid-rest"
	PhaseSessionEnd Phase = "session-end"
	PhaseBreak      Phase = "break"
	PhaseComplete   Phase = "complete"
)

// Range is an inclusive integer interval, in milliseconds or counts
// depending on the field it parameterizes.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Rest configures the break between sessions of a program.
type Rest struct {
	Enabled       bool `json:"enabled"`
	BreakDuration int  `json:"break_duration_ms"`
}

// DifficultyProfile is a fully populated pacing parameter set. The
// scheduler only ever consumes profiles that passed resolver validation.
type DifficultyProfile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MinInterval int    `json:"min_interval_ms"`
	MaxInterval int    `json:"max_interval_ms"`
	TotalHits   Range  `json:"total_hits"`
	ComboSize   Range  `json:"combo_size"`
	StrikeGap   Range  `json:"strike_gap_ms"`
	ComboRest   Range  `json:"combo_rest_ms"`
	TotalCombos int    `json:"total_combos"`
	Rest        Rest   `json:"rest"`
}

// TrainingProgram describes one run of 1-4 sessions.
type TrainingProgram struct {
	Mode         Mode         `json:"mode"`
	TrainingType TrainingType `json:"training_type"`
	Sessions     int          `json:"sessions"`
	Difficulty   string       `json:"difficulty"`
	MidRest      bool         `json:"mid_rest"`
}

// SessionRun is the live per-session state owned by the scheduler.
type SessionRun struct {
	Index           int
	HitsCompleted   int
	CombosCompleted int
	TargetHits      int
	StartedAt       time.Time
	EndedAt         time.Time
}

// SessionHistoryEntry is an immutable snapshot of a finished or aborted
// session plus its program context.
type SessionHistoryEntry struct {
	StartedAt       time.Time    `json:"started_at"`
	EndedAt         time.Time    `json:"ended_at"`
	DurationMs      int64        `json:"duration_ms"`
	Mode            Mode         `json:"mode"`
	TrainingType    TrainingType `json:"training_type"`
	Difficulty      string       `json:"difficulty"`
	SessionIndex    int          `json:"session_index"`
	TotalSessions   int          `json:"total_sessions"`
	HitsCompleted   int          `json:"hits_completed"`
	CombosCompleted int          `json:"combos_completed"`
	TargetHits      int          `json:"target_hits"`
	TargetCombos    int          `json:"target_combos"`
	Aborted         bool         `json:"aborted"`
}

// ValidMode reports whether m is a known presentation mode.
func ValidMode(m Mode) bool {
	switch m {
	case ModeStrikeA, ModeStrikeB, ModeBoth:
		return true
	}
	return false
}

// ValidTrainingType reports whether t is a known training type.
func ValidTrainingType(t TrainingType) bool {
	return t == TypeSingle || t == TypeCombo
}
