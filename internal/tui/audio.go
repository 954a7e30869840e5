package tui

import (
	"io"

	"github.com/akhutsishvili/hit-reflex-trainer/internal/schedule"
)

// Beeper emits audio cues as terminal bell patterns. A zero Beeper (or
// one without a writer) no-ops, so playing before initialization is safe.
type Beeper struct {
	out io.Writer
}

// NewBeeper returns a Beeper writing bell characters to out.
func NewBeeper(out io.Writer) *Beeper {
	return &Beeper{out: out}
}

var bellPatterns = map[schedule.Sound]string{
	schedule.SoundStrikeA:      "\a",
	schedule.SoundStrikeB:      "\a\a",
	schedule.SoundSessionStart: "\a",
	schedule.SoundSessionEnd:   "\a",
	schedule.SoundWarning:      "\a\a",
	schedule.SoundTick:         "\a",
}

// Play implements schedule.AudioSink.
func (b *Beeper) Play(sound schedule.Sound) {
	if b == nil || b.out == nil {
		return
	}
	if _, err := io.WriteString(b.out, bellPatterns[sound]); err != nil {
		// Audio is fire-and-forget; a failed bell never disturbs a run.
		_ = err
	}
}
