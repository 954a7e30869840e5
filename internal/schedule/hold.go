package schedule

import "time"

// Hold gesture timing. The grace window must cover a terminal's initial
// key-repeat delay, or holding a key would reset the gauge before the
// first repeat arrives.
const (
	holdDuration = time.Second
	holdGrace    = 600 * time.Millisecond
)

// HoldGauge models the hold-to-confirm stop gesture: a continuous
// one-second hold tracked as 0-100 progress. Releasing early snaps the
// gauge back to zero, so a single tap never stops a run.
type HoldGauge struct {
	startedAt time.Time
	lastPress time.Time
	active    bool
}

// Press begins or refreshes the hold. A press arriving after the grace
// window starts a fresh hold.
func (h *HoldGauge) Press(now time.Time) {
	if !h.active || now.Sub(h.lastPress) > holdGrace {
		h.active = false
		h.startedAt = now
	}
	h.active = true
	h.lastPress = now
}

// Release ends the hold immediately.
func (h *HoldGauge) Release() {
	h.active = false
}

// Active reports whether a hold is in progress.
func (h *HoldGauge) Active() bool { return h.active }

// Progress returns the hold progress in percent. A hold that went stale
// (no press within the grace window) counts as released and reads zero.
func (h *HoldGauge) Progress(now time.Time) int {
	if !h.active {
		return 0
	}
	if now.Sub(h.lastPress) > holdGrace {
		h.active = false
		return 0
	}
	pct := int(now.Sub(h.startedAt) * 100 / holdDuration)
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}

// Done reports whether the hold has been sustained for the full second.
func (h *HoldGauge) Done(now time.Time) bool {
	return h.Progress(now) >= 100
}
