package tui

import "github.com/akhutsishvili/hit-reflex-trainer/internal/schedule"

// WakeHold tracks the attention/sleep-prevention hold for the run.
// Request and Release are idempotent. The hold can be revoked from
// outside (the terminal losing focus) and reacquired once visibility
// returns; the training model drives Revoke/Reacquire from Bubble Tea
// focus messages.
type WakeHold struct {
	held    bool
	revoked bool
}

var _ schedule.WakeLock = (*WakeHold)(nil)

// Request acquires the hold.
func (w *WakeHold) Request() {
	w.held = true
	w.revoked = false
}

// Release drops the hold.
func (w *WakeHold) Release() {
	w.held = false
	w.revoked = false
}

// Revoke marks an externally removed hold so it can be reacquired.
func (w *WakeHold) Revoke() {
	if w.held {
		w.held = false
		w.revoked = true
	}
}

// Reacquire restores a hold that was revoked externally.
func (w *WakeHold) Reacquire() {
	if w.revoked {
		w.Request()
	}
}

// Held reports whether the hold is currently active.
func (w *WakeHold) Held() bool { return w.held }
