package schedule

import (
	"testing"
	"time"
)

func TestHoldGaugeReachesFullAfterOneSecond(t *testing.T) {
	var h HoldGauge
	start := time.Unix(0, 0)
	h.Press(start)

	// Key repeats keep the hold fresh every 100ms.
	for i := 1; i <= 10; i++ {
		now := start.Add(time.Duration(i) * 100 * time.Millisecond)
		h.Press(now)
	}
	if !h.Done(start.Add(time.Second)) {
		t.Fatalf("expected hold done after one second, progress %d", h.Progress(start.Add(time.Second)))
	}
}

func TestHoldGaugeProgressIsProportional(t *testing.T) {
	var h HoldGauge
	start := time.Unix(0, 0)
	h.Press(start)
	h.Press(start.Add(300 * time.Millisecond))

	if got := h.Progress(start.Add(500 * time.Millisecond)); got != 50 {
		t.Fatalf("expected 50%% at half a second, got %d", got)
	}
}

func TestHoldGaugeResetsOnRelease(t *testing.T) {
	var h HoldGauge
	start := time.Unix(0, 0)
	h.Press(start)
	h.Release()

	if got := h.Progress(start.Add(500 * time.Millisecond)); got != 0 {
		t.Fatalf("expected 0 after release, got %d", got)
	}
	if h.Active() {
		t.Fatalf("expected inactive after release")
	}
}

func TestHoldGaugeGoesStaleWithoutPresses(t *testing.T) {
	var h HoldGauge
	start := time.Unix(0, 0)
	h.Press(start)

	// No press within the grace window counts as released.
	if got := h.Progress(start.Add(holdGrace + time.Millisecond)); got != 0 {
		t.Fatalf("expected stale hold to read 0, got %d", got)
	}

	// A later press starts a fresh hold rather than resuming.
	resume := start.Add(2 * time.Second)
	h.Press(resume)
	if got := h.Progress(resume.Add(100 * time.Millisecond)); got != 10 {
		t.Fatalf("expected fresh hold at 10%%, got %d", got)
	}
}
