// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"math"
	"strings"
)

const sparkChars = " .:-=+*#%@"

// FormatClock renders elapsed milliseconds as zero-padded "MM:SS".
// Negative or non-finite input renders as "00:00".
func FormatClock(ms float64) string {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || ms < 0 {
		return "00:00"
	}
	totalSeconds := int(ms / 1000)
	minutes := totalSeconds / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// CompletionRate returns round(hits/total*100), or 0 when total is 0.
func CompletionRate(hitsCompleted, totalHits int) int {
	if totalHits == 0 {
		return 0
	}
	return int(math.Round(float64(hitsCompleted) / float64(totalHits) * 100))
}

// AveragePace returns the rounded average milliseconds between
// consecutive hits. It is defined only for more than one hit; ok is
// false otherwise.
func AveragePace(hits int, durationMs int64) (pace int64, ok bool) {
	if hits <= 1 {
		return 0, false
	}
	return int64(math.Round(float64(durationMs) / float64(hits-1))), true
}

// HitsPerMinute returns hits normalized to a minute, rounded to one
// decimal, or 0 when hits or duration is 0.
func HitsPerMinute(hits int, durationMs int64) float64 {
	if hits == 0 || durationMs == 0 {
		return 0
	}
	minutes := float64(durationMs) / 60000.0
	return math.Round(float64(hits)/minutes*10) / 10
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
