// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"time"

	"github.com/verte-zerg/typesprint/internal/model"
)

// charsPerWord is the standard typing-speed word length.
const charsPerWord = 5.0

// CorrectChars counts positions where typed matches the passage.
// Input past the end of the passage is never counted as correct.
func CorrectChars(typed, passage []rune) int {
	count := 0
	for i := 0; i < len(typed) && i < len(passage); i++ {
		if typed[i] == passage[i] {
			count++
		}
	}
	return count
}

// Elapsed returns now-startedAt, or zero when the session has not started.
func Elapsed(startedAt, now time.Time) time.Duration {
	if startedAt.IsZero() {
		return 0
	}
	d := now.Sub(startedAt)
	if d < 0 {
		return 0
	}
	return d
}

// Compute derives live metrics from the raw session state.
func Compute(typed []rune, startedAt, now time.Time, durationSeconds, correct int) model.LiveMetrics {
	elapsedMs := float64(Elapsed(startedAt, now).Milliseconds())
	elapsedMin := elapsedMs / 60000.0

	grossWPM := 0.0
	if elapsedMin > 0 {
		grossWPM = (float64(correct) / charsPerWord) / elapsedMin
	}

	accuracy := 100.0
	if len(typed) > 0 {
		accuracy = float64(correct) / float64(len(typed)) * 100
	}

	timeLeft := int(math.Ceil((float64(durationSeconds)*1000 - elapsedMs) / 1000))
	if timeLeft < 0 {
		timeLeft = 0
	}

	return model.LiveMetrics{
		WPM:             maxInt(0, roundHalfUp(grossWPM)),
		Accuracy:        clampInt(roundHalfUp(accuracy), 0, 100),
		TimeLeftSeconds: timeLeft,
		DurationSeconds: durationSeconds,
	}
}

// roundHalfUp rounds .5 toward positive infinity.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
