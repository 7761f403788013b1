// Package model defines shared data structures.
package model

import (
	"errors"
	"fmt"
	"time"
)

// DefaultDuration is the test length in seconds used when none is chosen.
const DefaultDuration = 60

// Durations lists the selectable test lengths in seconds.
var Durations = []int{15, 30, 60, 120}

// ErrInvalidDuration reports a test length outside Durations.
var ErrInvalidDuration = errors.New("unsupported duration")

// ValidateDuration rejects durations that are not in Durations.
func ValidateDuration(seconds int) error {
	for _, d := range Durations {
		if d == seconds {
			return nil
		}
	}
	return fmt.Errorf("%w: %ds (choose one of 15, 30, 60, 120)", ErrInvalidDuration, seconds)
}

// Status is the lifecycle state of a typing session.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusFinished
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusFinished:
		return "finished"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// LiveMetrics is the derived state shown while typing.
type LiveMetrics struct {
	WPM             int
	Accuracy        int
	TimeLeftSeconds int
	DurationSeconds int
}

// Result is a finalized session as persisted in the history.
type Result struct {
	ID              string    `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	WPM             int       `json:"wpm"`
	Accuracy        int       `json:"accuracy"`
	DurationSeconds int       `json:"duration"`
	TextLength      int       `json:"textLength"`
}

// Config defines practice settings.
type Config struct {
	Duration     int
	Source       string
	PassagesFile string
	WordListPath string
	Words        int
	CapsPct      float64
	PunctPct     float64
	PunctSet     string
	Seed         int64
	NoSave       bool
	Window       int
}

// HistoryConfig defines options for history output.
type HistoryConfig struct {
	Window int
	Plain  bool
}
