// Package session implements the lifecycle of a single timed typing test.
//
// A Session starts Idle, moves to Running on the first keystroke and ends
// Finished either when the typed input reaches the passage length or when
// a tick observes that the duration has elapsed. Finished is terminal: the
// result is produced once and later input, ticks and finalize calls are
// ignored. A restart always builds a new Session.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/stats"
)

// DefaultTickInterval is how often a running session re-evaluates the clock.
const DefaultTickInterval = 200 * time.Millisecond

// ErrEmptyPassage is returned when a session is built without text.
var ErrEmptyPassage = errors.New("passage is empty")

// ResultStore receives each finalized result.
type ResultStore interface {
	Append(ctx context.Context, result model.Result) error
}

// Options wires a Session to its collaborators. Zero fields use defaults.
type Options struct {
	// Clock supplies the time for input events. Defaults to time.Now.
	Clock func() time.Time
	// StartTimer acquires the countdown timer when the session starts running.
	StartTimer TimerFactory
	// TickInterval is passed to StartTimer. Defaults to DefaultTickInterval.
	TickInterval time.Duration
	Store        ResultStore
	OnLive       func(model.LiveMetrics)
	OnComplete   func(model.Result)
	// NewID generates result identifiers. Defaults to random UUIDs.
	NewID func() string
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.TickInterval <= 0 {
		o.TickInterval = DefaultTickInterval
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	return o
}

// Session is one typing attempt against a fixed passage.
type Session struct {
	id        string
	passage   []rune
	typed     []rune
	duration  int
	status    model.Status
	startedAt time.Time
	endedAt   time.Time
	correct   int
	timer     Timer
	result    *model.Result
	closed    bool
	opts      Options
}

// New returns an Idle session. durationSeconds must be positive.
func New(passage string, durationSeconds int, opts Options) (*Session, error) {
	if passage == "" {
		return nil, ErrEmptyPassage
	}
	if durationSeconds <= 0 {
		return nil, fmt.Errorf("%w: %ds", model.ErrInvalidDuration, durationSeconds)
	}
	return &Session{
		id:       uuid.NewString(),
		passage:  []rune(passage),
		duration: durationSeconds,
		status:   model.StatusIdle,
		opts:     opts.withDefaults(),
	}, nil
}

// ID identifies the session for routing timer ticks.
func (s *Session) ID() string { return s.id }

// Status returns the lifecycle state.
func (s *Session) Status() model.Status { return s.status }

// Passage returns the reference text.
func (s *Session) Passage() string { return string(s.passage) }

// PassageRunes returns a copy of the reference text as runes.
func (s *Session) PassageRunes() []rune { return append([]rune(nil), s.passage...) }

// Typed returns the input so far.
func (s *Session) Typed() string { return string(s.typed) }

// TypedRunes returns a copy of the input so far as runes.
func (s *Session) TypedRunes() []rune { return append([]rune(nil), s.typed...) }

// DurationSeconds returns the test length.
func (s *Session) DurationSeconds() int { return s.duration }

// StartedAt returns the first keystroke time, or the zero time when Idle.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// CorrectChars returns the number of correctly typed positions.
func (s *Session) CorrectChars() int { return s.correct }

// TimerActive reports whether the session currently holds a timer.
func (s *Session) TimerActive() bool { return s.timer != nil }

// Result returns the finalized result once the session is Finished.
func (s *Session) Result() (model.Result, bool) {
	if s.result == nil {
		return model.Result{}, false
	}
	return *s.result, true
}

// Metrics computes live metrics for the current clock. A finished session
// reports the metrics at the moment it finished.
func (s *Session) Metrics() model.LiveMetrics {
	if s.status == model.StatusFinished {
		return s.metricsAt(s.endedAt)
	}
	return s.metricsAt(s.opts.Clock())
}

// ApplyInput replaces the typed buffer. The first non-empty input starts the
// session; input that reaches the passage length finishes it.
func (s *Session) ApplyInput(typed string) {
	if s.closed || s.status == model.StatusFinished {
		return
	}
	now := s.opts.Clock()
	s.typed = []rune(typed)
	if s.status == model.StatusIdle && len(s.typed) > 0 {
		s.start(now)
	}
	s.correct = stats.CorrectChars(s.typed, s.passage)
	if s.status == model.StatusRunning && len(s.typed) >= len(s.passage) {
		s.Finalize(now)
		return
	}
	s.emitLive(s.metricsAt(now))
}

// Tick re-evaluates the countdown and finishes the session once the
// duration has elapsed. It does nothing unless the session is Running.
func (s *Session) Tick(now time.Time) {
	if s.closed || s.status != model.StatusRunning {
		return
	}
	if stats.Elapsed(s.startedAt, now) >= s.deadline() {
		s.Finalize(now)
		return
	}
	s.emitLive(s.metricsAt(now))
}

// Finalize ends the session and records its result. Only the first call on
// a session produces a result; later calls return false.
func (s *Session) Finalize(now time.Time) (model.Result, bool) {
	if s.closed || s.status == model.StatusFinished {
		return model.Result{}, false
	}
	s.stopTimer()
	s.status = model.StatusFinished
	s.endedAt = now
	s.correct = stats.CorrectChars(s.typed, s.passage)

	live := s.metricsAt(now)
	result := model.Result{
		ID:              s.opts.NewID(),
		Timestamp:       now.UTC().Truncate(time.Millisecond),
		WPM:             live.WPM,
		Accuracy:        live.Accuracy,
		DurationSeconds: s.duration,
		TextLength:      len(s.passage),
	}
	s.result = &result

	if s.opts.Store != nil {
		if err := s.opts.Store.Append(context.Background(), result); err != nil {
			logErrf("failed to save result: %v\n", err)
		}
	}
	s.emitLive(live)
	if s.opts.OnComplete != nil {
		s.opts.OnComplete(result)
	}
	return result, true
}

// Close releases the timer and makes the session inert. The trainer calls
// it before replacing the session.
func (s *Session) Close() {
	s.stopTimer()
	s.closed = true
}

func (s *Session) start(now time.Time) {
	s.startedAt = now
	s.status = model.StatusRunning
	if s.opts.StartTimer != nil && s.timer == nil {
		s.timer = s.opts.StartTimer(s.id, s.opts.TickInterval)
	}
}

func (s *Session) stopTimer() {
	if s.timer == nil {
		return
	}
	s.timer.Stop()
	s.timer = nil
}

func (s *Session) deadline() time.Duration {
	return time.Duration(s.duration) * time.Second
}

func (s *Session) metricsAt(now time.Time) model.LiveMetrics {
	return stats.Compute(s.typed, s.startedAt, now, s.duration, s.correct)
}

func (s *Session) emitLive(m model.LiveMetrics) {
	if s.opts.OnLive != nil {
		s.opts.OnLive(m)
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
