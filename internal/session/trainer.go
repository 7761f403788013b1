package session

import (
	"time"

	"github.com/verte-zerg/typesprint/internal/model"
)

// Passages supplies the text for each new session.
type Passages interface {
	Next() string
}

// Trainer owns the current session and replaces it on restart.
type Trainer struct {
	passages Passages
	opts     Options
	duration int
	current  *Session
}

// NewTrainer validates the duration and starts an Idle session.
func NewTrainer(passages Passages, durationSeconds int, opts Options) (*Trainer, error) {
	if err := model.ValidateDuration(durationSeconds); err != nil {
		return nil, err
	}
	t := &Trainer{passages: passages, opts: opts.withDefaults(), duration: durationSeconds}
	s, err := New(passages.Next(), durationSeconds, t.opts)
	if err != nil {
		return nil, err
	}
	t.current = s
	return t, nil
}

// Current returns the active session.
func (t *Trainer) Current() *Session { return t.current }

// Duration returns the duration used for new sessions.
func (t *Trainer) Duration() int { return t.duration }

// Restart discards the current session, including its timer, and starts a
// new Idle session on a freshly chosen passage. An invalid duration leaves
// the current session untouched.
func (t *Trainer) Restart(durationSeconds int) (*Session, error) {
	if err := model.ValidateDuration(durationSeconds); err != nil {
		return nil, err
	}
	text := t.passages.Next()
	if text == "" {
		return nil, ErrEmptyPassage
	}
	t.current.Close()
	next, err := New(text, durationSeconds, t.opts)
	if err != nil {
		return nil, err
	}
	t.duration = durationSeconds
	t.current = next
	if t.opts.OnLive != nil {
		t.opts.OnLive(next.Metrics())
	}
	return next, nil
}

// Tick forwards a timer tick to the current session. Ticks addressed to a
// replaced session are dropped and reported as false.
func (t *Trainer) Tick(sessionID string, now time.Time) bool {
	if t.current == nil || t.current.ID() != sessionID {
		return false
	}
	t.current.Tick(now)
	return true
}

// Close releases the current session's timer.
func (t *Trainer) Close() {
	if t.current != nil {
		t.current.Close()
	}
}
