package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/verte-zerg/typesprint/internal/history"
	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/store"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

type fakeTimer struct {
	sessionID string
	interval  time.Duration
	stopped   int
}

func (t *fakeTimer) Stop() { t.stopped++ }

type fakeTimers struct {
	started []*fakeTimer
}

func (f *fakeTimers) Start(sessionID string, interval time.Duration) Timer {
	t := &fakeTimer{sessionID: sessionID, interval: interval}
	f.started = append(f.started, t)
	return t
}

type recordingStore struct {
	appended []model.Result
	err      error
}

func (r *recordingStore) Append(_ context.Context, result model.Result) error {
	r.appended = append(r.appended, result)
	return r.err
}

type harness struct {
	clock     *fakeClock
	timers    *fakeTimers
	store     *recordingStore
	live      []model.LiveMetrics
	completed []model.Result
}

func newHarness() *harness {
	return &harness{clock: newFakeClock(), timers: &fakeTimers{}, store: &recordingStore{}}
}

func (h *harness) options() Options {
	n := 0
	return Options{
		Clock:      h.clock.Now,
		StartTimer: h.timers.Start,
		Store:      h.store,
		OnLive:     func(m model.LiveMetrics) { h.live = append(h.live, m) },
		OnComplete: func(r model.Result) { h.completed = append(h.completed, r) },
		NewID: func() string {
			n++
			return fmt.Sprintf("result-%d", n)
		},
	}
}

func (h *harness) newSession(t *testing.T, passage string, duration int) *Session {
	t.Helper()
	s, err := New(passage, duration, h.options())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func TestNewSessionIsIdle(t *testing.T) {
	h := newHarness()
	s := h.newSession(t, "cat dog", 60)
	if s.Status() != model.StatusIdle {
		t.Fatalf("expected idle, got %s", s.Status())
	}
	if !s.StartedAt().IsZero() {
		t.Fatalf("expected no start time")
	}
	if len(h.timers.started) != 0 {
		t.Fatalf("idle session must not hold a timer")
	}
	m := s.Metrics()
	if m.TimeLeftSeconds != 60 || m.Accuracy != 100 || m.WPM != 0 {
		t.Fatalf("unexpected idle metrics %+v", m)
	}
}

func TestNewSessionRejectsBadInput(t *testing.T) {
	if _, err := New("", 60, Options{}); !errors.Is(err, ErrEmptyPassage) {
		t.Fatalf("expected ErrEmptyPassage, got %v", err)
	}
	if _, err := New("abc", 0, Options{}); !errors.Is(err, model.ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
}

func TestFirstKeystrokeStartsSession(t *testing.T) {
	h := newHarness()
	s := h.newSession(t, "cat dog", 60)
	s.ApplyInput("")
	if s.Status() != model.StatusIdle {
		t.Fatalf("empty input must not start the session")
	}
	start := h.clock.Advance(time.Second)
	s.ApplyInput("c")
	if s.Status() != model.StatusRunning {
		t.Fatalf("expected running, got %s", s.Status())
	}
	if !s.StartedAt().Equal(start) {
		t.Fatalf("expected start %v, got %v", start, s.StartedAt())
	}
	if len(h.timers.started) != 1 {
		t.Fatalf("expected one timer, got %d", len(h.timers.started))
	}
	timer := h.timers.started[0]
	if timer.sessionID != s.ID() || timer.interval != DefaultTickInterval {
		t.Fatalf("unexpected timer %+v", timer)
	}

	h.clock.Advance(time.Second)
	s.ApplyInput("ca")
	if !s.StartedAt().Equal(start) {
		t.Fatalf("start time must be set once")
	}
	if len(h.timers.started) != 1 {
		t.Fatalf("expected a single timer per session")
	}
	if len(h.live) != 3 {
		t.Fatalf("expected live update per input, got %d", len(h.live))
	}
}

func TestPerfectFastTypingFinishes(t *testing.T) {
	h := newHarness()
	s := h.newSession(t, "cat dog", 60)
	s.ApplyInput("c")
	h.clock.Advance(6 * time.Second)
	s.ApplyInput("cat dog")

	if s.Status() != model.StatusFinished {
		t.Fatalf("expected finished, got %s", s.Status())
	}
	if s.CorrectChars() != 7 {
		t.Fatalf("expected 7 correct chars, got %d", s.CorrectChars())
	}
	if len(h.completed) != 1 || len(h.store.appended) != 1 {
		t.Fatalf("expected one completion and one append, got %d/%d", len(h.completed), len(h.store.appended))
	}
	r := h.completed[0]
	if r.WPM != 14 || r.Accuracy != 100 {
		t.Fatalf("unexpected result %+v", r)
	}
	if r.DurationSeconds != 60 || r.TextLength != 7 || r.ID != "result-1" {
		t.Fatalf("unexpected result fields %+v", r)
	}
	if h.timers.started[0].stopped != 1 {
		t.Fatalf("expected timer to be stopped on finish")
	}
	if s.TimerActive() {
		t.Fatalf("finished session must not hold a timer")
	}
	last := h.live[len(h.live)-1]
	if last.WPM != 14 || last.TimeLeftSeconds != 54 {
		t.Fatalf("unexpected final live metrics %+v", last)
	}
}

func TestExactPassageLengthFinishesRegardlessOfTime(t *testing.T) {
	h := newHarness()
	s := h.newSession(t, "abc", 120)
	s.ApplyInput("a")
	h.clock.Advance(100 * time.Millisecond)
	s.ApplyInput("abc")
	if s.Status() != model.StatusFinished {
		t.Fatalf("expected finished, got %s", s.Status())
	}
}

func TestOverlongInputFinishes(t *testing.T) {
	h := newHarness()
	s := h.newSession(t, "abc", 60)
	s.ApplyInput("abcdef")
	if s.Status() != model.StatusFinished {
		t.Fatalf("expected finished, got %s", s.Status())
	}
	if h.completed[0].Accuracy != 50 {
		t.Fatalf("expected 50%% accuracy, got %d", h.completed[0].Accuracy)
	}
}

func TestPartialWithErrors(t *testing.T) {
	h := newHarness()
	s := h.newSession(t, "abcdef", 60)
	s.ApplyInput("abXde")
	if s.CorrectChars() != 4 {
		t.Fatalf("expected 4 correct chars, got %d", s.CorrectChars())
	}
	if got := s.Metrics().Accuracy; got != 80 {
		t.Fatalf("expected 80%% accuracy, got %d", got)
	}
}

func TestTimeoutFinishesWithCurrentBuffer(t *testing.T) {
	h := newHarness()
	s := h.newSession(t, "the quick brown fox", 15)
	s.ApplyInput("the q")
	h.clock.Advance(10 * time.Second)
	s.Tick(h.clock.Now())
	if s.Status() != model.StatusRunning {
		t.Fatalf("expected running before deadline")
	}
	s.Tick(h.clock.Advance(5 * time.Second))
	if s.Status() != model.StatusFinished {
		t.Fatalf("expected finished at deadline, got %s", s.Status())
	}
	r, ok := s.Result()
	if !ok {
		t.Fatalf("expected result")
	}
	// 5 correct chars over 15s = 1 word / 0.25 min.
	if r.WPM != 4 || r.Accuracy != 100 {
		t.Fatalf("unexpected result %+v", r)
	}
	if s.Typed() != "the q" {
		t.Fatalf("buffer changed on timeout: %q", s.Typed())
	}
}

func TestTimeLeftNonIncreasingAcrossTicks(t *testing.T) {
	h := newHarness()
	s := h.newSession(t, "a long enough passage to keep typing", 30)
	s.ApplyInput("a")
	prev := s.Metrics().TimeLeftSeconds
	for i := 0; i < 200; i++ {
		s.Tick(h.clock.Advance(173 * time.Millisecond))
		cur := h.live[len(h.live)-1].TimeLeftSeconds
		if cur > prev {
			t.Fatalf("time left increased from %d to %d", prev, cur)
		}
		prev = cur
	}
	if s.Status() != model.StatusFinished || prev != 0 {
		t.Fatalf("expected finished with 0 left, got %s/%d", s.Status(), prev)
	}
}

func TestTickIgnoredUnlessRunning(t *testing.T) {
	h := newHarness()
	s := h.newSession(t, "abc", 15)
	s.Tick(h.clock.Advance(time.Hour))
	if s.Status() != model.StatusIdle || len(h.live) != 0 {
		t.Fatalf("idle tick must be a no-op")
	}
	s.ApplyInput("abc")
	n := len(h.live)
	s.Tick(h.clock.Advance(time.Hour))
	if len(h.live) != n || len(h.completed) != 1 {
		t.Fatalf("finished tick must be a no-op")
	}
}

func TestFinalizeIsIdempotent(t *testing.T) {
	h := newHarness()
	s := h.newSession(t, "abcdef", 60)
	s.ApplyInput("abc")
	first, ok := s.Finalize(h.clock.Advance(time.Second))
	if !ok {
		t.Fatalf("expected first finalize to produce a result")
	}
	if _, ok := s.Finalize(h.clock.Advance(time.Second)); ok {
		t.Fatalf("second finalize must not produce a result")
	}
	if len(h.completed) != 1 || len(h.store.appended) != 1 {
		t.Fatalf("expected exactly one emission and append, got %d/%d", len(h.completed), len(h.store.appended))
	}
	got, _ := s.Result()
	if got != first {
		t.Fatalf("stored result changed")
	}
}

func TestInputIgnoredAfterFinish(t *testing.T) {
	h := newHarness()
	s := h.newSession(t, "ab", 60)
	s.ApplyInput("ab")
	s.ApplyInput("abzzz")
	if s.Typed() != "ab" {
		t.Fatalf("finished session accepted input: %q", s.Typed())
	}
	if len(h.completed) != 1 {
		t.Fatalf("expected one completion, got %d", len(h.completed))
	}
}

func TestFinalizeBeforeFirstKeystroke(t *testing.T) {
	h := newHarness()
	s := h.newSession(t, "abc", 15)
	r, ok := s.Finalize(h.clock.Advance(20 * time.Second))
	if !ok {
		t.Fatalf("expected result")
	}
	if r.WPM != 0 || r.Accuracy != 100 {
		t.Fatalf("unexpected result for untouched session %+v", r)
	}
	if s.Status() != model.StatusFinished {
		t.Fatalf("expected finished")
	}
}

func TestFinishedMetricsFrozen(t *testing.T) {
	h := newHarness()
	s := h.newSession(t, "abcde", 60)
	s.ApplyInput("a")
	h.clock.Advance(3 * time.Second)
	s.ApplyInput("abcde")
	before := s.Metrics()
	h.clock.Advance(time.Minute)
	if after := s.Metrics(); after != before {
		t.Fatalf("metrics drifted after finish: %+v vs %+v", before, after)
	}
}

func TestResultTimestampUTCMillis(t *testing.T) {
	h := newHarness()
	h.clock.now = time.Date(2026, 5, 1, 14, 0, 0, 123456789, time.FixedZone("X", 2*3600))
	s := h.newSession(t, "a", 60)
	s.ApplyInput("a")
	r, _ := s.Result()
	want := time.Date(2026, 5, 1, 12, 0, 0, 123000000, time.UTC)
	if !r.Timestamp.Equal(want) || r.Timestamp.Location() != time.UTC {
		t.Fatalf("expected %v, got %v", want, r.Timestamp)
	}
}

func TestWriteFailureStillDeliversResult(t *testing.T) {
	h := newHarness()
	h.store.err = &history.WriteError{Key: "typing_history", Err: errors.New("quota exceeded")}
	s := h.newSession(t, "ab", 60)
	s.ApplyInput("ab")
	if len(h.completed) != 1 {
		t.Fatalf("expected completion despite write failure")
	}
	if s.Status() != model.StatusFinished {
		t.Fatalf("expected finished")
	}
}

func TestFinalizeAppendsToHistoryStore(t *testing.T) {
	h := newHarness()
	hs := history.NewStore(store.NewMemory())
	opts := h.options()
	opts.Store = hs
	s, err := New("go", 30, opts)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	s.ApplyInput("g")
	h.clock.Advance(time.Second)
	s.ApplyInput("go")
	s.Finalize(h.clock.Now())

	got := hs.Load(context.Background())
	if len(got) != 1 {
		t.Fatalf("expected one stored result, got %d", len(got))
	}
	if got[0].DurationSeconds != 30 || got[0].TextLength != 2 {
		t.Fatalf("unexpected stored result %+v", got[0])
	}
}

func TestCloseMakesSessionInert(t *testing.T) {
	h := newHarness()
	s := h.newSession(t, "abcdef", 15)
	s.ApplyInput("abc")
	s.Close()
	if h.timers.started[0].stopped != 1 {
		t.Fatalf("expected timer stopped on close")
	}
	s.Tick(h.clock.Advance(time.Minute))
	s.ApplyInput("abcdef")
	if _, ok := s.Finalize(h.clock.Now()); ok {
		t.Fatalf("closed session must not finalize")
	}
	if len(h.completed) != 0 || len(h.store.appended) != 0 {
		t.Fatalf("closed session emitted a result")
	}
}
