// Package history persists finalized typing results as an append-only list.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/verte-zerg/typesprint/internal/model"
)

// DefaultKey addresses the serialized history in the medium.
const DefaultKey = "typing_history"

// Medium is a durable key-value store.
type Medium interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// ReadError reports stored history that could not be read or parsed.
type ReadError struct {
	Key string
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read history %q: %v", e.Key, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports a history update that could not be persisted.
type WriteError struct {
	Key string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write history %q: %v", e.Key, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Store keeps the result history as a JSON array under a single key.
type Store struct {
	medium Medium
	key    string
	report func(error)
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// WithErrorReporter receives read errors that Load recovers from.
func WithErrorReporter(fn func(error)) Option {
	return func(s *Store) {
		s.report = fn
	}
}

// NewStore returns a Store over the given medium.
func NewStore(medium Medium, opts ...Option) *Store {
	s := &Store{
		medium: medium,
		key:    DefaultKey,
		report: func(err error) { logErrf("%v\n", err) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the stored results in completion order. Missing or corrupt
// data yields an empty history; corruption is reported, never returned.
func (s *Store) Load(ctx context.Context) []model.Result {
	results, err := s.read(ctx)
	if err != nil {
		s.report(err)
		return []model.Result{}
	}
	return results
}

// Append adds result to the end of the stored history. Unreadable existing
// data is reported and replaced by a history holding only result.
func (s *Store) Append(ctx context.Context, result model.Result) error {
	results, err := s.read(ctx)
	if err != nil {
		s.report(err)
		results = nil
	}
	results = append(results, result)
	data, err := json.Marshal(results)
	if err != nil {
		return &WriteError{Key: s.key, Err: err}
	}
	if err := s.medium.Set(ctx, s.key, string(data)); err != nil {
		return &WriteError{Key: s.key, Err: err}
	}
	return nil
}

func (s *Store) read(ctx context.Context) ([]model.Result, error) {
	raw, ok, err := s.medium.Get(ctx, s.key)
	if err != nil {
		return nil, &ReadError{Key: s.key, Err: err}
	}
	if !ok || raw == "" {
		return []model.Result{}, nil
	}
	var results []model.Result
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		return nil, &ReadError{Key: s.key, Err: err}
	}
	if results == nil {
		results = []model.Result{}
	}
	return results, nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
