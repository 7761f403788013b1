package stats

import (
	"context"

	"github.com/verte-zerg/typesprint/internal/model"
)

// HistoryLoader returns the stored results in completion order.
type HistoryLoader interface {
	Load(ctx context.Context) []model.Result
}

// Report contains precomputed data for history rendering.
type Report struct {
	History []model.Result
	Summary Summary
	Totals  Totals
}

// BuildReport loads the history and prepares it for rendering.
func BuildReport(ctx context.Context, loader HistoryLoader, window int) Report {
	history := loader.Load(ctx)
	return NewReport(history, window)
}

// NewReport summarizes an already loaded history.
func NewReport(history []model.Result, window int) Report {
	return Report{
		History: history,
		Summary: Summarize(history, window),
		Totals:  Overall(history),
	}
}
