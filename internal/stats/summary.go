package stats

import "github.com/verte-zerg/typesprint/internal/model"

// DefaultWindow is the number of recent results shown in history views.
const DefaultWindow = 20

// Summary is the display-ready view of the recent history window.
type Summary struct {
	// Recent holds the last window results, oldest first.
	Recent []model.Result
	// MinWPM and MaxWPM are zero when Recent is empty.
	MinWPM int
	MaxWPM int
}

// Empty reports whether there is nothing to chart.
func (s Summary) Empty() bool {
	return len(s.Recent) == 0
}

// Summarize selects the last window results and their WPM range.
// A non-positive window selects DefaultWindow.
func Summarize(history []model.Result, window int) Summary {
	if window <= 0 {
		window = DefaultWindow
	}
	start := 0
	if len(history) > window {
		start = len(history) - window
	}
	recent := make([]model.Result, len(history)-start)
	copy(recent, history[start:])

	out := Summary{Recent: recent}
	for i, r := range recent {
		if i == 0 || r.WPM < out.MinWPM {
			out.MinWPM = r.WPM
		}
		if i == 0 || r.WPM > out.MaxWPM {
			out.MaxWPM = r.WPM
		}
	}
	return out
}

// Totals aggregates every stored result.
type Totals struct {
	Count       int
	AvgWPM      float64
	AvgAccuracy float64
	BestWPM     int
}

// Overall computes totals across the whole history.
func Overall(history []model.Result) Totals {
	if len(history) == 0 {
		return Totals{}
	}
	var sumWPM, sumAcc int
	best := 0
	for _, r := range history {
		sumWPM += r.WPM
		sumAcc += r.Accuracy
		if r.WPM > best {
			best = r.WPM
		}
	}
	count := float64(len(history))
	return Totals{
		Count:       len(history),
		AvgWPM:      float64(sumWPM) / count,
		AvgAccuracy: float64(sumAcc) / count,
		BestWPM:     best,
	}
}

// WPMValues extracts WPM values in order.
func WPMValues(results []model.Result) []float64 {
	values := make([]float64, len(results))
	for i, r := range results {
		values[i] = float64(r.WPM)
	}
	return values
}
