package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/typesprint/internal/model"
)

const sparkChars = " .:-=+*#%@"

const dateLayout = "2006-01-02 15:04"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		den := float64(i + 1)
		if i >= window {
			sum -= values[i-window]
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := seriesMinMax(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[clampInt(idx, 0, len(sparkChars)-1)])
	}
	return b.String()
}

// RangeLabel formats the WPM range of a summary, e.g. "42 - 67 WPM".
func RangeLabel(s Summary) string {
	return fmt.Sprintf("%d - %d WPM", s.MinWPM, s.MaxWPM)
}

// RenderSummary prints overall totals and the recent WPM range.
func RenderSummary(w io.Writer, report Report) error {
	if len(report.History) == 0 {
		_, err := fmt.Fprintln(w, "No results yet. Complete a test to see your progress here.")
		return err
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Tests: %d", report.Totals.Count),
		fmt.Sprintf("Avg WPM: %.1f", report.Totals.AvgWPM),
		fmt.Sprintf("Best WPM: %d", report.Totals.BestWPM),
		fmt.Sprintf("Avg Accuracy: %.1f%%", report.Totals.AvgAccuracy),
		fmt.Sprintf("Last %d results: %s", len(report.Summary.Recent), RangeLabel(report.Summary)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderChart prints the WPM chart for the recent window.
func RenderChart(w io.Writer, s Summary, width int, forceColor bool) error {
	if s.Empty() {
		return nil
	}
	title := fmt.Sprintf("Speed History (last %d)", len(s.Recent))
	if err := PlotWPM(w, title, WPMValues(s.Recent), width, defaultPlotHeight, forceColor); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// ResultRows formats results newest first for tabular display.
func ResultRows(results []model.Result) [][]string {
	rows := make([][]string, 0, len(results))
	for i := len(results) - 1; i >= 0; i-- {
		r := results[i]
		rows = append(rows, []string{
			r.Timestamp.Local().Format(dateLayout),
			fmt.Sprintf("%d WPM", r.WPM),
			fmt.Sprintf("%d%%", r.Accuracy),
			fmt.Sprintf("%ds", r.DurationSeconds),
			fmt.Sprintf("%d", r.TextLength),
		})
	}
	return rows
}

// ResultHeaders names the ResultRows columns.
var ResultHeaders = []string{"Date", "Speed", "Accuracy", "Test", "Chars"}

// RenderResultTable prints the recent results newest first.
func RenderResultTable(w io.Writer, results []model.Result) error {
	if len(results) == 0 {
		return nil
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(ResultHeaders, ResultRows(results), rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
