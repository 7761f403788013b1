package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	defaultPlotHeight   = 8
	minPlotWidth        = 10
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	plotColor           = "\x1b[35m"
	terminalWidthBackup = 80
)

// PlotWPM renders the WPM series as a braille line chart. The vertical axis
// spans the series min..max, with a range of at least one WPM.
func PlotWPM(w io.Writer, title string, values []float64, width, height int, forceColor bool) error {
	if len(values) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	minVal, maxVal := seriesMinMax(values)
	labelTop := fmt.Sprintf("%.0f", maxVal)
	labelBottom := fmt.Sprintf("%.0f", minVal)
	axisWidth := maxInt(runewidth.StringWidth(labelTop), runewidth.StringWidth(labelBottom))
	if width <= 0 {
		width = PlotWidthFor(terminalWidth(), axisWidth)
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	span := maxVal - minVal
	if span < 1 {
		span = 1
	}
	cells := makeCells(height, width)
	dotsX := width * 2
	dotsY := height * 4
	prevX, prevY := -1, -1
	for i, v := range values {
		x := 0
		if len(values) > 1 {
			x = int(math.Round(float64(i) * float64(dotsX-1) / float64(len(values)-1)))
		}
		y := int(math.Round((1 - (v-minVal)/span) * float64(dotsY-1)))
		if prevX >= 0 {
			drawLine(prevX, prevY, x, y, func(dx, dy int) {
				setBrailleDot(cells, dx, dy)
			})
		} else {
			setBrailleDot(cells, x, y)
		}
		prevX, prevY = x, y
	}

	useColor := shouldUseColor(w, forceColor)
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for y := 0; y < height; y++ {
		label := ""
		switch y {
		case 0:
			label = labelTop
		case height - 1:
			label = labelBottom
		}
		var row strings.Builder
		row.WriteString(fmt.Sprintf("%*s%s", axisWidth, label, axisSeparator))
		if useColor {
			row.WriteString(plotColor)
		}
		for x := 0; x < width; x++ {
			row.WriteRune(brailleFromMask(cells[y][x]))
		}
		if useColor {
			row.WriteString(colorReset)
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	return nil
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth, labelWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	plotWidth := totalWidth - labelWidth - runewidth.StringWidth(axisSeparator)
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func seriesMinMax(values []float64) (float64, float64) {
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return cells
}

func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func setBrailleDot(cells [][]uint8, x, y int) {
	if x < 0 || y < 0 {
		return
	}
	cellY, cellX := y/4, x/2
	if cellY >= len(cells) || cellX >= len(cells[cellY]) {
		return
	}
	cells[cellY][cellX] |= brailleDotMask(x%2, y%4)
}

// brailleDotMask maps a dot inside a 2x4 cell to its Unicode braille bit.
func brailleDotMask(x, y int) uint8 {
	left := [4]uint8{0x01, 0x02, 0x04, 0x40}
	right := [4]uint8{0x08, 0x10, 0x20, 0x80}
	if x == 0 {
		return left[y]
	}
	return right[y]
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
