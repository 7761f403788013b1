// Package statsui provides the Bubble Tea history interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typesprint/internal/stats"
)

const (
	tabOverview = iota
	tabResults
)

const emptyMessage = "No results yet. Complete a test to see your progress here."

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C026D3"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea history UI.
type Model struct {
	loader stats.HistoryLoader
	window int

	report stats.Report

	tabs      []string
	activeTab int
	overview  viewport.Model
	results   table.Model

	width  int
	height int
}

// NewModel constructs a history UI model over the recent window.
func NewModel(loader stats.HistoryLoader, window int) *Model {
	if window <= 0 {
		window = stats.DefaultWindow
	}
	m := &Model{
		loader:   loader,
		window:   window,
		tabs:     []string{"Overview", "Results"},
		overview: viewport.New(0, 0),
		results:  newResultsTable(),
	}
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.window = nextWindow(m.window)
			m.refreshReport()
			return m, nil
		case "-":
			m.window = prevWindow(m.window)
			m.refreshReport()
			return m, nil
		case "g", "home":
			if m.activeTab == tabResults {
				m.results.GotoTop()
			} else {
				m.overview.GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabResults {
				m.results.GotoBottom()
			} else {
				m.overview.GotoBottom()
			}
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabResults {
			m.results, cmd = m.results.Update(msg)
		} else {
			m.overview, cmd = m.overview.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(headerStyle.Render(helpText), m.width, 1)
	return strings.Join([]string{header, body, footer}, "\n")
}

const helpText = "Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Quit: q"

func (m *Model) layoutHeights() (headerHeight, bodyHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	headerHeight = tabsHeight + 1
	bodyHeight = m.height - headerHeight - 1
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.results.SetWidth(m.width)
	m.results.SetHeight(maxInt(1, bodyHeight-1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabResults {
		m.results.Focus()
	} else {
		m.results.Blur()
	}
}

func (m *Model) renderHeader() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	info := headerStyle.Render(m.windowLine())
	return tabs + "\n" + info
}

func (m *Model) windowLine() string {
	summary := m.report.Summary
	if summary.Empty() {
		return fmt.Sprintf("Window: %d", m.window)
	}
	return fmt.Sprintf("Last %d results  Range %s  Window: %d", len(summary.Recent), stats.RangeLabel(summary), m.window)
}

func (m *Model) renderBody() string {
	if len(m.report.History) == 0 {
		return emptyMessage
	}
	if m.activeTab == tabResults {
		return tableMutedStyle.Render(m.results.View())
	}
	return m.overview.View()
}

func (m *Model) refreshReport() {
	m.report = stats.BuildReport(context.Background(), m.loader, m.window)
	m.results.SetRows(buildRows(m.report.Summary))
	m.results.GotoTop()
	m.renderOverview()
}

func (m *Model) renderOverview() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.report, width))
}

func renderOverview(report stats.Report, width int) string {
	if len(report.History) == 0 {
		return emptyMessage
	}
	return strings.TrimRight(renderSummaryCards(report, width)+"\n\n"+renderChart(report.Summary, width), "\n")
}

func renderSummaryCards(report stats.Report, width int) string {
	totals := report.Totals
	cards := []string{
		metricCard("Tests", strconv.Itoa(totals.Count)),
		metricCard("Avg WPM", fmt.Sprintf("%.1f", totals.AvgWPM)),
		metricCard("Best WPM", strconv.Itoa(totals.BestWPM)),
		metricCard("Avg Acc", fmt.Sprintf("%.1f%%", totals.AvgAccuracy)),
		metricCard("Range", stats.RangeLabel(report.Summary)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderChart(summary stats.Summary, width int) string {
	var buf bytes.Buffer
	labelWidth := len(strconv.Itoa(summary.MaxWPM))
	if err := stats.RenderChart(&buf, summary, stats.PlotWidthFor(width, labelWidth), true); err != nil {
		return fmt.Sprintf("Failed to render chart: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func newResultsTable() table.Model {
	columns := make([]table.Column, len(stats.ResultHeaders))
	widths := []int{17, 9, 9, 6, 6}
	for i, title := range stats.ResultHeaders {
		columns[i] = table.Column{Title: title, Width: widths[i]}
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(1),
	)
	t.SetStyles(resultTableStyles())
	return t
}

func buildRows(summary stats.Summary) []table.Row {
	formatted := stats.ResultRows(summary.Recent)
	rows := make([]table.Row, len(formatted))
	for i, row := range formatted {
		rows[i] = table.Row(row)
	}
	return rows
}

func resultTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func nextWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
