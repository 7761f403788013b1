// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/session"
	"github.com/verte-zerg/typesprint/internal/stats"
)

// Options configures the typing screen.
type Options struct {
	Passages session.Passages
	// Store receives finalized results. Nil disables saving.
	Store session.ResultStore
	// History is reloaded after every finished test to refresh the footer.
	History  stats.HistoryLoader
	Duration int
	Window   int
	Clock    func() time.Time
	// StartTimer overrides the ticker that drives the countdown.
	StartTimer session.TimerFactory
}

type tickMsg struct {
	sessionID string
	at        time.Time
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	trainer *session.Trainer
	history stats.HistoryLoader
	window  int
	ticks   chan tickMsg

	width  int
	height int

	live   model.LiveMetrics
	report stats.Report
	errMsg string
}

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#34D399"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FB7185"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#737373"))
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#262626")).Underline(true)
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#A3A3A3"))
	valueStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F5F5F5"))
	activeStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C026D3"))
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#D4D4D4"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	panelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#404040")).Padding(0, 1)
)

// NewModel constructs a typing TUI model with an Idle session.
func NewModel(opts Options) (*Model, error) {
	m := &Model{
		history: opts.History,
		window:  opts.Window,
		ticks:   make(chan tickMsg, 1),
	}
	startTimer := opts.StartTimer
	if startTimer == nil {
		startTimer = m.startTicker
	}
	sessOpts := session.Options{
		Clock:      opts.Clock,
		StartTimer: startTimer,
		Store:      opts.Store,
		OnLive:     func(live model.LiveMetrics) { m.live = live },
		OnComplete: func(model.Result) { m.reloadHistory() },
	}
	trainer, err := session.NewTrainer(opts.Passages, opts.Duration, sessOpts)
	if err != nil {
		return nil, err
	}
	m.trainer = trainer
	m.live = trainer.Current().Metrics()
	m.reloadHistory()
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return waitForTick(m.ticks)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		m.trainer.Tick(msg.sessionID, msg.at)
		return m, waitForTick(m.ticks)
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

// Close stops the countdown of the current session.
func (m *Model) Close() {
	m.trainer.Close()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.trainer.Current()
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.Close()
		return m, tea.Quit
	case tea.KeyTab, tea.KeyCtrlR:
		m.restart(m.trainer.Duration())
	case tea.KeyEnter:
		if s.Status() == model.StatusFinished {
			m.restart(m.trainer.Duration())
		}
	case tea.KeyLeft:
		m.restart(shiftDuration(m.trainer.Duration(), -1))
	case tea.KeyRight:
		m.restart(shiftDuration(m.trainer.Duration(), 1))
	case tea.KeyBackspace, tea.KeyDelete:
		typed := s.TypedRunes()
		if len(typed) > 0 {
			s.ApplyInput(string(typed[:len(typed)-1]))
		}
	case tea.KeySpace:
		s.ApplyInput(s.Typed() + " ")
	case tea.KeyRunes:
		if d, ok := durationKey(msg.Runes); ok && s.Status() != model.StatusRunning {
			m.restart(d)
			return m, nil
		}
		s.ApplyInput(s.Typed() + string(msg.Runes))
	}
	return m, nil
}

func (m *Model) restart(durationSeconds int) {
	if _, err := m.trainer.Restart(durationSeconds); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
}

func (m *Model) reloadHistory() {
	if m.history == nil {
		return
	}
	m.report = stats.BuildReport(context.Background(), m.history, m.window)
}

// startTicker is the default timer factory. Ticks are handed to the event
// loop through m.ticks; a tick is dropped when one is already pending.
func (m *Model) startTicker(sessionID string, interval time.Duration) session.Timer {
	return session.NewTicker(interval, func(now time.Time) {
		select {
		case m.ticks <- tickMsg{sessionID: sessionID, at: now}:
		default:
		}
	})
}

func waitForTick(ch <-chan tickMsg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// durationKey maps 1-4 to the supported durations.
func durationKey(runes []rune) (int, bool) {
	if len(runes) != 1 || runes[0] < '1' || runes[0] > '4' {
		return 0, false
	}
	return model.Durations[runes[0]-'1'], true
}

func shiftDuration(current, delta int) int {
	idx := 0
	for i, d := range model.Durations {
		if d == current {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(model.Durations)) % len(model.Durations)
	return model.Durations[idx]
}

// View implements tea.Model.
func (m *Model) View() string {
	s := m.trainer.Current()
	passage := s.PassageRunes()
	typed := s.TypedRunes()
	finished := s.Status() == model.StatusFinished
	styled := buildStyledRunes(passage, typed, cursorFor(passage, typed, finished))

	sections := []string{m.renderDurations(), m.renderStats()}
	if m.width == 0 || m.height == 0 {
		sections = append(sections, renderStyledRunes(styled))
	} else {
		contentWidth := int(float64(m.width) * 0.70)
		if contentWidth < 1 {
			contentWidth = 1
		}
		sections = append(sections, lipgloss.NewStyle().Width(contentWidth).Render(wrapStyledRunes(styled, contentWidth)))
	}
	if notice := m.renderNotice(s); notice != "" {
		sections = append(sections, notice)
	}
	content := strings.Join(sections, "\n\n")
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderDurations() string {
	parts := make([]string, 0, len(model.Durations)+1)
	parts = append(parts, labelStyle.Render("Duration"))
	for i, d := range model.Durations {
		label := fmt.Sprintf("%d:%ds", i+1, d)
		if d == m.trainer.Duration() {
			parts = append(parts, activeStyle.Render("["+label+"]"))
			continue
		}
		parts = append(parts, labelStyle.Render(" "+label+" "))
	}
	return strings.Join(parts, " ")
}

func (m *Model) renderStats() string {
	items := []struct {
		label string
		value string
	}{
		{"Live WPM", fmt.Sprintf("%d", m.live.WPM)},
		{"Accuracy", fmt.Sprintf("%d%%", m.live.Accuracy)},
		{"Time Left", fmt.Sprintf("%ds", m.live.TimeLeftSeconds)},
		{"Duration", fmt.Sprintf("%ds", m.live.DurationSeconds)},
	}
	cells := make([]string, 0, len(items))
	for _, it := range items {
		cells = append(cells, labelStyle.Render(it.label)+" "+valueStyle.Render(it.value))
	}
	return panelStyle.Render(strings.Join(cells, "   "))
}

func (m *Model) renderNotice(s *session.Session) string {
	switch {
	case m.errMsg != "":
		return incorrectStyle.Render(m.errMsg)
	case s.Status() == model.StatusFinished:
		return noticeStyle.Render("Test complete. Press tab or enter to try again.")
	case s.Status() == model.StatusIdle:
		return labelStyle.Render("Start typing to begin. tab restart · ←/→ duration · esc quit")
	default:
		return ""
	}
}

func (m *Model) renderFooter() string {
	summary := m.report.Summary
	if summary.Empty() {
		return footerStyle.Render("No results yet. Complete a test to see your progress here.")
	}
	last := summary.Recent[len(summary.Recent)-1]
	segments := []string{
		fmt.Sprintf("Last %d WPM · %d%%", last.WPM, last.Accuracy),
		fmt.Sprintf("Range %s", stats.RangeLabel(summary)),
		fmt.Sprintf("Last %d %s", len(summary.Recent), stats.Sparkline(stats.WPMValues(summary.Recent))),
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
