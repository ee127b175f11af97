package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-starfield/internal/state"
)

// Styles for the dashboard
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9D4EDD"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d0c8ff"))

	idleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// DashboardModel shows per-component progress and the run's event log.
type DashboardModel struct {
	width    int
	height   int
	scroll   int // events scrolled back from the newest
	snapshot state.Snapshot
}

// NewDashboardModel creates a new dashboard model.
func NewDashboardModel() DashboardModel {
	return DashboardModel{}
}

// Init implements the Bubble Tea model interface.
func (m DashboardModel) Init() tea.Cmd {
	return nil
}

// SetSize updates the viewport size.
func (m DashboardModel) SetSize(width, height int) DashboardModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with new data.
func (m DashboardModel) UpdateData(snapshot state.Snapshot) DashboardModel {
	m.snapshot = snapshot
	m.scroll = min(m.scroll, max(0, len(snapshot.Events)-1))
	return m
}

// Update handles messages.
func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		last := max(0, len(m.snapshot.Events)-1)
		switch msg.String() {
		case "up", "k":
			m.scroll = min(m.scroll+1, last)
		case "down", "j":
			m.scroll = max(m.scroll-1, 0)
		case "home":
			m.scroll = last
		case "end":
			m.scroll = 0
		}
	}
	return m, nil
}

// View renders the dashboard.
func (m DashboardModel) View() string {
	var b strings.Builder

	if m.snapshot.LastError != nil {
		b.WriteString(errorStyle.Render("Error: " + m.snapshot.LastError.Error()))
		b.WriteString("\n\n")
	}

	if m.snapshot.Phase == state.PhasePending {
		b.WriteString("Waiting for generation to start...\n")
		return b.String()
	}

	b.WriteString(m.renderComponents())
	b.WriteString("\n")
	b.WriteString(m.renderEvents())

	return b.String()
}

func (m DashboardModel) renderComponents() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Components"))
	b.WriteString("\n")

	header := fmt.Sprintf("%-12s %-8s %-22s %17s %9s %8s",
		"Component", "Phase", "Progress", "Stars", "Fallback", "Time")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for _, c := range m.snapshot.Components {
		elapsed := "-"
		if c.Phase == state.PhaseDone {
			elapsed = c.Elapsed.Round(time.Millisecond).String()
		}

		name := fmt.Sprintf("%-12s %-8s ", truncate(c.Component.String(), 12), c.Phase)
		row := fmt.Sprintf(" %8d/%-8d %9d %8s", c.Done, c.Total, c.Fallbacks, elapsed)

		nameStyle := idleStyle
		switch c.Phase {
		case state.PhaseRunning:
			nameStyle = rowStyle
		case state.PhaseDone:
			nameStyle = doneStyle
		}
		b.WriteString(nameStyle.Render(name) + m.renderProgressBar(c.Fraction(), 20) + rowStyle.Render(row))
		b.WriteString("\n")
	}

	total := m.snapshot.Progress()
	b.WriteString(fmt.Sprintf("\n  Overall %s %3.0f%%  elapsed %s\n",
		m.renderProgressBar(total, 30), total*100, m.snapshot.Elapsed().Round(time.Millisecond)))

	return b.String()
}

func (m DashboardModel) renderProgressBar(frac float64, width int) string {
	filled := min(width, max(0, int(frac*float64(width))))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return "[" + barStyle.Render(bar) + "]"
}

func (m DashboardModel) renderEvents() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Events"))
	b.WriteString("\n")

	events := m.snapshot.Events
	if len(events) == 0 {
		b.WriteString("  No events\n")
		return b.String()
	}

	// Rows left after the component table (header, 5 components, totals)
	maxRows := max(m.height-12, 3)

	end := len(events) - m.scroll
	start := max(0, end-maxRows)
	for _, e := range events[start:end] {
		b.WriteString(rowStyle.Render(formatEvent(e)))
		b.WriteString("\n")
	}

	if len(events) > maxRows {
		b.WriteString(idleStyle.Render(fmt.Sprintf("  Showing %d-%d of %d events", start+1, end, len(events))))
		b.WriteString("\n")
	}

	return b.String()
}

func formatEvent(e state.Event) string {
	line := fmt.Sprintf("  %s %-12s", e.Timestamp.Format("15:04:05.000"), e.Type)
	if e.Component != "" {
		line += " " + e.Component
	}
	switch e.Type {
	case state.EventFallback:
		line += fmt.Sprintf(" (%d stars hit the attempt cap)", e.Count)
	case state.EventRunFailed:
		line += " " + e.Message
	default:
		if e.Count > 0 {
			line += fmt.Sprintf(" %d stars", e.Count)
		}
	}
	if e.Elapsed > 0 {
		line += " in " + e.Elapsed.Round(time.Millisecond).String()
	}
	return line
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
