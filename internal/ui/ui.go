// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-starfield/internal/galaxy"
	"github.com/litescript/ls-starfield/internal/state"
	"github.com/litescript/ls-starfield/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewDashboard ViewMode = iota
	ViewMap
	viewCount
)

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// RunDoneMsg signals the generation run has finished.
	RunDoneMsg struct {
		Catalog *galaxy.Catalog
		Err     error
	}

	// exportDoneMsg carries the result of a CSV export.
	exportDoneMsg struct {
		path string
		err  error
	}
)

// RunFunc generates a catalog. It is called once, off the UI goroutine.
type RunFunc func() (*galaxy.Catalog, error)

// ExportFunc writes a catalog and returns where it went.
type ExportFunc func(cat *galaxy.Catalog) (string, error)

// Options wires the model to the rest of the program.
type Options struct {
	Run RunFunc
	// Export is nil when no export destination is configured.
	Export ExportFunc
}

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state  *state.Manager
	run    RunFunc
	export ExportFunc

	// UI state
	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	statusMsg string
	animTick  int
	exporting bool

	// Sub-models
	dashboard DashboardModel
	galaxyMap MapModel

	snapshot state.Snapshot
}

// New creates a new root UI model.
func New(stateMgr *state.Manager, opts Options) Model {
	return Model{
		state:     stateMgr,
		run:       opts.Run,
		export:    opts.Export,
		viewMode:  ViewDashboard,
		dashboard: NewDashboardModel(),
		galaxyMap: NewMapModel(),
		snapshot:  stateMgr.Snapshot(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		animTickCmd(),
		runCmd(m.run),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "d":
			m.viewMode = ViewDashboard
		case "2", "m":
			m.viewMode = ViewMap

		case "tab":
			m.viewMode = (m.viewMode + 1) % viewCount

		case "e":
			cmds = append(cmds, m.startExport())

		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Header takes 4 lines, footer 2
		contentHeight := msg.Height - 7
		m.dashboard = m.dashboard.SetSize(msg.Width, contentHeight)
		m.galaxyMap = m.galaxyMap.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		m.snapshot = m.state.Snapshot()
		m.dashboard = m.dashboard.UpdateData(m.snapshot)

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case RunDoneMsg:
		m.snapshot = m.state.Snapshot()
		m.dashboard = m.dashboard.UpdateData(m.snapshot)
		if msg.Err != nil {
			m.statusMsg = "Generation failed: " + msg.Err.Error()
			break
		}
		m.galaxyMap = m.galaxyMap.SetCatalog(msg.Catalog)
		m.statusMsg = fmt.Sprintf("Generated %d stars (seed %d)", msg.Catalog.Len(), msg.Catalog.Seed)

	case exportDoneMsg:
		m.exporting = false
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Export failed: %v", msg.err)
		} else {
			m.statusMsg = "Exported catalog to " + msg.path
		}

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case ViewMap:
		m.galaxyMap, cmd = m.galaxyMap.Update(msg)
	}
	return cmd
}

// startExport returns the export command, or nil with a status message when
// an export cannot run yet.
func (m *Model) startExport() tea.Cmd {
	switch {
	case m.export == nil:
		m.statusMsg = "No export path set (use --csv)"
		return nil
	case m.exporting:
		return nil
	}

	cat := m.galaxyMap.catalog
	if cat == nil {
		m.statusMsg = "Catalog not ready"
		return nil
	}

	m.exporting = true
	m.statusMsg = "Exporting..."
	export := m.export
	return func() tea.Msg {
		path, err := export(cat)
		return exportDoneMsg{path: path, err: err}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewDashboard:
		content = m.dashboard.View()
	case ViewMap:
		content = m.galaxyMap.View()
	}

	return m.renderFrame(content)
}

func (m Model) renderFrame(content string) string {
	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderTabs() + "\n"
}

func (m Model) renderLogo() string {
	const logo = "✦  L S · S T A R F I E L D  ✦"

	var b strings.Builder
	b.WriteString("\n  ")

	runes := []rune(logo)
	for col, r := range runes {
		color := gradientColor(col, 0, len(runes), 1)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
		b.WriteString(style.Render(string(r)))
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("   procedural spiral galaxy · v%s", version.Version)))
	b.WriteString("\n")

	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient.
// Blue -> purple -> magenta -> pink, fading toward the bottom rows.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	var r, g, b float64

	if xRatio < 0.33 {
		t := xRatio / 0.33
		r = 59 + t*(139-59)
		g = 130 + t*(92-130)
		b = 246
	} else if xRatio < 0.66 {
		t := (xRatio - 0.33) / 0.33
		r = 139 + t*(217-139)
		g = 92 + t*(70-92)
		b = 246 + t*(239-246)
	} else {
		t := (xRatio - 0.66) / 0.34
		r = 217 + t*(236-217)
		g = 70 + t*(72-70)
		b = 239 + t*(153-239)
	}

	brightnessFactor := 1.0 - (yRatio * 0.5)
	clamp := func(v float64) int {
		return min(255, max(0, int(v*brightnessFactor)))
	}

	return fmt.Sprintf("#%02X%02X%02X", clamp(r), clamp(g), clamp(b))
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Progress", "[2] Galaxy"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	switch m.snapshot.Phase {
	case state.PhaseFailed:
		status = errorStyle.Render("ERROR: " + m.snapshot.LastError.Error())
	case state.PhaseDone:
		status = dimStyle.Render(fmt.Sprintf("done in %s · seed %d",
			m.snapshot.Elapsed().Round(time.Millisecond), m.snapshot.Seed))
	case state.PhaseRunning:
		status = accentStyle.Render(spinner) + " " +
			m.renderShimmerText(fmt.Sprintf("Generating... %3.0f%%", m.snapshot.Progress()*100))
	default:
		status = accentStyle.Render(spinner) + " " + m.renderShimmerText("Waiting to start...")
	}

	var help string
	switch m.viewMode {
	case ViewMap:
		help = dimStyle.Render("+/-: zoom | n: normalisation | s: smear | e: export | tab: switch view")
	default:
		help = dimStyle.Render("↑↓: scroll events | e: export | tab: switch view")
	}

	footer := "  " + status + "  " + dimStyle.Render("|") + "  " + help
	if m.statusMsg != "" {
		footer += "\n  " + dimStyle.Render(m.statusMsg)
	}
	return footer
}

// renderShimmerText renders text with a subtle moving shine effect.
func (m Model) renderShimmerText(text string) string {
	runes := []rune(text)
	textLen := len(runes)
	if textLen == 0 {
		return ""
	}

	pos := m.animTick % (textLen + 8)

	var result strings.Builder
	for i, r := range runes {
		dist := i - pos + 4
		if dist < 0 {
			dist = -dist
		}

		var r8, g8, b8 int
		switch {
		case dist <= 1:
			r8, g8, b8 = 180, 160, 220
		case dist <= 3:
			r8, g8, b8 = 140, 120, 180
		case dist <= 5:
			r8, g8, b8 = 110, 90, 150
		default:
			r8, g8, b8 = 80, 70, 120
		}

		hexColor := fmt.Sprintf("#%02X%02X%02X", r8, g8, b8)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor))
		result.WriteString(style.Render(string(r)))
	}

	return result.String()
}

func tickCmd() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

func runCmd(run RunFunc) tea.Cmd {
	if run == nil {
		return nil
	}
	return func() tea.Msg {
		cat, err := run()
		return RunDoneMsg{Catalog: cat, Err: err}
	}
}
