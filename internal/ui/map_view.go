package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-starfield/internal/density"
	"github.com/litescript/ls-starfield/internal/galaxy"
)

const (
	mapMinZoom  = 1.0
	mapMaxZoom  = 32.0
	mapZoomStep = 1.5

	mapLogFactor = 100.0
	mapGamma     = 0.5

	mapKernelSize  = 5
	mapKernelSigma = 1.0

	// Shade colors, dim to bright
	colorShadeFaint  = "240"
	colorShadeDim    = "244"
	colorShadeMedium = "250"
	colorShadeBright = "255"
	colorShadeCore   = "229"
)

// MapModel renders a top-down density map of the catalog.
type MapModel struct {
	width  int
	height int

	catalog *galaxy.Catalog
	extent  float64 // half-width that fits every star at zoom 1

	zoom  float64
	mode  density.Mode
	smear bool

	// cells holds the rendered map scaled to [0, 1], top row first.
	cells [][]float64
	err   error
}

// NewMapModel creates a new map model.
func NewMapModel() MapModel {
	return MapModel{
		zoom:  mapMinZoom,
		mode:  density.ModeLog,
		smear: true,
	}
}

// Init returns nil cmd
func (m MapModel) Init() tea.Cmd {
	return nil
}

// SetSize updates the viewport size.
func (m MapModel) SetSize(width, height int) MapModel {
	m.width = width
	m.height = height
	return m.rebuild()
}

// SetCatalog sets the catalog to draw.
func (m MapModel) SetCatalog(cat *galaxy.Catalog) MapModel {
	m.catalog = cat
	if cat != nil {
		m.extent = density.AutoExtent(cat.Stars)
	}
	return m.rebuild()
}

// Update handles messages.
func (m MapModel) Update(msg tea.Msg) (MapModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "+", "=":
			m.zoom = min(m.zoom*mapZoomStep, mapMaxZoom)
		case "-", "_":
			m.zoom = max(m.zoom/mapZoomStep, mapMinZoom)
		case "0":
			m.zoom = mapMinZoom
		case "n":
			m.mode = m.mode.Next()
		case "s":
			m.smear = !m.smear
		default:
			return m, nil
		}
		return m.rebuild(), nil
	}
	return m, nil
}

// canvasSize returns the map size in terminal cells. Each row covers two
// grid pixels so the map stays square on screen.
func (m MapModel) canvasSize() (rows, cols int) {
	cols = min(m.width-4, 2*(m.height-3))
	cols -= cols % 2
	if cols < 4 {
		return 0, 0
	}
	return cols / 2, cols
}

func (m MapModel) rebuild() MapModel {
	m.cells = nil
	m.err = nil

	rows, cols := m.canvasSize()
	if m.catalog == nil || rows == 0 {
		return m
	}

	grid, err := density.NewGrid(cols, m.extent/m.zoom)
	if err != nil {
		m.err = err
		return m
	}
	grid.Accumulate(m.catalog.Stars)
	if m.smear {
		if grid, err = grid.Smear(mapKernelSize, mapKernelSigma); err != nil {
			m.err = err
			return m
		}
	}
	if grid, err = grid.Normalize(m.mode, mapLogFactor, mapGamma); err != nil {
		m.err = err
		return m
	}

	cells := grid.Downsample(rows, cols)
	peak := 0.0
	for _, row := range cells {
		for _, v := range row {
			peak = max(peak, v)
		}
	}
	if peak > 0 {
		for _, row := range cells {
			for j := range row {
				row[j] /= peak
			}
		}
	}
	m.cells = cells
	return m
}

// View renders the map.
func (m MapModel) View() string {
	if m.catalog == nil {
		return "Galaxy map appears when generation finishes"
	}
	if m.err != nil {
		return errorStyle.Render("Map error: " + m.err.Error())
	}
	if m.cells == nil {
		return "Galaxy map requires larger terminal"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCanvas())

	return b.String()
}

func (m MapModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#d0c8ff"))

	smear := "off"
	if m.smear {
		smear = "on"
	}

	return fmt.Sprintf("%s | %s | %s | %s",
		titleStyle.Render("Galaxy Map"),
		accentStyle.Render(fmt.Sprintf("±%.0f", m.extent/m.zoom)),
		dimStyle.Render(fmt.Sprintf("zoom %.1fx", m.zoom)),
		dimStyle.Render(fmt.Sprintf("norm: %s | smear: %s", m.mode, smear)),
	)
}

func (m MapModel) renderCanvas() string {
	indent := strings.Repeat(" ", 2)

	var b strings.Builder
	for y, row := range m.cells {
		b.WriteString(indent)
		for _, v := range row {
			ch := density.Shade(v)
			if ch == ' ' {
				b.WriteByte(' ')
				continue
			}
			style := lipgloss.NewStyle().Foreground(shadeColor(v))
			b.WriteString(style.Render(string(ch)))
		}
		if y < len(m.cells)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// shadeColor returns the foreground color for a map cell of value v.
func shadeColor(v float64) lipgloss.Color {
	switch {
	case v < 0.25:
		return colorShadeFaint
	case v < 0.5:
		return colorShadeDim
	case v < 0.75:
		return colorShadeMedium
	case v < 0.95:
		return colorShadeBright
	default:
		return colorShadeCore
	}
}
