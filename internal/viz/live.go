package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/sgshea/fluidsim/internal/fluid"
	"github.com/sgshea/fluidsim/internal/sim"
)

const (
	viewCols        = 64
	viewRows        = 32
	historyCapacity = 600
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

type TickMsg time.Time

// Model is the interactive fluid view. A cursor moves over the domain and
// pushes dye and momentum into the fluid; an optional background source
// keeps the scene alive on its own.
type Model struct {
	sim      *fluid.Sim
	source   sim.ImpulseSource
	scene    string
	dt, t    float64
	renderer *Renderer
	mode     Mode
	running  bool
	showHelp bool

	cursorX, cursorY float64
	strength         float64

	energyHistory []float64
}

func NewModel(s *fluid.Sim, source sim.ImpulseSource, scene string, dt float64) Model {
	g := s.Grid()
	return Model{
		sim:           s,
		source:        source,
		scene:         scene,
		dt:            dt,
		renderer:      NewRenderer(viewCols, viewRows),
		running:       true,
		cursorX:       float64(g.Width) / 2,
		cursorY:       float64(g.Height) / 2,
		strength:      20,
		energyHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.sim.Reset()
			m.t = 0
			m.energyHistory = m.energyHistory[:0]
		case "m":
			m.mode = m.mode.Next()
		case "?":
			m.showHelp = !m.showHelp
		case "+", "=":
			m.strength *= 1.25
		case "-", "_":
			m.strength /= 1.25
		case "up", "k":
			m.push(0, 1)
		case "down", "j":
			m.push(0, -1)
		case "left", "h":
			m.push(-1, 0)
		case "right", "l":
			m.push(1, 0)
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// push moves the cursor and injects an impulse in the travel direction.
func (m *Model) push(dx, dy float64) {
	g := m.sim.Grid()
	m.cursorX = clampF(m.cursorX+dx*2, 1, float64(g.Width-2))
	m.cursorY = clampF(m.cursorY+dy*2, 1, float64(g.Height-2))

	imp := fluid.Impulse{
		X:      m.cursorX,
		Y:      m.cursorY,
		DU:     dx * m.strength * m.dt,
		DV:     dy * m.strength * m.dt,
		Dye:    0.5,
		Radius: 3,
	}
	if err := m.sim.Tick(m.dt, []fluid.Impulse{imp}); err == nil {
		m.t += m.dt
	}
}

func (m *Model) step() {
	var impulses []fluid.Impulse
	if m.source != nil {
		impulses = m.source.Impulses(m.t, m.dt)
	}
	if err := m.sim.Tick(m.dt, impulses); err != nil {
		return
	}
	m.t += m.dt

	m.energyHistory = append(m.energyHistory, m.sim.KineticEnergy())
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

func (m Model) View() string {
	canvasView := canvasStyle.Render(m.renderer.Render(m.sim, m.mode))

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.scene)) + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Ticks") + valueStyle.Render(fmt.Sprintf("%d", m.sim.Ticks())) + "\n")
	s.WriteString(labelStyle.Render("View") + valueStyle.Render(m.mode.String()) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.4f", m.sim.KineticEnergy())) + "\n")
	s.WriteString(labelStyle.Render("Dye mass") + valueStyle.Render(fmt.Sprintf("%.2f", m.sim.TotalDye())) + "\n")
	s.WriteString(labelStyle.Render("Max div") + valueStyle.Render(fmt.Sprintf("%.2e", m.sim.MaxDivergence())) + "\n")
	s.WriteString(labelStyle.Render("Push") + cursorStyle.Render(fmt.Sprintf("(%.0f, %.0f) x%.1f", m.cursorX, m.cursorY, m.strength)) + "\n")

	s.WriteString(helpStyle.Render("\n─────────────────────\nArrows/HJKL:Push  SP:Pause\nM:View R:Reset +/-:Force\nQ:Quit ?:Help"))

	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Arrows/HJKL - Push fluid            ║
║  Space       - Pause/Resume          ║
║  M           - Cycle view mode       ║
║  R           - Reset simulation      ║
║  +/-         - Adjust push strength  ║
║  Q           - Quit                  ║
║  ?           - Toggle this help      ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
