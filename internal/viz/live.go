package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/particlelife/internal/config"
	"github.com/san-kum/particlelife/internal/life"
)

const (
	width            = 80
	height           = 24
	historyCapacity  = 300
	maxTicksPerFrame = 32
)

type TickMsg time.Time

// Model is the live terminal view. It owns one simulation, built from cfg,
// and reads it only through snapshots.
type Model struct {
	cfg           *config.Config
	sim           *life.Simulation
	snap          life.Snapshot
	canvas        *Canvas
	theme         Theme
	running       bool
	follow        bool
	showHelp      bool
	ticksPerFrame int
	energy        []float64
	spread        []float64
	err           error
}

// NewModel builds the first simulation from cfg.
func NewModel(cfg *config.Config, theme string) (Model, error) {
	cfg = cfg.Clone()
	s, err := cfg.NewSimulation()
	if err != nil {
		return Model{}, err
	}
	return Model{
		cfg:           cfg,
		sim:           s,
		snap:          s.Snapshot(),
		canvas:        NewCanvas(width, height),
		theme:         GetTheme(theme),
		running:       true,
		ticksPerFrame: 1,
		energy:        make([]float64, 0, historyCapacity),
		spread:        make([]float64, 0, historyCapacity),
	}, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "f":
			m.follow = !m.follow
		case "t":
			names := ThemeNames()
			for i, name := range names {
				if name == m.theme.Name {
					m.theme = GetTheme(names[(i+1)%len(names)])
					break
				}
			}
		case "+", "=":
			m.ticksPerFrame = min(m.ticksPerFrame*2, maxTicksPerFrame)
		case "-", "_":
			m.ticksPerFrame = max(m.ticksPerFrame/2, 1)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

// advance steps the simulation and records the panel series. A diverged
// population pauses the view.
func (m *Model) advance() {
	for i := 0; i < m.ticksPerFrame; i++ {
		m.sim.Step()
	}
	m.snap = m.sim.SnapshotInto(m.snap)
	if !m.snap.IsValid() {
		m.running = false
		m.err = fmt.Errorf("state diverged at tick %d", m.sim.Tick())
		return
	}

	m.energy = pushBounded(m.energy, m.snap.KineticEnergy())
	c := m.snap.Centroid()
	sq := 0.0
	for _, p := range m.snap {
		dx, dy := p.X-c.X, p.Y-c.Y
		sq += dx*dx + dy*dy
	}
	m.spread = pushBounded(m.spread, sq/float64(len(m.snap)))
}

func pushBounded(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

// reset restarts with the next seed and a freshly drawn rule matrix unless
// the configuration pins the rules.
func (m *Model) reset() {
	next := m.cfg.Clone()
	next.Seed++
	s, err := next.NewSimulation()
	if err != nil {
		m.err = err
		return
	}
	m.cfg = next
	m.sim = s
	m.snap = s.Snapshot()
	m.energy = m.energy[:0]
	m.spread = m.spread[:0]
	m.err = nil
	m.running = true
}

func (m Model) Seed() uint64                 { return m.cfg.Seed }
func (m Model) Simulation() *life.Simulation { return m.sim }
func (m Model) Running() bool                { return m.running }

func (m Model) viewport() Viewport {
	if m.follow {
		return FitViewport(m.snap, 0.05)
	}
	return UnitViewport()
}

// View renders the TUI interface.
func (m Model) View() string {
	palette := m.theme.Palette(m.sim.M())
	view := m.viewport()
	m.canvas.Clear()
	if m.follow {
		Outline(m.canvas, UnitViewport(), view, len(palette))
	}
	Plot(m.canvas, m.snap, view)
	canvasView := canvasStyle.Render(m.canvas.Render(palette, m.theme.Muted))

	var s strings.Builder
	s.WriteString(headerStyle.Render("PARTICLE LIFE") + "\n")

	status := StatusRunning.Render("RUNNING")
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	s.WriteString(status + "\n\n")
	if m.err != nil {
		s.WriteString(StatusPaused.Render(m.err.Error()) + "\n\n")
	}

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	s.WriteString(labelStyle.Render("Spread²") + valueStyle.Render(SparklineChart(m.spread, 30)) + "\n\n")

	s.WriteString(labelStyle.Render("Tick") + valueStyle.Render(fmt.Sprintf("%d (x%d)", m.sim.Tick(), m.ticksPerFrame)) + "\n")
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2f", m.sim.Time())) + "\n")
	s.WriteString(labelStyle.Render("Seed") + valueStyle.Render(fmt.Sprintf("%d", m.cfg.Seed)) + "\n")
	s.WriteString(labelStyle.Render("Particles") + valueStyle.Render(fmt.Sprintf("%d", m.sim.Count())) + "\n")

	s.WriteString("\nCLASSES\n")
	counts := m.snap.ColorCounts(m.sim.M())
	for i, n := range counts {
		swatch := lipgloss.NewStyle().Foreground(palette[i]).Render("●")
		s.WriteString(fmt.Sprintf("  %s %-3d %d\n", swatch, i, n))
	}

	s.WriteString("\nRULES\n")
	s.WriteString(m.renderRules(palette))

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Restart Q:Quit\nF:Follow T:Theme +/-:Speed"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Restart with next seed   ║
║  F        - Follow the population    ║
║  T        - Cycle themes             ║
║  + / -    - Ticks per frame          ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// renderRules prints the matrix with attraction and repulsion colored.
// Rows are the affected class, columns the neighbor class.
func (m Model) renderRules(palette []lipgloss.Color) string {
	attract := lipgloss.NewStyle().Foreground(m.theme.Attract)
	repel := lipgloss.NewStyle().Foreground(m.theme.Repel)

	var b strings.Builder
	b.WriteString("    ")
	for j := range palette {
		b.WriteString(lipgloss.NewStyle().Foreground(palette[j]).Render(fmt.Sprintf("%6s", "●")))
	}
	b.WriteByte('\n')
	for i, row := range m.sim.Rules().Rows() {
		b.WriteString(lipgloss.NewStyle().Foreground(palette[i]).Render("  ● "))
		for _, v := range row {
			cell := fmt.Sprintf("%+6.2f", v)
			if v < 0 {
				b.WriteString(repel.Render(cell))
			} else {
				b.WriteString(attract.Render(cell))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
