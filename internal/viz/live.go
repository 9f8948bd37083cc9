package viz

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/mcwalk/internal/geom"
	"github.com/san-kum/mcwalk/internal/walk"
)

const (
	canvasWidth  = 60
	canvasHeight = 24
	liveWalkers  = 400
	marginalBins = 40
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(50)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model animates a small cloud of walkers through the domain while a
// marginal density builds up below. It is a preview, not an estimator;
// the walker count is fixed and small so the terminal stays responsive.
type Model struct {
	name    string
	domain  *geom.Domain
	stepper *walk.Stepper
	sampler walk.Sampler
	rng     *rand.Rand
	seed    int64

	particles []*walk.Particle
	dt        float64
	t         float64
	failed    int

	canvas   *Canvas
	marginal []float64
	running  bool
}

func NewModel(name string, dom *geom.Domain, field walk.Field, sampler walk.Sampler, min, max geom.Vec, dt float64, seed int64) (*Model, error) {
	m := &Model{
		name:     name,
		domain:   dom,
		stepper:  walk.NewStepper(dom, field),
		sampler:  sampler,
		rng:      rand.New(rand.NewSource(seed)),
		seed:     seed,
		dt:       dt,
		canvas:   NewCanvas(canvasWidth, canvasHeight, min, max),
		marginal: make([]float64, marginalBins),
		running:  true,
	}
	if err := m.spawn(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) spawn() error {
	m.particles = make([]*walk.Particle, 0, liveWalkers)
	for i := 0; i < liveWalkers; i++ {
		pos, err := walk.SampleInside(m.rng, m.sampler, m.domain, walk.DefaultMaxSampleTries)
		if err != nil {
			return err
		}
		m.particles = append(m.particles, &walk.Particle{Pos: pos, Weight: 1})
	}
	return nil
}

func (m *Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "up", "k":
			m.dt *= 2
		case "down", "j":
			m.dt /= 2
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) step() {
	binW := (m.canvas.Max.X - m.canvas.Min.X) / marginalBins
	for _, p := range m.particles {
		if p.Failed {
			continue
		}
		if err := m.stepper.Step(m.rng, p, m.dt); err != nil {
			m.failed++
			continue
		}
		bin := int((p.Pos.X - m.canvas.Min.X) / binW)
		if bin >= 0 && bin < marginalBins {
			m.marginal[bin] += m.dt
		}
	}
	m.t += m.dt
}

func (m *Model) reset() {
	m.t = 0
	m.failed = 0
	m.rng = rand.New(rand.NewSource(m.seed))
	m.marginal = make([]float64, marginalBins)
	m.spawn()
}

func (m *Model) View() string {
	m.canvas.Clear()
	m.canvas.Walls(m.domain)
	alive := 0
	reflections := 0
	for _, p := range m.particles {
		reflections += p.Reflections
		if p.Failed {
			continue
		}
		alive++
		m.canvas.Plot(p.Pos)
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	if max := maxVal(m.marginal); max > 0 {
		chart := asciigraph.Plot(m.marginal, asciigraph.Height(5), asciigraph.Width(36), asciigraph.Caption("x-marginal occupancy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.4fs", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Dt") + valueStyle.Render(fmt.Sprintf("%.2e", m.dt)) + "\n")
	s.WriteString(labelStyle.Render("Walkers") + valueStyle.Render(fmt.Sprintf("%d/%d", alive, len(m.particles))) + "\n")
	s.WriteString(labelStyle.Render("Reflections") + valueStyle.Render(fmt.Sprintf("%d", reflections)) + "\n")
	s.WriteString(labelStyle.Render("Failed") + valueStyle.Render(fmt.Sprintf("%d", m.failed)) + "\n")
	s.WriteString(helpStyle.Render("\nSP:Pause R:Reset Q:Quit ↑↓:Dt"))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		statsStyle.Render(s.String()),
	)
}

func maxVal(xs []float64) float64 {
	max := 0.0
	for _, x := range xs {
		if x > max {
			max = x
		}
	}
	return max
}
