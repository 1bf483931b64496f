package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/piezosim/internal/report"
	"github.com/san-kum/piezosim/internal/sim"
)

const (
	width           = 60
	height          = 8
	historyCapacity = 600
	frameRate       = 30
	maxStepsPerTick = 1 << 12
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(40)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

type TickMsg time.Time

// Model steps a session on every tick and keeps the recent samples for the
// plot.
type Model struct {
	session      *sim.Session
	history      *sim.History
	canvas       *Canvas
	name         string
	running      bool
	unstable     bool
	stepsPerTick int
	last         sim.Sample
}

func NewModel(session *sim.Session, name string, stepsPerTick int) Model {
	if stepsPerTick <= 0 {
		stepsPerTick = 1
	}
	return Model{
		session:      session,
		history:      sim.NewHistory(historyCapacity),
		canvas:       NewCanvas(width, height),
		name:         name,
		running:      true,
		stepsPerTick: min(stepsPerTick, maxStepsPerTick),
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "space":
			if !m.unstable {
				m.running = !m.running
			}
		case "r":
			m.reset()
		case "+", "=":
			m.stepsPerTick = min(m.stepsPerTick*2, maxStepsPerTick)
		case "-", "_":
			m.stepsPerTick = max(m.stepsPerTick/2, 1)
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) advance() {
	for i := 0; i < m.stepsPerTick; i++ {
		s := m.session.Next()
		if !s.State.IsValid() {
			m.unstable = true
			m.running = false
			return
		}
		m.last = s
		m.history.Push(s)
	}
}

func (m *Model) reset() {
	m.session.Reset()
	m.history.Clear()
	m.last = sim.Sample{}
	m.unstable = false
	m.running = true
}

// Steps is the number of steps taken since the last reset.
func (m Model) Steps() int { return m.session.Steps() }

func (m Model) Running() bool { return m.running }

// Last is the most recent sample, or the zero sample after a reset.
func (m Model) Last() sim.Sample { return m.last }

// draw renders the wall, the piezo bar and the slider resting on it. Both
// displacements share one autoscaled axis.
func (m *Model) draw() {
	m.canvas.Clear()
	w, h := m.canvas.Bounds()

	scale := 1e-12
	for _, s := range m.history.Samples() {
		scale = math.Max(scale, math.Abs(s.State.PiezoPosition))
		scale = math.Max(scale, math.Abs(s.State.SliderPosition))
	}
	span := float64(w) / 4
	offset := func(x float64) int { return int(x / scale * span) }

	st := m.last.State
	m.canvas.FillRect(0, 2, 2, h-2)

	piezoEnd := w/2 + offset(st.PiezoPosition)
	m.canvas.FillRect(3, h-10, piezoEnd, h-6)

	center := w/2 + offset(st.SliderPosition)
	m.canvas.FillRect(center-w/8, h-22, center+w/8, h-12)
	m.canvas.DrawLine(w/2, h-1, w/2, h-4)
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(report.Title.Render(strings.ToUpper(m.name)) + "\n")

	status := report.StatusStatic.Render("RUNNING")
	switch {
	case m.unstable:
		status = report.StatusWarn.Render("UNSTABLE")
	case !m.running:
		status = report.StatusKinetic.Render("PAUSED")
	}
	s.WriteString(fmt.Sprintf("%s  %s\n\n", status, report.ModeBadge(m.last.Mode)))

	st := m.last.State
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.1f us", m.last.Time*1e6))
	row("Voltage", fmt.Sprintf("%.2f V", st.ControlVoltage))
	row("Piezo", fmt.Sprintf("%.3f nm", st.PiezoPosition*1e9))
	row("Slider", fmt.Sprintf("%.3f nm", st.SliderPosition*1e9))
	row("Rel. vel.", fmt.Sprintf("%.2f um/s", st.RelativeVelocity()*1e6))
	row("Speed", fmt.Sprintf("%d steps/frame", m.stepsPerTick))

	s.WriteString(report.KeyHint.Render("\nSP:Pause R:Reset +/-:Speed Q:Quit"))
	statsView := statsStyle.Render(s.String())

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	samples := m.history.Samples()
	if len(samples) > 1 {
		piezo := make([]float64, len(samples))
		slider := make([]float64, len(samples))
		for i, smp := range samples {
			piezo[i] = smp.State.PiezoPosition * 1e9
			slider[i] = smp.State.SliderPosition * 1e9
		}
		chart := asciigraph.PlotMany([][]float64{piezo, slider},
			asciigraph.Height(8),
			asciigraph.Width(width+40),
			asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Yellow),
			asciigraph.Caption("position (nm): piezo cyan, slider yellow"),
		)
		mainView += "\n" + graphStyle.Render(chart)
	}
	return mainView
}

var _ tea.Model = Model{}
