package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/piezosim/internal/actuator"
	"github.com/san-kum/piezosim/internal/sim"
	"github.com/san-kum/piezosim/internal/storage"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	StatusStatic = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusKinetic = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	StatusWarn = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)
)

func ModeBadge(m actuator.Mode) string {
	if m == actuator.Kinetic {
		return StatusKinetic.Render("SLIP")
	}
	return StatusStatic.Render("STICK")
}

// Summary is the printable outcome of one run.
type Summary struct {
	Name         string
	Steps        int
	StepsTaken   int
	KineticSteps int
	Saturated    bool
	Final        actuator.State
	Metrics      map[string]float64
}

func SummaryFromResult(name string, steps int, r *sim.Result) Summary {
	return Summary{
		Name:         name,
		Steps:        steps,
		StepsTaken:   r.StepsTaken,
		KineticSteps: r.KineticSteps,
		Saturated:    r.Saturated,
		Final:        r.Final.State,
		Metrics:      r.Metrics,
	}
}

func SummaryFromMetadata(m *storage.RunMetadata) Summary {
	return Summary{
		Name:       m.ID,
		Steps:      m.Run.Steps,
		StepsTaken: m.StepsTaken,
		Saturated:  m.Saturated,
		Final:      m.Final,
		Metrics:    m.Metrics,
	}
}

func (s Summary) Render() string {
	var sb strings.Builder
	sb.WriteString(Title.Render(s.Name))
	sb.WriteString("\n\n")

	row := func(label, value string) {
		sb.WriteString(MetricLabel.Render(fmt.Sprintf("%-22s", label)))
		sb.WriteString(MetricValue.Render(value))
		sb.WriteByte('\n')
	}

	row("steps", fmt.Sprintf("%d/%d", s.StepsTaken, s.Steps))
	if s.KineticSteps > 0 {
		row("kinetic steps", fmt.Sprintf("%d", s.KineticSteps))
	}
	row("slider position", fmt.Sprintf("%.4f nm", s.Final.SliderPosition*1e9))
	row("slider velocity", fmt.Sprintf("%.3f um/s", s.Final.SliderVelocity*1e6))
	row("piezo position", fmt.Sprintf("%.4f nm", s.Final.PiezoPosition*1e9))

	names := make([]string, 0, len(s.Metrics))
	for name := range s.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		row(name, fmt.Sprintf("%.6g", s.Metrics[name]))
	}

	if s.Saturated {
		sb.WriteByte('\n')
		sb.WriteString(StatusWarn.Render("slider left the position limit"))
		sb.WriteByte('\n')
	}

	return Panel.Render(strings.TrimRight(sb.String(), "\n"))
}
