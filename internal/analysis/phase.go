package analysis

import (
	"strings"

	"github.com/san-kum/piezosim/internal/actuator"
	"github.com/san-kum/piezosim/internal/sim"
)

type PortraitPoint struct {
	X, Y float64
	Mode actuator.Mode
}

// PhasePortrait holds two fields of a trace against each other.
type PhasePortrait struct {
	X, Y   Field
	Points []PortraitPoint
}

func NewPhasePortrait(samples []sim.Sample, x, y Field) *PhasePortrait {
	portrait := &PhasePortrait{
		X:      x,
		Y:      y,
		Points: make([]PortraitPoint, len(samples)),
	}
	for i, s := range samples {
		portrait.Points[i] = PortraitPoint{X: x.Value(s), Y: y.Value(s), Mode: s.Mode}
	}
	return portrait
}

// ASCII renders the portrait; static points are drawn as '•', kinetic as 'x'.
func (p *PhasePortrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))
		if row < 0 || row >= height || col < 0 || col >= width {
			continue
		}
		if pt.Mode == actuator.Kinetic {
			canvas[row][col] = 'x'
		} else if canvas[row][col] != 'x' {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
