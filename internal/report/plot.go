package report

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/piezosim/internal/analysis"
	"github.com/san-kum/piezosim/internal/sim"
)

type PlotOptions struct {
	Width  int
	Height int
}

func DefaultPlotOptions() PlotOptions {
	return PlotOptions{Width: 80, Height: 10}
}

// Plot draws one field of a trace against step index.
func Plot(samples []sim.Sample, f analysis.Field, opts PlotOptions) string {
	if len(samples) == 0 {
		return ""
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultPlotOptions()
	}

	data := Scaled(analysis.Series(samples, f), f)
	caption := string(f)
	if u := UnitOf(f); u.Label != "" {
		caption = fmt.Sprintf("%s (%s)", f, u.Label)
	}

	return asciigraph.Plot(data,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Caption(caption),
	)
}

// PlotPositions overlays piezo and slider positions.
func PlotPositions(samples []sim.Sample, opts PlotOptions) string {
	if len(samples) == 0 {
		return ""
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultPlotOptions()
	}

	piezo := Scaled(analysis.Series(samples, analysis.PiezoPosition), analysis.PiezoPosition)
	slider := Scaled(analysis.Series(samples, analysis.SliderPosition), analysis.SliderPosition)

	return asciigraph.PlotMany([][]float64{piezo, slider},
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Yellow),
		asciigraph.Caption("position (nm): piezo cyan, slider yellow"),
	)
}
