package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/san-kum/piezosim/internal/sweep"
)

func WriteSweep(out io.Writer, points []sweep.Point, sum sweep.Summary) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tMU_S\tMU_K\tSLEW (V/s)\tNET (nm)\tKINETIC\tSLIPS\tSTATUS")

	for _, p := range points {
		status := "ok"
		if p.Crashed {
			status = "crashed"
		}
		fmt.Fprintf(w, "%d\t%.3g\t%.3g\t%.3g\t%.4f\t%.1f%%\t%d\t%s\n",
			p.Index,
			p.CoefficientStatic,
			p.CoefficientKinetic,
			p.SlewRate,
			p.NetDisplacement*1e9,
			p.KineticFraction*100,
			p.SlipEvents,
			status,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(out, "\n%d points, %d crashed, mean %.4f nm, stddev %.4f nm",
		sum.Points, sum.Crashed, sum.MeanDisplacement*1e9, sum.StdDisplacement*1e9)
	if err != nil {
		return err
	}
	if sum.Best >= 0 {
		_, err = fmt.Fprintf(out, ", best #%d\n", sum.Best)
	} else {
		_, err = fmt.Fprintln(out)
	}
	return err
}
