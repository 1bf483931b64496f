package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/san-kum/piezosim/internal/sim"
)

const (
	traceHeader = "    time_us   voltage_V    piezo_nm  piezo_um_s   slider_nm slider_um_s  mode\n"
	traceRow    = "%11.3f %11.3f %11.4f %11.3f %11.4f %11.3f  %s\n"
)

// WriteText writes samples as fixed-width columns in display units.
func WriteText(out io.Writer, samples []sim.Sample) error {
	w := bufio.NewWriter(out)
	if _, err := io.WriteString(w, traceHeader); err != nil {
		return err
	}
	for _, s := range samples {
		st := s.State
		_, err := fmt.Fprintf(w, traceRow,
			s.Time*1e6,
			st.ControlVoltage,
			st.PiezoPosition*1e9,
			st.PiezoVelocity*1e6,
			st.SliderPosition*1e9,
			st.SliderVelocity*1e6,
			s.Mode,
		)
		if err != nil {
			return err
		}
	}
	return w.Flush()
}
