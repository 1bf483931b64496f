package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/san-kum/piezosim/internal/actuator"
	"github.com/san-kum/piezosim/internal/analysis"
	"github.com/san-kum/piezosim/internal/config"
	"github.com/san-kum/piezosim/internal/sim"
	"github.com/san-kum/piezosim/internal/storage"
	"github.com/san-kum/piezosim/internal/sweep"
)

func trace() []sim.Sample {
	samples := make([]sim.Sample, 50)
	for i := range samples {
		mode := actuator.Static
		if i%10 >= 8 {
			mode = actuator.Kinetic
		}
		samples[i] = sim.Sample{
			Step: i + 1,
			Time: float64(i+1) * 1e-6,
			Mode: mode,
			State: actuator.State{
				ControlVoltage: float64(i),
				PiezoPosition:  float64(i) * 1e-10,
				SliderPosition: float64(i/10) * 1e-9,
				SliderVelocity: 2.5e-6,
			},
		}
	}
	return samples
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, trace()[:3]); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header and 3 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "time_us") || !strings.Contains(lines[0], "slider_nm") {
		t.Errorf("unexpected header %q", lines[0])
	}

	fields := strings.Fields(lines[3])
	want := []string{"3.000", "2.000", "0.2000", "0.000", "0.0000", "2.500", "static"}
	if len(fields) != len(want) {
		t.Fatalf("expected %d columns, got %v", len(want), fields)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Errorf("column %d: got %s, want %s", i, fields[i], want[i])
		}
	}
	if len(lines[1]) != len(lines[3]) {
		t.Error("rows should have fixed width")
	}
}

func TestUnits(t *testing.T) {
	if u := UnitOf(analysis.SliderPosition); u.Scale != 1e9 || u.Label != "nm" {
		t.Errorf("unexpected slider unit %+v", u)
	}
	if u := UnitOf(analysis.Field("other")); u.Scale != 1 {
		t.Errorf("unknown field should be unscaled, got %+v", u)
	}
	got := Scaled([]float64{2e-6}, analysis.SliderVelocity)
	if got[0] < 1.999999 || got[0] > 2.000001 {
		t.Errorf("expected 2 um/s, got %f", got[0])
	}
}

func TestPlot(t *testing.T) {
	out := Plot(trace(), analysis.SliderPosition, PlotOptions{Width: 40, Height: 5})
	if !strings.Contains(out, "slider_position (nm)") {
		t.Errorf("missing caption in plot:\n%s", out)
	}
	if Plot(nil, analysis.Voltage, DefaultPlotOptions()) != "" {
		t.Error("expected empty plot for no samples")
	}
	if PlotPositions(trace(), PlotOptions{}) == "" {
		t.Error("expected overlay plot")
	}
}

func TestWriteJSON(t *testing.T) {
	meta := &storage.RunMetadata{ID: "reference_1", Name: "reference", Run: config.RunConfig{Steps: 50}}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, meta, trace()); err != nil {
		t.Fatal(err)
	}

	var decoded ExportData
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded.Count != 50 || len(decoded.Samples) != 50 {
		t.Errorf("expected 50 samples, got %d", decoded.Count)
	}
	if decoded.Run.ID != "reference_1" {
		t.Errorf("unexpected run %+v", decoded.Run)
	}
	if decoded.Samples[9].Mode != actuator.Kinetic {
		t.Errorf("mode not preserved: %v", decoded.Samples[9].Mode)
	}
	if !strings.Contains(buf.String(), `"mode": "kinetic"`) {
		t.Error("expected modes encoded by name")
	}
}

func TestSummaryRender(t *testing.T) {
	r := &sim.Result{
		Final:        trace()[49],
		StepsTaken:   50,
		KineticSteps: 10,
		Saturated:    true,
		Metrics:      map[string]float64{"slip_events": 5, "energy": 1e-9},
	}

	out := SummaryFromResult("reference", 100, r).Render()
	for _, want := range []string{"reference", "50/100", "slip_events", "energy", "position limit"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "energy") > strings.Index(out, "slip_events") {
		t.Error("metrics should be sorted by name")
	}

	meta := &storage.RunMetadata{ID: "run_7", Run: config.RunConfig{Steps: 10}, StepsTaken: 10}
	if !strings.Contains(SummaryFromMetadata(meta).Render(), "run_7") {
		t.Error("expected run id in summary")
	}
}

func TestWriteSweep(t *testing.T) {
	points := []sweep.Point{
		{Index: 0, CoefficientStatic: 0.5, CoefficientKinetic: 0.4, NetDisplacement: 2e-9, SlipEvents: 3},
		{Index: 1, CoefficientStatic: 0.5, CoefficientKinetic: 0.8, Crashed: true},
	}

	var buf bytes.Buffer
	if err := WriteSweep(&buf, points, sweep.Summarize(points)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "crashed") || !strings.Contains(out, "2.0000") {
		t.Errorf("unexpected sweep table:\n%s", out)
	}
	if !strings.Contains(out, "2 points, 1 crashed") || !strings.Contains(out, "best #0") {
		t.Errorf("unexpected sweep footer:\n%s", out)
	}
}
