package sweep

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/piezosim/internal/config"
	"github.com/san-kum/piezosim/internal/sim"
)

func baseConfig() config.Config {
	cfg := *config.DefaultConfig()
	cfg.Run.Steps = 200
	return cfg
}

func TestGridExpand(t *testing.T) {
	grid := Grid{Static: []float64{0.3, 0.5}, Kinetic: []float64{0.2, 0.6}, SlewRates: []float64{0, 1e7, 1e8}}
	if grid.Size() != 12 {
		t.Fatalf("expected 12 points, got %d", grid.Size())
	}

	cfgs := grid.Expand(baseConfig())
	if len(cfgs) != 12 {
		t.Fatalf("expected 12 configs, got %d", len(cfgs))
	}
	first, last := cfgs[0], cfgs[11]
	if first.Actuator.CoefficientStatic != 0.3 || first.Actuator.CoefficientKinetic != 0.2 || first.Waveform.SlewRate != 0 {
		t.Errorf("unexpected first point %+v", first.Actuator)
	}
	if last.Actuator.CoefficientStatic != 0.5 || last.Actuator.CoefficientKinetic != 0.6 || last.Waveform.SlewRate != 1e8 {
		t.Errorf("unexpected last point %+v", last.Actuator)
	}
	if cfgs[1].Waveform.SlewRate != 1e7 {
		t.Errorf("slew rate should vary fastest, got %g", cfgs[1].Waveform.SlewRate)
	}
}

func TestGridEmptyAxisKeepsBase(t *testing.T) {
	base := baseConfig()
	cfgs := Grid{Kinetic: []float64{0.1}}.Expand(base)
	if len(cfgs) != 1 {
		t.Fatalf("expected 1 config, got %d", len(cfgs))
	}
	if cfgs[0].Actuator.CoefficientStatic != base.Actuator.CoefficientStatic {
		t.Error("empty static axis should keep the base coefficient")
	}
}

func TestGridValidate(t *testing.T) {
	if err := (Grid{Static: []float64{-0.1}}).Validate(); err == nil {
		t.Error("expected error for negative coefficient")
	}
	if err := (Grid{SlewRates: []float64{-1}}).Validate(); err == nil {
		t.Error("expected error for negative slew rate")
	}
}

func TestLoadGrid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.yaml")
	data := []byte("static: [0.4, 0.5]\nkinetic: [0.3]\nslew_rates: [0, 5e6]\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	grid, err := LoadGrid(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if grid.Size() != 4 || grid.SlewRates[1] != 5e6 {
		t.Errorf("unexpected grid %+v", grid)
	}
}

func TestRunOrdered(t *testing.T) {
	grid := Grid{Static: []float64{0.3, 0.4, 0.5}, Kinetic: []float64{0.2, 0.7}}

	points, err := RunWithOptions(context.Background(), baseConfig(), grid, nil, Options{Workers: 2})
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(points) != 6 {
		t.Fatalf("expected 6 points, got %d", len(points))
	}
	for i, p := range points {
		if p.Index != i {
			t.Errorf("point %d has index %d", i, p.Index)
		}
		if p.Crashed {
			t.Errorf("point %d crashed: %s", i, p.Error)
		}
	}
	if points[1].CoefficientStatic != 0.3 || points[1].CoefficientKinetic != 0.7 {
		t.Errorf("unexpected point 1: %+v", points[1])
	}

	again, err := Run(context.Background(), baseConfig(), grid, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := range points {
		if points[i].Final != again[i].Final {
			t.Errorf("point %d not deterministic", i)
		}
	}
}

func TestRunCrashed(t *testing.T) {
	base := baseConfig()
	base.Actuator.GravityAcceleration = -9.81
	base.Run.PositionLimit = 1e-9

	points, err := Run(context.Background(), base, Grid{Static: []float64{0}, Kinetic: []float64{0}}, nil)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if !points[0].Crashed {
		t.Error("expected frictionless falling slider to crash")
	}

	sum := Summarize(points)
	if sum.Crashed != 1 || sum.Best != -1 {
		t.Errorf("unexpected summary %+v", sum)
	}
}

func TestRunBuildError(t *testing.T) {
	errBuild := errors.New("no engine")
	build := func(config.Config) (*sim.Simulator, error) { return nil, errBuild }

	_, err := Run(context.Background(), baseConfig(), Grid{Static: []float64{0.5}}, build)
	if !errors.Is(err, errBuild) {
		t.Errorf("expected build error, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	points := []Point{
		{Index: 0, NetDisplacement: 1e-9},
		{Index: 1, NetDisplacement: 3e-9},
		{Index: 2, NetDisplacement: 9e-9, Crashed: true},
	}

	sum := Summarize(points)
	if sum.Points != 3 || sum.Crashed != 1 {
		t.Errorf("unexpected counts %+v", sum)
	}
	if sum.Best != 1 {
		t.Errorf("expected best point 1, got %d", sum.Best)
	}
	if diff := sum.MeanDisplacement - 2e-9; diff > 1e-18 || diff < -1e-18 {
		t.Errorf("expected mean 2nm, got %g", sum.MeanDisplacement)
	}
	if sum.StdDisplacement <= 0 {
		t.Errorf("expected positive spread, got %g", sum.StdDisplacement)
	}
}
