package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/san-kum/piezosim/internal/actuator"
	"github.com/san-kum/piezosim/internal/config"
	"github.com/san-kum/piezosim/internal/experiment"
	"github.com/san-kum/piezosim/internal/sim"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Builder turns one grid point into a simulator.
type Builder func(cfg config.Config) (*sim.Simulator, error)

type Point struct {
	Index              int            `json:"index"`
	Name               string         `json:"name"`
	CoefficientStatic  float64        `json:"coefficient_static"`
	CoefficientKinetic float64        `json:"coefficient_kinetic"`
	SlewRate           float64        `json:"slew_rate"`
	Final              actuator.State `json:"final"`
	NetDisplacement    float64        `json:"net_displacement"`
	KineticFraction    float64        `json:"kinetic_fraction"`
	SlipEvents         int            `json:"slip_events"`
	// Crashed marks a run that left the position limit or went unstable.
	Crashed bool   `json:"crashed"`
	Error   string `json:"error,omitempty"`
}

type Options struct {
	Workers int
	Logger  *slog.Logger
}

// Run simulates every grid point concurrently and returns the points in grid
// order. A crashed point is reported, not returned as an error; only build
// failures and cancellation abort the sweep.
func Run(ctx context.Context, base config.Config, grid Grid, build Builder) ([]Point, error) {
	return RunWithOptions(ctx, base, grid, build, Options{})
}

func RunWithOptions(ctx context.Context, base config.Config, grid Grid, build Builder, opts Options) ([]Point, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if build == nil {
		build = func(cfg config.Config) (*sim.Simulator, error) {
			return experiment.Build(cfg, logger)
		}
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	configs := grid.Expand(base)
	points := make([]Point, len(configs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, cfg := range configs {
		g.Go(func() error {
			s, err := build(cfg)
			if err != nil {
				return fmt.Errorf("sweep point %d (%s): %w", i, cfg.Name, err)
			}
			point := Point{
				Index:              i,
				Name:               cfg.Name,
				CoefficientStatic:  cfg.Actuator.CoefficientStatic,
				CoefficientKinetic: cfg.Actuator.CoefficientKinetic,
				SlewRate:           cfg.Waveform.SlewRate,
			}

			runCfg := cfg.Run.Sim()
			runCfg.RecordEvery = runCfg.Steps
			result, err := s.Run(ctx, runCfg)
			switch {
			case errors.Is(err, sim.ErrUnstable):
				point.Crashed = true
				point.Error = err.Error()
			case err != nil:
				return fmt.Errorf("sweep point %d (%s): %w", i, cfg.Name, err)
			}
			if result != nil {
				point.Final = result.Final.State
				point.NetDisplacement = result.Final.State.SliderPosition
				point.Crashed = point.Crashed || result.Saturated
				if result.StepsTaken > 0 {
					point.KineticFraction = float64(result.KineticSteps) / float64(result.StepsTaken)
				}
				point.SlipEvents = int(result.Metrics["slip_events"])
			}

			logger.Debug("sweep point done", "index", i, "mu_s", point.CoefficientStatic,
				"mu_k", point.CoefficientKinetic, "slew", point.SlewRate, "crashed", point.Crashed)
			points[i] = point
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

type Summary struct {
	Points           int     `json:"points"`
	Crashed          int     `json:"crashed"`
	MeanDisplacement float64 `json:"mean_displacement"`
	StdDisplacement  float64 `json:"std_displacement"`
	// Best is the index of the point with the largest forward travel among
	// the ones that did not crash, or -1.
	Best int `json:"best"`
}

func Summarize(points []Point) Summary {
	sum := Summary{Points: len(points), Best: -1}

	travel := make([]float64, 0, len(points))
	index := make([]int, 0, len(points))
	for _, p := range points {
		if p.Crashed {
			sum.Crashed++
			continue
		}
		travel = append(travel, p.NetDisplacement)
		index = append(index, p.Index)
	}

	switch len(travel) {
	case 0:
		return sum
	case 1:
		sum.MeanDisplacement = travel[0]
	default:
		sum.MeanDisplacement, sum.StdDisplacement = stat.MeanStdDev(travel, nil)
	}
	sum.Best = index[floats.MaxIdx(travel)]
	return sum
}
