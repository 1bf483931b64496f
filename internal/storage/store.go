package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/piezosim/internal/actuator"
	"github.com/san-kum/piezosim/internal/config"
	"github.com/san-kum/piezosim/internal/sim"
	"github.com/san-kum/piezosim/internal/waveform"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

var traceHeader = []string{
	"step", "time", "voltage",
	"piezo_position", "piezo_velocity",
	"slider_position", "slider_velocity",
	"mode",
}

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Run        config.RunConfig   `json:"run"`
	StepsTaken int                `json:"steps_taken"`
	Params     actuator.Params    `json:"params"`
	Waveform   waveform.Spec      `json:"waveform"`
	Metrics    map[string]float64 `json:"metrics"`
	Saturated  bool               `json:"saturated"`
	Final      actuator.State     `json:"final"`
}

// Save writes a run directory named <name>_<unixnano> holding the metadata
// and the recorded samples.
func (s *Store) Save(cfg config.Config, result *sim.Result) (string, error) {
	now := s.now()
	runID := fmt.Sprintf("%s_%d", cfg.Name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Name:       cfg.Name,
		Timestamp:  now,
		Run:        cfg.Run,
		StepsTaken: result.StepsTaken,
		Params:     cfg.Actuator,
		Waveform:   cfg.Waveform,
		Metrics:    result.Metrics,
		Saturated:  result.Saturated,
		Final:      result.Final.State,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, traceFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteTrace(csvFile, result.Samples); err != nil {
		return "", err
	}
	return runID, csvFile.Sync()
}

// WriteTrace writes samples as CSV with a header row. Floats use the shortest
// exact representation so a trace reads back bit for bit.
func WriteTrace(out io.Writer, samples []sim.Sample) error {
	w := csv.NewWriter(out)
	if err := w.Write(traceHeader); err != nil {
		return err
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, sample := range samples {
		st := sample.State
		row := []string{
			strconv.Itoa(sample.Step),
			format(sample.Time),
			format(st.ControlVoltage),
			format(st.PiezoPosition),
			format(st.PiezoVelocity),
			format(st.SliderPosition),
			format(st.SliderVelocity),
			sample.Mode.String(),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// ReadTrace parses the output of WriteTrace.
func ReadTrace(in io.Reader) ([]sim.Sample, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = len(traceHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		line := i + 2
		step, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("storage: line %d: step: %w", line, err)
		}

		values := make([]float64, 6)
		for j := range values {
			values[j], err = strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("storage: line %d: %s: %w", line, traceHeader[j+1], err)
			}
		}

		mode, ok := actuator.ParseMode(record[7])
		if !ok {
			return nil, fmt.Errorf("storage: line %d: unknown mode %q", line, record[7])
		}

		samples = append(samples, sim.Sample{
			Step: step,
			Time: values[0],
			State: actuator.State{
				ControlVoltage: values[1],
				PiezoPosition:  values[2],
				PiezoVelocity:  values[3],
				SliderPosition: values[4],
				SliderVelocity: values[5],
			},
			Mode: mode,
		})
	}
	return samples, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadTrace(runID string) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	return ReadTrace(file)
}

// Config rebuilds the config a stored run was made with.
func (m *RunMetadata) Config() config.Config {
	return config.Config{
		Name:     m.Name,
		Actuator: m.Params,
		Waveform: m.Waveform,
		Run:      m.Run,
	}
}
