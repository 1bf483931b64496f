package config

import (
	"fmt"
	"os"

	"github.com/san-kum/piezosim/internal/actuator"
	"github.com/san-kum/piezosim/internal/sim"
	"github.com/san-kum/piezosim/internal/waveform"
	"gopkg.in/yaml.v3"
)

const (
	DefaultName          = "reference"
	DefaultDt            = 1e-6
	DefaultSteps         = 1000
	DefaultRecordEvery   = 1
	DefaultPositionLimit = 1e-3
)

type RunConfig struct {
	Dt            float64 `yaml:"dt" json:"dt"`
	Steps         int     `yaml:"steps" json:"steps"`
	RecordEvery   int     `yaml:"record_every" json:"record_every"`
	PositionLimit float64 `yaml:"position_limit" json:"position_limit"`
}

func (r RunConfig) Sim() sim.Config {
	return sim.Config{
		Dt:            r.Dt,
		Steps:         r.Steps,
		RecordEvery:   r.RecordEvery,
		PositionLimit: r.PositionLimit,
	}
}

// Duration is the simulated time span in seconds.
func (r RunConfig) Duration() float64 {
	return r.Dt * float64(r.Steps)
}

type Config struct {
	Name     string          `yaml:"name" json:"name"`
	Actuator actuator.Params `yaml:"actuator" json:"actuator"`
	Waveform waveform.Spec   `yaml:"waveform" json:"waveform"`
	Run      RunConfig       `yaml:"run" json:"run"`
}

// DefaultConfig is the reference scenario: default actuator, the reference
// ramp and 1000 steps of 1us.
func DefaultConfig() *Config {
	return &Config{
		Name:     DefaultName,
		Actuator: actuator.DefaultParams(),
		Waveform: waveform.ReferenceSpec(),
		Run: RunConfig{
			Dt:            DefaultDt,
			Steps:         DefaultSteps,
			RecordEvery:   DefaultRecordEvery,
			PositionLimit: DefaultPositionLimit,
		},
	}
}

// Load reads a YAML file over the defaults, so a file only needs the keys it
// changes.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.LoadFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path onto c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Actuator.Validate(); err != nil {
		return fmt.Errorf("config: actuator: %w", err)
	}
	if _, err := c.Waveform.Build(); err != nil {
		return fmt.Errorf("config: waveform: %w", err)
	}
	if err := c.Run.Sim().Validate(); err != nil {
		return fmt.Errorf("config: run: %w", err)
	}
	return nil
}
