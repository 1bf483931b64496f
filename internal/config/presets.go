package config

import (
	"sort"

	"github.com/san-kum/piezosim/internal/actuator"
	"github.com/san-kum/piezosim/internal/waveform"
)

var Presets = map[string]func() *Config{
	"reference": DefaultConfig,
	"sawtooth": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "sawtooth"
		cfg.Waveform = waveform.Spec{Kind: "sawtooth", Peak: 850, Period: 200e-6, Duty: 0.9, Blend: 0.25}
		cfg.Run.Steps = 2000
		cfg.Run.RecordEvery = 2
		return cfg
	},
	"frictionless": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "frictionless"
		cfg.Actuator.CoefficientStatic = 0
		cfg.Actuator.CoefficientKinetic = 0
		return cfg
	},
	"gravity": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "gravity"
		cfg.Actuator.GravityAcceleration = -9.81
		cfg.Actuator.Gravity = actuator.GravityIndependent
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
