package config

import (
	"sort"

	"github.com/san-kum/bhsim/internal/dynamo"
)

var Presets = map[string]*Config{
	"galaxy": {
		Generator: "galaxy", Particles: 10000, Seed: 1, Steps: 2000,
		Dt: 0.00005, G: 10, Theta: 0.6, Damping: 1,
		Bounds:   dynamo.Rect{W: 800, H: 600},
		MaxDepth: dynamo.DefaultMaxDepth, Workers: 1, Trace: -1, ValidateState: true,
	},
	"galaxy-small": {
		Generator: "galaxy", Particles: 1000, Seed: 1, Steps: 1000,
		Dt: 0.00005, G: 10, Theta: 0.6, Damping: 1,
		Bounds:   dynamo.Rect{W: 800, H: 600},
		MaxDepth: dynamo.DefaultMaxDepth, Workers: 1, Trace: -1, ValidateState: true,
	},
	"twobody": {
		Generator: "twobody", Particles: 2, Seed: 1, Steps: 5000,
		Dt: 0.01, G: 1, Theta: 0, Damping: 0,
		Bounds:   dynamo.Rect{W: 800, H: 600},
		MaxDepth: dynamo.DefaultMaxDepth, Workers: 1, Trace: -1, ValidateState: true,
	},
	"rings": {
		Generator: "rings", Particles: 2000, Seed: 1, Steps: 2000,
		Dt: 0.0001, G: 10, Theta: 0.5, Damping: 1,
		Bounds:   dynamo.Rect{W: 800, H: 600},
		MaxDepth: dynamo.DefaultMaxDepth, Workers: 1, Trace: -1, ValidateState: true,
	},
	"uniform": {
		Generator: "uniform", Particles: 5000, Seed: 1, Steps: 500,
		Dt: 0.01, G: 10, Theta: 0.8, Damping: 1,
		Bounds:   dynamo.Rect{W: 1000, H: 1000},
		MaxDepth: dynamo.DefaultMaxDepth, Workers: 1, Trace: -1, ValidateState: true,
	},
	"collision": {
		Generator: "collision", Particles: 8000, Seed: 1, Steps: 3000,
		Dt: 0.00005, G: 10, Theta: 0.6, Damping: 1,
		Bounds:   dynamo.Rect{W: 800, H: 600},
		MaxDepth: dynamo.DefaultMaxDepth, Workers: 1, Trace: -1, ValidateState: true,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
