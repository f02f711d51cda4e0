package config

import (
	"fmt"
	"sort"
)

// Presets are ready-made setups mirroring the classic stable-fluids demos.
var Presets = map[string]*Config{
	"paint": {
		Width:                128,
		Height:               96,
		Viscosity:            0.0001,
		DiffusionRate:        0.0001,
		JacobiIterations:     20,
		ProjectionIterations: 40,
		MaxDt:                1.0 / 30.0,
		Boundary:             "no-slip",
		Scene:                "paint",
		Dt:                   1.0 / 60.0,
		Duration:             10,
	},
	"windtunnel": {
		Width:                160,
		Height:               80,
		Viscosity:            0,
		DiffusionRate:        0,
		JacobiIterations:     20,
		ProjectionIterations: 40,
		MaxDt:                1.0 / 30.0,
		Boundary:             "free-slip",
		Scene:                "windtunnel",
		Dt:                   1.0 / 60.0,
		Duration:             15,
	},
	"tank": {
		Width:                96,
		Height:               96,
		Viscosity:            0.0001,
		DiffusionRate:        0.00005,
		JacobiIterations:     20,
		ProjectionIterations: 60,
		MaxDt:                1.0 / 30.0,
		Gravity:              -9.81,
		Boundary:             "no-slip",
		Scene:                "tank",
		Dt:                   1.0 / 60.0,
		Duration:             12,
	},
	"hires": {
		Width:                256,
		Height:               192,
		Viscosity:            0.0001,
		DiffusionRate:        0.0001,
		JacobiIterations:     30,
		ProjectionIterations: 100,
		MaxDt:                1.0 / 30.0,
		Confinement:          2.0,
		Boundary:             "no-slip",
		Scene:                "paint",
		Dt:                   1.0 / 60.0,
		Duration:             10,
	},
}

// Preset returns a copy of a named preset so callers can tweak it freely.
func Preset(name string) (*Config, error) {
	p, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (have: %v)", name, PresetNames())
	}
	cp := *p
	return &cp, nil
}

func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
