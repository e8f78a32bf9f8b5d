package config

import (
	"sort"

	"github.com/san-kum/burnsim/internal/motor"
)

func bates(length, outer, inner float64) motor.Spec {
	return motor.Spec{Kind: motor.KindCylindrical, Length: length, OuterDiameter: outer, InnerDiameter: inner, BurningEnds: 2}
}

func preset(name string, grains []motor.Spec, nozzle NozzleConfig, casing CaseConfig) *Config {
	cfg := DefaultConfig()
	cfg.Name = name
	cfg.Grains = grains
	cfg.Nozzle = nozzle
	cfg.Case = casing
	return cfg
}

var Presets = map[string]map[string]*Config{
	"bates": {
		"single": preset("bates-single",
			[]motor.Spec{bates(4, 1.5, 0.5)},
			NozzleConfig{Throat: 0.25, Entrance: 1.0, Exit: 0.6, Cf: DefaultCf},
			CaseConfig{Mass: 0.5, Diameter: 1.75, Length: 6},
		),
		"triple": preset("bates-triple",
			[]motor.Spec{bates(3.5, 1.5, 0.625), bates(3.5, 1.5, 0.625), bates(3.5, 1.5, 0.625)},
			NozzleConfig{Throat: 0.39, Entrance: 1.0, Exit: 0.9, Cf: DefaultCf},
			CaseConfig{Mass: 1.1, Diameter: 1.75, Length: 11},
		),
		"54mm": preset("bates-54mm",
			[]motor.Spec{bates(3.25, 2.0, 0.75), bates(3.25, 2.0, 0.75)},
			NozzleConfig{Throat: 0.45, Entrance: 1.5, Exit: 1.1, Cf: DefaultCf},
			CaseConfig{Mass: 1.6, Diameter: 2.125, Length: 7},
		),
	},
	"core": {
		"long": preset("core-long",
			[]motor.Spec{{Kind: motor.KindCylindrical, Length: 8, OuterDiameter: 1.5, InnerDiameter: 0.5}},
			NozzleConfig{Throat: 0.3, Entrance: 1.0, Exit: 0.8, Cf: DefaultCf},
			CaseConfig{Mass: 0.8, Diameter: 1.75, Length: 9},
		),
		"end-inhibited": preset("core-end-inhibited",
			[]motor.Spec{{Kind: motor.KindCylindrical, Length: 5, OuterDiameter: 1.5, InnerDiameter: 0.5, BurningEnds: 1}},
			NozzleConfig{Throat: 0.26, Entrance: 1.0, Exit: 0.7, Cf: DefaultCf},
			CaseConfig{Mass: 0.6, Diameter: 1.75, Length: 6},
		),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(family, name string) *Config {
	familyPresets, ok := Presets[family]
	if !ok {
		return nil
	}
	cfg, ok := familyPresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(family string) []string {
	familyPresets, ok := Presets[family]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(familyPresets))
	for name := range familyPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListFamilies() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
