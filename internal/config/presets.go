package config

import (
	"sort"

	"github.com/san-kum/trendscatter/internal/dataset"
)

// Presets are the sample datasets the sample command can generate.
var Presets = map[string]dataset.SynthOptions{
	"world": {
		Entities: 33, MinYear: DefaultMinYear, MaxYear: DefaultMaxYear, Seed: 1950, Sparse: 0.15,
	},
	"small": {
		Entities: 8, MinYear: DefaultMinYear, MaxYear: 1970, Seed: 7,
	},
	"sparse": {
		Entities: 20, MinYear: DefaultMinYear, MaxYear: DefaultMaxYear, Seed: 42, Sparse: 0.8,
	},
	"crowd": {
		Entities: 120, MinYear: DefaultMinYear, MaxYear: DefaultMaxYear, Seed: 2015, Sparse: 0.3,
	},
}

func GetPreset(name string) *dataset.SynthOptions {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return &p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
