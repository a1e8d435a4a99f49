package dataset

import (
	"fmt"
	"math"
	"math/rand"
)

// SynthOptions controls the generated sample dataset.
type SynthOptions struct {
	Entities int     `yaml:"entities"`
	MinYear  int     `yaml:"min_year"`
	MaxYear  int     `yaml:"max_year"`
	Seed     int64   `yaml:"seed"`
	Sparse   float64 `yaml:"sparse"` // fraction of entities missing early or late years
}

var sampleNames = []string{
	"Argentina", "Australia", "Bangladesh", "Brazil", "Canada", "Chile", "China",
	"Egypt", "Ethiopia", "France", "Germany", "Ghana", "India", "Indonesia",
	"Iran", "Japan", "Kenya", "Mexico", "Morocco", "Nigeria", "Norway", "Pakistan",
	"Peru", "Philippines", "Russia", "South Africa", "Spain", "Sweden", "Thailand",
	"Turkey", "United Kingdom", "United States", "Vietnam",
}

var sampleContinents = []string{"Africa", "Americas", "Asia", "Europe", "Oceania"}

// Synthesize builds a deterministic dataset in which fertility falls, life
// expectancy rises and population grows, each entity along its own curve.
func Synthesize(opts SynthOptions) []Record {
	if opts.Entities <= 0 || opts.MaxYear < opts.MinYear {
		return nil
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	span := float64(opts.MaxYear - opts.MinYear + 1)

	records := make([]Record, 0, opts.Entities*int(span))
	for i := 0; i < opts.Entities; i++ {
		name := fmt.Sprintf("Entity %d", i+1)
		if i < len(sampleNames) {
			name = sampleNames[i]
		}
		continent := sampleContinents[rng.Intn(len(sampleContinents))]

		fert0 := 4 + rng.Float64()*4
		fert1 := 1.2 + rng.Float64()*2.5
		life0 := 30 + rng.Float64()*40
		life1 := math.Max(life0+5, 65+rng.Float64()*20)
		pop0 := 1e6 + rng.Float64()*5e8
		growth := 1.005 + rng.Float64()*0.025
		midpoint := 0.3 + rng.Float64()*0.5

		first, last := opts.MinYear, opts.MaxYear
		if rng.Float64() < opts.Sparse {
			cut := rng.Intn(int(span)/2 + 1)
			if rng.Intn(2) == 0 {
				first += cut
			} else {
				last -= cut
			}
		}

		for year := first; year <= last; year++ {
			t := float64(year-opts.MinYear) / span
			k := 1 / (1 + math.Exp(-10*(t-midpoint)))
			records = append(records, Record{
				Entity:   name,
				Year:     year,
				X:        round(fert0+(fert1-fert0)*k, 2),
				Y:        round(life0+(life1-life0)*k, 2),
				Size:     math.Round(pop0 * math.Pow(growth, float64(year-opts.MinYear))),
				Category: continent,
			})
		}
	}
	return records
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
