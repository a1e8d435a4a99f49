package dataset

import "sort"

// Record is one (entity, year) measurement. Records are never mutated after load.
type Record struct {
	Entity   string  `json:"entity"`
	Year     int     `json:"year"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Size     float64 `json:"size"`
	Category string  `json:"category"`
}

// Columns maps record fields to CSV header names.
type Columns struct {
	Entity   string `yaml:"entity" mapstructure:"entity"`
	Year     string `yaml:"year" mapstructure:"year"`
	X        string `yaml:"x" mapstructure:"x"`
	Y        string `yaml:"y" mapstructure:"y"`
	Size     string `yaml:"size" mapstructure:"size"`
	Category string `yaml:"category" mapstructure:"category"`
}

// DefaultColumns matches the layout of the gapminder-style data.csv.
func DefaultColumns() Columns {
	return Columns{
		Entity:   "country",
		Year:     "year",
		X:        "total_fertility",
		Y:        "life_expectancy",
		Size:     "population",
		Category: "continent",
	}
}

func (c Columns) names() []string {
	return []string{c.Entity, c.Year, c.X, c.Y, c.Size, c.Category}
}

// Max returns the largest value of field over records, or 0 for an empty slice.
func Max(records []Record, field func(Record) float64) float64 {
	max := 0.0
	for i, r := range records {
		v := field(r)
		if i == 0 || v > max {
			max = v
		}
	}
	return max
}

// FilterYear returns the records for one year in their original order.
func FilterYear(records []Record, year int) []Record {
	out := make([]Record, 0)
	for _, r := range records {
		if r.Year == year {
			out = append(out, r)
		}
	}
	return out
}

// Years returns the distinct years present in records, ascending.
func Years(records []Record) []int {
	seen := make(map[int]struct{})
	for _, r := range records {
		seen[r.Year] = struct{}{}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Entities returns the distinct entity names, sorted.
func Entities(records []Record) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		seen[r.Entity] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Categories returns the distinct categories, sorted.
func Categories(records []Record) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		seen[r.Category] = struct{}{}
	}
	cats := make([]string, 0, len(seen))
	for c := range seen {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}

// CountByYear returns how many records each year in [minYear, maxYear] has.
func CountByYear(records []Record, minYear, maxYear int) []float64 {
	if maxYear < minYear {
		return nil
	}
	counts := make([]float64, maxYear-minYear+1)
	for _, r := range records {
		if r.Year >= minYear && r.Year <= maxYear {
			counts[r.Year-minYear]++
		}
	}
	return counts
}
