package dataset

import (
	"errors"
	"fmt"
)

// ErrDataIntegrity marks duplicate or malformed records.
var ErrDataIntegrity = errors.New("dataset: data integrity violation")

// DataIntegrityError describes one bad row or one duplicated (entity, year) pair.
// Line is the 1-based CSV line, or 0 when the problem was found after load.
type DataIntegrityError struct {
	Entity string
	Year   int
	Line   int
	Reason string
}

func (e *DataIntegrityError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("dataset: line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("dataset: %s/%d: %s", e.Entity, e.Year, e.Reason)
}

func (e *DataIntegrityError) Unwrap() error {
	return ErrDataIntegrity
}

// Validate reports every (entity, year) pair that appears more than once.
func Validate(records []Record) []error {
	type key struct {
		entity string
		year   int
	}
	seen := make(map[key]int, len(records))
	var problems []error
	for _, r := range records {
		k := key{r.Entity, r.Year}
		seen[k]++
		if seen[k] == 2 {
			problems = append(problems, &DataIntegrityError{
				Entity: r.Entity,
				Year:   r.Year,
				Reason: "duplicate record for entity and year",
			})
		}
	}
	return problems
}
