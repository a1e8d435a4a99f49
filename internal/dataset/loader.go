package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// LoadResult is the outcome of a best-effort load: the rows that parsed and a
// diagnostic for every row that did not.
type LoadResult struct {
	Records  []Record
	Problems []error
}

// Load reads a CSV dataset from path.
func Load(path string, cols Columns) (*LoadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file, cols)
}

// Read parses CSV rows into records. The first row must be a header naming
// every column in cols; extra columns are ignored.
func Read(r io.Reader, cols Columns) (*LoadResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("dataset: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("dataset: read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	pos := make([]int, 0, 6)
	for _, name := range cols.names() {
		i, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("dataset: missing column %q", name)
		}
		pos = append(pos, i)
	}

	result := &LoadResult{Records: make([]Record, 0, 1024)}
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Problems = append(result.Problems, &DataIntegrityError{Line: line, Reason: err.Error()})
			continue
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}

		rec, perr := parseRow(row, pos)
		if perr != "" {
			result.Problems = append(result.Problems, &DataIntegrityError{Entity: rec.Entity, Year: rec.Year, Line: line, Reason: perr})
			continue
		}
		result.Records = append(result.Records, rec)
	}

	return result, nil
}

func parseRow(row []string, pos []int) (Record, string) {
	field := func(i int) (string, bool) {
		if pos[i] >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[pos[i]]), true
	}

	var rec Record
	var ok bool
	if rec.Entity, ok = field(0); !ok || rec.Entity == "" {
		return rec, "missing entity"
	}

	yearStr, ok := field(1)
	if !ok {
		return rec, "missing year"
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return rec, fmt.Sprintf("invalid year %q", yearStr)
	}
	rec.Year = year

	nums := []*float64{&rec.X, &rec.Y, &rec.Size}
	for i, dst := range nums {
		s, ok := field(i + 2)
		if !ok || s == "" {
			return rec, "missing numeric field"
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return rec, fmt.Sprintf("invalid number %q", s)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return rec, fmt.Sprintf("non-finite number %q", s)
		}
		*dst = v
	}

	rec.Category, _ = field(5)
	return rec, ""
}

// WriteCSV writes records with a header using the given column names.
func WriteCSV(w io.Writer, records []Record, cols Columns) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cols.names()); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Entity,
			strconv.Itoa(r.Year),
			strconv.FormatFloat(r.X, 'f', -1, 64),
			strconv.FormatFloat(r.Y, 'f', -1, 64),
			strconv.FormatFloat(r.Size, 'f', -1, 64),
			r.Category,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
