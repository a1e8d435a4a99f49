package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

// Store keeps rendered runs under a base directory, one directory per run
// holding metadata.json, points.csv and one SVG per year.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	Timestamp  time.Time `json:"timestamp"`
	MinYear    int       `json:"min_year"`
	MaxYear    int       `json:"max_year"`
	IntervalMS int       `json:"animation_interval_ms"`
	Theme      string    `json:"theme"`
	Files      []string  `json:"files"`
}

// Rendered is one year of a run.
type Rendered struct {
	Frame FrameData
	SVG   string
}

// Save writes a new run named after its source and returns its ID.
func (s *Store) Save(meta RunMetadata, frames []Rendered) (string, error) {
	name := filepath.Base(meta.Source)
	name = name[:len(name)-len(filepath.Ext(name))]
	if name == "" || name == "." {
		name = "run"
	}
	meta.ID = fmt.Sprintf("%s_%d", name, time.Now().UnixNano())
	meta.Timestamp = time.Now()
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.Files = meta.Files[:0]
	for _, f := range frames {
		file := fmt.Sprintf("%d.svg", f.Frame.Year)
		if err := os.WriteFile(filepath.Join(runDir, file), []byte(f.SVG), 0644); err != nil {
			return "", err
		}
		meta.Files = append(meta.Files, file)
	}

	if err := writePoints(filepath.Join(runDir, "points.csv"), frames); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writePoints(path string, frames []Rendered) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"year", "entity", "category", "cx", "cy", "r"}); err != nil {
		return err
	}
	for _, f := range frames {
		for _, p := range f.Frame.Points {
			row := []string{
				strconv.Itoa(f.Frame.Year),
				p.Entity,
				p.Category,
				strconv.FormatFloat(p.CX, 'f', 3, 64),
				strconv.FormatFloat(p.CY, 'f', 3, 64),
				strconv.FormatFloat(p.R, 'f', 3, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadPoints reads a run's points back, grouped by year in file order.
func (s *Store) LoadPoints(runID string) (map[int][]Point, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "points.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}

	out := make(map[int][]Point)
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) != 6 {
			return nil, fmt.Errorf("points.csv line %d: expected 6 fields, got %d", i+1, len(row))
		}
		year, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("points.csv line %d: %w", i+1, err)
		}
		var vals [3]float64
		for j := range vals {
			if vals[j], err = strconv.ParseFloat(row[3+j], 64); err != nil {
				return nil, fmt.Errorf("points.csv line %d: %w", i+1, err)
			}
		}
		out[year] = append(out[year], Point{
			Entity: row[1], Category: row[2],
			CX: vals[0], CY: vals[1], R: vals[2],
		})
	}
	return out, nil
}
