package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/trendscatter/internal/engine"
)

type Point struct {
	Entity   string  `json:"entity"`
	Category string  `json:"category"`
	CX       float64 `json:"cx"`
	CY       float64 `json:"cy"`
	R        float64 `json:"r"`
}

type FrameData struct {
	Year    int     `json:"year"`
	Label   string  `json:"label"`
	Entered int     `json:"entered"`
	Updated int     `json:"updated"`
	Exited  int     `json:"exited"`
	Points  []Point `json:"points"`
}

type ExportData struct {
	Source     string      `json:"source"`
	MinYear    int         `json:"min_year"`
	MaxYear    int         `json:"max_year"`
	IntervalMS int         `json:"animation_interval_ms"`
	Frames     []FrameData `json:"frames"`
}

func NewFrameData(f engine.Frame) FrameData {
	points := make([]Point, len(f.Items))
	for i, it := range f.Items {
		points[i] = Point{
			Entity:   it.Key,
			Category: it.Style.Category,
			CX:       it.Attrs.CX,
			CY:       it.Attrs.CY,
			R:        it.Attrs.R,
		}
	}
	return FrameData{
		Year:    f.Year,
		Label:   f.Label,
		Entered: f.Stats.Entered,
		Updated: f.Stats.Updated,
		Exited:  f.Stats.Exited,
		Points:  points,
	}
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
