package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/trendscatter/internal/dataset"
	"github.com/san-kum/trendscatter/internal/engine"
	"github.com/san-kum/trendscatter/internal/render"
	"github.com/san-kum/trendscatter/internal/schedule"
	"github.com/san-kum/trendscatter/internal/theme"
)

func sweep(t *testing.T) (*engine.Engine, []engine.Frame) {
	t.Helper()
	records := []dataset.Record{
		{Entity: "X", Year: 1950, X: 1, Y: 40, Size: 100, Category: "Asia"},
		{Entity: "Y", Year: 1950, X: 2, Y: 50, Size: 400, Category: "South America"},
		{Entity: "X", Year: 1951, X: 3, Y: 45, Size: 200, Category: "Asia"},
		{Entity: "Z", Year: 1951, X: 5, Y: 80, Size: 900, Category: "Africa & Co"},
	}
	e := engine.New(engine.Config{
		MinYear:  1950,
		MaxYear:  1951,
		Interval: 750 * time.Millisecond,
		Layout:   render.Layout{Width: 555, Height: 355, RadiusMax: 60},
		Clock:    schedule.NewFakeClock(time.Unix(0, 0)),
	})
	if err := e.Initialize(records); err != nil {
		t.Fatal(err)
	}
	var frames []engine.Frame
	if err := e.Sweep(func(f engine.Frame) error {
		frames = append(frames, f)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	return e, frames
}

func svgOptions() SVGOptions {
	return SVGOptions{
		Width: 555, Height: 355,
		Top: 15, Right: 15, Bottom: 30, Left: 30,
		Theme:      theme.Get("minimal"),
		Categories: []string{"Africa & Co", "Asia", "South America"},
	}
}

func TestFrameToSVG(t *testing.T) {
	e, frames := sweep(t)
	svg := FrameToSVG(frames[0], e.Scene.Axes(), svgOptions())

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(strings.TrimSpace(svg), "</svg>") {
		t.Fatal("expected a complete svg document")
	}
	if !strings.Contains(svg, `width="600"`) || !strings.Contains(svg, `height="400"`) {
		t.Error("expected outer size to include margins")
	}
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("expected 2 circles, got %d", got)
	}
	for _, want := range []string{
		`class="entity category-South-America"`,
		`<title>Y</title>`,
		`class="x axis"`,
		`class="y axis"`,
		`1950</text>`,
		`fill="#ffaa00"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %s", want)
		}
	}
}

func TestFrameToSVG_Escapes(t *testing.T) {
	e, frames := sweep(t)
	svg := FrameToSVG(frames[1], e.Scene.Axes(), svgOptions())
	if strings.Contains(svg, "Africa & Co") {
		t.Error("expected ampersand to be escaped")
	}
	if !strings.Contains(svg, "category-Africa-&amp;-Co") {
		t.Error("expected escaped class")
	}
}

func TestFrameToSVG_NoAxes(t *testing.T) {
	_, frames := sweep(t)
	svg := FrameToSVG(frames[0], nil, svgOptions())
	if strings.Contains(svg, "axis") {
		t.Error("expected no axes")
	}
}

func TestWriteJSON(t *testing.T) {
	_, frames := sweep(t)
	data := ExportData{Source: "test.csv", MinYear: 1950, MaxYear: 1951, IntervalMS: 750}
	for _, f := range frames {
		data.Frames = append(data.Frames, NewFrameData(f))
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, data); err != nil {
		t.Fatal(err)
	}
	var decoded ExportData
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.Frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(decoded.Frames))
	}
	second := decoded.Frames[1]
	if second.Year != 1951 || second.Entered != 1 || second.Exited != 1 || len(second.Points) != 2 {
		t.Errorf("unexpected second frame %+v", second)
	}
	if !strings.Contains(buf.String(), `"animation_interval_ms": 750`) {
		t.Error("expected snake_case keys")
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.json")
	if err := ExportJSON(path, ExportData{Source: "x"}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file: %v", err)
	}
}

func TestStoreSaveLoad(t *testing.T) {
	e, frames := sweep(t)
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	var rendered []Rendered
	for _, f := range frames {
		rendered = append(rendered, Rendered{
			Frame: NewFrameData(f),
			SVG:   FrameToSVG(f, e.Scene.Axes(), svgOptions()),
		})
	}
	runID, err := st.Save(RunMetadata{Source: "data/gapminder.csv", MinYear: 1950, MaxYear: 1951}, rendered)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "gapminder_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(meta.Files) != 2 || meta.Files[0] != "1950.svg" {
		t.Errorf("unexpected files %v", meta.Files)
	}
	if _, err := os.Stat(filepath.Join(st.baseDir, runID, "1951.svg")); err != nil {
		t.Errorf("svg missing: %v", err)
	}

	points, err := st.LoadPoints(runID)
	if err != nil {
		t.Fatalf("load points failed: %v", err)
	}
	if len(points[1950]) != 2 || len(points[1951]) != 2 {
		t.Errorf("unexpected points %v", points)
	}
	if points[1951][1].Entity != "Z" || points[1951][1].Category != "Africa & Co" {
		t.Errorf("unexpected point %+v", points[1951][1])
	}

	runs, err := st.List()
	if err != nil || len(runs) != 1 || runs[0].ID != runID {
		t.Errorf("list = %v, %v", runs, err)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nope"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}
