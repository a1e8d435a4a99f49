package automation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/trendscatter/internal/dataset"
	"github.com/san-kum/trendscatter/internal/engine"
	"github.com/san-kum/trendscatter/internal/render"
	"github.com/san-kum/trendscatter/internal/schedule"
	"github.com/san-kum/trendscatter/internal/state"
)

func newEngine(t *testing.T) (*engine.Engine, *schedule.FakeClock) {
	t.Helper()
	clock := schedule.NewFakeClock(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	e := engine.New(engine.Config{
		MinYear:  1950,
		MaxYear:  1952,
		Interval: 750 * time.Millisecond,
		Layout:   render.Layout{Width: 555, Height: 355, RadiusMax: 60},
		Clock:    clock,
	})
	records := []dataset.Record{
		{Entity: "X", Year: 1950, X: 1, Y: 40, Size: 100, Category: "Asia"},
		{Entity: "Y", Year: 1950, X: 2, Y: 50, Size: 400, Category: "Europe"},
		{Entity: "X", Year: 1951, X: 3, Y: 45, Size: 200, Category: "Asia"},
		{Entity: "Y", Year: 1951, X: 4, Y: 55, Size: 500, Category: "Europe"},
		{Entity: "Z", Year: 1951, X: 5, Y: 60, Size: 900, Category: "Africa"},
		{Entity: "X", Year: 1952, X: 6, Y: 70, Size: 300, Category: "Asia"},
		{Entity: "Y", Year: 1952, X: 7, Y: 80, Size: 600, Category: "Europe"},
	}
	if err := e.Initialize(records); err != nil {
		t.Fatal(err)
	}
	return e, clock
}

const playScript = `
name: play through
steps:
  - action: toggle
    expect: {playing: true, year: 1950, label: "1950"}
  - action: wait
    wait_ms: 750
    expect: {year: 1951, label: "1950", visible: 3}
  - action: wait
    wait_ms: 375
    expect: {label: "1951"}
  - action: wait
    wait_ms: 1125
    expect: {year: 1950, visible: 2}
  - action: toggle
    expect: {playing: false}
  - action: set_year
    year: 2000
    expect: {error: true, year: 1950}
  - action: step
    expect: {year: 1951}
`

func TestRunScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(playScript))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if sc.Name != "play through" || len(sc.Steps) != 7 {
		t.Fatalf("unexpected scenario %+v", sc)
	}

	e, clock := newEngine(t)
	seen := 0
	err = RunScenario(e, clock, sc, func(n int, _ Step, _ engine.Frame) { seen = n })
	if err != nil {
		t.Fatalf("scenario failed: %v", err)
	}
	if seen != 7 {
		t.Errorf("observed %d steps, want 7", seen)
	}
}

func TestRunScenario_FailedExpectation(t *testing.T) {
	sc, err := ParseScenario([]byte(`
steps:
  - action: step
    expect: {year: 1952}
`))
	if err != nil {
		t.Fatal(err)
	}
	e, clock := newEngine(t)
	err = RunScenario(e, clock, sc, nil)

	var exp *ExpectationError
	if !errors.As(err, &exp) {
		t.Fatalf("expected ExpectationError, got %v", err)
	}
	if exp.Step != 1 || exp.Field != "year" || exp.Got != 1951 {
		t.Errorf("unexpected failure %+v", exp)
	}
}

func TestRunScenario_UnexpectedError(t *testing.T) {
	sc := &Scenario{Steps: []Step{{Action: ActionSetYear, Year: 1900}}}
	e, clock := newEngine(t)
	err := RunScenario(e, clock, sc, nil)
	if !errors.Is(err, state.ErrInvalidYear) {
		t.Errorf("expected ErrInvalidYear, got %v", err)
	}
}

func TestRunScenario_MissingError(t *testing.T) {
	sc := &Scenario{Steps: []Step{{Action: ActionStep, Expect: &Expect{Error: true}}}}
	e, clock := newEngine(t)
	var exp *ExpectationError
	if err := RunScenario(e, clock, sc, nil); !errors.As(err, &exp) || exp.Field != "error" {
		t.Errorf("expected error expectation failure, got %v", err)
	}
}

func TestParseScenario_UnknownAction(t *testing.T) {
	_, err := ParseScenario([]byte("steps:\n  - action: jump\n"))
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	if err := os.WriteFile(path, []byte(playScript), 0644); err != nil {
		t.Fatal(err)
	}
	sc, err := LoadScenario(path)
	if err != nil || len(sc.Steps) != 7 {
		t.Errorf("load = %v, %v", sc, err)
	}
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
