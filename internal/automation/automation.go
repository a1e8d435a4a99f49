// Package automation replays scripted interactions against a chart on a fake
// clock and checks what the chart shows after each step.
package automation

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/san-kum/trendscatter/internal/engine"
	"github.com/san-kum/trendscatter/internal/schedule"
	"gopkg.in/yaml.v3"
)

const (
	ActionToggle  = "toggle"
	ActionSetYear = "set_year"
	ActionStep    = "step"
	ActionWait    = "wait"
)

// Scenario defines a scripted sequence of interactions
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one interaction, optionally followed by checks.
type Step struct {
	Action string  `yaml:"action"`
	Year   int     `yaml:"year,omitempty"`
	WaitMS int     `yaml:"wait_ms,omitempty"`
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect holds the checks for a step. Nil fields are not checked.
type Expect struct {
	Year    *int    `yaml:"year"`
	Label   *string `yaml:"label"`
	Playing *bool   `yaml:"playing"`
	Visible *int    `yaml:"visible"`
	Error   bool    `yaml:"error"`
}

var ErrUnknownAction = errors.New("automation: unknown action")

// ExpectationError reports the first check that failed.
type ExpectationError struct {
	Step  int
	Field string
	Want  any
	Got   any
}

func (e *ExpectationError) Error() string {
	return fmt.Sprintf("step %d: %s = %v, want %v", e.Step, e.Field, e.Got, e.Want)
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	for i, s := range scenario.Steps {
		switch s.Action {
		case ActionToggle, ActionSetYear, ActionStep, ActionWait:
		default:
			return nil, fmt.Errorf("step %d: %w: %q", i+1, ErrUnknownAction, s.Action)
		}
	}
	return &scenario, nil
}

// RunScenario executes every step against eng, whose clock must be clock.
// observe, if set, sees the frame after each step.
func RunScenario(eng *engine.Engine, clock *schedule.FakeClock, sc *Scenario, observe func(int, Step, engine.Frame)) error {
	for i, step := range sc.Steps {
		n := i + 1
		var err error
		switch step.Action {
		case ActionToggle:
			err = eng.Store.ToggleAnimation()
		case ActionSetYear:
			err = eng.Store.SetYear(step.Year)
		case ActionStep:
			err = eng.Scheduler.Step()
		case ActionWait:
			clock.Advance(time.Duration(step.WaitMS) * time.Millisecond)
		}

		if step.Expect == nil || !step.Expect.Error {
			if err != nil {
				return fmt.Errorf("step %d %s: %w", n, step.Action, err)
			}
		} else if err == nil {
			return &ExpectationError{Step: n, Field: "error", Want: true, Got: false}
		}

		f := eng.Frame()
		if observe != nil {
			observe(n, step, f)
		}
		if err := check(n, step.Expect, f); err != nil {
			return err
		}
	}
	return nil
}

func check(n int, e *Expect, f engine.Frame) error {
	if e == nil {
		return nil
	}
	if e.Year != nil && *e.Year != f.Year {
		return &ExpectationError{Step: n, Field: "year", Want: *e.Year, Got: f.Year}
	}
	if e.Label != nil && *e.Label != f.Label {
		return &ExpectationError{Step: n, Field: "label", Want: *e.Label, Got: f.Label}
	}
	if e.Playing != nil && *e.Playing != f.Playing {
		return &ExpectationError{Step: n, Field: "playing", Want: *e.Playing, Got: f.Playing}
	}
	if e.Visible != nil && *e.Visible != len(f.Items) {
		return &ExpectationError{Step: n, Field: "visible", Want: *e.Visible, Got: len(f.Items)}
	}
	return nil
}
