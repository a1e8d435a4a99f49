// Package engine wires the store, renderer, controls and scheduler into one
// chart that can be driven by a terminal UI or headless.
package engine

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/san-kum/trendscatter/internal/controls"
	"github.com/san-kum/trendscatter/internal/dataset"
	"github.com/san-kum/trendscatter/internal/render"
	"github.com/san-kum/trendscatter/internal/schedule"
	"github.com/san-kum/trendscatter/internal/state"
)

// Config configures an Engine.
type Config struct {
	MinYear  int
	MaxYear  int
	Interval time.Duration
	Layout   render.Layout

	// Clock and Dispatch default to wall time and direct calls.
	Clock    schedule.Clock
	Dispatch schedule.Dispatcher
	Logger   *slog.Logger
}

// Engine wires the store, renderer and scheduler for one dataset.
type Engine struct {
	Store     *state.Store
	Scheduler *schedule.Scheduler
	Scene     *render.Scene
	Renderer  *render.Renderer
	Controls  *controls.Controls
	Tooltip   *render.Tooltip
}

func New(cfg Config) *Engine {
	if cfg.Clock == nil {
		cfg.Clock = schedule.RealClock{}
	}
	if cfg.Dispatch == nil {
		cfg.Dispatch = schedule.Direct
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	store := state.New(cfg.MinYear, cfg.MaxYear, cfg.Logger)
	sched := schedule.New(store, cfg.Interval, cfg.Clock, cfg.Dispatch, cfg.Logger)
	store.SetAnimator(sched)

	scene := render.NewScene(cfg.Clock.Now)
	tooltip := &render.Tooltip{}

	return &Engine{
		Store:     store,
		Scheduler: sched,
		Scene:     scene,
		Renderer:  render.New(store, scene, tooltip, cfg.Layout, cfg.Interval, cfg.Logger),
		Controls:  controls.New(store, cfg.Interval, cfg.Clock, cfg.Dispatch),
		Tooltip:   tooltip,
	}
}

// Initialize seeds the store, sets up both components and registers them for
// broadcasts, renderer first.
func (e *Engine) Initialize(records []dataset.Record) error {
	if err := e.Store.Initialize(records); err != nil {
		return err
	}
	if err := e.Renderer.Setup(); err != nil {
		return fmt.Errorf("renderer setup: %w", err)
	}
	e.Controls.Setup()

	e.Store.RegisterComponent(e.Renderer)
	e.Store.RegisterComponent(e.Controls)
	return nil
}

// Frame is a rendered year: its settled elements and the controls state.
type Frame struct {
	Year    int
	Label   string
	Playing bool
	Items   []render.Item
	Stats   render.Stats
}

// Frame captures the scene at the current instant.
func (e *Engine) Frame() Frame {
	return Frame{
		Year:    e.Store.Selection().Year,
		Label:   e.Controls.Label(),
		Playing: e.Controls.Playing(),
		Items:   e.Scene.Snapshot(),
		Stats:   e.Renderer.Stats(),
	}
}

// Sweep selects each year in the range in order, stepping the scheduler, and
// calls fn with every element at its target position for that year.
func (e *Engine) Sweep(fn func(Frame) error) error {
	years := e.Store.Years()
	if err := e.Store.SetYear(years.Min()); err != nil {
		return err
	}
	for i := 0; i < years.Len(); i++ {
		if i > 0 {
			if err := e.Scheduler.Step(); err != nil {
				return err
			}
		}
		f := e.Frame()
		f.Label = strconv.Itoa(f.Year)
		f.Items = e.settled()
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) settled() []render.Item {
	items := e.Scene.Snapshot()
	for i := range items {
		if a, ok := e.Scene.Target(items[i].Key); ok {
			items[i].Attrs = a
		}
	}
	return items
}
