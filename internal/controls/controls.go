// Package controls keeps the year label and play/pause indicator in step
// with the store, and maps the keyboard onto store actions.
package controls

import (
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/san-kum/trendscatter/internal/schedule"
	"github.com/san-kum/trendscatter/internal/state"
)

// View is the part of the store the controls read.
type View interface {
	Selection() state.Selection
}

// Toggler starts and stops the animation.
type Toggler interface {
	ToggleAnimation() error
}

// ToggleKey is the only key the chart itself responds to.
var ToggleKey = key.NewBinding(
	key.WithKeys(" ", "space"),
	key.WithHelp("space", "play/pause"),
)

// HandleKey toggles the animation on the toggle key and reports whether the
// key was consumed. Every other key is ignored.
func HandleKey(k string, t Toggler) (bool, error) {
	if !slices.Contains(ToggleKey.Keys(), k) {
		return false, nil
	}
	return true, t.ToggleAnimation()
}

// Controls is a store component. The year label changes half an animation
// interval after each broadcast so it flips at the midpoint of the point
// transition; the indicator changes immediately.
type Controls struct {
	view     View
	clock    schedule.Clock
	dispatch schedule.Dispatcher
	delay    time.Duration

	label    string
	playing  bool
	pending  schedule.Timer
	gen      int
	onChange func()
}

func New(view View, interval time.Duration, clock schedule.Clock, dispatch schedule.Dispatcher) *Controls {
	if clock == nil {
		clock = schedule.RealClock{}
	}
	if dispatch == nil {
		dispatch = schedule.Direct
	}
	return &Controls{
		view:     view,
		clock:    clock,
		dispatch: dispatch,
		delay:    interval / 2,
	}
}

// OnChange registers a callback run whenever the label or indicator changes.
func (c *Controls) OnChange(f func()) { c.onChange = f }

// Setup shows the current year without delay.
func (c *Controls) Setup() {
	c.label = strconv.Itoa(c.view.Selection().Year)
	c.Update()
}

func (c *Controls) Update() {
	sel := c.view.Selection()
	c.playing = sel.Animating

	if c.pending != nil {
		c.pending.Stop()
	}
	c.gen++
	gen := c.gen
	text := strconv.Itoa(sel.Year)
	c.pending = c.clock.AfterFunc(c.delay, func() {
		c.dispatch(func() { c.applyLabel(gen, text) })
	})
	c.changed()
}

func (c *Controls) applyLabel(gen int, text string) {
	if gen != c.gen {
		return
	}
	c.pending = nil
	c.label = text
	c.changed()
}

func (c *Controls) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

func (c *Controls) Label() string        { return c.label }
func (c *Controls) Playing() bool        { return c.playing }
func (c *Controls) Delay() time.Duration { return c.delay }

// Indicator names the state of the play button.
func (c *Controls) Indicator() string {
	if c.playing {
		return "playing"
	}
	return "paused"
}
