package render

import (
	"math"
	"sort"
	"time"

	"github.com/san-kum/trendscatter/internal/scale"
)

// Item is one element as it appears at a point in time.
type Item struct {
	Key   string
	Style Style
	Attrs Attrs
}

// Tick is one labelled axis mark, positioned in chart pixels.
type Tick struct {
	Value float64
	Pos   float64
	Label string
}

// Axes are drawn once and never updated.
type Axes struct {
	X, Y []Tick
}

type element struct {
	style    Style
	hover    Hover
	placed   bool
	from, to Attrs
	start    time.Time
	duration time.Duration
}

// Scene is a retained, in-memory Surface. Attribute changes interpolate from
// their value at the time of the change to the target over the transition.
type Scene struct {
	now       func() time.Time
	elements  map[string]*element
	hovered   string
	axes      *Axes
	axesDrawn int
	tickCount int
}

// NewScene uses now as its time source; nil means wall time.
func NewScene(now func() time.Time) *Scene {
	if now == nil {
		now = time.Now
	}
	return &Scene{
		now:       now,
		elements:  make(map[string]*element),
		tickCount: 5,
	}
}

func (s *Scene) Create(key string, style Style, hover Hover) {
	if e, ok := s.elements[key]; ok {
		e.style, e.hover = style, hover
		return
	}
	s.elements[key] = &element{style: style, hover: hover}
}

// Set moves an element toward a. A newly created element jumps straight to
// its first position; setting the current target again is a no-op.
func (s *Scene) Set(key string, a Attrs, transition time.Duration) {
	e, ok := s.elements[key]
	if !ok {
		return
	}
	now := s.now()
	if !e.placed {
		e.from, e.to, e.start, e.duration = a, a, now, 0
		e.placed = true
		return
	}
	if e.to == a {
		return
	}
	e.from = e.at(now)
	e.to = a
	e.start = now
	e.duration = transition
}

func (s *Scene) Remove(key string) {
	e, ok := s.elements[key]
	if !ok {
		return
	}
	delete(s.elements, key)
	if s.hovered == key {
		s.hovered = ""
		if e.hover.Leave != nil {
			e.hover.Leave()
		}
	}
}

func (s *Scene) Keys() []string {
	keys := make([]string, 0, len(s.elements))
	for k := range s.elements {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Scene) Len() int { return len(s.elements) }

// Attrs returns the interpolated attributes of key right now.
func (s *Scene) Attrs(key string) (Attrs, bool) {
	e, ok := s.elements[key]
	if !ok {
		return Attrs{}, false
	}
	return e.at(s.now()), true
}

// Target returns the attributes key is moving toward.
func (s *Scene) Target(key string) (Attrs, bool) {
	e, ok := s.elements[key]
	if !ok {
		return Attrs{}, false
	}
	return e.to, true
}

// Snapshot returns every placed element at the current time, sorted by key.
func (s *Scene) Snapshot() []Item {
	now := s.now()
	items := make([]Item, 0, len(s.elements))
	for k, e := range s.elements {
		if !e.placed {
			continue
		}
		items = append(items, Item{Key: k, Style: e.style, Attrs: e.at(now)})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })
	return items
}

// Animating reports whether any element is mid-transition.
func (s *Scene) Animating() bool {
	now := s.now()
	for _, e := range s.elements {
		if e.placed && e.duration > 0 && now.Sub(e.start) < e.duration {
			return true
		}
	}
	return false
}

// DrawAxes records tick marks for both scales.
func (s *Scene) DrawAxes(x, y scale.Scale) {
	s.axes = &Axes{X: ticks(x, s.tickCount), Y: ticks(y, s.tickCount)}
	s.axesDrawn++
}

func (s *Scene) Axes() *Axes    { return s.axes }
func (s *Scene) AxesDrawn() int { return s.axesDrawn }

// PointerMove hit-tests (x, y) in chart pixels and fires hover callbacks when
// the element under the pointer changes. Smaller circles sit on top.
func (s *Scene) PointerMove(x, y float64) {
	now := s.now()
	hit := ""
	best := math.Inf(1)
	for k, e := range s.elements {
		if !e.placed {
			continue
		}
		a := e.at(now)
		dx, dy := x-a.CX, y-a.CY
		if dx*dx+dy*dy <= a.R*a.R && a.R < best {
			hit, best = k, a.R
		}
	}
	s.hoverTo(hit)
}

// PointerLeave clears any hover.
func (s *Scene) PointerLeave() { s.hoverTo("") }

func (s *Scene) Hovered() string { return s.hovered }

func (s *Scene) hoverTo(key string) {
	if key == s.hovered {
		return
	}
	if prev, ok := s.elements[s.hovered]; ok && prev.hover.Leave != nil {
		prev.hover.Leave()
	}
	s.hovered = key
	if next, ok := s.elements[key]; ok && next.hover.Enter != nil {
		next.hover.Enter()
	}
}

func (e *element) at(now time.Time) Attrs {
	if e.duration <= 0 {
		return e.to
	}
	t := float64(now.Sub(e.start)) / float64(e.duration)
	if t >= 1 {
		return e.to
	}
	if t < 0 {
		t = 0
	}
	k := easeCubicInOut(t)
	return Attrs{
		CX: lerp(e.from.CX, e.to.CX, k),
		CY: lerp(e.from.CY, e.to.CY, k),
		R:  lerp(e.from.R, e.to.R, k),
	}
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func easeCubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}

func ticks(s scale.Scale, count int) []Tick {
	values := s.Ticks(count)
	out := make([]Tick, 0, len(values))
	for _, v := range values {
		out = append(out, Tick{Value: v, Pos: s.Apply(v), Label: scale.Format(v)})
	}
	return out
}
