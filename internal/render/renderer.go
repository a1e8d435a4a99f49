// Package render keeps a set of visual elements in sync with the records of
// the selected year.
//
// Each Update filters the dataset to the selected year, joins it against the
// live elements by entity, and applies the resulting creates, updates and
// removes to a Surface. Scales are fixed at Setup over the whole dataset, so
// only point positions move as the year changes.
package render

import (
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/san-kum/trendscatter/internal/dataset"
	"github.com/san-kum/trendscatter/internal/scale"
	"github.com/san-kum/trendscatter/internal/state"
)

var (
	ErrAlreadySetup = errors.New("render: setup already performed")
	ErrNoRecords    = errors.New("render: no records to scale")
)

// View is the read side of the state store.
type View interface {
	Selection() state.Selection
	Records() []dataset.Record
}

// Layout is the plot area in chart pixels.
type Layout struct {
	Width     float64
	Height    float64
	RadiusMax float64
}

// Scales maps record values to pixel positions and radii.
type Scales struct {
	X scale.Linear
	Y scale.Linear
	R scale.Sqrt
}

// Stats describes the most recent Update.
type Stats struct {
	Year    int
	Entered int
	Updated int
	Exited  int
}

// Renderer reconciles the scene against the records of the current year.
type Renderer struct {
	view       View
	surface    Surface
	tooltip    *Tooltip
	layout     Layout
	transition time.Duration

	frames *dataset.FrameCache
	scales Scales
	live   map[string]struct{}
	warned map[string]struct{}
	ready  bool
	stats  Stats
	log    *slog.Logger
}

// New creates a renderer drawing onto surface. Attribute changes animate over
// transition, normally the animation interval.
func New(view View, surface Surface, tooltip *Tooltip, layout Layout, transition time.Duration, logger *slog.Logger) *Renderer {
	if tooltip == nil {
		tooltip = &Tooltip{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Renderer{
		view:       view,
		surface:    surface,
		tooltip:    tooltip,
		layout:     layout,
		transition: transition,
		live:       make(map[string]struct{}),
		warned:     make(map[string]struct{}),
		log:        logger.With(slog.String("component", "renderer")),
	}
}

// Setup fixes the scale domains over the entire dataset, draws the axes once
// and renders the first frame.
func (r *Renderer) Setup() error {
	if r.ready {
		return ErrAlreadySetup
	}
	records := r.view.Records()
	if len(records) == 0 {
		return ErrNoRecords
	}

	r.frames = dataset.NewFrameCache(records)
	r.scales = Scales{
		R: scale.NewSqrt(
			[2]float64{0, dataset.Max(records, func(d dataset.Record) float64 { return d.Size })},
			[2]float64{0, r.layout.RadiusMax}),
		X: scale.NewLinear(
			[2]float64{0, dataset.Max(records, func(d dataset.Record) float64 { return d.X })},
			[2]float64{0, r.layout.Width}),
		Y: scale.NewLinear(
			[2]float64{0, dataset.Max(records, func(d dataset.Record) float64 { return d.Y })},
			[2]float64{r.layout.Height, 0}),
	}
	if ad, ok := r.surface.(AxisDrawer); ok {
		ad.DrawAxes(r.scales.X, r.scales.Y)
	}
	r.ready = true

	r.Update()
	return nil
}

// Update reconciles the surface with the selected year.
func (r *Renderer) Update() {
	if !r.ready {
		r.log.Warn("update before setup ignored")
		return
	}
	year := r.view.Selection().Year
	frame := r.frames.Frame(year)

	byKey := make(map[string]dataset.Record, len(frame))
	order := make([]string, 0, len(frame))
	for _, rec := range frame {
		if _, dup := byKey[rec.Entity]; dup {
			r.warnDuplicate(rec)
			continue
		}
		byKey[rec.Entity] = rec
		order = append(order, rec.Entity)
	}

	diff := Reconcile(r.live, order)

	for _, key := range diff.Create {
		rec := byKey[key]
		name := rec.Entity
		r.surface.Create(key, Style{
			Class:    className(rec.Category),
			Category: rec.Category,
			Label:    name,
		}, Hover{
			Enter: func() { r.tooltip.Set(name) },
			Leave: func() { r.tooltip.Clear() },
		})
		r.live[key] = struct{}{}
	}

	for _, key := range order {
		rec := byKey[key]
		r.surface.Set(key, Attrs{
			CX: r.scales.X.Apply(rec.X),
			CY: r.scales.Y.Apply(rec.Y),
			R:  r.scales.R.Apply(rec.Size),
		}, r.transition)
	}

	for _, key := range diff.Remove {
		r.surface.Remove(key)
		delete(r.live, key)
	}

	r.stats = Stats{
		Year:    year,
		Entered: len(diff.Create),
		Updated: len(diff.Update),
		Exited:  len(diff.Remove),
	}
}

func (r *Renderer) Scales() Scales    { return r.scales }
func (r *Renderer) Stats() Stats      { return r.stats }
func (r *Renderer) Tooltip() *Tooltip { return r.tooltip }
func (r *Renderer) Ready() bool       { return r.ready }

// Keys returns the live element keys, sorted.
func (r *Renderer) Keys() []string {
	keys := make([]string, 0, len(r.live))
	for k := range r.live {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r *Renderer) warnDuplicate(rec dataset.Record) {
	err := &dataset.DataIntegrityError{Entity: rec.Entity, Year: rec.Year, Reason: "duplicate record; keeping the first"}
	if _, ok := r.warned[err.Error()]; ok {
		return
	}
	r.warned[err.Error()] = struct{}{}
	r.log.Warn("data integrity", slog.String("entity", rec.Entity), slog.Int("year", rec.Year), slog.String("error", err.Error()))
}

func className(category string) string {
	return "entity category-" + strings.ReplaceAll(strings.TrimSpace(category), " ", "-")
}
