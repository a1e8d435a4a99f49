// Package state holds the dataset and the year selection, and is the only
// place allowed to change them. Every change is broadcast synchronously to
// the registered components in registration order.
package state

import (
	"io"
	"log/slog"

	"github.com/san-kum/trendscatter/internal/dataset"
)

// Component is a view that re-reads the store whenever it changes.
type Component interface {
	Update()
}

// Resizer is implemented by components that depend on the surface size.
type Resizer interface {
	Resize()
}

// Animator drives automatic year advancement.
type Animator interface {
	Start()
	Stop()
}

// Selection is the mutable part of the application state.
type Selection struct {
	Year      int
	Animating bool
}

// Store holds the current year, play state and year label, and notifies
// subscribers after every change.
type Store struct {
	minYear, maxYear int

	years       YearRange
	records     []dataset.Record
	sel         Selection
	initialized bool

	components []Component
	animator   Animator
	log        *slog.Logger
}

// New creates an empty store for the configured year bounds. A nil logger
// discards diagnostics.
func New(minYear, maxYear int, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		minYear:    minYear,
		maxYear:    maxYear,
		components: make([]Component, 0),
		log:        logger.With(slog.String("component", "state")),
	}
}

func (s *Store) SetAnimator(a Animator)        { s.animator = a }
func (s *Store) RegisterComponent(c Component) { s.components = append(s.components, c) }
func (s *Store) Initialized() bool             { return s.initialized }
func (s *Store) Selection() Selection          { return s.sel }
func (s *Store) Years() YearRange              { return s.years }
func (s *Store) Records() []dataset.Record     { return s.records }
func (s *Store) Components() []Component       { return s.components }

// Initialize seeds the store with the full dataset and selects the first year.
// It must be called exactly once.
func (s *Store) Initialize(records []dataset.Record) error {
	if s.initialized {
		s.log.Error("initialize called twice")
		return ErrDoubleInit
	}
	if len(records) == 0 {
		return ErrNoData
	}
	years, err := NewYearRange(s.minYear, s.maxYear)
	if err != nil {
		return err
	}

	s.records = records
	s.years = years
	s.sel = Selection{Year: years.Min(), Animating: false}
	s.initialized = true

	s.log.Debug("initialized",
		slog.Int("records", len(records)),
		slog.Int("min_year", years.Min()),
		slog.Int("max_year", years.Max()))
	return nil
}

// SetYear selects year and notifies every component. Years outside the range
// are rejected and leave the state untouched.
func (s *Store) SetYear(year int) error {
	if !s.initialized {
		return ErrNotInitialized
	}
	if !s.years.Contains(year) {
		err := &InvalidYearError{Year: year, Range: s.years}
		s.log.Warn("rejected year", slog.Int("year", year), slog.String("error", err.Error()))
		return err
	}
	s.sel.Year = year
	s.update()
	return nil
}

// IncrementYear advances to the next year, wrapping from max back to min.
func (s *Store) IncrementYear() error {
	if !s.initialized {
		return ErrNotInitialized
	}
	return s.SetYear(s.years.Next(s.sel.Year))
}

// ToggleAnimation flips between playing and paused, starting or stopping the
// animator, and broadcasts even though the year did not change.
func (s *Store) ToggleAnimation() error {
	if !s.initialized {
		return ErrNotInitialized
	}
	if s.animator == nil {
		return ErrNoAnimator
	}
	if s.sel.Animating {
		s.animator.Stop()
		s.sel.Animating = false
	} else {
		s.animator.Start()
		s.sel.Animating = true
	}
	s.log.Debug("animation toggled", slog.Bool("animating", s.sel.Animating))
	s.update()
	return nil
}

// Resize forwards to every component that cares about surface size.
func (s *Store) Resize() {
	for _, c := range s.components {
		if r, ok := c.(Resizer); ok {
			r.Resize()
		}
	}
}

func (s *Store) update() {
	for _, c := range s.components {
		c.Update()
	}
}
