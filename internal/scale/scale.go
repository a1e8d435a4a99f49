// Package scale maps data values onto pixel ranges.
package scale

import (
	"math"
	"strconv"
)

// Scale maps a continuous domain onto a continuous range.
type Scale interface {
	Apply(v float64) float64
	Domain() [2]float64
	Range() [2]float64
	Ticks(count int) []float64
}

// Linear is an affine map from domain to range. A degenerate domain maps
// every value to the middle of the range.
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

func NewLinear(domain, rng [2]float64) Linear {
	return Linear{d0: domain[0], d1: domain[1], r0: rng[0], r1: rng[1]}
}

func (s Linear) Apply(v float64) float64 {
	span := s.d1 - s.d0
	if span == 0 {
		return (s.r0 + s.r1) / 2
	}
	t := (v - s.d0) / span
	return s.r0 + t*(s.r1-s.r0)
}

// Invert maps a range value back into the domain.
func (s Linear) Invert(px float64) float64 {
	span := s.r1 - s.r0
	if span == 0 {
		return (s.d0 + s.d1) / 2
	}
	t := (px - s.r0) / span
	return s.d0 + t*(s.d1-s.d0)
}

func (s Linear) Domain() [2]float64 { return [2]float64{s.d0, s.d1} }
func (s Linear) Range() [2]float64  { return [2]float64{s.r0, s.r1} }

func (s Linear) Ticks(count int) []float64 {
	return Ticks(s.d0, s.d1, count)
}

// Sqrt applies a square root before the linear map, so that a value maps to a
// radius whose circle area is proportional to it.
type Sqrt struct {
	domain [2]float64
	inner  Linear
}

func NewSqrt(domain, rng [2]float64) Sqrt {
	return Sqrt{
		domain: domain,
		inner:  NewLinear([2]float64{sqrt(domain[0]), sqrt(domain[1])}, rng),
	}
}

func (s Sqrt) Apply(v float64) float64 { return s.inner.Apply(sqrt(v)) }
func (s Sqrt) Domain() [2]float64      { return s.domain }
func (s Sqrt) Range() [2]float64       { return s.inner.Range() }

func (s Sqrt) Ticks(count int) []float64 {
	return Ticks(s.domain[0], s.domain[1], count)
}

func sqrt(v float64) float64 {
	if v < 0 {
		return -math.Sqrt(-v)
	}
	return math.Sqrt(v)
}

// Ticks returns roughly count evenly spaced round values within [start, stop],
// using steps of 1, 2 or 5 times a power of ten.
func Ticks(start, stop float64, count int) []float64 {
	if count <= 0 || math.IsNaN(start) || math.IsNaN(stop) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}

	step, inv := tickStep(start, stop, count)
	var ticks []float64
	if inv > 0 {
		// Sub-unit steps divide by an integer to avoid accumulating error.
		lo := math.Ceil(start * inv)
		hi := math.Floor(stop * inv)
		for i := lo; i <= hi; i++ {
			ticks = append(ticks, i/inv)
		}
	} else {
		if step == 0 || math.IsInf(step, 0) {
			return nil
		}
		lo := math.Ceil(start / step)
		hi := math.Floor(stop / step)
		for i := lo; i <= hi; i++ {
			ticks = append(ticks, cleanFloat(i*step))
		}
	}
	if reverse {
		for i, j := 0, len(ticks)-1; i < j; i, j = i+1, j-1 {
			ticks[i], ticks[j] = ticks[j], ticks[i]
		}
	}
	return ticks
}

// tickStep returns the tick step, or for steps below one, the integer whose
// reciprocal is the step.
func tickStep(start, stop float64, count int) (step, inv float64) {
	raw := (stop - start) / float64(count)
	power := math.Floor(math.Log10(raw))
	factor := 1.0
	errRatio := raw / math.Pow(10, power)
	switch {
	case errRatio >= math.Sqrt(50):
		factor = 10
	case errRatio >= math.Sqrt(10):
		factor = 5
	case errRatio >= math.Sqrt(2):
		factor = 2
	}
	if power < 0 {
		return 0, math.Pow(10, -power) / factor
	}
	return factor * math.Pow(10, power), 0
}

func cleanFloat(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', 12, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// Format renders a tick value compactly, abbreviating thousands and millions.
func Format(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e9:
		return strconv.FormatFloat(v/1e9, 'f', -1, 64) + "G"
	case abs >= 1e6:
		return strconv.FormatFloat(v/1e6, 'f', -1, 64) + "M"
	case abs >= 1e4:
		return strconv.FormatFloat(v/1e3, 'f', -1, 64) + "k"
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}
