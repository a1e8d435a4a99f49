package state

// YearRange is the inclusive, ordered set of selectable years.
type YearRange struct {
	min, max int
}

func NewYearRange(min, max int) (YearRange, error) {
	if min > max {
		return YearRange{}, ErrInvalidRange
	}
	return YearRange{min: min, max: max}, nil
}

func (r YearRange) Min() int { return r.min }
func (r YearRange) Max() int { return r.max }
func (r YearRange) Len() int { return r.max - r.min + 1 }

func (r YearRange) Contains(year int) bool {
	return year >= r.min && year <= r.max
}

// Index returns the position of year in the range, or -1.
func (r YearRange) Index(year int) int {
	if !r.Contains(year) {
		return -1
	}
	return year - r.min
}

// Next returns the cyclic successor of year: max wraps to min.
func (r YearRange) Next(year int) int {
	idx := r.Index(year)
	return r.min + (idx+1)%r.Len()
}

func (r YearRange) Years() []int {
	years := make([]int, 0, r.Len())
	for y := r.min; y <= r.max; y++ {
		years = append(years, y)
	}
	return years
}
