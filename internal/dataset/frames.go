package dataset

import (
	"strconv"

	gocache "github.com/patrickmn/go-cache"
)

// FrameCache memoizes the per-year filter over an immutable dataset.
type FrameCache struct {
	records []Record
	cache   *gocache.Cache
}

func NewFrameCache(records []Record) *FrameCache {
	return &FrameCache{
		records: records,
		cache:   gocache.New(gocache.NoExpiration, 0),
	}
}

// Frame returns the records for year. The returned slice is shared and must
// not be modified.
func (c *FrameCache) Frame(year int) []Record {
	key := strconv.Itoa(year)
	if v, found := c.cache.Get(key); found {
		return v.([]Record)
	}
	frame := FilterYear(c.records, year)
	c.cache.Set(key, frame, gocache.NoExpiration)
	return frame
}

// Len reports how many years are cached.
func (c *FrameCache) Len() int {
	return c.cache.ItemCount()
}
