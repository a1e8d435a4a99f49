package render

import (
	"time"

	"github.com/san-kum/trendscatter/internal/scale"
)

// Attrs are the animated attributes of a visual element, in chart pixels.
type Attrs struct {
	CX, CY, R float64
}

// Style holds the static, per-entity attributes assigned on creation.
type Style struct {
	Class    string
	Category string
	Label    string
}

// Hover callbacks fire when the pointer enters or leaves an element.
type Hover struct {
	Enter func()
	Leave func()
}

// Surface is the rendering primitive layer: positioned, sized, styled
// elements keyed by identity.
type Surface interface {
	Create(key string, style Style, hover Hover)
	Set(key string, a Attrs, transition time.Duration)
	Remove(key string)
	Keys() []string
}

// AxisDrawer is implemented by surfaces that can draw axes once at setup.
type AxisDrawer interface {
	DrawAxes(x, y scale.Scale)
}
