// Package gradient evaluates piecewise-linear color gradients into packed
// 0xRRGGBBAA colors.
package gradient

import (
	"errors"
	"fmt"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/terramesh/internal/mesh"
)

// Gradient errors.
var (
	ErrNoStops      = errors.New("gradient has no stops")
	ErrInvalidColor = errors.New("invalid gradient color")
)

// Stop is one color stop. At is in [0, 1].
type Stop struct {
	At    float64
	Color colorful.Color
}

// Gradient is an immutable ordered list of stops; safe for concurrent use.
type Gradient struct {
	stops []Stop
}

// New creates a gradient from stops in any order.
func New(stops ...Stop) (*Gradient, error) {
	if len(stops) == 0 {
		return nil, ErrNoStops
	}
	sorted := make([]Stop, len(stops))
	copy(sorted, stops)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })
	return &Gradient{stops: sorted}, nil
}

// Solid returns a single-color gradient.
func Solid(c colorful.Color) *Gradient {
	return &Gradient{stops: []Stop{{At: 0, Color: c}}}
}

// FromHex builds a gradient from "#rrggbb" colors keyed by stop position.
func FromHex(stops map[float64]string) (*Gradient, error) {
	parsed := make([]Stop, 0, len(stops))
	for at, hex := range stops {
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("%w %q at %.2f: %v", ErrInvalidColor, hex, at, err)
		}
		parsed = append(parsed, Stop{At: at, Color: c})
	}
	return New(parsed...)
}

// Len returns the number of stops.
func (g *Gradient) Len() int {
	return len(g.stops)
}

// Evaluate returns the packed color at time t. Values outside [0, 1] are
// clamped; between two stops the color is interpolated linearly in RGB.
func (g *Gradient) Evaluate(t float64) uint32 {
	return pack(g.At(t))
}

// At returns the unpacked color at time t.
func (g *Gradient) At(t float64) colorful.Color {
	t = clamp01(t)
	first, last := g.stops[0], g.stops[len(g.stops)-1]
	if t <= first.At {
		return first.Color
	}
	if t >= last.At {
		return last.Color
	}
	i := sort.Search(len(g.stops), func(i int) bool { return g.stops[i].At >= t })
	lo, hi := g.stops[i-1], g.stops[i]
	span := hi.At - lo.At
	if span <= 0 {
		return hi.Color
	}
	return lo.Color.BlendRgb(hi.Color, (t-lo.At)/span).Clamped()
}

func pack(c colorful.Color) uint32 {
	r, g, b := c.Clamped().RGB255()
	return mesh.PackColor(r, g, b, 0xff)
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
