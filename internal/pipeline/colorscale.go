package pipeline

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot/palette"
)

// Ramp anchor colors. Loss and gain ends are RdBu extremes; the two
// ramps share the neutral white at zero so the scale is continuous
// across the zero crossing.
var (
	lossColor    = color.NRGBA{R: 178, G: 24, B: 43, A: 255}
	neutralColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	gainColor    = color.NRGBA{R: 33, G: 102, B: 172, A: 255}
)

// One discrete ramp step per 10 units of change. Sizing each ramp by
// the magnitude of its extreme keeps the visual color step per unit of
// change equal on both sides regardless of how skewed the metric
// distribution is.
const unitsPerStep = 10

// DivergingScale maps change-metric values in [min, max] onto a
// diverging palette anchored at white for zero. It implements
// palette.ColorMap.
type DivergingScale struct {
	colors   []color.Color
	min, max float64
	alpha    *float64
}

var _ palette.ColorMap = (*DivergingScale)(nil)

// BuildScale derives the color scale for a set of change metrics.
// Districts with a nil value are ignored; they render as "no data".
// Never fails: empty input, one-sided ranges, and all-equal values all
// produce a usable scale.
func BuildScale(metrics []ChangeMetric) *DivergingScale {
	var vals []float64
	for _, m := range metrics {
		if m.Value != nil {
			vals = append(vals, float64(*m.Value))
		}
	}
	if len(vals) == 0 {
		return &DivergingScale{colors: []color.Color{neutralColor}}
	}

	minV, maxV := vals[0], vals[0]
	for _, v := range vals[1:] {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}

	var negSteps, posSteps int
	if minV < 0 {
		negSteps = rampSteps(-minV)
	}
	if maxV > 0 {
		posSteps = rampSteps(maxV)
	}

	// Concatenate the two ramps, dropping the duplicated neutral
	// boundary color. A ramp with no steps degenerates to the shared
	// neutral anchor.
	colors := make([]color.Color, 0, negSteps+posSteps+1)
	if negSteps > 0 {
		colors = append(colors, ramp(lossColor, neutralColor, negSteps)...)
	} else {
		colors = append(colors, neutralColor)
	}
	if posSteps > 0 {
		colors = append(colors, ramp(neutralColor, gainColor, posSteps)[1:]...)
	}

	return &DivergingScale{colors: colors, min: minV, max: maxV}
}

func rampSteps(magnitude float64) int {
	steps := int(magnitude / unitsPerStep)
	if steps < 1 {
		steps = 1
	}
	return steps
}

// ramp interpolates steps+1 colors from lo to hi inclusive.
func ramp(lo, hi color.Color, steps int) []color.Color {
	out := make([]color.Color, steps+1)
	for i := 0; i <= steps; i++ {
		out[i] = lerp(lo, hi, float64(i)/float64(max(steps, 1)))
	}
	return out
}

// At returns the color for a value in [Min, Max].
func (s *DivergingScale) At(v float64) (color.Color, error) {
	switch {
	case math.IsNaN(v):
		return nil, palette.ErrNaN
	case v < s.min:
		return nil, palette.ErrUnderflow
	case v > s.max:
		return nil, palette.ErrOverflow
	}

	if s.min == s.max || len(s.colors) == 1 {
		// Zero-width domain: the single mapped point keeps the color
		// its sign implies.
		if s.min < 0 {
			return s.colors[0], nil
		}
		return s.colors[len(s.colors)-1], nil
	}

	t := (v - s.min) / (s.max - s.min) * float64(len(s.colors)-1)
	i := int(math.Floor(t))
	if i >= len(s.colors)-1 {
		return s.colors[len(s.colors)-1], nil
	}
	return lerp(s.colors[i], s.colors[i+1], t-float64(i)), nil
}

// Min returns the lower bound of the scale domain.
func (s *DivergingScale) Min() float64 { return s.min }

// SetMin sets the lower bound of the scale domain.
func (s *DivergingScale) SetMin(v float64) { s.min = v }

// Max returns the upper bound of the scale domain.
func (s *DivergingScale) Max() float64 { return s.max }

// SetMax sets the upper bound of the scale domain.
func (s *DivergingScale) SetMax(v float64) { s.max = v }

// Alpha returns the opacity of the scale; the default is fully opaque.
func (s *DivergingScale) Alpha() float64 {
	if s.alpha == nil {
		return 1
	}
	return *s.alpha
}

// SetAlpha sets the opacity of the scale. It panics if a is outside
// [0, 1], per the palette.ColorMap contract.
func (s *DivergingScale) SetAlpha(a float64) {
	if a < 0 || a > 1 {
		panic("pipeline: alpha out of range [0, 1]")
	}
	s.alpha = &a
}

// Palette samples n evenly spaced colors across the scale domain.
func (s *DivergingScale) Palette(n int) palette.Palette {
	if n < 1 {
		n = 1
	}
	out := make(sampledPalette, n)
	for i := 0; i < n; i++ {
		v := s.min
		if n > 1 {
			v += (s.max - s.min) * float64(i) / float64(n-1)
		}
		c, err := s.At(v)
		if err != nil {
			c = neutralColor
		}
		out[i] = c
	}
	return out
}

type sampledPalette []color.Color

func (p sampledPalette) Colors() []color.Color { return p }

// lerp linearly interpolates between two colors.
func lerp(c1, c2 color.Color, t float64) color.Color {
	r1, g1, b1, a1 := c1.RGBA()
	r2, g2, b2, a2 := c2.RGBA()
	mix := func(x, y uint32) uint16 {
		return uint16(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA64{R: mix(r1, r2), G: mix(g1, g2), B: mix(b1, b2), A: mix(a1, a2)}
}

// Hex renders a color as a #rrggbb string for the web layer.
func Hex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}
