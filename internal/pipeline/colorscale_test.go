package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/palette"
)

func metrics(values ...int64) []ChangeMetric {
	out := make([]ChangeMetric, len(values))
	for i, v := range values {
		out[i] = ChangeMetric{DistrictID: string(rune('A' + i)), Value: i64(v)}
	}
	return out
}

func hexAt(t *testing.T, s *DivergingScale, v float64) string {
	t.Helper()
	c, err := s.At(v)
	require.NoError(t, err)
	return Hex(c)
}

func TestBuildScale_RampSizing(t *testing.T) {
	// min=-40 → 4 negative steps, max=60 → 6 positive steps; the two
	// ramps share one neutral color: 5 + 7 - 1 = 11 palette colors.
	s := BuildScale(metrics(-40, 60, 0, 10))

	assert.Equal(t, -40.0, s.Min())
	assert.Equal(t, 60.0, s.Max())
	require.Len(t, s.colors, 11)

	// Endpoints are the fixed ramp anchors.
	assert.Equal(t, Hex(lossColor), hexAt(t, s, -40))
	assert.Equal(t, Hex(gainColor), hexAt(t, s, 60))
}

func TestBuildScale_ContinuousAtZero(t *testing.T) {
	s := BuildScale(metrics(-40, 60))

	// Zero sits exactly on the shared neutral anchor: no gap, no
	// duplicate.
	assert.Equal(t, "#ffffff", hexAt(t, s, 0))

	// Approaching zero from both sides converges to the same color.
	below := hexAt(t, s, -0.01)
	above := hexAt(t, s, 0.01)
	assert.InDelta(t, 0xff, parseChannel(t, below, 1), 2)
	assert.InDelta(t, 0xff, parseChannel(t, above, 1), 2)
}

func TestBuildScale_AllEqualZero(t *testing.T) {
	s := BuildScale(metrics(0, 0, 0))

	assert.Equal(t, 0.0, s.Min())
	assert.Equal(t, 0.0, s.Max())
	assert.Equal(t, "#ffffff", hexAt(t, s, 0))
}

func TestBuildScale_AllEqualPositive(t *testing.T) {
	s := BuildScale(metrics(42, 42))

	// Zero-width domain still maps its single point to a color.
	assert.Equal(t, Hex(gainColor), hexAt(t, s, 42))
}

func TestBuildScale_AllEqualNegative(t *testing.T) {
	s := BuildScale(metrics(-25, -25))

	assert.Equal(t, Hex(lossColor), hexAt(t, s, -25))
}

func TestBuildScale_AllPositive(t *testing.T) {
	// No district lost population: the negative ramp degenerates to
	// the neutral anchor and the scale covers only [10, 60].
	s := BuildScale(metrics(10, 60))

	assert.Equal(t, 10.0, s.Min())
	assert.Equal(t, "#ffffff", hexAt(t, s, 10))
	assert.Equal(t, Hex(gainColor), hexAt(t, s, 60))
}

func TestBuildScale_AllNegative(t *testing.T) {
	s := BuildScale(metrics(-60, -10))

	assert.Equal(t, Hex(lossColor), hexAt(t, s, -60))
	assert.Equal(t, "#ffffff", hexAt(t, s, -10))
}

func TestBuildScale_IgnoresMissingValues(t *testing.T) {
	ms := metrics(-40, 60)
	ms = append(ms, ChangeMetric{DistrictID: "X", Value: nil})

	s := BuildScale(ms)
	assert.Equal(t, -40.0, s.Min())
	assert.Equal(t, 60.0, s.Max())
}

func TestBuildScale_NoValues(t *testing.T) {
	s := BuildScale([]ChangeMetric{{DistrictID: "X", Value: nil}})

	assert.Equal(t, "#ffffff", hexAt(t, s, 0))
}

func TestBuildScale_SmallMagnitudes(t *testing.T) {
	// Magnitudes under one step still get a single-step ramp.
	s := BuildScale(metrics(-3, 4))

	require.Len(t, s.colors, 3)
	assert.Equal(t, Hex(lossColor), hexAt(t, s, -3))
	assert.Equal(t, "#ffffff", hexAt(t, s, 0.5))
	assert.Equal(t, Hex(gainColor), hexAt(t, s, 4))
}

func TestDivergingScale_DomainErrors(t *testing.T) {
	s := BuildScale(metrics(-40, 60))

	_, err := s.At(-41)
	assert.ErrorIs(t, err, palette.ErrUnderflow)

	_, err = s.At(61)
	assert.ErrorIs(t, err, palette.ErrOverflow)

	_, err = s.At(math.NaN())
	assert.ErrorIs(t, err, palette.ErrNaN)
}

func TestDivergingScale_SetMinMax(t *testing.T) {
	s := BuildScale(metrics(-40, 60))
	s.SetMin(-100)
	s.SetMax(100)

	assert.Equal(t, -100.0, s.Min())
	assert.Equal(t, 100.0, s.Max())
	_, err := s.At(-99)
	assert.NoError(t, err)
}

func TestDivergingScale_Palette(t *testing.T) {
	s := BuildScale(metrics(-40, 60))

	colors := s.Palette(9).Colors()
	require.Len(t, colors, 9)
	assert.Equal(t, Hex(lossColor), Hex(colors[0]))
	assert.Equal(t, Hex(gainColor), Hex(colors[8]))

	assert.Len(t, s.Palette(0).Colors(), 1)
}

func TestHex(t *testing.T) {
	assert.Equal(t, "#b2182b", Hex(lossColor))
	assert.Equal(t, "#ffffff", Hex(neutralColor))
	assert.Equal(t, "#2166ac", Hex(gainColor))
}

// parseChannel extracts one 8-bit channel (0=R, 1=G, 2=B) from a
// #rrggbb string.
func parseChannel(t *testing.T, hex string, channel int) int {
	t.Helper()
	require.Len(t, hex, 7)
	var v int
	for _, c := range hex[1+channel*2 : 3+channel*2] {
		v <<= 4
		switch {
		case c >= '0' && c <= '9':
			v += int(c - '0')
		case c >= 'a' && c <= 'f':
			v += int(c-'a') + 10
		}
	}
	return v
}
