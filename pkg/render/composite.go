package render

import (
	"math"

	"github.com/matzehuels/accumap/pkg/errors"
	"github.com/matzehuels/accumap/pkg/histogram"
)

// MaxLayers is the number of datasets a canvas can overlay.
const MaxLayers = 3

// Layer is one dataset's histogram with its palette colour.
type Layer struct {
	Name  string
	Hist  *histogram.Histogram
	Color Color
}

// CompositeStats summarises a Composite call.
type CompositeStats struct {
	// Bins is the number of pixels painted.
	Bins int
	// OutOfBounds counts bins outside the canvas (raw accuracy scale only).
	OutOfBounds int
	// Saturated counts pixels where overlapping datasets summed past 255 in
	// at least one channel and were clamped.
	Saturated int
	// Max is the global maximum count the intensities are scaled against.
	Max int
}

// Composite paints layers onto c.
//
// Every count is scaled against the maximum count across all layers, so
// layers stay comparable. For each bin present in any layer the contributions
// count/max × Color.Vector are summed per channel, absent bins contributing
// nothing, then rounded and clamped to [0, 255]. On a light background the sum
// is the light removed from white. A single layer reduces to
// intensity = round(255 × count / max).
//
// Overlapping dense bins from different layers saturate: the channel is
// clamped at 255 and the pixel is counted in CompositeStats.Saturated.
func Composite(c *Canvas, layers []Layer) (CompositeStats, error) {
	var stats CompositeStats
	if len(layers) == 0 || len(layers) > MaxLayers {
		return stats, errors.New(errors.ErrCodeConfig, "cannot composite %d datasets (must be 1 to %d)", len(layers), MaxLayers)
	}

	bins := make(map[histogram.Bin]struct{})
	for _, l := range layers {
		stats.Max = max(stats.Max, l.Hist.Max())
		for _, b := range l.Hist.Bins() {
			bins[b] = struct{}{}
		}
	}

	vectors := make([][3]float64, len(layers))
	for i, l := range layers {
		vectors[i] = l.Color.Vector(c.bg)
	}

	for b := range bins {
		if !c.Contains(b.X, b.Y) {
			stats.OutOfBounds++
			continue
		}

		var sum [3]float64
		for i, l := range layers {
			f := fraction(l.Hist.Count(b), stats.Max)
			for ch := range sum {
				sum[ch] += vectors[i][ch] * f
			}
		}

		rgb, saturated := toRGB(sum, c.bg)
		if saturated {
			stats.Saturated++
		}
		c.set(b.X, b.Y, rgb)
		stats.Bins++
	}
	return stats, nil
}

func fraction(count, max int) float64 {
	if max == 0 {
		return 0
	}
	return float64(count) / float64(max)
}

// toRGB rounds and clamps summed intensities, applying polarity.
func toRGB(sum [3]float64, bg Background) ([3]uint8, bool) {
	var rgb [3]uint8
	saturated := false
	for ch, v := range sum {
		n := math.Round(v)
		if n > 255 {
			n = 255
			saturated = true
		}
		if bg == Light {
			n = 255 - n
		}
		rgb[ch] = uint8(n)
	}
	return rgb, saturated
}
