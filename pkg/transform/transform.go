// Package transform maps raw read lengths and accuracies onto pixel
// coordinates of a square heatmap canvas.
//
// Both domains are unbounded or badly skewed, so they are compressed
// nonlinearly: lengths on a log10 scale, accuracies either linearly in
// percent-identity (floored at [MinIdentity]) or on the phred scale (capped
// at [MaxPhred]). The constants are coupled so that every transform spans
// exactly [0, AxisExtent], which makes the canvas square.
//
// The accuracy transform is a strategy value ([Accuracy]) so the choice of
// scale travels through configuration rather than being a global switch:
//
//	acc, err := transform.ParseAccuracy("phred")
//	x := transform.Length(15000)
//	y := acc.Y(98.5)
package transform

import (
	"fmt"
	"math"
)

const (
	// Resolution is the number of pixels per tenth of a length decade and per
	// half percentage point of identity.
	Resolution = 10

	// MaxLength is the read length at which the x axis saturates.
	MaxLength = 1_000_000

	// MinIdentity is the percent identity at which the y axis saturates.
	MinIdentity = 70.0

	// MaxPhred is the phred score at which the phred y axis saturates.
	MaxPhred = 40.0

	// AxisExtent is the largest coordinate any transform produces on the
	// canvas. The canvas is AxisExtent+1 pixels square.
	AxisExtent = 600

	// PhredScale is the number of pixels per phred unit, chosen so that
	// phred 0 lands on AxisExtent.
	PhredScale = float64(AxisExtent) / MaxPhred
)

// epsilon absorbs float rounding so exact decades (log10(1e5) = 5) and exact
// phred values floor onto their own pixel instead of the one below.
const epsilon = 1e-9

// Sample is one read reduced to the two values the heatmap plots.
type Sample struct {
	Length   int
	Identity float64
}

// Point returns the sample's canvas coordinates on the acc scale.
func (s Sample) Point(acc Accuracy) (x, y int) {
	return Length(s.Length), acc.Y(s.Identity)
}

// Length maps a read length onto the x axis.
//
// The result is floor(log10(n) * 10 * Resolution), capped at AxisExtent, and
// is nondecreasing in n. Lengths below 1 have no logarithm; they map to 0.
// The source filters zero-length records, so this only guards the domain.
func Length(n int) int {
	if n < 1 {
		return 0
	}
	return min(AxisExtent, floorIndex(math.Log10(float64(n))*10*Resolution))
}

// Accuracy maps a percent identity onto the y axis. Better reads get smaller
// y values, placing them at the top of the canvas.
type Accuracy interface {
	// Name is the configuration name of the scale.
	Name() string
	// Y returns the y pixel coordinate for identity (percent, 0-100).
	Y(identity float64) int
}

// Scale names accepted by ParseAccuracy.
const (
	ScalePercent = "percent"
	ScalePhred   = "phred"
	ScaleRaw     = "raw"
)

// Percent is the linear percent-identity scale, saturating at MinIdentity.
type Percent struct{}

// Name implements Accuracy.
func (Percent) Name() string { return ScalePercent }

// Y returns min(AxisExtent, floor(2 * Resolution * (100 - identity))).
func (Percent) Y(identity float64) int {
	return min(AxisExtent, percentY(identity))
}

// Phred is the phred-scaled accuracy axis, saturating at MaxPhred.
type Phred struct{}

// Name implements Accuracy.
func (Phred) Name() string { return ScalePhred }

// Y converts identity to a phred score clamped to [0, MaxPhred] and returns
// floor(PhredScale * (MaxPhred - phred)).
func (Phred) Y(identity float64) int {
	return PhredY(ToPhred(identity))
}

// Raw is the percent-identity scale without the MinIdentity floor. Reads
// below MinIdentity land outside the canvas; the compositor skips them.
type Raw struct{}

// Name implements Accuracy.
func (Raw) Name() string { return ScaleRaw }

// Y returns floor(2 * Resolution * (100 - identity)) without clamping.
func (Raw) Y(identity float64) int {
	return percentY(identity)
}

func percentY(identity float64) int {
	return floorIndex(2 * Resolution * (100 - identity))
}

// ToPhred converts a percent identity into a phred score,
// -10 * log10(1 - identity/100). A perfect read has an infinite score.
func ToPhred(identity float64) float64 {
	return -10 * math.Log10(1-identity/100)
}

// PhredY returns the y coordinate of a phred score on the phred axis.
// Scores are clamped to [0, MaxPhred] first.
func PhredY(phred float64) int {
	phred = math.Max(0, math.Min(MaxPhred, phred))
	return max(0, floorIndex(PhredScale*(MaxPhred-phred)))
}

// ParseAccuracy resolves a scale name into its Accuracy strategy.
// The empty string selects Percent.
func ParseAccuracy(name string) (Accuracy, error) {
	switch name {
	case "", ScalePercent:
		return Percent{}, nil
	case ScalePhred:
		return Phred{}, nil
	case ScaleRaw:
		return Raw{}, nil
	default:
		return nil, fmt.Errorf("unknown accuracy scale %q (must be one of: percent, phred, raw)", name)
	}
}

func floorIndex(v float64) int {
	return int(math.Floor(v + epsilon))
}
