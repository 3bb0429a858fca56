package render

import (
	"fmt"
	"strconv"

	"github.com/matzehuels/accumap/pkg/transform"
)

// Tick lengths in pixels.
const (
	MajorTick        = 12
	IntermediateTick = 6
	MinorTick        = 2
)

// LabelSize is the pixel height of axis labels.
const LabelSize = 24.0

// Label placement, measured from the canvas edges.
const (
	xLabelTop      = 560
	xLabelCharStep = 5
	yLabelLeft     = 15
	yLabelRaise    = 10
)

// Tick is one axis mark. Major ticks are drawn on both edges of the canvas;
// shorter ticks only on the top (x) or right (y) edge.
type Tick struct {
	Pos   int
	Size  int
	Label string
}

// AxisTicks holds the marks for both axes.
type AxisTicks struct {
	X []Tick
	Y []Tick
}

var (
	xMajor        = []int{10, 100, 1_000, 10_000, 100_000}
	xIntermediate = []int{5, 50, 500, 5_000, 50_000, 500_000}
	xDecades      = []int{1, 10, 100, 1_000, 10_000, 100_000}
)

// ComputeTicks returns the tick layout for the length axis and the given
// accuracy axis. The raw scale shares the percent layout.
func ComputeTicks(acc transform.Accuracy) AxisTicks {
	var t AxisTicks

	for _, n := range xMajor {
		t.X = append(t.X, Tick{Pos: transform.Length(n), Size: MajorTick, Label: strconv.Itoa(n)})
	}
	for _, n := range xIntermediate {
		t.X = append(t.X, Tick{Pos: transform.Length(n), Size: IntermediateTick})
	}
	for _, m := range xDecades {
		for k := 1; k < 10; k++ {
			t.X = append(t.X, Tick{Pos: transform.Length(k * m), Size: MinorTick})
		}
	}

	if acc != nil && acc.Name() == transform.ScalePhred {
		for _, q := range []int{10, 20, 30} {
			t.Y = append(t.Y, Tick{Pos: transform.PhredY(float64(q)), Size: MajorTick, Label: fmt.Sprintf("Q%d", q)})
		}
		for _, q := range []int{5, 15, 25, 35} {
			t.Y = append(t.Y, Tick{Pos: transform.PhredY(float64(q)), Size: IntermediateTick})
		}
		for q := 0; q < int(transform.MaxPhred); q++ {
			t.Y = append(t.Y, Tick{Pos: transform.PhredY(float64(q)), Size: MinorTick})
		}
		return t
	}

	pct := transform.Percent{}
	for _, p := range []int{80, 90} {
		t.Y = append(t.Y, Tick{Pos: pct.Y(float64(p)), Size: MajorTick, Label: fmt.Sprintf("%d%%", p)})
	}
	for _, p := range []int{75, 85, 95} {
		t.Y = append(t.Y, Tick{Pos: pct.Y(float64(p)), Size: IntermediateTick})
	}
	for p := int(transform.MinIdentity); p < 100; p++ {
		t.Y = append(t.Y, Tick{Pos: pct.Y(float64(p)), Size: MinorTick})
	}
	return t
}

// Annotate draws the axis ticks and labels for acc in the ink colour of bg.
// It only adds marks and never reads the heatmap underneath.
func Annotate(d Drawer, acc transform.Accuracy, bg Background) {
	ink := bg.Ink()

	t := ComputeTicks(acc)
	for _, tk := range t.X {
		d.FillRect(tk.Pos, 0, 1, tk.Size, ink)
		if tk.Size == MajorTick {
			d.FillRect(tk.Pos, Size-MajorTick, 1, MajorTick, ink)
		}
		if tk.Label != "" {
			x := tk.Pos - 1 - len(tk.Label)*xLabelCharStep
			d.DrawText(x, xLabelTop, LabelSize, ink, tk.Label)
		}
	}
	for _, tk := range t.Y {
		d.FillRect(Size-tk.Size, tk.Pos, tk.Size, 1, ink)
		if tk.Size == MajorTick {
			d.FillRect(0, tk.Pos, MajorTick, 1, ink)
		}
		if tk.Label != "" {
			d.DrawText(yLabelLeft, tk.Pos-yLabelRaise, LabelSize, ink, tk.Label)
		}
	}
}
