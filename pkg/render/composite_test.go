package render

import (
	"math"
	"testing"

	"github.com/matzehuels/accumap/pkg/errors"
	"github.com/matzehuels/accumap/pkg/histogram"
)

func hist(counts map[histogram.Bin]int) *histogram.Histogram {
	h := histogram.New()
	for b, n := range counts {
		h.AddN(b, n)
	}
	return h
}

func TestCompositeSingleDark(t *testing.T) {
	h := hist(map[histogram.Bin]int{
		{X: 500, Y: 100}: 2,
		{X: 400, Y: 100}: 1,
	})
	c := NewCanvas(Dark)
	stats, err := Composite(c, []Layer{{Hist: h, Color: Red}})
	if err != nil {
		t.Fatalf("Composite() error: %v", err)
	}
	if stats.Bins != 2 || stats.Max != 2 {
		t.Errorf("stats = %+v, want 2 bins with max 2", stats)
	}

	tests := []struct {
		x, y int
		want [3]uint8
	}{
		{500, 100, [3]uint8{255, 0, 0}},
		{400, 100, [3]uint8{128, 0, 0}},
		{0, 0, [3]uint8{0, 0, 0}},
	}
	for _, tt := range tests {
		if got := c.RGB(tt.x, tt.y); got != tt.want {
			t.Errorf("RGB(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestCompositeSingleLight(t *testing.T) {
	h := hist(map[histogram.Bin]int{
		{X: 10, Y: 10}: 4,
		{X: 20, Y: 20}: 1,
	})
	c := NewCanvas(Light)
	if _, err := Composite(c, []Layer{{Hist: h, Color: Blue}}); err != nil {
		t.Fatal(err)
	}

	// Blue on white keeps the blue channel and removes red and green.
	if got, want := c.RGB(10, 10), [3]uint8{0, 0, 255}; got != want {
		t.Errorf("dense bin = %v, want %v", got, want)
	}
	// 255 - round(255 * 1/4) = 255 - 64
	if got, want := c.RGB(20, 20), [3]uint8{191, 191, 255}; got != want {
		t.Errorf("sparse bin = %v, want %v", got, want)
	}
	if got, want := c.RGB(300, 300), [3]uint8{255, 255, 255}; got != want {
		t.Errorf("empty pixel = %v, want %v", got, want)
	}
}

func TestCompositeIntensityMatchesFormula(t *testing.T) {
	h := histogram.New()
	for i := 1; i <= 7; i++ {
		h.AddN(histogram.Bin{X: i, Y: i}, i)
	}
	for _, bg := range []Background{Dark, Light} {
		c := NewCanvas(bg)
		if _, err := Composite(c, []Layer{{Hist: h, Color: Green}}); err != nil {
			t.Fatal(err)
		}
		for i := 1; i <= 7; i++ {
			want := uint8(math.Round(255 * float64(i) / 7))
			got := c.RGB(i, i)[1]
			if bg == Light {
				// Green on white keeps green at 255; red carries the intensity.
				got = 255 - c.RGB(i, i)[0]
			}
			if got != want {
				t.Errorf("%s: intensity at count %d = %d, want %d", bg, i, got, want)
			}
		}
	}
}

func TestCompositeOverlay(t *testing.T) {
	shared := histogram.Bin{X: 300, Y: 50}
	a := hist(map[histogram.Bin]int{shared: 10, {X: 1, Y: 1}: 5})
	b := hist(map[histogram.Bin]int{shared: 5})

	c := NewCanvas(Dark)
	stats, err := Composite(c, []Layer{
		{Name: "a", Hist: a, Color: Red},
		{Name: "b", Hist: b, Color: Green},
	})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Max != 10 {
		t.Errorf("Max = %d, want global max 10", stats.Max)
	}
	if got, want := c.RGB(shared.X, shared.Y), [3]uint8{255, 128, 0}; got != want {
		t.Errorf("shared bin = %v, want %v", got, want)
	}
	// Absent from b: only a contributes.
	if got, want := c.RGB(1, 1), [3]uint8{128, 0, 0}; got != want {
		t.Errorf("a-only bin = %v, want %v", got, want)
	}
}

func TestCompositeSaturates(t *testing.T) {
	bin := histogram.Bin{X: 5, Y: 5}
	a := hist(map[histogram.Bin]int{bin: 3})
	b := hist(map[histogram.Bin]int{bin: 3})

	c := NewCanvas(Dark)
	stats, err := Composite(c, []Layer{{Hist: a, Color: Red}, {Hist: b, Color: Purple}})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Saturated != 1 {
		t.Errorf("Saturated = %d, want 1", stats.Saturated)
	}
	if got, want := c.RGB(5, 5), [3]uint8{255, 0, 255}; got != want {
		t.Errorf("RGB = %v, want %v", got, want)
	}
}

func TestCompositeOutOfBounds(t *testing.T) {
	h := hist(map[histogram.Bin]int{
		{X: 10, Y: 700}: 3,
		{X: 10, Y: 10}:  1,
	})
	c := NewCanvas(Dark)
	stats, err := Composite(c, []Layer{{Hist: h, Color: Cyan}})
	if err != nil {
		t.Fatal(err)
	}
	if stats.OutOfBounds != 1 || stats.Bins != 1 {
		t.Errorf("stats = %+v, want 1 painted and 1 out of bounds", stats)
	}
	// The out-of-canvas bin still sets the global max.
	if got, want := c.RGB(10, 10), [3]uint8{0, 85, 85}; got != want {
		t.Errorf("RGB = %v, want %v", got, want)
	}
}

func TestCompositeLayerCount(t *testing.T) {
	h := hist(map[histogram.Bin]int{{X: 1, Y: 1}: 1})
	layer := Layer{Hist: h, Color: Red}

	for _, n := range []int{0, 4} {
		layers := make([]Layer, n)
		for i := range layers {
			layers[i] = layer
		}
		_, err := Composite(NewCanvas(Dark), layers)
		if !errors.Is(err, errors.ErrCodeConfig) {
			t.Errorf("%d layers: error = %v, want %s", n, err, errors.ErrCodeConfig)
		}
	}
}
