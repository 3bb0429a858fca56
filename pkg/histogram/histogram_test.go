package histogram

import (
	"encoding/json"
	"testing"
)

func TestAddCreatesBinsLazily(t *testing.T) {
	h := New()
	if !h.Empty() {
		t.Fatal("new histogram should be empty")
	}

	h.Add(500, 0)
	h.Add(500, 100)
	h.Add(500, 200)

	if h.Len() != 3 {
		t.Errorf("Len() = %d, want 3", h.Len())
	}
	for _, y := range []int{0, 100, 200} {
		if c := h.Count(Bin{X: 500, Y: y}); c != 1 {
			t.Errorf("Count(500,%d) = %d, want 1", y, c)
		}
	}
	if h.Has(Bin{X: 1, Y: 1}) {
		t.Error("unpopulated bin reported as present")
	}
}

func TestTotalEqualsSamples(t *testing.T) {
	h := New()
	n := 0
	for x := 0; x < 40; x++ {
		for y := 0; y <= x%7; y++ {
			h.Add(x%5, y)
			n++
		}
	}
	if h.Total() != n {
		t.Errorf("Total() = %d, want %d", h.Total(), n)
	}
	for _, b := range h.Bins() {
		if h.Count(b) < 1 {
			t.Errorf("bin %v has count %d", b, h.Count(b))
		}
	}
}

func TestLog2(t *testing.T) {
	h := New()
	h.Add(0, 0)
	for i := 0; i < 8; i++ {
		h.Add(1, 1)
	}
	for i := 0; i < 15; i++ {
		h.Add(2, 2)
	}

	got := h.Log2()
	tests := []struct {
		bin  Bin
		want int
	}{
		{Bin{0, 0}, 0},
		{Bin{1, 1}, 3},
		{Bin{2, 2}, 3},
	}
	for _, tt := range tests {
		if c := got.Count(tt.bin); c != tt.want {
			t.Errorf("Log2 count %v = %d, want %d", tt.bin, c, tt.want)
		}
	}
	if !got.Has(Bin{0, 0}) {
		t.Error("bin with count 1 should stay present after Log2")
	}
	if h.Count(Bin{1, 1}) != 8 {
		t.Error("Log2 should not modify the receiver")
	}
}

func TestMax(t *testing.T) {
	h := New()
	if h.Max() != 0 {
		t.Errorf("empty Max() = %d, want 0", h.Max())
	}
	h.Add(3, 3)
	h.Add(3, 3)
	h.Add(4, 4)
	if h.Max() != 2 {
		t.Errorf("Max() = %d, want 2", h.Max())
	}
}

func TestBinsSorted(t *testing.T) {
	h := New()
	h.Add(5, 2)
	h.Add(1, 2)
	h.Add(9, 0)

	want := []Bin{{9, 0}, {1, 2}, {5, 2}}
	got := h.Bins()
	if len(got) != len(want) {
		t.Fatalf("Bins() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Bins()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestJSON(t *testing.T) {
	h := New()
	h.Add(500, 100)
	h.AddN(Bin{X: 10, Y: 20}, 7)

	data, err := json.Marshal(h)
	if err != nil {
		t.Fatal(err)
	}
	var got Histogram
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Total() != 8 || got.Count(Bin{10, 20}) != 7 {
		t.Errorf("decoded histogram = %s", data)
	}
}

func TestUnmarshalRejectsCorruptEntries(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"duplicate bin", `[{"x":1,"y":2,"n":3},{"x":1,"y":2,"n":1}]`},
		{"negative count", `[{"x":1,"y":2,"n":-1}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h Histogram
			if err := json.Unmarshal([]byte(tt.data), &h); err == nil {
				t.Errorf("Unmarshal(%s) succeeded, want error", tt.data)
			}
		})
	}
}

func TestUnmarshalKeepsZeroCountBins(t *testing.T) {
	h := New()
	h.Add(4, 4)
	data, err := json.Marshal(h.Log2())
	if err != nil {
		t.Fatal(err)
	}
	var got Histogram
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if !got.Has(Bin{4, 4}) || got.Count(Bin{4, 4}) != 0 {
		t.Errorf("log2 bin lost in round trip: %s", data)
	}
}
