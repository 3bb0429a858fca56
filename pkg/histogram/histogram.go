// Package histogram accumulates per-dataset sample counts on the pixel grid.
//
// A [Histogram] is sparse: bins are created on the first sample that lands in
// them, so every bin holds a count of at least 1 until [Histogram.Log2]
// compresses the counts.
package histogram

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"sort"
)

// Bin is one cell of the pixel grid.
type Bin struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Histogram maps bins to sample counts. The zero value is not usable; call New.
type Histogram struct {
	counts map[Bin]int
}

// New returns an empty histogram.
func New() *Histogram {
	return &Histogram{counts: make(map[Bin]int)}
}

// Add records one sample at (x, y).
func (h *Histogram) Add(x, y int) {
	h.AddN(Bin{X: x, Y: y}, 1)
}

// AddN records n samples in bin b. Non-positive n is ignored.
func (h *Histogram) AddN(b Bin, n int) {
	if n > 0 {
		h.counts[b] += n
	}
}

// Count returns the count of bin b, 0 if it was never populated.
func (h *Histogram) Count(b Bin) int {
	return h.counts[b]
}

// Has reports whether bin b is populated.
func (h *Histogram) Has(b Bin) bool {
	_, ok := h.counts[b]
	return ok
}

// Len returns the number of populated bins.
func (h *Histogram) Len() int {
	return len(h.counts)
}

// Empty reports whether no sample was recorded.
func (h *Histogram) Empty() bool {
	return len(h.counts) == 0
}

// Total returns the sum of all counts. Before Log2 this is the number of
// samples recorded.
func (h *Histogram) Total() int {
	total := 0
	for _, c := range h.counts {
		total += c
	}
	return total
}

// Max returns the largest count, 0 for an empty histogram.
func (h *Histogram) Max() int {
	m := 0
	for _, c := range h.counts {
		m = max(m, c)
	}
	return m
}

// Bins returns the populated bins sorted by Y, then X.
func (h *Histogram) Bins() []Bin {
	out := make([]Bin, 0, len(h.counts))
	for b := range h.counts {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// Log2 returns a new histogram with every count c replaced by floor(log2(c)).
// Bins keep their presence even when the compressed count is 0.
func (h *Histogram) Log2() *Histogram {
	out := &Histogram{counts: make(map[Bin]int, len(h.counts))}
	for b, c := range h.counts {
		out.counts[b] = floorLog2(c)
	}
	return out
}

func floorLog2(c int) int {
	if c < 1 {
		return 0
	}
	return bits.Len(uint(c)) - 1
}

type binCount struct {
	Bin
	Count int `json:"n"`
}

// MarshalJSON encodes the histogram as a bin list sorted like Bins.
func (h *Histogram) MarshalJSON() ([]byte, error) {
	entries := make([]binCount, 0, len(h.counts))
	for _, b := range h.Bins() {
		entries = append(entries, binCount{Bin: b, Count: h.counts[b]})
	}
	return json.Marshal(entries)
}

// UnmarshalJSON decodes a histogram written by MarshalJSON.
func (h *Histogram) UnmarshalJSON(data []byte) error {
	var entries []binCount
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	h.counts = make(map[Bin]int, len(entries))
	for _, e := range entries {
		if e.Count < 0 {
			return fmt.Errorf("bin (%d, %d): negative count %d", e.X, e.Y, e.Count)
		}
		if h.Has(e.Bin) {
			return fmt.Errorf("bin (%d, %d) listed twice", e.X, e.Y)
		}
		h.counts[e.Bin] = e.Count
	}
	return nil
}
