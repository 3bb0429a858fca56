package identity

import (
	"math"
	"testing"

	"github.com/matzehuels/accumap/pkg/errors"
)

type fakeRecord struct {
	length int
	aux    map[string]any
	ops    []Op
	quals  []byte
}

func (f fakeRecord) Len() int      { return f.length }
func (f fakeRecord) Ops() []Op     { return f.ops }
func (f fakeRecord) Quals() []byte { return f.quals }

func (f fakeRecord) Aux(tag string) (any, bool) {
	v, ok := f.aux[tag]
	return v, ok
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-4 }

func TestDivergenceTag(t *testing.T) {
	tier := DivergenceTag{}

	id, ok, err := tier.Estimate(fakeRecord{aux: map[string]any{"de": float32(0.05)}})
	if err != nil || !ok {
		t.Fatalf("Estimate() ok=%v err=%v, want applicable", ok, err)
	}
	if !near(id, 95) {
		t.Errorf("identity = %v, want 95", id)
	}

	if _, ok, err := tier.Estimate(fakeRecord{}); ok || err != nil {
		t.Errorf("missing tag: ok=%v err=%v, want not applicable", ok, err)
	}

	_, _, err = tier.Estimate(fakeRecord{aux: map[string]any{"de": "0.05"}})
	if !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("string tag: err = %v, want PARSE_ERROR", err)
	}
}

func TestGapCompressed(t *testing.T) {
	tests := []struct {
		name string
		ops  []Op
		nm   any
		want float64
	}{
		{
			name: "perfect match",
			ops:  []Op{{OpMatch, 100}},
			nm:   uint8(0),
			want: 100,
		},
		{
			name: "mismatches only",
			ops:  []Op{{OpMatch, 100}},
			nm:   uint8(5),
			want: 95,
		},
		{
			// NM=12: 2 mismatches + 10 deleted bases in one run.
			// diffs = 12 - 10 + 1 = 3 over 90 + 1 columns.
			name: "long deletion counts once",
			ops:  []Op{{OpMatch, 40}, {OpDeletion, 10}, {OpMatch, 50}},
			nm:   uint16(12),
			want: 100 * (1 - 3.0/91.0),
		},
		{
			name: "equal and mismatch ops count as aligned",
			ops:  []Op{{OpEqual, 45}, {OpMismatch, 5}, {OpInsertion, 3}, {OpEqual, 50}},
			nm:   uint32(8),
			want: 100 * (1 - 6.0/101.0),
		},
		{
			name: "clips are ignored",
			ops:  []Op{{OpOther, 500}, {OpMatch, 100}, {OpOther, 20}},
			nm:   uint8(1),
			want: 99,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := fakeRecord{ops: tt.ops, aux: map[string]any{"NM": tt.nm}}
			id, ok, err := GapCompressed{}.Estimate(r)
			if err != nil || !ok {
				t.Fatalf("Estimate() ok=%v err=%v", ok, err)
			}
			if !near(id, tt.want) {
				t.Errorf("identity = %v, want %v", id, tt.want)
			}
		})
	}
}

func TestGapCompressedErrors(t *testing.T) {
	tests := []struct {
		name string
		rec  fakeRecord
	}{
		{"missing NM", fakeRecord{ops: []Op{{OpMatch, 10}}}},
		{"signed NM", fakeRecord{ops: []Op{{OpMatch, 10}}, aux: map[string]any{"NM": int8(1)}}},
		{"float NM", fakeRecord{ops: []Op{{OpMatch, 10}}, aux: map[string]any{"NM": float32(1)}}},
		{"no aligned bases", fakeRecord{ops: []Op{{OpOther, 10}}, aux: map[string]any{"NM": uint8(0)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := GapCompressed{}.Estimate(tt.rec)
			if !errors.Is(err, errors.ErrCodeParse) {
				t.Errorf("err = %v, want PARSE_ERROR", err)
			}
		})
	}

	if _, ok, err := (GapCompressed{}).Estimate(fakeRecord{}); ok || err != nil {
		t.Errorf("no ops: ok=%v err=%v, want not applicable", ok, err)
	}
}

func TestBasecallQuality(t *testing.T) {
	tests := []struct {
		name  string
		quals []byte
		want  float64
	}{
		{"all Q10", []byte{10, 10, 10}, 90},
		{"all Q20", []byte{20, 20}, 99},
		{"mixed Q10 Q30", []byte{10, 30}, 100 * (1 - (0.1+0.001)/2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok, err := BasecallQuality{}.Estimate(fakeRecord{quals: tt.quals})
			if err != nil || !ok {
				t.Fatalf("Estimate() ok=%v err=%v", ok, err)
			}
			if !near(id, tt.want) {
				t.Errorf("identity = %v, want %v", id, tt.want)
			}
		})
	}

	for _, quals := range [][]byte{nil, {0xff, 0xff}} {
		_, _, err := BasecallQuality{}.Estimate(fakeRecord{quals: quals})
		if !errors.Is(err, errors.ErrCodeParse) {
			t.Errorf("quals %v: err = %v, want PARSE_ERROR", quals, err)
		}
	}
}

func TestAlignedPrefersDivergenceTag(t *testing.T) {
	r := fakeRecord{
		ops: []Op{{OpMatch, 100}},
		aux: map[string]any{"de": float32(0.1), "NM": uint8(1)},
	}
	id, err := Aligned().Estimate(r)
	if err != nil {
		t.Fatal(err)
	}
	if !near(id, 90) {
		t.Errorf("identity = %v, want 90 from the de tag", id)
	}

	delete(r.aux, "de")
	id, err = Aligned().Estimate(r)
	if err != nil {
		t.Fatal(err)
	}
	if !near(id, 99) {
		t.Errorf("identity = %v, want 99 from CIGAR/NM", id)
	}
}

func TestEstimatorNoApplicableTier(t *testing.T) {
	_, err := Aligned().Estimate(fakeRecord{length: 100})
	if !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("err = %v, want PARSE_ERROR", err)
	}
}

func TestEstimatorClamps(t *testing.T) {
	// Inconsistent NM smaller than the gap size would exceed 100%.
	r := fakeRecord{
		ops: []Op{{OpMatch, 10}, {OpInsertion, 5}},
		aux: map[string]any{"NM": uint8(0)},
	}
	id, err := Aligned().Estimate(r)
	if err != nil {
		t.Fatal(err)
	}
	if id != 100 {
		t.Errorf("identity = %v, want clamped to 100", id)
	}
}

func TestTiers(t *testing.T) {
	got := Aligned().Tiers()
	if len(got) != 2 || got[0] != "divergence-tag" || got[1] != "cigar-nm" {
		t.Errorf("Aligned().Tiers() = %v", got)
	}
	if got := Basecall().Tiers(); len(got) != 1 || got[0] != "basecall-quality" {
		t.Errorf("Basecall().Tiers() = %v", got)
	}
}
