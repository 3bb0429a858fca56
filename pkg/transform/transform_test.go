package transform

import (
	"math"
	"testing"
)

func TestLengthBoundaries(t *testing.T) {
	tests := []struct {
		length int
		want   int
	}{
		{1, 0},
		{10, 100},
		{100, 200},
		{1000, 300},
		{10000, 400},
		{100000, 500},
		{MaxLength, AxisExtent},
		{MaxLength + 1, AxisExtent},
		{50_000_000, AxisExtent},
		{0, 0},
		{-5, 0},
	}

	for _, tt := range tests {
		if got := Length(tt.length); got != tt.want {
			t.Errorf("Length(%d) = %d, want %d", tt.length, got, tt.want)
		}
	}
}

func TestLengthMonotonic(t *testing.T) {
	prev := Length(1)
	for n := 2; n <= 2*MaxLength; n += 997 {
		got := Length(n)
		if got < prev {
			t.Fatalf("Length(%d) = %d < previous %d", n, got, prev)
		}
		if got < 0 || got > AxisExtent {
			t.Fatalf("Length(%d) = %d outside [0, %d]", n, got, AxisExtent)
		}
		prev = got
	}
}

func TestPercentBoundaries(t *testing.T) {
	p := Percent{}
	tests := []struct {
		identity float64
		want     int
	}{
		{100, 0},
		{95, 100},
		{90, 200},
		{80, 400},
		{MinIdentity, AxisExtent},
		{50, AxisExtent},
		{0, AxisExtent},
	}

	for _, tt := range tests {
		if got := p.Y(tt.identity); got != tt.want {
			t.Errorf("Percent.Y(%v) = %d, want %d", tt.identity, got, tt.want)
		}
	}
}

func TestPercentMonotonic(t *testing.T) {
	p := Percent{}
	prev := p.Y(0)
	for id := 0.0; id <= 100; id += 0.013 {
		got := p.Y(id)
		if got > prev {
			t.Fatalf("Percent.Y(%v) = %d > previous %d", id, got, prev)
		}
		prev = got
	}
}

func TestToPhred(t *testing.T) {
	tests := []struct {
		identity float64
		want     float64
	}{
		{90.0, 10.0},
		{99.0, 20.0},
		{99.9, 30.0},
	}

	for _, tt := range tests {
		if got := ToPhred(tt.identity); math.Abs(got-tt.want) > 0.01 {
			t.Errorf("ToPhred(%v) = %v, want %v ± 0.01", tt.identity, got, tt.want)
		}
	}
}

func TestPhredBoundaries(t *testing.T) {
	p := Phred{}
	tests := []struct {
		name     string
		identity float64
		want     int
	}{
		{"perfect read is capped at MaxPhred", 100, 0},
		{"Q30", 99.9, 150},
		{"Q20", 99, 300},
		{"Q10", 90, 450},
		{"Q0", 0, AxisExtent},
		{"beyond Q40", 99.999, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Y(tt.identity); got != tt.want {
				t.Errorf("Phred.Y(%v) = %d, want %d", tt.identity, got, tt.want)
			}
		})
	}
}

func TestRawIsUnclamped(t *testing.T) {
	r := Raw{}
	if got := r.Y(MinIdentity); got != AxisExtent {
		t.Errorf("Raw.Y(MinIdentity) = %d, want %d", got, AxisExtent)
	}
	if got := r.Y(50); got != 1000 {
		t.Errorf("Raw.Y(50) = %d, want 1000", got)
	}
	if got := r.Y(100); got != 0 {
		t.Errorf("Raw.Y(100) = %d, want 0", got)
	}
}

func TestSquareCanvas(t *testing.T) {
	if Length(MaxLength) != AxisExtent {
		t.Errorf("length cap = %d, want %d", Length(MaxLength), AxisExtent)
	}
	if (Percent{}).Y(MinIdentity) != AxisExtent {
		t.Errorf("percent cap = %d, want %d", (Percent{}).Y(MinIdentity), AxisExtent)
	}
	if PhredY(0) != AxisExtent {
		t.Errorf("phred cap = %d, want %d", PhredY(0), AxisExtent)
	}
}

func TestReadsAtHundredKilobases(t *testing.T) {
	samples := []Sample{
		{Length: 100_000, Identity: 100.0},
		{Length: 100_000, Identity: 95.0},
		{Length: 100_000, Identity: 90.0},
	}
	wantY := []int{0, 100, 200}

	for i, s := range samples {
		if x := Length(s.Length); x != 500 {
			t.Errorf("sample %d: x = %d, want 500", i, x)
		}
		if y := (Percent{}).Y(s.Identity); y != wantY[i] {
			t.Errorf("sample %d: y = %d, want %d", i, y, wantY[i])
		}
	}
}

func TestSamplePoint(t *testing.T) {
	tests := []struct {
		name  string
		s     Sample
		acc   Accuracy
		wantX int
		wantY int
	}{
		{"percent 95", Sample{Length: 100000, Identity: 95}, Percent{}, 500, 100},
		{"percent 90", Sample{Length: 1000, Identity: 90}, Percent{}, 300, 200},
		{"phred Q20", Sample{Length: 2000, Identity: 99}, Phred{}, 330, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tt.s.Point(tt.acc)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("Point() = (%d, %d), want (%d, %d)", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestParseAccuracy(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", ScalePercent, false},
		{"percent", ScalePercent, false},
		{"phred", ScalePhred, false},
		{"raw", ScaleRaw, false},
		{"Phred", "", true},
		{"log", "", true},
	}

	for _, tt := range tests {
		acc, err := ParseAccuracy(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAccuracy(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if err == nil && acc.Name() != tt.want {
			t.Errorf("ParseAccuracy(%q).Name() = %q, want %q", tt.name, acc.Name(), tt.want)
		}
	}
}
