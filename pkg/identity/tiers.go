package identity

import (
	"math"

	"github.com/matzehuels/accumap/pkg/errors"
)

// Tag names read by the aligned tiers.
const (
	TagDivergence   = "de"
	TagEditDistance = "NM"
)

// missingQual marks an absent quality string in BAM records.
const missingQual = 0xff

// DivergenceTag reads the gap-compressed per-base divergence that minimap2
// stores in the de:f tag. Older aligners do not write it.
type DivergenceTag struct{}

// Name implements Tier.
func (DivergenceTag) Name() string { return "divergence-tag" }

// Estimate returns 100 * (1 - de) when the tag is present.
func (DivergenceTag) Estimate(r Record) (float64, bool, error) {
	v, ok := r.Aux(TagDivergence)
	if !ok {
		return 0, false, nil
	}
	var de float64
	switch v := v.(type) {
	case float32:
		de = float64(v)
	case float64:
		de = v
	default:
		return 0, false, errors.New(errors.ErrCodeParse, "unexpected type %T for %s tag", v, TagDivergence)
	}
	return 100 * (1 - de), true, nil
}

// GapCompressed reconstructs gap-compressed identity from the edit operations
// and the NM edit distance:
//
//	100 * (1 - (NM - gapSize + gapCount) / (matches + gapCount))
//
// NM counts every inserted and deleted base; subtracting the gap size and
// adding the gap count collapses each indel run into a single difference.
type GapCompressed struct{}

// Name implements Tier.
func (GapCompressed) Name() string { return "cigar-nm" }

// Estimate applies to any record with edit operations. A missing or
// non-unsigned NM tag is a parse error.
func (GapCompressed) Estimate(r Record) (float64, bool, error) {
	ops := r.Ops()
	if len(ops) == 0 {
		return 0, false, nil
	}

	var matches, gapSize, gapCount int
	for _, op := range ops {
		switch op.Type {
		case OpMatch, OpEqual, OpMismatch:
			matches += op.Len
		case OpInsertion, OpDeletion:
			gapSize += op.Len
			gapCount++
		}
	}

	nm, err := editDistance(r)
	if err != nil {
		return 0, false, err
	}
	if matches+gapCount == 0 {
		return 0, false, errors.New(errors.ErrCodeParse, "alignment has no aligned bases")
	}

	diffs := float64(nm - gapSize + gapCount)
	return 100 * (1 - diffs/float64(matches+gapCount)), true, nil
}

func editDistance(r Record) (int, error) {
	v, ok := r.Aux(TagEditDistance)
	if !ok {
		return 0, errors.New(errors.ErrCodeParse, "missing %s tag", TagEditDistance)
	}
	switch v := v.(type) {
	case uint8:
		return int(v), nil
	case uint16:
		return int(v), nil
	case uint32:
		return int(v), nil
	default:
		return 0, errors.New(errors.ErrCodeParse, "unexpected type %T for %s tag", v, TagEditDistance)
	}
}

// BasecallQuality derives the expected accuracy of a read from its base
// qualities: each phred score Q is an error probability 10^(-Q/10), and the
// identity is 100 * (1 - mean error probability).
type BasecallQuality struct{}

// Name implements Tier.
func (BasecallQuality) Name() string { return "basecall-quality" }

// Estimate applies to every record; absent qualities are a parse error.
func (BasecallQuality) Estimate(r Record) (float64, bool, error) {
	quals := r.Quals()
	if len(quals) == 0 || quals[0] == missingQual {
		return 0, false, errors.New(errors.ErrCodeParse, "record has no base qualities")
	}

	var sum float64
	for _, q := range quals {
		sum += errorProbability[q]
	}
	return 100 * (1 - sum/float64(len(quals))), true, nil
}

// errorProbability caches 10^(-q/10) for every byte value.
var errorProbability = func() (p [256]float64) {
	for q := range p {
		p[q] = math.Pow(10, -float64(q)/10)
	}
	return p
}()
