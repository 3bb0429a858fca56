// Package identity estimates the accuracy of a single sequencing read.
//
// An [Estimator] holds an ordered list of [Tier] strategies. Each tier states
// whether it applies to a record; the first applicable tier produces the
// estimate. A tier that applies but finds the record malformed returns an
// error, which is fatal for the run.
//
// Two chains cover the supported inputs:
//
//   - [Aligned]: the aligner's gap-compressed divergence tag (de), falling
//     back to a reconstruction from the CIGAR and the NM tag.
//   - [Basecall]: the expected accuracy implied by per-base quality scores,
//     for unaligned reads.
//
// Identity is gap-compressed: an insertion or deletion run counts as a single
// difference regardless of its length, following
// https://lh3.github.io/2018/11/25/on-the-definition-of-sequence-identity.
package identity

import (
	"math"

	"github.com/matzehuels/accumap/pkg/errors"
)

// OpType classifies an edit operation of an alignment.
type OpType uint8

// Edit operation types. Operations that do not consume both sequences in an
// aligned fashion (clips, skips, padding) are reported as OpOther.
const (
	OpOther OpType = iota
	OpMatch
	OpEqual
	OpMismatch
	OpInsertion
	OpDeletion
)

// Op is one run-length encoded edit operation.
type Op struct {
	Type OpType
	Len  int
}

// Record is the view of an alignment record the estimator needs.
// Implementations are provided by the alignment source.
type Record interface {
	// Len is the read's sequence length.
	Len() int
	// Aux returns the decoded value of an auxiliary tag and whether it exists.
	// Integer tags decode to the Go integer type of their stored width.
	Aux(tag string) (any, bool)
	// Ops returns the alignment's edit operations, empty for unaligned reads.
	Ops() []Op
	// Quals returns per-base phred scores, nil when unavailable.
	Quals() []byte
}

// Tier is one strategy for estimating identity.
type Tier interface {
	// Name identifies the tier in errors and logs.
	Name() string
	// Estimate returns the identity in percent. ok is false when the tier's
	// preconditions do not hold and the next tier should be tried.
	Estimate(r Record) (identity float64, ok bool, err error)
}

// Estimator runs tiers in order until one applies.
type Estimator struct {
	tiers []Tier
}

// New returns an estimator trying tiers in the given order.
func New(tiers ...Tier) *Estimator {
	return &Estimator{tiers: tiers}
}

// Aligned returns the chain for aligned reads: divergence tag, then CIGAR+NM.
func Aligned() *Estimator {
	return New(DivergenceTag{}, GapCompressed{})
}

// Basecall returns the chain for unaligned reads: quality-derived accuracy.
func Basecall() *Estimator {
	return New(BasecallQuality{})
}

// Tiers returns the names of the estimator's tiers in order.
func (e *Estimator) Tiers() []string {
	names := make([]string, len(e.tiers))
	for i, t := range e.tiers {
		names[i] = t.Name()
	}
	return names
}

// Estimate returns the identity of r in percent, clamped to [0, 100].
func (e *Estimator) Estimate(r Record) (float64, error) {
	for _, t := range e.tiers {
		id, ok, err := t.Estimate(r)
		if err != nil {
			return 0, err
		}
		if ok {
			return clamp(id), nil
		}
	}
	return 0, errors.New(errors.ErrCodeParse, "no identity estimate applies to record (tried %v)", e.Tiers())
}

func clamp(id float64) float64 {
	if math.IsNaN(id) {
		return 0
	}
	return math.Max(0, math.Min(100, id))
}
