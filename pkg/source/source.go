// Package source streams sequencing records out of alignment and read files.
//
// [Open] inspects the input and returns a [Source] for it:
//
//   - BAM, recognised by its BGZF (gzip) magic, decoded with biogo/hts with
//     [Options.Threads] decompression workers.
//   - SAM text, for anything else that is not CRAM.
//   - FASTQ (.fastq, .fq, optionally gzipped), in basecall mode only.
//
// The path "-" reads SAM or BAM from standard input.
//
// Records that cannot contribute a meaningful (length, identity) pair are
// filtered inside the source and tallied in [Stats]. Aligned mode drops
// unmapped and secondary alignments; basecall mode keeps unmapped reads but
// drops secondary and supplementary ones so every read is counted once.
// Zero-length records are dropped in both modes.
package source

import (
	"strings"

	"github.com/biogo/hts/sam"

	"github.com/matzehuels/accumap/pkg/errors"
	"github.com/matzehuels/accumap/pkg/identity"
)

// Stdin is the path that selects standard input.
const Stdin = errors.Stdin

// DefaultThreads is the number of BAM decompression workers when unset.
const DefaultThreads = 4

// Options controls how a source decodes and filters records.
type Options struct {
	// Basecall keeps unmapped reads, for quality-based identity.
	Basecall bool
	// Threads is the BGZF decompression concurrency. Zero selects
	// DefaultThreads.
	Threads int
}

func (o Options) threads() int {
	if o.Threads > 0 {
		return o.Threads
	}
	return DefaultThreads
}

// Source yields filtered records until io.EOF.
type Source interface {
	// Next returns the next record that passed filtering.
	Next() (identity.Record, error)
	// Stats reports the filtering tallies so far.
	Stats() Stats
	// Close releases the underlying input.
	Close() error
}

// Stats tallies what a source read and dropped.
type Stats struct {
	Read          int `json:"read"`
	Kept          int `json:"kept"`
	Unmapped      int `json:"unmapped"`
	Secondary     int `json:"secondary"`
	Supplementary int `json:"supplementary"`
	Empty         int `json:"empty"`
}

// Dropped is the number of records filtered out.
func (s Stats) Dropped() int { return s.Read - s.Kept }

// keep applies the mode's filter and records the outcome.
func (o Options) keep(flags sam.Flags, length int, st *Stats) bool {
	st.Read++
	switch {
	case flags&sam.Secondary != 0:
		st.Secondary++
	case o.Basecall && flags&sam.Supplementary != 0:
		st.Supplementary++
	case !o.Basecall && flags&sam.Unmapped != 0:
		st.Unmapped++
	case length == 0:
		st.Empty++
	default:
		st.Kept++
		return true
	}
	return false
}

// IsFASTQ reports whether path names a FASTQ file by its extension.
func IsFASTQ(path string) bool {
	p := strings.TrimSuffix(strings.ToLower(path), ".gz")
	return strings.HasSuffix(p, ".fastq") || strings.HasSuffix(p, ".fq")
}
