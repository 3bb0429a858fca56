package source

import (
	"io"

	"github.com/shenwei356/bio/seqio/fastx"

	"github.com/matzehuels/accumap/pkg/errors"
	"github.com/matzehuels/accumap/pkg/identity"
)

// phredOffset is the ASCII offset of FASTQ quality strings (Sanger/Illumina 1.8+).
const phredOffset = 33

// fastqSource reads unaligned reads for basecall-quality identity.
// Every read counts as unmapped; only empty reads are dropped.
type fastqSource struct {
	path   string
	reader *fastx.Reader
	stats  Stats
}

func openFASTQ(path string) (*fastqSource, error) {
	r, err := fastx.NewDefaultReader(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "cannot open %s", path)
	}
	return &fastqSource{path: path, reader: r}, nil
}

func (s *fastqSource) Next() (identity.Record, error) {
	for {
		rec, err := s.reader.Read()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "%s: record %d", s.path, s.stats.Read+1)
		}

		s.stats.Read++
		if len(rec.Seq.Seq) == 0 {
			s.stats.Empty++
			continue
		}
		s.stats.Kept++
		return newRead(rec.Seq.Seq, rec.Seq.Qual), nil
	}
}

func (s *fastqSource) Stats() Stats { return s.stats }

func (s *fastqSource) Close() error {
	s.reader.Close()
	return nil
}

// read is an unaligned record. Its qualities are decoded to phred values;
// a FASTA-style record without qualities reports none.
type read struct {
	length int
	quals  []byte
}

func newRead(seq, qual []byte) read {
	r := read{length: len(seq)}
	if len(qual) > 0 {
		// The reader reuses its buffers between records.
		r.quals = make([]byte, len(qual))
		for i, q := range qual {
			r.quals[i] = max(q, phredOffset) - phredOffset
		}
	}
	return r
}

func (r read) Len() int               { return r.length }
func (r read) Aux(string) (any, bool) { return nil, false }
func (r read) Ops() []identity.Op     { return nil }
func (r read) Quals() []byte          { return r.quals }
