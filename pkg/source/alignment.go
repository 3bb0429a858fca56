package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"

	"github.com/matzehuels/accumap/pkg/errors"
	"github.com/matzehuels/accumap/pkg/identity"
)

var (
	bgzfMagic = []byte{0x1f, 0x8b}
	cramMagic = []byte("CRAM")
)

// Open returns a source for path, choosing the decoder from the file's
// content (or extension, for FASTQ).
func Open(path string, opts Options) (Source, error) {
	if IsFASTQ(path) {
		if !opts.Basecall {
			return nil, errors.New(errors.ErrCodeConfig, "%s: FASTQ input has no alignments; use basecall mode", path)
		}
		return openFASTQ(path)
	}

	var (
		r      io.Reader = os.Stdin
		closer io.Closer
	)
	if path != Stdin {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "cannot open %s", path)
		}
		r, closer = f, f
	}

	src, err := openAlignments(bufio.NewReader(r), opts)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, errors.Wrap(formatCode(err), err, "%s", path)
	}
	src.closers = append(src.closers, closer)
	return src, nil
}

// recordReader is satisfied by both *sam.Reader and *bam.Reader.
type recordReader interface {
	Read() (*sam.Record, error)
}

type alignmentSource struct {
	rr      recordReader
	opts    Options
	stats   Stats
	closers []io.Closer
}

func openAlignments(br *bufio.Reader, opts Options) (*alignmentSource, error) {
	magic, _ := br.Peek(len(cramMagic))
	switch {
	case bytes.HasPrefix(magic, cramMagic):
		return nil, errUnsupported
	case bytes.HasPrefix(magic, bgzfMagic):
		r, err := bam.NewReader(br, opts.threads())
		if err != nil {
			return nil, fmt.Errorf("read BAM header: %w", err)
		}
		return &alignmentSource{rr: r, opts: opts, closers: []io.Closer{r}}, nil
	default:
		r, err := sam.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("read SAM header: %w", err)
		}
		return &alignmentSource{rr: r, opts: opts}, nil
	}
}

var errUnsupported = errors.New(errors.ErrCodeUnsupported, "CRAM input is not supported; convert to BAM first")

func formatCode(err error) errors.Code {
	if errors.Is(err, errors.ErrCodeUnsupported) {
		return errors.ErrCodeUnsupported
	}
	return errors.ErrCodeParse
}

func (s *alignmentSource) Next() (identity.Record, error) {
	for {
		rec, err := s.rr.Read()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "record %d", s.stats.Read+1)
		}
		if s.opts.keep(rec.Flags, rec.Seq.Length, &s.stats) {
			return alignment{rec}, nil
		}
	}
}

func (s *alignmentSource) Stats() Stats { return s.stats }

func (s *alignmentSource) Close() error {
	var first error
	for _, c := range s.closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// alignment adapts a biogo record to identity.Record.
type alignment struct {
	rec *sam.Record
}

func (a alignment) Len() int { return a.rec.Seq.Length }

func (a alignment) Aux(tag string) (any, bool) {
	if len(tag) != 2 {
		return nil, false
	}
	aux := a.rec.AuxFields.Get(sam.NewTag(tag))
	if aux == nil {
		return nil, false
	}
	return aux.Value(), true
}

func (a alignment) Ops() []identity.Op {
	ops := make([]identity.Op, len(a.rec.Cigar))
	for i, co := range a.rec.Cigar {
		ops[i] = identity.Op{Type: opType(co.Type()), Len: co.Len()}
	}
	return ops
}

func (a alignment) Quals() []byte {
	if len(a.rec.Qual) == 0 {
		return nil
	}
	return a.rec.Qual
}

func opType(t sam.CigarOpType) identity.OpType {
	switch t {
	case sam.CigarMatch:
		return identity.OpMatch
	case sam.CigarEqual:
		return identity.OpEqual
	case sam.CigarMismatch:
		return identity.OpMismatch
	case sam.CigarInsertion:
		return identity.OpInsertion
	case sam.CigarDeletion:
		return identity.OpDeletion
	default:
		return identity.OpOther
	}
}
