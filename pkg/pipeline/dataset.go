package pipeline

import (
	"context"
	"io"

	"github.com/matzehuels/accumap/pkg/errors"
	"github.com/matzehuels/accumap/pkg/histogram"
	"github.com/matzehuels/accumap/pkg/identity"
	"github.com/matzehuels/accumap/pkg/source"
	"github.com/matzehuels/accumap/pkg/transform"
)

// checkEvery is how many records are read between cancellation checks.
const checkEvery = 4096

// BuildHistogram streams the dataset at path and bins every record that
// passes filtering at (Length(len), acc.Y(identity)).
//
// Any record whose identity cannot be estimated aborts the build. A dataset
// with no surviving records is an EMPTY_DATASET error. All errors name path.
func BuildHistogram(ctx context.Context, path string, opts source.Options, est *identity.Estimator, acc transform.Accuracy) (*histogram.Histogram, source.Stats, error) {
	src, err := source.Open(path, opts)
	if err != nil {
		return nil, source.Stats{}, err
	}
	defer src.Close()

	h := histogram.New()
	for n := 1; ; n++ {
		if n%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, src.Stats(), err
			}
		}

		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, src.Stats(), errors.Wrap(codeOr(err, errors.ErrCodeIO), err, "dataset %s", path)
		}

		id, err := est.Estimate(rec)
		if err != nil {
			return nil, src.Stats(), errors.Wrap(errors.ErrCodeParse, err, "dataset %s: record %d", path, src.Stats().Read)
		}
		h.Add(transform.Sample{Length: rec.Len(), Identity: id}.Point(acc))
	}

	st := src.Stats()
	if h.Empty() {
		return nil, st, errors.New(errors.ErrCodeData, "dataset %s has no usable records (%d read, all filtered)", path, st.Read)
	}
	return h, st, nil
}

// codeOr returns err's code, or fallback when err is not structured.
func codeOr(err error, fallback errors.Code) errors.Code {
	if code := errors.GetCode(err); code != "" {
		return code
	}
	return fallback
}
