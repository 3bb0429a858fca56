// Package pipeline runs the accumap heatmap pipeline end to end.
//
// # Architecture
//
// A run has two phases:
//
//  1. Build: each input dataset is streamed through its source, every record's
//     identity is estimated, transformed onto the canvas grid and counted.
//     Datasets are built in parallel; the first failure cancels the rest.
//  2. Render: after all datasets are joined the histograms are optionally
//     log2-normalised, composited onto one canvas, annotated with axes and
//     encoded as PNG.
//
// Built histograms are cached (see package cache) so re-rendering the same
// runs with different colours or background skips the build phase.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Inputs: []string{"run1.bam", "run2.bam"},
//	    Colors: []string{"red", "cyan"},
//	})
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/accumap/pkg/config"
	"github.com/matzehuels/accumap/pkg/errors"
	"github.com/matzehuels/accumap/pkg/histogram"
	"github.com/matzehuels/accumap/pkg/identity"
	"github.com/matzehuels/accumap/pkg/render"
	"github.com/matzehuels/accumap/pkg/source"
	"github.com/matzehuels/accumap/pkg/transform"
)

// Default values shared by the CLI and library callers.
const (
	DefaultOutput  = config.DefaultOutput
	DefaultThreads = source.DefaultThreads
)

// MaxDatasets is the number of datasets one image can overlay.
const MaxDatasets = render.MaxLayers

// Options configures a run.
type Options struct {
	// Inputs are the dataset paths, "-" for standard input.
	Inputs []string `json:"inputs"`
	// Colors assigns a palette colour to each input by position. Empty
	// assigns red, green, blue in order.
	Colors []string `json:"colors,omitempty"`
	// Background is "black" (default) or "white".
	Background string `json:"background,omitempty"`
	// Accuracy is the y-axis scale: "percent" (default), "phred" or "raw".
	Accuracy string `json:"accuracy,omitempty"`
	// Normalize replaces every count c with floor(log2(c)) before compositing.
	Normalize bool `json:"normalize,omitempty"`
	// Basecall estimates identity from base qualities instead of alignments.
	Basecall bool `json:"basecall,omitempty"`
	// Threads is the BAM decompression concurrency per input.
	Threads int `json:"threads,omitempty"`
	// Output is the PNG path.
	Output string `json:"output,omitempty"`
	// Refresh ignores cached histograms and rebuilds them.
	Refresh bool `json:"refresh,omitempty"`

	// Logger receives this run's events. Nil selects the Runner's logger.
	Logger *log.Logger `json:"-"`

	plan      plan
	validated bool
}

// plan holds the typed values resolved from Options.
type plan struct {
	colors     []render.Color
	background render.Background
	accuracy   transform.Accuracy
	estimator  *identity.Estimator
}

// Result describes a completed run.
type Result struct {
	Output   string
	Datasets []DatasetResult
	Canvas   *render.Canvas
	Stats    Stats
}

// DatasetResult describes one built dataset.
type DatasetResult struct {
	Path      string
	Color     string
	Hist      *histogram.Histogram
	Source    source.Stats
	CacheHit  bool
	BuildTime time.Duration
}

// Stats holds run-level timings and compositor counters.
type Stats struct {
	BuildTime   time.Duration
	RenderTime  time.Duration
	Bins        int
	OutOfBounds int
	Saturated   int
	MaxCount    int
}

// ValidateAndSetDefaults checks the configuration and resolves it into typed
// values. It runs before any record is read and reports every problem as a
// config error. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	n := len(o.Inputs)
	if n == 0 || n > MaxDatasets {
		return errors.New(errors.ErrCodeConfig, "got %d datasets, expected 1 to %d", n, MaxDatasets)
	}
	if len(o.Colors) != 0 && len(o.Colors) != n {
		return errors.New(errors.ErrCodeConfig, "got %d datasets but %d colors", n, len(o.Colors))
	}
	stdin := 0
	for _, in := range o.Inputs {
		if in == source.Stdin {
			stdin++
		}
	}
	if stdin > 1 {
		return errors.New(errors.ErrCodeConfig, "standard input can only be read once")
	}
	if o.Threads < 0 {
		return errors.New(errors.ErrCodeConfig, "threads must not be negative, got %d", o.Threads)
	}

	var p plan
	if len(o.Colors) == 0 {
		p.colors = render.DefaultColors[:n]
	} else {
		for _, name := range o.Colors {
			c, err := render.ParseColor(name)
			if err != nil {
				return errors.Wrap(errors.ErrCodeConfig, err, "invalid color")
			}
			p.colors = append(p.colors, c)
		}
	}

	bg, err := render.ParseBackground(o.Background)
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfig, err, "invalid background")
	}
	p.background = bg

	acc, err := transform.ParseAccuracy(o.Accuracy)
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfig, err, "invalid accuracy mode")
	}
	p.accuracy = acc

	if o.Basecall {
		p.estimator = identity.Basecall()
	} else {
		p.estimator = identity.Aligned()
	}

	if o.Threads == 0 {
		o.Threads = DefaultThreads
	}
	if o.Output == "" {
		o.Output = DefaultOutput
	}

	o.plan = p
	o.validated = true
	return nil
}

// ValidateInputs checks that every input exists. Unlike the option checks it
// touches the file system.
func (o *Options) ValidateInputs() error {
	for _, in := range o.Inputs {
		if err := errors.ValidateInputPath(in); err != nil {
			return err
		}
	}
	return nil
}

// AccuracyScale returns the resolved accuracy strategy.
// It is nil until ValidateAndSetDefaults succeeds.
func (o *Options) AccuracyScale() transform.Accuracy { return o.plan.accuracy }

// sourceOptions returns how inputs are decoded.
func (o *Options) sourceOptions() source.Options {
	return source.Options{Basecall: o.Basecall, Threads: o.Threads}
}
