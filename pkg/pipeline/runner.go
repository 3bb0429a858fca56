package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/accumap/pkg/cache"
	"github.com/matzehuels/accumap/pkg/errors"
	"github.com/matzehuels/accumap/pkg/histogram"
	"github.com/matzehuels/accumap/pkg/observability"
	"github.com/matzehuels/accumap/pkg/render"
	"github.com/matzehuels/accumap/pkg/source"
)

// Runner executes the pipeline with histogram caching.
//
// The Runner holds no per-run state; one Runner can serve concurrent runs
// with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// selects cache.DefaultKeyer and a nil logger selects log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLHistogram,
	}
}

// Execute validates opts, builds every dataset, renders the heatmap and writes
// it to opts.Output. Nothing is written unless every dataset succeeds.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := opts.ValidateInputs(); err != nil {
		return nil, err
	}
	if err := errors.ValidateOutputPath(opts.Output); err != nil {
		return nil, err
	}

	result := &Result{Output: opts.Output}

	buildStart := time.Now()
	datasets, err := r.Build(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Datasets = datasets
	result.Stats.BuildTime = time.Since(buildStart)

	renderStart := time.Now()
	canvas, stats, err := r.Render(ctx, datasets, opts)
	if err != nil {
		return nil, err
	}
	result.Canvas = canvas
	result.Stats.Bins = stats.Bins
	result.Stats.OutOfBounds = stats.OutOfBounds
	result.Stats.Saturated = stats.Saturated
	result.Stats.MaxCount = stats.Max

	observability.Pipeline().OnRenderStart(ctx, opts.Output)
	err = render.WritePNG(opts.Output, canvas)
	observability.Pipeline().OnRenderComplete(ctx, opts.Output, time.Since(renderStart), err)
	if err != nil {
		return nil, err
	}
	result.Stats.RenderTime = time.Since(renderStart)

	logger := r.logger(opts)
	logger.Info("wrote heatmap",
		"output", opts.Output,
		"bins", stats.Bins,
		"duration", result.Stats.RenderTime)
	if stats.OutOfBounds > 0 {
		logger.Warn("bins outside the canvas were skipped", "count", stats.OutOfBounds, "accuracy", opts.AccuracyScale().Name())
	}
	return result, nil
}

// Build builds every dataset in parallel. The first failure cancels the
// remaining builds and is returned.
func (r *Runner) Build(ctx context.Context, opts Options) ([]DatasetResult, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	results := make([]DatasetResult, len(opts.Inputs))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range opts.Inputs {
		g.Go(func() error {
			res, err := r.buildDataset(gctx, path, opts)
			if err != nil {
				return err
			}
			res.Color = opts.plan.colors[i].Name
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Render composites built datasets and annotates the axes.
func (r *Runner) Render(ctx context.Context, datasets []DatasetResult, opts Options) (*render.Canvas, render.CompositeStats, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, render.CompositeStats{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, render.CompositeStats{}, err
	}

	start := time.Now()
	layers := make([]render.Layer, len(datasets))
	for i, d := range datasets {
		h := d.Hist
		if opts.Normalize {
			h = h.Log2()
		}
		layers[i] = render.Layer{Name: d.Path, Hist: h, Color: opts.plan.colors[i]}
	}

	canvas := render.NewCanvas(opts.plan.background)
	stats, err := render.Composite(canvas, layers)
	if err != nil {
		return nil, stats, err
	}
	observability.Pipeline().OnCompositeComplete(ctx, len(layers), stats.Bins, stats.Saturated, time.Since(start))
	r.logger(opts).Debug("composited datasets",
		"layers", len(layers),
		"bins", stats.Bins,
		"max", stats.Max,
		"saturated", stats.Saturated)

	d := render.NewGGDrawer(canvas)
	render.Annotate(d, opts.plan.accuracy, opts.plan.background)
	if err := d.Err(); err != nil {
		return nil, stats, errors.Wrap(errors.ErrCodeInternal, err, "draw axis labels")
	}
	return canvas, stats, nil
}

// buildDataset returns the dataset's histogram from the cache or builds it.
func (r *Runner) buildDataset(ctx context.Context, path string, opts Options) (DatasetResult, error) {
	start := time.Now()
	logger := r.logger(opts)
	res := DatasetResult{Path: path}
	hooks := observability.Pipeline()
	hooks.OnDatasetStart(ctx, path)

	key, cacheable := r.cacheKey(path, opts)
	if cacheable && !opts.Refresh {
		if e, ok := r.lookup(ctx, logger, key, path); ok {
			res.Hist, res.Source, res.CacheHit = e.Hist, e.Source, true
			res.BuildTime = time.Since(start)
			hooks.OnDatasetComplete(ctx, path, e.Source.Kept, res.BuildTime, nil)
			logger.Debug("dataset from cache", "dataset", path, "bins", e.Hist.Len())
			return res, nil
		}
	}

	h, st, err := BuildHistogram(ctx, path, opts.sourceOptions(), opts.plan.estimator, opts.plan.accuracy)
	res.BuildTime = time.Since(start)
	hooks.OnDatasetComplete(ctx, path, st.Kept, res.BuildTime, err)
	if err != nil {
		return res, err
	}
	res.Hist, res.Source = h, st

	logger.Debug("built dataset",
		"dataset", path,
		"read", st.Read,
		"kept", st.Kept,
		"bins", h.Len(),
		"duration", res.BuildTime)

	if cacheable {
		r.store(ctx, logger, key, path, cacheEntry{Hist: h, Source: st})
	}
	return res, nil
}

// cacheEntry is the cached form of a built dataset.
type cacheEntry struct {
	Hist   *histogram.Histogram `json:"hist"`
	Source source.Stats         `json:"source"`
}

// cacheKey identifies a dataset file by path, size and modification time.
// Standard input cannot be identified and is never cached.
func (r *Runner) cacheKey(path string, opts Options) (string, bool) {
	if path == source.Stdin {
		return "", false
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return r.Keyer.HistogramKey(cache.HistogramKeyOpts{
		Path:     abs,
		Size:     info.Size(),
		ModTime:  info.ModTime(),
		Basecall: opts.Basecall,
		Accuracy: opts.plan.accuracy.Name(),
	}), true
}

// lookup reads a cached dataset. Backend and decoding failures are logged and
// treated as misses, as is an entry whose counts disagree with its kept reads.
func (r *Runner) lookup(ctx context.Context, logger *log.Logger, key, path string) (cacheEntry, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "dataset", path, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, path)
		return cacheEntry{}, false
	}

	var e cacheEntry
	if err := json.Unmarshal(data, &e); err != nil || e.Hist == nil || e.Hist.Empty() || e.Hist.Total() != e.Source.Kept {
		observability.Cache().OnCacheMiss(ctx, path)
		return cacheEntry{}, false
	}
	observability.Cache().OnCacheHit(ctx, path)
	return e, true
}

func (r *Runner) store(ctx context.Context, logger *log.Logger, key, path string, e cacheEntry) {
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		logger.Warn("cache write failed", "dataset", path, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, path, len(data))
}

// logger returns the run's logger: opts.Logger when set, else the runner's.
func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
