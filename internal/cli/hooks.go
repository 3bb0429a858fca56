package cli

import (
	"context"
	"time"

	"github.com/matzehuels/accumap/pkg/observability"
)

// logHooks reports pipeline and cache events as debug logs on the logger
// carried by the event's context, so each line keeps its run ID.
type logHooks struct{}

var (
	_ observability.PipelineHooks = logHooks{}
	_ observability.CacheHooks    = logHooks{}
)

func (logHooks) OnDatasetStart(ctx context.Context, path string) {
	loggerFromContext(ctx).Debug("reading dataset", "dataset", path)
}

func (logHooks) OnDatasetComplete(ctx context.Context, path string, records int, d time.Duration, err error) {
	if err != nil {
		loggerFromContext(ctx).Debug("dataset failed", "dataset", path, "err", err)
		return
	}
	loggerFromContext(ctx).Debug("dataset ready", "dataset", path, "records", records, "duration", d.Round(time.Millisecond))
}

func (logHooks) OnCompositeComplete(ctx context.Context, layers, bins, saturated int, d time.Duration) {
	loggerFromContext(ctx).Debug("composite done", "layers", layers, "bins", bins, "saturated", saturated, "duration", d.Round(time.Millisecond))
}

func (logHooks) OnRenderStart(ctx context.Context, output string) {
	loggerFromContext(ctx).Debug("writing image", "output", output)
}

func (logHooks) OnRenderComplete(ctx context.Context, output string, d time.Duration, err error) {
	if err != nil {
		loggerFromContext(ctx).Debug("write failed", "output", output, "err", err)
		return
	}
	loggerFromContext(ctx).Debug("image written", "output", output, "duration", d.Round(time.Millisecond))
}

func (logHooks) OnCacheHit(ctx context.Context, path string) {
	loggerFromContext(ctx).Debug("cache hit", "dataset", path)
}

func (logHooks) OnCacheMiss(ctx context.Context, path string) {
	loggerFromContext(ctx).Debug("cache miss", "dataset", path)
}

func (logHooks) OnCacheSet(ctx context.Context, path string, size int) {
	loggerFromContext(ctx).Debug("cached histogram", "dataset", path, "bytes", size)
}

// installHooks registers logHooks for both hook families and returns a
// function that restores the no-op hooks.
func installHooks() func() {
	h := logHooks{}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	return observability.Reset
}
