// Package observability lets a host program watch a heatmap run without the
// library depending on any logging or metrics backend.
//
// Hooks are registered once at startup; library code calls the registered
// implementation, which defaults to a no-op:
//
//	observability.SetPipelineHooks(logHooks{})
//
//	observability.Pipeline().OnDatasetStart(ctx, path)
//	// ... decode and bin ...
//	observability.Pipeline().OnDatasetComplete(ctx, path, kept, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the heatmap pipeline.
type PipelineHooks interface {
	// Dataset events, one pair per input file.
	OnDatasetStart(ctx context.Context, path string)
	OnDatasetComplete(ctx context.Context, path string, records int, duration time.Duration, err error)

	// Composite events.
	OnCompositeComplete(ctx context.Context, layers, bins, saturated int, duration time.Duration)

	// Render events.
	OnRenderStart(ctx context.Context, output string)
	OnRenderComplete(ctx context.Context, output string, duration time.Duration, err error)
}

// CacheHooks receives events from histogram cache lookups.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, path string)
	OnCacheMiss(ctx context.Context, path string)
	OnCacheSet(ctx context.Context, path string, size int)
}

// NoopPipelineHooks ignores every event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnDatasetStart(context.Context, string) {}
func (NoopPipelineHooks) OnDatasetComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnCompositeComplete(context.Context, int, int, int, time.Duration) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                             {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, time.Duration, error)    {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores the no-op hooks.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
}
