// Package cache stores built histograms so re-rendering a dataset with a new
// palette, background or normalisation skips decoding the alignments.
//
// # Backends
//
//   - [FileCache]: entries as JSON files under a directory (the CLI default,
//     ~/.cache/accumap).
//   - [RedisCache]: a shared Redis instance, for teams rendering the same
//     runs from several machines.
//   - [NullCache]: stores nothing (--no-cache).
//
// # Keys
//
// A [Keyer] derives keys from everything that determines a histogram: the
// input's identity (path, size, modification time) and the binning options
// (basecall mode, accuracy scale). Colours, background and normalisation are
// applied after the cache and are not part of the key. [ScopedKeyer] adds a
// namespace prefix so several projects can share one Redis.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// TTLHistogram is the default lifetime of a cached histogram.
const TTLHistogram = 7 * 24 * time.Hour

// keyVersion changes whenever the binning or the entry format changes, so
// stale entries from older builds are never decoded.
const keyVersion = 1

// HistogramKeyOpts identifies one dataset's histogram.
type HistogramKeyOpts struct {
	Path     string
	Size     int64
	ModTime  time.Time
	Basecall bool
	Accuracy string
}

// Keyer derives cache keys.
type Keyer interface {
	HistogramKey(opts HistogramKeyOpts) string
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HistogramKey returns "hist:<sha256>" over the options.
func (DefaultKeyer) HistogramKey(opts HistogramKeyOpts) string {
	return hashKey("hist", keyVersion, opts.Path, opts.Size, opts.ModTime.UnixNano(), opts.Basecall, opts.Accuracy)
}
