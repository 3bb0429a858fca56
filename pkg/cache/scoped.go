package cache

// ScopedKeyer wraps a Keyer with a prefix so several projects can share one
// cache backend without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "lab:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer selects DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// HistogramKey returns the inner key with the prefix prepended.
func (k *ScopedKeyer) HistogramKey(opts HistogramKeyOpts) string {
	return k.prefix + k.inner.HistogramKey(opts)
}
