package providers

import "f2g/internal/structures"

// downloadCache counts lookups of converted files so the hit ratio of the
// download path shows up next to the request metrics.
type downloadCache struct {
	CacheProviderInterface
	metrics MetricsProviderInterface
}

func (c *downloadCache) Get(key string) ([]byte, bool) {
	data, ok := c.CacheProviderInterface.Get(key)
	if !ok {
		c.metrics.IncCacheMisses()
		return nil, false
	}
	c.metrics.IncCacheHits()
	return data, true
}

// NewInstrumentedCacheProvider returns the configured cache with hit and
// miss counters. A disabled cache is returned bare; every lookup on it would
// count as a miss.
func NewInstrumentedCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	inner := NewCacheProvider(conf, logger)
	if _, disabled := inner.(*noopCache); disabled {
		return inner
	}
	return &downloadCache{CacheProviderInterface: inner, metrics: metrics}
}
