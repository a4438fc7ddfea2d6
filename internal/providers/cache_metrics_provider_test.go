package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type cacheMetricsTestInner struct {
	data map[string][]byte
}

func (c *cacheMetricsTestInner) Get(key string) ([]byte, bool) {
	v, ok := c.data[key]
	return v, ok
}
func (c *cacheMetricsTestInner) Set(key string, value []byte) {
	c.data[key] = value
}

func TestDownloadCache_Hit(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{"key1": []byte("val1")}}
	metrics := &testMetrics{}
	cache := &downloadCache{CacheProviderInterface: inner, metrics: metrics}

	val, ok := cache.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, []byte("val1"), val)
	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, 0, metrics.misses)
}

func TestDownloadCache_Miss(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{}}
	metrics := &testMetrics{}
	cache := &downloadCache{CacheProviderInterface: inner, metrics: metrics}

	val, ok := cache.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, val)
	assert.Equal(t, 0, metrics.hits)
	assert.Equal(t, 1, metrics.misses)
}

func TestDownloadCache_SetDelegates(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{}}
	metrics := &testMetrics{}
	cache := &downloadCache{CacheProviderInterface: inner, metrics: metrics}

	cache.Set("key2", []byte("val2"))

	val, ok := inner.Get("key2")
	assert.True(t, ok)
	assert.Equal(t, []byte("val2"), val)
}

func TestDownloadCache_MultipleOperations(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{"a": []byte("1")}}
	metrics := &testMetrics{}
	cache := &downloadCache{CacheProviderInterface: inner, metrics: metrics}

	cache.Get("a") // hit
	cache.Get("b") // miss
	cache.Get("a") // hit
	cache.Get("c") // miss

	assert.Equal(t, 2, metrics.hits)
	assert.Equal(t, 2, metrics.misses)
}

func TestNewInstrumentedCacheProvider_DisabledIsNotWrapped(t *testing.T) {
	c := NewInstrumentedCacheProvider(cacheConfig(false, 1, time.Second), &testLogger{}, &testMetrics{})
	assert.IsType(t, &noopCache{}, c)
}

func TestNewInstrumentedCacheProvider_ZeroSizeIsNotWrapped(t *testing.T) {
	metrics := &testMetrics{}
	c := NewInstrumentedCacheProvider(cacheConfig(true, 0, time.Minute), &testLogger{}, metrics)
	assert.IsType(t, &noopCache{}, c)

	_, ok := c.Get("conv-1/Weight 22-2024 Fitbit.fit")
	assert.False(t, ok)
	assert.Equal(t, 0, metrics.misses)
}

func TestNewInstrumentedCacheProvider_EnabledIsWrapped(t *testing.T) {
	metrics := &testMetrics{}
	c := NewInstrumentedCacheProvider(cacheConfig(true, 1, time.Minute), &testLogger{}, metrics)
	assert.IsType(t, &downloadCache{}, c)

	c.Set("conv/Weight 22-2024 Fitbit.fit", []byte{1, 2, 3})
	val, ok := c.Get("conv/Weight 22-2024 Fitbit.fit")
	assert.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, val)
	assert.Equal(t, 1, metrics.hits)
}
