package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)}
}

// storesUnderTest runs the same contract against every Store implementation.
func storesUnderTest(t *testing.T) map[string]func(*fakeClock) Store {
	return map[string]func(*fakeClock) Store{
		"memory": func(c *fakeClock) Store {
			s := NewMemoryStore()
			s.now = c.now
			return s
		},
		"sqlite": func(c *fakeClock) Store {
			s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "kv.db"))
			require.NoError(t, err)
			s.now = c.now
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
}

func TestStore_SetGetDelete(t *testing.T) {
	for name, mk := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			s := mk(newClock())

			require.NoError(t, s.Set("upload:1", []byte("payload"), 0))
			v, ok, err := s.Get("upload:1")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, []byte("payload"), v)

			require.NoError(t, s.Set("upload:1", []byte("replaced"), 0))
			v, _, _ = s.Get("upload:1")
			assert.Equal(t, []byte("replaced"), v)
			assert.Equal(t, 1, s.Len())

			require.NoError(t, s.Delete("upload:1"))
			_, ok, err = s.Get("upload:1")
			require.NoError(t, err)
			assert.False(t, ok)
			assert.NoError(t, s.Delete("never-set"))
		})
	}
}

func TestStore_Expiry(t *testing.T) {
	for name, mk := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			clock := newClock()
			s := mk(clock)

			require.NoError(t, s.Set("short", []byte("a"), time.Minute))
			require.NoError(t, s.Set("long", []byte("b"), time.Hour))
			require.NoError(t, s.Set("forever", []byte("c"), 0))

			clock.advance(2 * time.Minute)
			_, ok, err := s.Get("short")
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Equal(t, 3, s.Len())

			keys, err := s.Keys("")
			require.NoError(t, err)
			assert.Equal(t, []string{"forever", "long"}, keys)

			n, err := s.EvictExpired()
			require.NoError(t, err)
			assert.Equal(t, 1, n)
			assert.Equal(t, 2, s.Len())

			clock.advance(2 * time.Hour)
			n, err = s.EvictExpired()
			require.NoError(t, err)
			assert.Equal(t, 1, n)

			v, ok, _ := s.Get("forever")
			assert.True(t, ok)
			assert.Equal(t, []byte("c"), v)
		})
	}
}

func TestStore_KeysByPrefix(t *testing.T) {
	for name, mk := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			s := mk(newClock())
			for _, k := range []string{"usage:b", "usage:a", "upload:x", "usage_z", "conversion:1"} {
				require.NoError(t, s.Set(k, []byte(k), 0))
			}

			keys, err := s.Keys("usage:")
			require.NoError(t, err)
			assert.Equal(t, []string{"usage:a", "usage:b"}, keys)

			keys, err = s.Keys("missing:")
			require.NoError(t, err)
			assert.Empty(t, keys)
		})
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("conversion:1", []byte{0x0E, 0x20}, time.Hour))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Get("conversion:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte{0x0E, 0x20}, v)
}

func TestSQLiteStore_BadPath(t *testing.T) {
	_, err := NewSQLiteStore(filepath.Join(t.TempDir(), "missing", "dir", "kv.db"))
	assert.Error(t, err)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	src := []byte("abc")
	require.NoError(t, s.Set("k", src, 0))
	src[0] = 'x'

	v, _, _ := s.Get("k")
	assert.Equal(t, []byte("abc"), v)
	v[1] = 'y'
	v2, _, _ := s.Get("k")
	assert.Equal(t, []byte("abc"), v2)
}

func TestMemoryStore_Closed(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Close())

	_, _, err := s.Get("k")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Set("k", nil, 0), ErrClosed)
	_, err = s.Keys("")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMemoryStore_SnapshotSkipsExpired(t *testing.T) {
	clock := newClock()
	s := NewMemoryStore()
	s.now = clock.now
	require.NoError(t, s.Set("a", []byte("1"), time.Minute))
	require.NoError(t, s.Set("b", []byte("2"), 0))
	clock.advance(time.Hour)

	snap := s.Snapshot()
	assert.Len(t, snap, 1)
	assert.Contains(t, snap, "b")

	other := NewMemoryStore()
	other.now = clock.now
	other.Restore(map[string]Entry{
		"live":    {Value: []byte("x"), ExpiresAt: clock.t.Add(time.Minute)},
		"expired": {Value: []byte("y"), ExpiresAt: clock.t.Add(-time.Minute)},
	})
	assert.Equal(t, 1, other.Len())
}
