package storage

import (
	"errors"
	"time"
)

var ErrClosed = errors.New("store closed")

// Store is a byte-valued key/value store with per-key expiry. A ttl of zero
// means the key never expires.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Keys(prefix string) ([]string, error)
	EvictExpired() (int, error)
	Len() int
	Close() error
}

// Snapshotter is implemented by stores whose contents live only in memory
// and have to be written to disk by FileManager.
type Snapshotter interface {
	Snapshot() map[string]Entry
	Restore(entries map[string]Entry)
}

type CompressorInterface interface {
	Compress(val []byte) ([]byte, error)
	Decompress(val []byte) ([]byte, error)
	Close()
}

type Entry struct {
	Value     []byte    `json:"value"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

func (e Entry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

func expiry(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
