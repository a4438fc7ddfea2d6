package services

import (
	"testing"
	"time"

	"f2g/internal/models"
	"f2g/internal/storage"
	"f2g/internal/structures"
	"f2g/internal/testutil"
)

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func testConfig() *structures.Config {
	return &structures.Config{
		Converter: structures.ConverterConfig{Strategy: "logid"},
		Upload: structures.UploadConfig{
			MaxFiles:    2,
			MaxFileSize: 1 << 20,
			TTL:         time.Hour,
		},
		Limits: structures.LimitsConfig{
			DailyLimit:          2,
			ResetPeriod:         24 * time.Hour,
			SuspiciousWindow:    time.Hour,
			SuspiciousThreshold: 3,
		},
		Storage: structures.StorageConfig{
			Type:          "memory",
			ConversionTTL: time.Hour,
		},
	}
}

type fixture struct {
	clock   *clock
	store   *storage.MemoryStore
	usage   *UsageService
	cache   *testutil.MockCache
	metrics *testutil.MockMetrics
	logger  *testutil.MockLogger
	conf    *structures.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c := &clock{t: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)}
	conf := testConfig()
	store := storage.NewMemoryStore()
	store.SetClock(c.now)
	logger := &testutil.MockLogger{}
	usage := NewUsageService(conf, store, logger).(*UsageService)
	usage.now = c.now
	return &fixture{
		clock:   c,
		store:   store,
		usage:   usage,
		cache:   testutil.NewMockCache(),
		metrics: &testutil.MockMetrics{},
		logger:  logger,
		conf:    conf,
	}
}

func fingerprint(hash string) models.FingerprintData {
	return models.FingerprintData{
		FingerprintHash:  hash,
		UserAgent:        "Mozilla/5.0",
		ScreenResolution: "1920x1080",
		Timezone:         "Europe/Berlin",
	}
}
