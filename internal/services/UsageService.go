package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"f2g/internal/models"
	"f2g/internal/providers"
	"f2g/internal/storage"
	"f2g/internal/structures"

	json "github.com/goccy/go-json"
)

const (
	usagePrefix     = "usage:"
	ipSeenPrefix    = "ipfp:"
	unknownProperty = "unknown"
)

type UsageServiceInterface interface {
	Fingerprint(fp models.FingerprintData) string
	CheckRateLimit(fp models.FingerprintData, ip string) (bool, *models.UsageRecord, error)
	RecordConversion(fp models.FingerprintData, ip string) (*models.UsageRecord, error)
	DetectSuspicious(ip string) (bool, error)
	GetUsageStats(fp models.FingerprintData, ip string) (*models.UsageLimits, error)
}

// UsageService enforces the per-fingerprint daily conversion limit and
// flags addresses that cycle through many fingerprints.
type UsageService struct {
	mu     sync.Mutex
	store  storage.Store
	limits structures.LimitsConfig
	logger providers.Logger
	now    func() time.Time
}

func NewUsageService(conf *structures.Config, store storage.Store, logger providers.Logger) UsageServiceInterface {
	return &UsageService{
		store:  store,
		limits: conf.Limits,
		logger: logger,
		now:    time.Now,
	}
}

// UsageFingerprint builds the fingerprint the usage endpoint can know about:
// only the client hash and user agent.
func UsageFingerprint(hash, userAgent string) models.FingerprintData {
	return models.FingerprintData{
		FingerprintHash:  hash,
		UserAgent:        userAgent,
		ScreenResolution: unknownProperty,
		Timezone:         unknownProperty,
	}
}

// Fingerprint hashes the client fingerprint together with the user agent,
// screen and timezone. Keys are sorted so the hash is stable.
func (us *UsageService) Fingerprint(fp models.FingerprintData) string {
	composite, _ := json.Marshal(map[string]string{
		"fingerprint": fp.FingerprintHash,
		"user_agent":  fp.UserAgent,
		"screen":      fp.ScreenResolution,
		"timezone":    fp.Timezone,
	})
	sum := sha256.Sum256(composite)
	return hex.EncodeToString(sum[:])
}

func (us *UsageService) ttl() time.Duration {
	return max(us.limits.ResetPeriod, us.limits.SuspiciousWindow)
}

func (us *UsageService) load(hash string) (*models.UsageRecord, error) {
	data, ok, err := us.store.Get(usagePrefix + hash)
	if err != nil || !ok {
		return nil, err
	}
	var rec models.UsageRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		us.logger.Warnf(providers.TypeApp, "Dropping unreadable usage record %s: %s", hash, err)
		return nil, nil
	}
	return &rec, nil
}

func (us *UsageService) save(rec *models.UsageRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := us.store.Set(usagePrefix+rec.FingerprintHash, data, us.ttl()); err != nil {
		return err
	}
	return us.store.Set(ipSeenPrefix+rec.IPAddress+"|"+rec.FingerprintHash, nil, us.limits.SuspiciousWindow)
}

// current loads or creates the record for fp, applying the daily reset.
func (us *UsageService) current(fp models.FingerprintData, ip string) (*models.UsageRecord, error) {
	hash := us.Fingerprint(fp)
	now := us.now()
	rec, err := us.load(hash)
	if err != nil {
		return nil, fmt.Errorf("load usage: %w", err)
	}
	if rec == nil {
		rec = models.NewUsageRecord(hash, ip, now)
		return rec, us.save(rec)
	}
	dirty := false
	if rec.ShouldReset(now, us.limits.ResetPeriod) {
		rec.Reset()
		rec.UpdatedAt = now
		dirty = true
	}
	// A known fingerprint on a new address joins that address's index.
	if ip != "" && rec.IPAddress != ip {
		rec.IPAddress = ip
		dirty = true
	}
	if dirty {
		return rec, us.save(rec)
	}
	return rec, nil
}

func (us *UsageService) CheckRateLimit(fp models.FingerprintData, ip string) (bool, *models.UsageRecord, error) {
	us.mu.Lock()
	defer us.mu.Unlock()

	rec, err := us.current(fp, ip)
	if err != nil {
		return false, nil, err
	}
	return rec.ConversionsCount < us.limits.DailyLimit, rec, nil
}

func (us *UsageService) RecordConversion(fp models.FingerprintData, ip string) (*models.UsageRecord, error) {
	us.mu.Lock()
	defer us.mu.Unlock()

	rec, err := us.current(fp, ip)
	if err != nil {
		return nil, err
	}
	rec.IPAddress = ip
	rec.Record(us.now())
	if err := us.save(rec); err != nil {
		return nil, fmt.Errorf("save usage: %w", err)
	}
	return rec, nil
}

// DetectSuspicious reports whether more than the configured number of
// distinct fingerprints were active from ip within the window.
func (us *UsageService) DetectSuspicious(ip string) (bool, error) {
	keys, err := us.store.Keys(ipSeenPrefix + ip + "|")
	if err != nil {
		return false, err
	}
	if len(keys) > us.limits.SuspiciousThreshold {
		us.logger.Warnf(providers.TypeApp, "Suspicious activity from %s: %d fingerprints", ip, len(keys))
		return true, nil
	}
	return false, nil
}

func (us *UsageService) GetUsageStats(fp models.FingerprintData, ip string) (*models.UsageLimits, error) {
	ok, rec, err := us.CheckRateLimit(fp, ip)
	if err != nil {
		return nil, err
	}
	return &models.UsageLimits{
		ConversionsUsed:  rec.ConversionsCount,
		ConversionsLimit: us.limits.DailyLimit,
		TimeUntilReset:   rec.SecondsUntilReset(us.now(), us.limits.ResetPeriod),
		CanConvert:       ok,
	}, nil
}
