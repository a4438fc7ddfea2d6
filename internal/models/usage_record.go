package models

import "time"

// UsageRecord tracks conversions for one composite fingerprint.
type UsageRecord struct {
	FingerprintHash  string     `json:"fingerprint_hash"`
	IPAddress        string     `json:"ip_address"`
	ConversionsCount int        `json:"conversions_count"`
	LastConversion   *time.Time `json:"last_conversion,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func NewUsageRecord(hash, ip string, now time.Time) *UsageRecord {
	return &UsageRecord{
		FingerprintHash: hash,
		IPAddress:       ip,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// ShouldReset reports whether a full period has passed since the last
// conversion.
func (u *UsageRecord) ShouldReset(now time.Time, period time.Duration) bool {
	if u.LastConversion == nil {
		return false
	}
	return !now.Before(u.LastConversion.Add(period))
}

func (u *UsageRecord) Reset() {
	u.ConversionsCount = 0
	u.LastConversion = nil
}

func (u *UsageRecord) Record(now time.Time) {
	u.ConversionsCount++
	t := now
	u.LastConversion = &t
	u.UpdatedAt = now
}

// SecondsUntilReset is zero when no conversion has been recorded.
func (u *UsageRecord) SecondsUntilReset(now time.Time, period time.Duration) int {
	if u.LastConversion == nil {
		return 0
	}
	return max(0, int(u.LastConversion.Add(period).Sub(now).Seconds()))
}
