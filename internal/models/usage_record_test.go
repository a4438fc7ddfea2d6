package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUsageRecord_Lifecycle(t *testing.T) {
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	u := NewUsageRecord("abc", "10.0.0.1", now)

	assert.False(t, u.ShouldReset(now.Add(48*time.Hour), 24*time.Hour))
	assert.Zero(t, u.SecondsUntilReset(now, 24*time.Hour))

	u.Record(now)
	u.Record(now.Add(time.Hour))
	assert.Equal(t, 2, u.ConversionsCount)
	assert.Equal(t, now.Add(time.Hour), u.UpdatedAt)
	assert.Equal(t, 23*3600, u.SecondsUntilReset(now.Add(2*time.Hour), 24*time.Hour))

	assert.False(t, u.ShouldReset(now.Add(24*time.Hour), 24*time.Hour))
	assert.True(t, u.ShouldReset(now.Add(25*time.Hour), 24*time.Hour))
	assert.Zero(t, u.SecondsUntilReset(now.Add(30*time.Hour), 24*time.Hour))

	u.Reset()
	assert.Zero(t, u.ConversionsCount)
	assert.Nil(t, u.LastConversion)
}
