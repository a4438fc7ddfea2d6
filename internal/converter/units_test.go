package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoundsToKilograms(t *testing.T) {
	tests := []struct {
		pounds float64
		want   float64
	}{
		{180, 81.6},
		{200, 90.7},
		{150, 68.0},
		{0, 0},
	}
	for _, tt := range tests {
		got := PoundsToKilograms(tt.pounds)
		assert.Equal(t, tt.want, got, "%v lb", tt.pounds)
		assert.InDelta(t, tt.pounds/2.2046, got, 0.05)
	}
}

func TestRoundOne(t *testing.T) {
	assert.Equal(t, 0.1, RoundOne(0.05))
	assert.Equal(t, 22.1, RoundOne(22.14))
	assert.Equal(t, -1.3, RoundOne(-1.25))
}

func TestNormalizeBodyFat(t *testing.T) {
	zero, small, fat := 0.0, 0.05, 22.14

	assert.Nil(t, NormalizeBodyFat(nil))
	assert.Nil(t, NormalizeBodyFat(&zero))

	got := NormalizeBodyFat(&small)
	require.NotNil(t, got)
	assert.Equal(t, 0.1, *got)

	got = NormalizeBodyFat(&fat)
	require.NotNil(t, got)
	assert.Equal(t, 22.1, *got)
	assert.Equal(t, 22.14, fat)
}

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		date, clock string
		want        int64
	}{
		{"6/1/24", "08:00:00", 1717228800000},
		{"06/01/24", "08:00:00", 1717228800000},
		{"6/1/2024", "00:00:00", 1717200000000},
		{"12/31/2023", "23:59:59", 1704067199000},
	}
	for _, tt := range tests {
		got, err := ParseDateTime(tt.date, tt.clock)
		require.NoError(t, err, tt.date)
		assert.Equal(t, tt.want, got, tt.date)
	}
}

func TestParseDateTime_Invalid(t *testing.T) {
	for _, tc := range [][2]string{
		{"13/1/24", "08:00:00"},
		{"2024-06-01", "08:00:00"},
		{"6/1/202", "08:00:00"},
		{"6/1/24", "25:00:00"},
		{"6/1/24", "8am"},
		{"", ""},
	} {
		_, err := ParseDateTime(tc[0], tc[1])
		assert.Error(t, err, "%s %s", tc[0], tc[1])
	}
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategyLogID, s)

	s, err = ParseStrategy(" DateTime ")
	require.NoError(t, err)
	assert.Equal(t, StrategyDateTime, s)

	_, err = ParseStrategy("epoch")
	assert.Error(t, err)
}
