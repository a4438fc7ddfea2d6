package fit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_RoundTrip(t *testing.T) {
	records := []WeightRecord{
		{Timestamp: june1st2024, WeightKg: 81.6},
		{Timestamp: june1st2024 + 3_600_000, WeightKg: 81.4, BodyFatPercent: floatPtr(22.1)},
		{Timestamp: june1st2024 + 7_200_000, WeightKg: 81.1},
	}
	data, err := Encode(testDescriptor(), records)
	require.NoError(t, err)

	f, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, testDescriptor(), f.Descriptor)
	require.Len(t, f.Records, len(records))
	for i, want := range records {
		got := f.Records[i]
		assert.Equal(t, want.Timestamp, got.Timestamp)
		assert.InDelta(t, want.WeightKg, got.WeightKg, 1e-9)
		assert.Zero(t, got.BoneMassKg)
		assert.Zero(t, got.MuscleMassKg)
		assert.Zero(t, got.HydrationPercent)
		if want.BodyFatPercent == nil {
			assert.Nil(t, got.BodyFatPercent)
		} else {
			require.NotNil(t, got.BodyFatPercent)
			assert.InDelta(t, *want.BodyFatPercent, *got.BodyFatPercent, 1e-9)
		}
	}
}

func TestDecode_MessageLayouts(t *testing.T) {
	data, err := Encode(testDescriptor(), []WeightRecord{
		{Timestamp: june1st2024, WeightKg: 80, BodyFatPercent: floatPtr(20)},
		{Timestamp: june1st2024 + 1000, WeightKg: 80},
	})
	require.NoError(t, err)

	f, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, f.Messages, 3)

	assert.Equal(t, MesgFileID, f.Messages[0].Global)
	assert.Equal(t, []byte{0, 1, 2, 3, 4, 8, 5}, f.Messages[0].Fields)
	assert.Equal(t, MesgWeightScale, f.Messages[1].Global)
	assert.Equal(t, []byte{253, 0, 4, 5, 1, 2}, f.Messages[1].Fields)
	assert.Equal(t, []byte{253, 0, 4, 5, 2}, f.Messages[2].Fields)
}

func TestDecode_SubSecondTimestampTruncated(t *testing.T) {
	data, err := Encode(testDescriptor(), []WeightRecord{{Timestamp: june1st2024 + 999, WeightKg: 80}})
	require.NoError(t, err)

	f, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, june1st2024, f.Records[0].Timestamp)
}

func TestDecode_Header(t *testing.T) {
	data, err := Encode(testDescriptor(), nil)
	require.NoError(t, err)

	f, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, uint8(14), f.Header.Size)
	assert.Equal(t, uint8(0x20), f.Header.ProtocolVersion)
	assert.Equal(t, uint16(2132), f.Header.ProfileVersion)
	assert.Equal(t, ".FIT", f.Header.DataType)
	assert.Equal(t, uint32(len(data)-16), f.Header.DataSize)
	assert.Empty(t, f.Records)
}

func TestDecode_Errors(t *testing.T) {
	valid, err := Encode(testDescriptor(), []WeightRecord{{Timestamp: june1st2024, WeightKg: 80}})
	require.NoError(t, err)

	corrupt := func(i int) []byte {
		b := append([]byte(nil), valid...)
		b[i] ^= 0xFF
		return b
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrTruncated},
		{"short", valid[:10], ErrTruncated},
		{"bad header size", corrupt(0), ErrNotFIT},
		{"bad data type", corrupt(9), ErrNotFIT},
		{"header crc", corrupt(3), ErrHeaderCRC},
		{"file crc", corrupt(len(valid) - 1), ErrFileCRC},
		{"body changed", corrupt(60), ErrFileCRC},
		{"missing trailer", valid[:len(valid)-2], ErrTruncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecode_DataWithoutDefinition(t *testing.T) {
	body := []byte{0x03}
	b := appendHeader(nil, uint32(len(body)))
	b = append(b, body...)
	b = byteOrder.AppendUint16(b, Checksum(b))

	_, err := Decode(b)
	assert.ErrorIs(t, err, ErrUndefinedMesg)
}

func TestDecode_TruncatedMessage(t *testing.T) {
	body := []byte{0x40, 0, 0, 0}
	b := appendHeader(nil, uint32(len(body)))
	b = append(b, body...)
	b = byteOrder.AppendUint16(b, Checksum(b))

	_, err := Decode(b)
	assert.ErrorIs(t, err, ErrTruncated)
}
