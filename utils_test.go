package seaswap

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	testCases := []struct {
		amount   string
		decimals int
		want     string
		wantErr  bool
	}{
		{"1", 18, "1000000000000000000", false},
		{"1.5", 18, "1500000000000000000", false},
		{"0.000001", 6, "1", false},
		{" 42 ", 0, "42", false},
		{"0.0000001", 6, "", true},
		{"0", 18, "", true},
		{"-1", 18, "", true},
		{"abc", 18, "", true},
		{"1", -1, "", true},
		{"1", MaxDecimals + 1, "", true},
	}

	for _, tc := range testCases {
		got, err := ParseAmount(tc.amount, tc.decimals)
		if tc.wantErr {
			require.Error(t, err, tc.amount)
			assert.ErrorIs(t, err, ErrInvalidParam)
			continue
		}
		require.NoError(t, err, tc.amount)
		assert.Equal(t, tc.want, got.String())
	}
}

func TestFormatAmount(t *testing.T) {
	wei, ok := new(big.Int).SetString("1500000000000000000", 10)
	require.True(t, ok)
	assert.Equal(t, "1.5", FormatAmount(wei, 18))
	assert.Equal(t, "42", FormatAmount(big.NewInt(42), 0))
	assert.Equal(t, "0.000001", FormatAmount(big.NewInt(1), 6))
}

func TestParseDuration(t *testing.T) {
	testCases := map[string]uint64{
		"":        DurationNone,
		"forever": DurationNone,
		"1d":      DurationOneDay,
		"3D":      DurationThreeDays,
		"7d":      DurationSevenDays,
		"30d":     DurationOneMonth,
		"3600":    3600,
	}
	for in, want := range testCases {
		got, err := ParseDuration(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDuration("2w")
	require.ErrorIs(t, err, ErrInvalidParam)
}
