package seaswap

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	MaxDecimals = 36
	ZeroAddress = "0x0000000000000000000000000000000000000000"
)

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// ParseAmount converts a human-readable amount such as "1.5" to base units
// of a token with the given decimals. Digits beyond decimals are rejected
// rather than truncated.
func ParseAmount(amount string, decimals int) (*big.Int, error) {
	if decimals < 0 || decimals > MaxDecimals {
		return nil, &InvalidParamError{Message: fmt.Sprintf("decimals must be between 0 and %d, got: %d", MaxDecimals, decimals)}
	}

	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return nil, &InvalidParamError{Message: fmt.Sprintf("invalid amount %q: %v", amount, err)}
	}
	if !d.IsPositive() {
		return nil, &InvalidParamError{Message: fmt.Sprintf("amount must be positive, got: %s", amount)}
	}

	scaled := d.Shift(int32(decimals))
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, &InvalidParamError{Message: fmt.Sprintf("amount %s has more than %d decimals", amount, decimals)}
	}

	result := scaled.BigInt()
	if result.Cmp(maxUint256) > 0 {
		return nil, &InvalidParamError{Message: fmt.Sprintf("amount too large for uint256: %s", result.String())}
	}
	return result, nil
}

// FormatAmount renders base units as a human-readable amount
func FormatAmount(amount *big.Int, decimals int) string {
	return decimal.NewFromBigInt(amount, int32(-decimals)).String()
}

// ParseDuration parses an order duration: one of 1d, 3d, 7d, 30d, forever,
// or a number of seconds. Zero means no expiry.
func ParseDuration(s string) (uint64, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "forever", "none":
		return DurationNone, nil
	case "1d":
		return DurationOneDay, nil
	case "3d":
		return DurationThreeDays, nil
	case "7d":
		return DurationSevenDays, nil
	case "30d", "1m":
		return DurationOneMonth, nil
	}

	seconds, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, &InvalidParamError{Message: fmt.Sprintf("invalid duration %q: want 1d, 3d, 7d, 30d, forever or seconds", s)}
	}
	return seconds, nil
}
