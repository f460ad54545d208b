package main

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	seaswap "github.com/kaifufi/seaport-swap-sdk-go"
)

const (
	testWETH  = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
	testUSDC  = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
	testNFT   = "0x5180db8F5c931aaE63c74266b211F580155ecac8"
	testMulti = "0x76BE3b62873462d2142405439777e971754E8E77"
)

func newTestParser() itemParser {
	return itemParser{
		wrappedNative: testWETH,
		decimals: func(_ context.Context, token string) (int, error) {
			if strings.EqualFold(token, testUSDC) {
				return 6, nil
			}
			return 0, errors.New("not a token")
		},
	}
}

func checksum(addr string) string {
	return common.HexToAddress(addr).Hex()
}

func TestParseItemSpec(t *testing.T) {
	testCases := []struct {
		spec string
		want seaswap.Item
	}{
		{"native:1.5", seaswap.NewNativeItem(big.NewInt(1_500_000_000_000_000_000))},
		{"erc20:" + testUSDC + ":100.25", seaswap.NewERC20Item(checksum(testUSDC), big.NewInt(100_250_000))},
		{"erc721:" + testNFT + ":42", seaswap.NewERC721Item(checksum(testNFT), "42")},
		{"ERC1155:" + testMulti + ":7:3", seaswap.NewERC1155Item(checksum(testMulti), "7", big.NewInt(3))},
	}

	p := newTestParser()
	for _, tc := range testCases {
		got, err := p.parse(context.Background(), tc.spec)
		require.NoError(t, err, tc.spec)
		assert.Equal(t, tc.want, got, tc.spec)
	}
}

func TestParseWrappedNativeSpec(t *testing.T) {
	item, err := newTestParser().parse(context.Background(), "weth:0.25")
	require.NoError(t, err)
	assert.Equal(t, seaswap.ItemTypeERC20, item.Type)
	assert.Equal(t, testWETH, item.Token)
	assert.Equal(t, "250000000000000000", item.Amount)
	assert.Equal(t, "WETH", item.Symbol)
}

func TestParseItemSpecErrors(t *testing.T) {
	specs := []string{
		"",
		"gold:1",
		"native",
		"native:1:2",
		"native:-1",
		"native:abc",
		"erc20:" + testUSDC + ":0.0000001",
		"erc20:" + testNFT + ":1",
		"erc20:nope:1",
		"erc721:0x0000000000000000000000000000000000000000:1",
		"erc721:" + testNFT + ":-1",
		"erc721:" + testNFT + ":0x10",
		"erc1155:" + testMulti + ":1",
		"erc1155:" + testMulti + ":1:1.5",
	}

	p := newTestParser()
	for _, spec := range specs {
		_, err := p.parse(context.Background(), spec)
		assert.Error(t, err, spec)
	}
}
