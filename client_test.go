package seaswap

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPrivateKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func TestNewClientDefaults(t *testing.T) {
	c, err := newClient(ClientConfig{
		ChainID:    ChainIDGoerli,
		PrivateKey: testPrivateKey,
	}, nil)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, common.HexToAddress(testAccount), c.Address())
	assert.Equal(t, ChainIDGoerli, c.ChainID())
	assert.Equal(t, DefaultContractAddresses[ChainIDGoerli], c.Contracts())
	assert.Equal(t, DefaultHost, c.apiClient.host)

	s := c.NewSession(CurrencyModeWrapped)
	assert.Equal(t, CurrencyModeWrapped, s.Mode())
}

func TestNewClientValidation(t *testing.T) {
	testCases := map[string]ClientConfig{
		"unsupported chain": {ChainID: 56, PrivateKey: testPrivateKey},
		"missing key":       {ChainID: ChainIDMainnet},
		"bad key":           {ChainID: ChainIDMainnet, PrivateKey: "0x1234"},
		"bad conduit key":   {ChainID: ChainIDMainnet, PrivateKey: testPrivateKey, ConduitKey: "0x01"},
	}

	for name, config := range testCases {
		config := config
		t.Run(name, func(t *testing.T) {
			_, err := newClient(config, nil)
			require.ErrorIs(t, err, ErrInvalidParam)
		})
	}

	_, err := NewClient(ClientConfig{ChainID: ChainIDMainnet, PrivateKey: testPrivateKey})
	require.ErrorIs(t, err, ErrInvalidParam)
}

func TestNewClientConduitNeedsAddress(t *testing.T) {
	_, err := newClient(ClientConfig{
		ChainID:    ChainIDMainnet,
		PrivateKey: testPrivateKey,
		ConduitKey: "0x0000007b02230091a7ed01230072f7006a004d60a8d4e71d599b8104250f0000",
	}, nil)
	require.Error(t, err)
}
