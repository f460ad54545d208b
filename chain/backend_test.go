package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

const testSeaportAddr = "0x00000000006c3852cbEf3e08E8dF289169EdE581"

// fakeBackend answers contract calls from in-memory state and records sent transactions
type fakeBackend struct {
	mu             sync.Mutex
	chainID        *big.Int
	counter        *big.Int
	allowances     map[common.Address]*big.Int
	approvedForAll map[common.Address]bool
	decimals       map[common.Address]uint8
	receiptStatus  uint64
	sendErr        error
	estimateErr    error
	sent           []*types.Transaction
	calls          int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		chainID:        big.NewInt(1),
		counter:        big.NewInt(0),
		allowances:     make(map[common.Address]*big.Int),
		approvedForAll: make(map[common.Address]bool),
		decimals:       make(map[common.Address]uint8),
		receiptStatus:  types.ReceiptStatusSuccessful,
	}
}

func (b *fakeBackend) ChainID(context.Context) (*big.Int, error) {
	return b.chainID, nil
}

func (b *fakeBackend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++

	if len(msg.Data) < 4 {
		return nil, errors.New("short call data")
	}
	token := *msg.To
	for _, contractABI := range []abi.ABI{erc20ABI, tokenApprovalABI, seaportABI} {
		method, err := contractABI.MethodById(msg.Data[:4])
		if err != nil {
			continue
		}
		switch method.Name {
		case "allowance":
			allowance, ok := b.allowances[token]
			if !ok {
				allowance = big.NewInt(0)
			}
			return method.Outputs.Pack(allowance)
		case "decimals":
			return method.Outputs.Pack(b.decimals[token])
		case "isApprovedForAll":
			return method.Outputs.Pack(b.approvedForAll[token])
		case "getCounter":
			return method.Outputs.Pack(b.counter)
		}
	}
	return nil, fmt.Errorf("unexpected call to %s", token.Hex())
}

func (b *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return uint64(len(b.sent)), nil
}

func (b *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(1000000000), nil
}

func (b *fakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.estimateErr != nil {
		return 0, b.estimateErr
	}
	return 100000, nil
}

func (b *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sendErr != nil {
		return b.sendErr
	}
	b.sent = append(b.sent, tx)
	return nil
}

func (b *fakeBackend) TransactionReceipt(_ context.Context, txHash common.Hash) (*types.Receipt, error) {
	return &types.Receipt{Status: b.receiptStatus, TxHash: txHash}, nil
}

func (b *fakeBackend) sentTxs() []*types.Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*types.Transaction(nil), b.sent...)
}

func newTestKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key
}

func recoverSigner(t *testing.T, digest common.Hash, signature []byte) common.Address {
	t.Helper()
	require.Len(t, signature, 65)
	sig := make([]byte, 65)
	copy(sig, signature)
	sig[64] -= 27
	pub, err := crypto.SigToPub(digest.Bytes(), sig)
	require.NoError(t, err)
	return crypto.PubkeyToAddress(*pub)
}
