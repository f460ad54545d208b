package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Backend is the subset of *ethclient.Client the SDK uses
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

var _ Backend = (*ethclient.Client)(nil)

// Receipt polling defaults
const (
	DefaultReceiptTimeout      = 120 * time.Second
	DefaultReceiptPollInterval = 2 * time.Second
)

// gasLimitFallback is used when the node estimates zero gas
const gasLimitFallback uint64 = 500000

// ContractCaller handles token and Seaport contract interactions
type ContractCaller struct {
	backend             Backend
	wallet              Wallet
	seaportAddr         common.Address
	receiptTimeout      time.Duration
	receiptPollInterval time.Duration

	mu                 sync.Mutex
	chainID            *big.Int
	tokenDecimalsCache map[common.Address]int
}

// NewContractCaller creates a new ContractCaller instance
func NewContractCaller(backend Backend, wallet Wallet, seaportAddr string) *ContractCaller {
	return &ContractCaller{
		backend:             backend,
		wallet:              wallet,
		seaportAddr:         common.HexToAddress(seaportAddr),
		receiptTimeout:      DefaultReceiptTimeout,
		receiptPollInterval: DefaultReceiptPollInterval,
		tokenDecimalsCache:  make(map[common.Address]int),
	}
}

// SetReceiptPolling overrides how long and how often receipts are polled
func (cc *ContractCaller) SetReceiptPolling(timeout, interval time.Duration) {
	cc.receiptTimeout = timeout
	cc.receiptPollInterval = interval
}

// GetSignerAddress returns the address of the wallet
func (cc *ContractCaller) GetSignerAddress() common.Address {
	return cc.wallet.Address()
}

// ChainID returns the chain id of the backend, cached after the first call
func (cc *ContractCaller) ChainID(ctx context.Context) (*big.Int, error) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if cc.chainID != nil {
		return cc.chainID, nil
	}
	chainID, err := cc.backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	cc.chainID = chainID
	return chainID, nil
}

// GetCounter returns the offerer's current Seaport counter
func (cc *ContractCaller) GetCounter(ctx context.Context, offerer common.Address) (*big.Int, error) {
	var counter *big.Int
	if err := cc.call(ctx, seaportABI, cc.seaportAddr, &counter, "getCounter", offerer); err != nil {
		return nil, fmt.Errorf("failed to get counter: %w", err)
	}
	return counter, nil
}

// GetTokenDecimals gets ERC20 token decimals with caching
func (cc *ContractCaller) GetTokenDecimals(ctx context.Context, tokenAddr common.Address) (int, error) {
	cc.mu.Lock()
	if decimals, ok := cc.tokenDecimalsCache[tokenAddr]; ok {
		cc.mu.Unlock()
		return decimals, nil
	}
	cc.mu.Unlock()

	var decimals uint8
	if err := cc.call(ctx, erc20ABI, tokenAddr, &decimals, "decimals"); err != nil {
		return 0, fmt.Errorf("failed to get decimals for %s: %w", tokenAddr.Hex(), err)
	}

	cc.mu.Lock()
	cc.tokenDecimalsCache[tokenAddr] = int(decimals)
	cc.mu.Unlock()

	return int(decimals), nil
}

// getERC20Allowance returns the ERC20 allowance for owner to spender
func (cc *ContractCaller) getERC20Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	var allowance *big.Int
	if err := cc.call(ctx, erc20ABI, token, &allowance, "allowance", owner, spender); err != nil {
		return nil, err
	}
	return allowance, nil
}

// isApprovedForAll checks if operator may move all of owner's ERC721/ERC1155 tokens
func (cc *ContractCaller) isApprovedForAll(ctx context.Context, token, owner, operator common.Address) (bool, error) {
	var approved bool
	if err := cc.call(ctx, tokenApprovalABI, token, &approved, "isApprovedForAll", owner, operator); err != nil {
		return false, err
	}
	return approved, nil
}

// approveERC20 sends approve(spender, max uint256) and waits for it to be mined
func (cc *ContractCaller) approveERC20(ctx context.Context, token, spender common.Address) error {
	data, err := erc20ABI.Pack("approve", spender, maxUint256())
	if err != nil {
		return fmt.Errorf("failed to pack approve: %w", err)
	}
	prompt := Prompt{Action: ActionTypeApproval, Summary: fmt.Sprintf("approve %s to spend token %s", spender.Hex(), token.Hex())}
	return cc.transactAndWait(ctx, token, big.NewInt(0), data, prompt)
}

// setApprovalForAll sends setApprovalForAll(operator, true) and waits for it to be mined
func (cc *ContractCaller) setApprovalForAll(ctx context.Context, token, operator common.Address) error {
	data, err := tokenApprovalABI.Pack("setApprovalForAll", operator, true)
	if err != nil {
		return fmt.Errorf("failed to pack setApprovalForAll: %w", err)
	}
	prompt := Prompt{Action: ActionTypeApproval, Summary: fmt.Sprintf("approve %s for all tokens of %s", operator.Hex(), token.Hex())}
	return cc.transactAndWait(ctx, token, big.NewInt(0), data, prompt)
}

func (cc *ContractCaller) transactAndWait(ctx context.Context, to common.Address, value *big.Int, data []byte, prompt Prompt) error {
	tx, err := cc.transact(ctx, to, value, data, prompt)
	if err != nil {
		return err
	}
	receipt, err := cc.WaitForReceipt(ctx, tx.Hash())
	if err != nil {
		return err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("transaction reverted: tx hash %s", tx.Hash().Hex())
	}
	return nil
}

// transact builds, signs and sends a transaction from the wallet. It returns
// as soon as the node accepted the transaction.
func (cc *ContractCaller) transact(ctx context.Context, to common.Address, value *big.Int, data []byte, prompt Prompt) (*types.Transaction, error) {
	from := cc.wallet.Address()

	chainID, err := cc.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	nonce, err := cc.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := cc.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}

	gasLimit, err := cc.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to estimate gas: %w", err)
	}
	if gasLimit == 0 {
		gasLimit = gasLimitFallback
	} else {
		// 20% safety margin
		gasLimit = gasLimit * 120 / 100
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signedTx, err := cc.wallet.SignTx(ctx, tx, chainID, prompt)
	if err != nil {
		return nil, err
	}

	if err := cc.backend.SendTransaction(ctx, signedTx); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	return signedTx, nil
}

// WaitForReceipt polls for a transaction receipt until the receipt timeout
func (cc *ContractCaller) WaitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, cc.receiptTimeout)
	defer cancel()

	ticker := time.NewTicker(cc.receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := cc.backend.TransactionReceipt(timeoutCtx, txHash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) && timeoutCtx.Err() == nil {
			return nil, fmt.Errorf("failed to get receipt for %s: %w", txHash.Hex(), err)
		}

		select {
		case <-timeoutCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("timeout waiting for transaction receipt: %s", txHash.Hex())
		case <-ticker.C:
		}
	}
}

func (cc *ContractCaller) call(ctx context.Context, contractABI abi.ABI, to common.Address, out interface{}, method string, args ...interface{}) error {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("failed to pack %s: %w", method, err)
	}

	result, err := cc.backend.CallContract(ctx, ethereum.CallMsg{
		To:   &to,
		Data: data,
	}, nil)
	if err != nil {
		return err
	}

	return contractABI.UnpackIntoInterface(out, method, result)
}

func maxUint256() *big.Int {
	return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
}
