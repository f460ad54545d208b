package seaswap

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/kaifufi/seaport-swap-sdk-go/chain"
	"github.com/kaifufi/seaport-swap-sdk-go/log"
)

// Client is the main SDK client
type Client struct {
	apiClient    *APIClient
	seaport      *chain.Seaport
	orchestrator *Orchestrator
	wallet       chain.Wallet
	chainID      ChainID
	contracts    ContractAddresses
	logger       log.Logger
	closeFn      func()
}

// ClientConfig holds configuration for creating a Client
type ClientConfig struct {
	Host              string
	ChainID           ChainID
	RPCURL            string
	PrivateKey        string
	SeaportAddr       string
	WrappedNativeAddr string
	// ConduitKey and ConduitAddr route approvals through a conduit. Empty
	// means tokens are approved to Seaport directly.
	ConduitKey     string
	ConduitAddr    string
	RequestTimeout time.Duration
	// RecordRequestsPerSecond limits calls to the record store; zero is unlimited
	RecordRequestsPerSecond float64
	ReceiptTimeout          time.Duration
	ReceiptPollInterval     time.Duration
	// Confirmer, if set, is asked before every signature
	Confirmer     chain.Confirmer
	Logger        log.Logger
	Metrics       *Metrics
	PhaseObserver func(Phase)
}

// NewClient creates a new Seaport swap SDK client
func NewClient(config ClientConfig) (*Client, error) {
	if config.RPCURL == "" {
		return nil, &InvalidParamError{Message: "rpc url is required"}
	}
	ethClient, err := ethclient.Dial(config.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	c, err := newClient(config, ethClient)
	if err != nil {
		ethClient.Close()
		return nil, err
	}
	c.closeFn = ethClient.Close
	return c, nil
}

func newClient(config ClientConfig, backend chain.Backend) (*Client, error) {
	if !isSupportedChain(config.ChainID) {
		return nil, &InvalidParamError{
			Message: fmt.Sprintf("chain_id must be one of %v", SupportedChainIDs),
		}
	}

	// Use default contract addresses if not provided
	contracts := DefaultContractAddresses[config.ChainID]
	if config.SeaportAddr == "" {
		config.SeaportAddr = contracts.Seaport
	}
	if config.WrappedNativeAddr == "" {
		config.WrappedNativeAddr = contracts.WrappedNative
	}
	contracts = ContractAddresses{
		Seaport:       config.SeaportAddr,
		WrappedNative: config.WrappedNativeAddr,
	}

	if config.Host == "" {
		config.Host = DefaultHost
	}
	if config.RequestTimeout == 0 {
		config.RequestTimeout = DefaultRequestTimeout
	}
	if config.ReceiptTimeout == 0 {
		config.ReceiptTimeout = chain.DefaultReceiptTimeout
	}
	if config.ReceiptPollInterval == 0 {
		config.ReceiptPollInterval = chain.DefaultReceiptPollInterval
	}
	if config.Logger == nil {
		config.Logger = log.NewNopLogger()
	}
	if config.Metrics == nil {
		config.Metrics = NopMetrics()
	}

	if config.PrivateKey == "" {
		return nil, &InvalidParamError{Message: "private key is required"}
	}
	keyWallet, err := chain.NewKeyWallet(trimHexPrefix(config.PrivateKey))
	if err != nil {
		return nil, &InvalidParamError{Message: err.Error()}
	}
	var wallet chain.Wallet = keyWallet
	if config.Confirmer != nil {
		wallet = chain.NewConfirmingWallet(keyWallet, config.Confirmer)
	}

	conduitKey, err := parseConduitKey(config.ConduitKey)
	if err != nil {
		return nil, err
	}

	seaport, err := chain.NewSeaport(backend, wallet, chain.SeaportConfig{
		SeaportAddr: config.SeaportAddr,
		ChainID:     int64(config.ChainID),
		ConduitKey:  conduitKey,
		ConduitAddr: config.ConduitAddr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create seaport client: %w", err)
	}
	seaport.ContractCaller().SetReceiptPolling(config.ReceiptTimeout, config.ReceiptPollInterval)

	apiClient := NewAPIClient(config.Host, config.RequestTimeout, config.RecordRequestsPerSecond)

	opts := []OrchestratorOption{
		WithLogger(config.Logger.With("module", "orchestrator")),
		WithMetrics(config.Metrics),
	}
	if config.PhaseObserver != nil {
		opts = append(opts, WithPhaseObserver(config.PhaseObserver))
	}

	return &Client{
		apiClient:    apiClient,
		seaport:      seaport,
		orchestrator: NewOrchestrator(seaport, apiClient, opts...),
		wallet:       wallet,
		chainID:      config.ChainID,
		contracts:    contracts,
		logger:       config.Logger,
		closeFn:      func() {},
	}, nil
}

// Close closes the client and cleans up resources
func (c *Client) Close() {
	if c.closeFn != nil {
		c.closeFn()
	}
}

// Address returns the account the client signs for
func (c *Client) Address() common.Address {
	return c.wallet.Address()
}

// ChainID returns the chain the client is configured for
func (c *Client) ChainID() ChainID {
	return c.chainID
}

// Contracts returns the contract addresses in use
func (c *Client) Contracts() ContractAddresses {
	return c.contracts
}

// NewSession starts an order building session for the client's account
func (c *Client) NewSession(mode CurrencyMode) *Session {
	return NewSession(c.orchestrator, c.Address().Hex(), mode)
}

// Submit creates and immediately fulfills an order from the client's account
func (c *Client) Submit(ctx context.Context, params OrderParameters, offers, considerations []Item) (*SubmitResult, error) {
	return c.orchestrator.Submit(ctx, params, offers, considerations, c.Address().Hex())
}

// WaitMined waits for a dispatched fulfillment to be mined
func (c *Client) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	return c.seaport.WaitMined(ctx, tx)
}

// GetOrderRecord fetches a persisted order record
func (c *Client) GetOrderRecord(ctx context.Context, id string) (*OrderRecord, error) {
	return c.apiClient.GetOrderRecord(ctx, id)
}

// TokenDecimals returns the decimals of an ERC20 token
func (c *Client) TokenDecimals(ctx context.Context, token string) (int, error) {
	if !common.IsHexAddress(token) {
		return 0, &InvalidParamError{Message: fmt.Sprintf("invalid token address: %s", token)}
	}
	return c.seaport.TokenDecimals(ctx, common.HexToAddress(token))
}

func parseConduitKey(s string) (common.Hash, error) {
	if s == "" {
		return common.Hash{}, nil
	}
	raw, err := hexutil.Decode(s)
	if err != nil || len(raw) != common.HashLength {
		return common.Hash{}, &InvalidParamError{Message: fmt.Sprintf("conduit key must be 32 bytes of hex: %s", s)}
	}
	return common.BytesToHash(raw), nil
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
