package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	// ErrAccountMismatch is returned when the requested account is not the wallet's
	ErrAccountMismatch = errors.New("account does not match wallet")

	// ErrOrderNotActive is returned when fulfilling an order outside its time window
	ErrOrderNotActive = errors.New("order is not active")
)

// SeaportConfig selects the Seaport deployment and the conduit used for approvals.
// A zero ConduitKey means tokens are approved to Seaport itself.
type SeaportConfig struct {
	SeaportAddr string
	ChainID     int64
	ConduitKey  common.Hash
	ConduitAddr string
}

// Seaport implements order creation and fulfillment against a Seaport 1.1 deployment
type Seaport struct {
	caller      *ContractCaller
	builder     *OrderBuilder
	wallet      Wallet
	seaportAddr common.Address
	operator    common.Address
	conduitKey  common.Hash
	now         func() time.Time
}

// NewSeaport creates a Seaport client signing with wallet
func NewSeaport(backend Backend, wallet Wallet, cfg SeaportConfig) (*Seaport, error) {
	if !common.IsHexAddress(cfg.SeaportAddr) {
		return nil, fmt.Errorf("seaport address: %w: %q", ErrInvalidAddress, cfg.SeaportAddr)
	}
	seaportAddr := common.HexToAddress(cfg.SeaportAddr)

	operator := seaportAddr
	if cfg.ConduitKey != (common.Hash{}) {
		if !common.IsHexAddress(cfg.ConduitAddr) {
			return nil, fmt.Errorf("conduit address is required with a conduit key: %w", ErrInvalidAddress)
		}
		operator = common.HexToAddress(cfg.ConduitAddr)
	}

	return &Seaport{
		caller:      NewContractCaller(backend, wallet, cfg.SeaportAddr),
		builder:     NewOrderBuilder(cfg.SeaportAddr, cfg.ChainID, cfg.ConduitKey),
		wallet:      wallet,
		seaportAddr: seaportAddr,
		operator:    operator,
		conduitKey:  cfg.ConduitKey,
		now:         time.Now,
	}, nil
}

// ContractCaller exposes the underlying contract caller
func (s *Seaport) ContractCaller() *ContractCaller {
	return s.caller
}

// CreateOrder prepares the approvals and the signature needed to create an
// order offered by accountAddress.
func (s *Seaport) CreateOrder(ctx context.Context, input CreateOrderInput, accountAddress string) (*OrderUseCase[*OrderWithCounter], error) {
	offerer, err := s.checkAccount(accountAddress)
	if err != nil {
		return nil, err
	}

	counter, err := s.caller.GetCounter(ctx, offerer)
	if err != nil {
		return nil, err
	}

	params, err := s.builder.BuildOrder(&input, offerer, counter)
	if err != nil {
		return nil, err
	}

	needs := make([]approvalNeed, 0, len(params.Offer))
	for _, item := range params.Offer {
		needs = append(needs, newApprovalNeed(item.ItemType, item.Token, item.StartAmount, item.EndAmount))
	}
	approvals, err := s.approvalActions(ctx, offerer, needs)
	if err != nil {
		return nil, err
	}

	summary := fmt.Sprintf("sign order offering %d item(s) for %d consideration item(s)", len(params.Offer), len(params.Consideration))
	return NewOrderUseCase(approvals, ActionTypeCreate, summary, func(ctx context.Context) (*OrderWithCounter, error) {
		digest, err := s.builder.SignHash(params)
		if err != nil {
			return nil, err
		}
		signature, err := s.wallet.SignDigest(ctx, digest, Prompt{Action: ActionTypeCreate, Summary: summary})
		if err != nil {
			return nil, err
		}
		return &OrderWithCounter{
			Parameters: *params,
			Signature:  hexutil.Encode(signature),
		}, nil
	}), nil
}

// FulfillOrder prepares the approvals and the fulfillOrder transaction for
// accountAddress. The final action returns once the transaction is sent; it
// does not wait for it to be mined.
func (s *Seaport) FulfillOrder(ctx context.Context, order *OrderWithCounter, accountAddress string) (*OrderUseCase[*types.Transaction], error) {
	if order == nil {
		return nil, errors.New("order is required")
	}
	fulfiller, err := s.checkAccount(accountAddress)
	if err != nil {
		return nil, err
	}

	if err := s.checkActive(&order.Parameters); err != nil {
		return nil, err
	}

	encoded, err := toABIOrder(order)
	if err != nil {
		return nil, err
	}

	value := new(big.Int)
	needs := make([]approvalNeed, 0, len(order.Parameters.Consideration))
	for _, item := range order.Parameters.Consideration {
		need := newApprovalNeed(item.ItemType, item.Token, item.StartAmount, item.EndAmount)
		if item.ItemType == ItemTypeNative {
			value.Add(value, need.amount)
			continue
		}
		needs = append(needs, need)
	}
	approvals, err := s.approvalActions(ctx, fulfiller, needs)
	if err != nil {
		return nil, err
	}

	data, err := seaportABI.Pack("fulfillOrder", *encoded, [32]byte(s.conduitKey))
	if err != nil {
		return nil, fmt.Errorf("failed to pack fulfillOrder: %w", err)
	}

	summary := fmt.Sprintf("fulfill order from %s paying %s wei", order.Parameters.Offerer, value.String())
	return NewOrderUseCase(approvals, ActionTypeExchange, summary, func(ctx context.Context) (*types.Transaction, error) {
		return s.caller.transact(ctx, s.seaportAddr, value, data, Prompt{Action: ActionTypeExchange, Summary: summary})
	}), nil
}

// WaitMined waits for tx to be mined and fails if it reverted
func (s *Seaport) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := s.caller.WaitForReceipt(ctx, tx.Hash())
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("transaction reverted: tx hash %s", tx.Hash().Hex())
	}
	return receipt, nil
}

// TokenDecimals returns the decimals of an ERC20 token
func (s *Seaport) TokenDecimals(ctx context.Context, token common.Address) (int, error) {
	return s.caller.GetTokenDecimals(ctx, token)
}

func (s *Seaport) checkAccount(accountAddress string) (common.Address, error) {
	if !common.IsHexAddress(accountAddress) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, accountAddress)
	}
	account := common.HexToAddress(accountAddress)
	if account != s.wallet.Address() {
		return common.Address{}, fmt.Errorf("%w: %s", ErrAccountMismatch, account.Hex())
	}
	return account, nil
}

func (s *Seaport) checkActive(params *OrderParameters) error {
	start, err := parseUint(params.StartTime, ErrInvalidAmount)
	if err != nil {
		return fmt.Errorf("startTime: %w", err)
	}
	end, err := parseUint(params.EndTime, ErrInvalidAmount)
	if err != nil {
		return fmt.Errorf("endTime: %w", err)
	}
	now := big.NewInt(s.now().Unix())
	if now.Cmp(start) < 0 || now.Cmp(end) >= 0 {
		return fmt.Errorf("%w: window [%s, %s), now %s", ErrOrderNotActive, start, end, now)
	}
	return nil
}

type approvalNeed struct {
	itemType ItemType
	token    common.Address
	amount   *big.Int
}

// newApprovalNeed uses the larger of start and end amount. Amounts were
// validated when the order was built.
func newApprovalNeed(itemType ItemType, token, start, end string) approvalNeed {
	s, ok := new(big.Int).SetString(start, 10)
	if !ok {
		s = new(big.Int)
	}
	e, ok := new(big.Int).SetString(end, 10)
	if !ok {
		e = new(big.Int)
	}
	amount := s
	if e.Cmp(s) > 0 {
		amount = e
	}
	return approvalNeed{itemType: itemType, token: common.HexToAddress(token), amount: amount}
}

// approvalActions checks current allowances of owner towards the operator and
// returns one action per missing approval.
func (s *Seaport) approvalActions(ctx context.Context, owner common.Address, needs []approvalNeed) ([]Action, error) {
	type approvalKey struct {
		erc20 bool
		token common.Address
	}
	erc20Totals := make(map[common.Address]*big.Int)
	operatorTokens := make(map[common.Address]bool)
	var order []approvalKey

	for _, need := range needs {
		switch need.itemType {
		case ItemTypeERC20:
			if _, ok := erc20Totals[need.token]; !ok {
				erc20Totals[need.token] = new(big.Int)
				order = append(order, approvalKey{erc20: true, token: need.token})
			}
			erc20Totals[need.token].Add(erc20Totals[need.token], need.amount)
		case ItemTypeERC721, ItemTypeERC1155, ItemTypeERC721WithCriteria, ItemTypeERC1155WithCriteria:
			if !operatorTokens[need.token] {
				operatorTokens[need.token] = true
				order = append(order, approvalKey{token: need.token})
			}
		}
	}

	var actions []Action
	for _, key := range order {
		token := key.token
		if key.erc20 {
			total := erc20Totals[token]
			allowance, err := s.caller.getERC20Allowance(ctx, token, owner, s.operator)
			if err != nil {
				return nil, fmt.Errorf("failed to get allowance of %s: %w", token.Hex(), err)
			}
			if allowance.Cmp(total) < 0 {
				actions = append(actions, NewAction(ActionTypeApproval, "approve "+strings.ToLower(token.Hex()), func(ctx context.Context) error {
					return s.caller.approveERC20(ctx, token, s.operator)
				}))
			}
			continue
		}

		approved, err := s.caller.isApprovedForAll(ctx, token, owner, s.operator)
		if err != nil {
			return nil, fmt.Errorf("failed to check isApprovedForAll on %s: %w", token.Hex(), err)
		}
		if !approved {
			actions = append(actions, NewAction(ActionTypeApproval, "approve all of "+strings.ToLower(token.Hex()), func(ctx context.Context) error {
				return s.caller.setApprovalForAll(ctx, token, s.operator)
			}))
		}
	}

	return actions, nil
}
