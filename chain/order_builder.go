package chain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
)

// OneHundredPercentBP is 100% expressed in basis points
const OneHundredPercentBP = 10000

var maxSalt = new(big.Int).Lsh(big.NewInt(1), 128)

// OrderBuilder turns a CreateOrderInput into Seaport order parameters
type OrderBuilder struct {
	seaportAddr common.Address
	chainID     *big.Int
	conduitKey  common.Hash
	now         func() time.Time
}

// NewOrderBuilder creates a new OrderBuilder
func NewOrderBuilder(seaportAddr string, chainID int64, conduitKey common.Hash) *OrderBuilder {
	return &OrderBuilder{
		seaportAddr: common.HexToAddress(seaportAddr),
		chainID:     big.NewInt(chainID),
		conduitKey:  conduitKey,
		now:         time.Now,
	}
}

// Domain returns the EIP712 domain orders are signed under
func (ob *OrderBuilder) Domain() *EIP712Domain {
	return NewEIP712Domain(ob.chainID, ob.seaportAddr)
}

// BuildOrder builds unsigned order parameters for offerer at counter
func (ob *OrderBuilder) BuildOrder(input *CreateOrderInput, offerer common.Address, counter *big.Int) (*OrderParameters, error) {
	if err := validateFees(input.Fees); err != nil {
		return nil, err
	}

	offer := make([]OfferItem, 0, len(input.Offer))
	for i, item := range input.Offer {
		mapped, err := mapInputItemToOfferItem(item)
		if err != nil {
			return nil, fmt.Errorf("offer item %d: %w", i, err)
		}
		offer = append(offer, mapped)
	}

	consideration := make([]ConsiderationItem, 0, len(input.Consideration)+len(input.Fees))
	for i, item := range input.Consideration {
		mapped, err := mapInputItemToOfferItem(item)
		if err != nil {
			return nil, fmt.Errorf("consideration item %d: %w", i, err)
		}
		recipient := offerer.Hex()
		if item.Recipient != "" {
			if !common.IsHexAddress(item.Recipient) {
				return nil, fmt.Errorf("consideration item %d: %w: %q", i, ErrInvalidAddress, item.Recipient)
			}
			recipient = normalizeAddress(item.Recipient)
		}
		consideration = append(consideration, ConsiderationItem{
			ItemType:             mapped.ItemType,
			Token:                mapped.Token,
			IdentifierOrCriteria: mapped.IdentifierOrCriteria,
			StartAmount:          mapped.StartAmount,
			EndAmount:            mapped.EndAmount,
			Recipient:            recipient,
		})
	}

	consideration = append(deductFees(consideration, input.Fees), feeConsiderationItems(offer, consideration, input.Fees)...)

	endTime := math.MaxBig256.String()
	if input.EndTime != "" {
		if _, err := parseUint(input.EndTime, ErrInvalidAmount); err != nil {
			return nil, fmt.Errorf("endTime: %w", err)
		}
		endTime = input.EndTime
	}

	orderType := OrderTypeFullOpen
	if input.AllowPartialFills {
		orderType = OrderTypePartialOpen
	}

	salt, err := generateSalt()
	if err != nil {
		return nil, err
	}

	if counter == nil {
		counter = big.NewInt(0)
	}

	return &OrderParameters{
		Offerer:                         offerer.Hex(),
		Zone:                            common.Address{}.Hex(),
		ZoneHash:                        common.Hash{}.Hex(),
		StartTime:                       fmt.Sprintf("%d", ob.now().Unix()),
		EndTime:                         endTime,
		OrderType:                       orderType,
		Offer:                           offer,
		Consideration:                   consideration,
		TotalOriginalConsiderationItems: len(consideration),
		Salt:                            salt,
		ConduitKey:                      ob.conduitKey.Hex(),
		Counter:                         counter.String(),
	}, nil
}

// SignHash returns the EIP712 digest the offerer signs
func (ob *OrderBuilder) SignHash(params *OrderParameters) (common.Hash, error) {
	typed, err := OrderToTypedData(params)
	if err != nil {
		return common.Hash{}, err
	}
	return CreateOrderSignHash(ob.Domain(), typed), nil
}

func mapInputItemToOfferItem(item InputItem) (OfferItem, error) {
	out := OfferItem{
		ItemType:             item.ItemType,
		Token:                common.Address{}.Hex(),
		IdentifierOrCriteria: "0",
	}

	switch item.ItemType {
	case ItemTypeNative:
		if item.Token != "" && common.HexToAddress(item.Token) != (common.Address{}) {
			return out, fmt.Errorf("native item must not carry a token address: %s", item.Token)
		}
	case ItemTypeERC20:
		if err := requireToken(item); err != nil {
			return out, err
		}
		out.Token = normalizeAddress(item.Token)
	case ItemTypeERC721, ItemTypeERC1155:
		if err := requireToken(item); err != nil {
			return out, err
		}
		out.Token = normalizeAddress(item.Token)
		identifier, err := parseUint(item.Identifier, ErrInvalidIdentifier)
		if err != nil {
			return out, err
		}
		out.IdentifierOrCriteria = identifier.String()
		if item.Amount == "" {
			item.Amount = "1"
		}
	default:
		return out, fmt.Errorf("unsupported item type %s", item.ItemType)
	}

	start, err := parsePositive(item.Amount)
	if err != nil {
		return out, err
	}
	end := start
	if item.EndAmount != "" {
		if end, err = parsePositive(item.EndAmount); err != nil {
			return out, err
		}
	}
	if item.ItemType == ItemTypeERC721 && (start.Cmp(big.NewInt(1)) != 0 || end.Cmp(big.NewInt(1)) != 0) {
		return out, fmt.Errorf("%w: ERC721 amount must be 1", ErrInvalidAmount)
	}
	out.StartAmount = start.String()
	out.EndAmount = end.String()

	return out, nil
}

func requireToken(item InputItem) error {
	if !common.IsHexAddress(item.Token) {
		return fmt.Errorf("%s item: %w: %q", item.ItemType, ErrInvalidAddress, item.Token)
	}
	return nil
}

func parsePositive(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() <= 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return v, nil
}

func validateFees(fees []Fee) error {
	total := 0
	for i, fee := range fees {
		if !common.IsHexAddress(fee.Recipient) {
			return fmt.Errorf("fee %d: %w: %q", i, ErrInvalidAddress, fee.Recipient)
		}
		if fee.BasisPoints < 0 || fee.BasisPoints > OneHundredPercentBP {
			return fmt.Errorf("fee %d: basis points out of range: %d", i, fee.BasisPoints)
		}
		total += fee.BasisPoints
	}
	if total > OneHundredPercentBP {
		return fmt.Errorf("total fee basis points exceed 100%%: %d", total)
	}
	return nil
}

func multiplyBasisPoints(amount *big.Int, basisPoints int) *big.Int {
	v := new(big.Int).Mul(amount, big.NewInt(int64(basisPoints)))
	return v.Div(v, big.NewInt(OneHundredPercentBP))
}

// deductFees lowers every currency consideration item by the total fee share
// so the fee items do not come on top of what the fulfiller pays.
func deductFees(items []ConsiderationItem, fees []Fee) []ConsiderationItem {
	totalBasisPoints := 0
	for _, fee := range fees {
		totalBasisPoints += fee.BasisPoints
	}

	out := make([]ConsiderationItem, len(items))
	copy(out, items)
	if totalBasisPoints == 0 {
		return out
	}

	for i := range out {
		if !out[i].ItemType.IsCurrency() {
			continue
		}
		start, _ := new(big.Int).SetString(out[i].StartAmount, 10)
		end, _ := new(big.Int).SetString(out[i].EndAmount, 10)
		out[i].StartAmount = new(big.Int).Sub(start, multiplyBasisPoints(start, totalBasisPoints)).String()
		out[i].EndAmount = new(big.Int).Sub(end, multiplyBasisPoints(end, totalBasisPoints)).String()
	}
	return out
}

// feeConsiderationItems builds one consideration item per fee, paid in the
// token of the first currency item across offer and consideration. Fees
// rounding down to zero are dropped.
func feeConsiderationItems(offer []OfferItem, consideration []ConsiderationItem, fees []Fee) []ConsiderationItem {
	var (
		token      string
		found      bool
		totalStart = new(big.Int)
		totalEnd   = new(big.Int)
	)
	add := func(itemType ItemType, itemToken, start, end string) {
		if !itemType.IsCurrency() {
			return
		}
		if !found {
			token, found = itemToken, true
		}
		s, _ := new(big.Int).SetString(start, 10)
		e, _ := new(big.Int).SetString(end, 10)
		totalStart.Add(totalStart, s)
		totalEnd.Add(totalEnd, e)
	}
	for _, item := range offer {
		add(item.ItemType, item.Token, item.StartAmount, item.EndAmount)
	}
	for _, item := range consideration {
		add(item.ItemType, item.Token, item.StartAmount, item.EndAmount)
	}
	if !found {
		return nil
	}

	itemType := ItemTypeERC20
	if common.HexToAddress(token) == (common.Address{}) {
		itemType = ItemTypeNative
	}

	items := make([]ConsiderationItem, 0, len(fees))
	for _, fee := range fees {
		start := multiplyBasisPoints(totalStart, fee.BasisPoints)
		end := multiplyBasisPoints(totalEnd, fee.BasisPoints)
		if start.Sign() == 0 && end.Sign() == 0 {
			continue
		}
		items = append(items, ConsiderationItem{
			ItemType:             itemType,
			Token:                token,
			IdentifierOrCriteria: "0",
			StartAmount:          start.String(),
			EndAmount:            end.String(),
			Recipient:            normalizeAddress(fee.Recipient),
		})
	}
	return items
}

func generateSalt() (string, error) {
	salt, err := rand.Int(rand.Reader, maxSalt)
	if err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt.String(), nil
}

func normalizeAddress(addr string) string {
	return common.HexToAddress(addr).Hex()
}

// abiOrderParameters and abiOrder mirror the fulfillOrder tuple layout
type abiOrderParameters struct {
	Offerer                         common.Address
	Zone                            common.Address
	Offer                           []OfferItemData
	Consideration                   []ConsiderationItemData
	OrderType                       uint8
	StartTime                       *big.Int
	EndTime                         *big.Int
	ZoneHash                        [32]byte
	Salt                            *big.Int
	ConduitKey                      [32]byte
	TotalOriginalConsiderationItems *big.Int
}

type abiOrder struct {
	Parameters abiOrderParameters
	Signature  []byte
}

func toABIOrder(order *OrderWithCounter) (*abiOrder, error) {
	typed, err := OrderToTypedData(&order.Parameters)
	if err != nil {
		return nil, err
	}
	signature, err := hexutil.Decode(strings.TrimSpace(order.Signature))
	if err != nil {
		return nil, fmt.Errorf("invalid signature: %w", err)
	}

	return &abiOrder{
		Parameters: abiOrderParameters{
			Offerer:                         typed.Offerer,
			Zone:                            typed.Zone,
			Offer:                           typed.Offer,
			Consideration:                   typed.Consideration,
			OrderType:                       typed.OrderType,
			StartTime:                       typed.StartTime,
			EndTime:                         typed.EndTime,
			ZoneHash:                        typed.ZoneHash,
			Salt:                            typed.Salt,
			ConduitKey:                      typed.ConduitKey,
			TotalOriginalConsiderationItems: big.NewInt(int64(order.Parameters.TotalOriginalConsiderationItems)),
		},
		Signature: signature,
	}, nil
}
