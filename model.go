package seaswap

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/kaifufi/seaport-swap-sdk-go/chain"
)

// ItemType is the Seaport item type
type ItemType = chain.ItemType

const (
	ItemTypeNative  = chain.ItemTypeNative
	ItemTypeERC20   = chain.ItemTypeERC20
	ItemTypeERC721  = chain.ItemTypeERC721
	ItemTypeERC1155 = chain.ItemTypeERC1155
)

// OrderParameters is the input handed to the exchange when creating an order
type OrderParameters = chain.CreateOrderInput

// SignedOrder is the order produced by the create phase
type SignedOrder = chain.OrderWithCounter

// Item is one exchanged asset as the user picked it. InputItem is passed to
// the exchange verbatim; the other fields are kept for display.
type Item struct {
	Type       ItemType        `json:"type"`
	Token      string          `json:"token,omitempty"`
	Identifier string          `json:"identifier,omitempty"`
	Amount     string          `json:"amount,omitempty"`
	EndAmount  string          `json:"endAmount,omitempty"`
	Name       string          `json:"name,omitempty"`
	Symbol     string          `json:"symbol,omitempty"`
	ImageURL   string          `json:"imageUrl,omitempty"`
	InputItem  chain.InputItem `json:"inputItem"`
}

// NewNativeItem creates an item of amount wei
func NewNativeItem(amount *big.Int) Item {
	return Item{
		Type:   ItemTypeNative,
		Amount: amount.String(),
		Symbol: "ETH",
		InputItem: chain.InputItem{
			ItemType: ItemTypeNative,
			Amount:   amount.String(),
		},
	}
}

// NewERC20Item creates an item of amount base units of token
func NewERC20Item(token string, amount *big.Int) Item {
	return Item{
		Type:   ItemTypeERC20,
		Token:  token,
		Amount: amount.String(),
		InputItem: chain.InputItem{
			ItemType: ItemTypeERC20,
			Token:    token,
			Amount:   amount.String(),
		},
	}
}

// NewERC721Item creates an item for a single NFT
func NewERC721Item(token, identifier string) Item {
	return Item{
		Type:       ItemTypeERC721,
		Token:      token,
		Identifier: identifier,
		Amount:     "1",
		InputItem: chain.InputItem{
			ItemType:   ItemTypeERC721,
			Token:      token,
			Identifier: identifier,
		},
	}
}

// NewERC1155Item creates an item of amount copies of a semi-fungible token
func NewERC1155Item(token, identifier string, amount *big.Int) Item {
	return Item{
		Type:       ItemTypeERC1155,
		Token:      token,
		Identifier: identifier,
		Amount:     amount.String(),
		InputItem: chain.InputItem{
			ItemType:   ItemTypeERC1155,
			Token:      token,
			Identifier: identifier,
			Amount:     amount.String(),
		},
	}
}

// Key identifies an item within a set: type, token and identifier.
// Token addresses compare case-insensitively.
func (i Item) Key() string {
	return fmt.Sprintf("%d:%s:%s", i.Type, strings.ToLower(i.Token), i.Identifier)
}

// CurrencyMode selects whether an order is priced in native currency or in
// the wrapped fungible token
type CurrencyMode int

const (
	CurrencyModeNative CurrencyMode = iota
	CurrencyModeWrapped
)

func (m CurrencyMode) String() string {
	if m == CurrencyModeWrapped {
		return "wrapped"
	}
	return "native"
}

// Allows reports whether items of type t may be part of an order in mode m
func (m CurrencyMode) Allows(t ItemType) bool {
	switch m {
	case CurrencyModeWrapped:
		return t != ItemTypeNative
	default:
		return t != ItemTypeERC20
	}
}

// Order durations in seconds. DurationNone means the order never expires.
const (
	DurationNone      uint64 = 0
	DurationOneDay    uint64 = 86400
	DurationThreeDays uint64 = 259200
	DurationSevenDays uint64 = 604800
	DurationOneMonth  uint64 = 2592000
)

// Durations lists the selectable order durations
var Durations = []uint64{DurationNone, DurationOneDay, DurationThreeDays, DurationSevenDays, DurationOneMonth}

// OrderRecord is the unit persisted once an order was created and its
// fulfillment dispatched
type OrderRecord struct {
	ID             string       `json:"id"`
	Order          *SignedOrder `json:"order"`
	Offers         []Item       `json:"offers"`
	Considerations []Item       `json:"considerations"`
}

// Phase is a step of a submission
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCreating
	PhaseCreated
	PhaseFulfilling
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseCreating:
		return "creating"
	case PhaseCreated:
		return "created"
	case PhaseFulfilling:
		return "fulfilling"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}
