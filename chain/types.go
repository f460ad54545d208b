package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ItemType is the Seaport item type enum
type ItemType int

const (
	ItemTypeNative ItemType = iota
	ItemTypeERC20
	ItemTypeERC721
	ItemTypeERC1155
	ItemTypeERC721WithCriteria
	ItemTypeERC1155WithCriteria
)

func (t ItemType) String() string {
	switch t {
	case ItemTypeNative:
		return "NATIVE"
	case ItemTypeERC20:
		return "ERC20"
	case ItemTypeERC721:
		return "ERC721"
	case ItemTypeERC1155:
		return "ERC1155"
	case ItemTypeERC721WithCriteria:
		return "ERC721_WITH_CRITERIA"
	case ItemTypeERC1155WithCriteria:
		return "ERC1155_WITH_CRITERIA"
	}
	return "UNKNOWN"
}

// IsCurrency reports whether the item type is native currency or ERC20
func (t ItemType) IsCurrency() bool {
	return t == ItemTypeNative || t == ItemTypeERC20
}

// OrderType is the Seaport order type enum
type OrderType uint8

const (
	OrderTypeFullOpen OrderType = iota
	OrderTypePartialOpen
	OrderTypeFullRestricted
	OrderTypePartialRestricted
)

// InputItem describes one side of an exchange the way a caller asks for it.
// Amounts are decimal strings in base units; EndAmount set means an amount range.
type InputItem struct {
	ItemType   ItemType `json:"itemType"`
	Token      string   `json:"token,omitempty"`
	Identifier string   `json:"identifier,omitempty"`
	Amount     string   `json:"amount,omitempty"`
	EndAmount  string   `json:"endAmount,omitempty"`
	Recipient  string   `json:"recipient,omitempty"`
}

// Fee is a cut of the order's currency items paid to Recipient
type Fee struct {
	Recipient   string `json:"recipient"`
	BasisPoints int    `json:"basisPoints"`
}

// CreateOrderInput is the input of the create-order operation.
// An empty EndTime means the order never expires.
type CreateOrderInput struct {
	Offer             []InputItem `json:"offer"`
	Consideration     []InputItem `json:"consideration"`
	EndTime           string      `json:"endTime,omitempty"`
	Fees              []Fee       `json:"fees"`
	AllowPartialFills bool        `json:"allowPartialFills,omitempty"`
}

// OfferItem is a Seaport offer item with amounts as decimal strings
type OfferItem struct {
	ItemType             ItemType `json:"itemType"`
	Token                string   `json:"token"`
	IdentifierOrCriteria string   `json:"identifierOrCriteria"`
	StartAmount          string   `json:"startAmount"`
	EndAmount            string   `json:"endAmount"`
}

// ConsiderationItem is a Seaport consideration item with amounts as decimal strings
type ConsiderationItem struct {
	ItemType             ItemType `json:"itemType"`
	Token                string   `json:"token"`
	IdentifierOrCriteria string   `json:"identifierOrCriteria"`
	StartAmount          string   `json:"startAmount"`
	EndAmount            string   `json:"endAmount"`
	Recipient            string   `json:"recipient"`
}

// OrderParameters are the signed order components, as serialized by seaport-js
type OrderParameters struct {
	Offerer                         string              `json:"offerer"`
	Zone                            string              `json:"zone"`
	ZoneHash                        string              `json:"zoneHash"`
	StartTime                       string              `json:"startTime"`
	EndTime                         string              `json:"endTime"`
	OrderType                       OrderType           `json:"orderType"`
	Offer                           []OfferItem         `json:"offer"`
	Consideration                   []ConsiderationItem `json:"consideration"`
	TotalOriginalConsiderationItems int                 `json:"totalOriginalConsiderationItems"`
	Salt                            string              `json:"salt"`
	ConduitKey                      string              `json:"conduitKey"`
	Counter                         string              `json:"counter"`
}

// OrderWithCounter is a fully signed order ready for fulfillment
type OrderWithCounter struct {
	Parameters OrderParameters `json:"parameters"`
	Signature  string          `json:"signature"`
}

// ERC20 ABI JSON for allowance, approve and decimals
const erc20ABIJSON = `[
	{
		"constant": true,
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "spender", "type": "address"}
		],
		"name": "allowance",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "spender", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"name": "approve",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "decimals",
		"outputs": [{"name": "", "type": "uint8"}],
		"type": "function"
	}
]`

// ERC721 and ERC1155 share the operator approval interface
const tokenApprovalABIJSON = `[
	{
		"constant": true,
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "operator", "type": "address"}
		],
		"name": "isApprovedForAll",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "operator", "type": "address"},
			{"name": "approved", "type": "bool"}
		],
		"name": "setApprovalForAll",
		"outputs": [],
		"type": "function"
	}
]`

const offerItemComponents = `[
	{"name": "itemType", "type": "uint8"},
	{"name": "token", "type": "address"},
	{"name": "identifierOrCriteria", "type": "uint256"},
	{"name": "startAmount", "type": "uint256"},
	{"name": "endAmount", "type": "uint256"}
]`

const considerationItemComponents = `[
	{"name": "itemType", "type": "uint8"},
	{"name": "token", "type": "address"},
	{"name": "identifierOrCriteria", "type": "uint256"},
	{"name": "startAmount", "type": "uint256"},
	{"name": "endAmount", "type": "uint256"},
	{"name": "recipient", "type": "address"}
]`

// Seaport 1.1 ABI subset: getCounter and fulfillOrder
const seaportABIJSON = `[
	{
		"inputs": [{"name": "offerer", "type": "address"}],
		"name": "getCounter",
		"outputs": [{"name": "counter", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{
				"name": "order",
				"type": "tuple",
				"components": [
					{
						"name": "parameters",
						"type": "tuple",
						"components": [
							{"name": "offerer", "type": "address"},
							{"name": "zone", "type": "address"},
							{"name": "offer", "type": "tuple[]", "components": ` + offerItemComponents + `},
							{"name": "consideration", "type": "tuple[]", "components": ` + considerationItemComponents + `},
							{"name": "orderType", "type": "uint8"},
							{"name": "startTime", "type": "uint256"},
							{"name": "endTime", "type": "uint256"},
							{"name": "zoneHash", "type": "bytes32"},
							{"name": "salt", "type": "uint256"},
							{"name": "conduitKey", "type": "bytes32"},
							{"name": "totalOriginalConsiderationItems", "type": "uint256"}
						]
					},
					{"name": "signature", "type": "bytes"}
				]
			},
			{"name": "fulfillerConduitKey", "type": "bytes32"}
		],
		"name": "fulfillOrder",
		"outputs": [{"name": "fulfilled", "type": "bool"}],
		"stateMutability": "payable",
		"type": "function"
	}
]`

var (
	erc20ABI         = mustParseABI("ERC20", erc20ABIJSON)
	tokenApprovalABI = mustParseABI("token approval", tokenApprovalABIJSON)
	seaportABI       = mustParseABI("Seaport", seaportABIJSON)
)

// GetERC20ABI returns the parsed ERC20 ABI
func GetERC20ABI() abi.ABI {
	return erc20ABI
}

// GetSeaportABI returns the parsed Seaport ABI subset
func GetSeaportABI() abi.ABI {
	return seaportABI
}

func mustParseABI(name, raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic("failed to parse " + name + " ABI: " + err.Error())
	}
	return parsed
}
