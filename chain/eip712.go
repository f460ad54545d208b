package chain

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// EIP712 related errors
var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrInvalidAddress    = errors.New("invalid address")
	ErrInvalidBytes32    = errors.New("invalid bytes32 value")
)

// EIP712 domain of Seaport 1.1
const (
	EIP712DomainName    = "Seaport"
	EIP712DomainVersion = "1.1"
)

const (
	offerItemTypeString         = "OfferItem(uint8 itemType,address token,uint256 identifierOrCriteria,uint256 startAmount,uint256 endAmount)"
	considerationItemTypeString = "ConsiderationItem(uint8 itemType,address token,uint256 identifierOrCriteria,uint256 startAmount,uint256 endAmount,address recipient)"
	orderComponentsPartialType  = "OrderComponents(address offerer,address zone,OfferItem[] offer,ConsiderationItem[] consideration,uint8 orderType,uint256 startTime,uint256 endTime,bytes32 zoneHash,uint256 salt,bytes32 conduitKey,uint256 counter)"
)

// Pre-computed type hashes using keccak256
var (
	EIP712DomainTypeHash = crypto.Keccak256Hash([]byte(
		"EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)",
	))

	OfferItemTypeHash         = crypto.Keccak256Hash([]byte(offerItemTypeString))
	ConsiderationItemTypeHash = crypto.Keccak256Hash([]byte(considerationItemTypeString))

	// Referenced struct types are appended in alphabetical order
	OrderComponentsTypeHash = crypto.Keccak256Hash([]byte(
		orderComponentsPartialType + considerationItemTypeString + offerItemTypeString,
	))
)

var (
	bytes32Type, _ = abi.NewType("bytes32", "", nil)
	uint256Type, _ = abi.NewType("uint256", "", nil)
	uint8Type, _   = abi.NewType("uint8", "", nil)
	addressType, _ = abi.NewType("address", "", nil)
)

// EIP712Domain represents the EIP712 domain separator data
type EIP712Domain struct {
	Name              string
	Version           string
	ChainID           *big.Int
	VerifyingContract common.Address
}

// NewEIP712Domain creates the Seaport domain for a chain and Seaport deployment
func NewEIP712Domain(chainID *big.Int, verifyingContract common.Address) *EIP712Domain {
	return &EIP712Domain{
		Name:              EIP712DomainName,
		Version:           EIP712DomainVersion,
		ChainID:           chainID,
		VerifyingContract: verifyingContract,
	}
}

// Hash computes the EIP712 domain separator hash
func (d *EIP712Domain) Hash() common.Hash {
	arguments := abi.Arguments{
		{Type: bytes32Type}, // typeHash
		{Type: bytes32Type}, // nameHash
		{Type: bytes32Type}, // versionHash
		{Type: uint256Type}, // chainId
		{Type: addressType}, // verifyingContract
	}

	encoded, err := arguments.Pack(
		EIP712DomainTypeHash,
		crypto.Keccak256Hash([]byte(d.Name)),
		crypto.Keccak256Hash([]byte(d.Version)),
		d.ChainID,
		d.VerifyingContract,
	)
	if err != nil {
		panic("failed to encode domain separator: " + err.Error())
	}

	return crypto.Keccak256Hash(encoded)
}

// OfferItemData is the typed form of OfferItem. Field names match the ABI
// component names so the struct packs directly.
type OfferItemData struct {
	ItemType             uint8
	Token                common.Address
	IdentifierOrCriteria *big.Int
	StartAmount          *big.Int
	EndAmount            *big.Int
}

// Hash computes the EIP712 struct hash of the offer item
func (o *OfferItemData) Hash() common.Hash {
	arguments := abi.Arguments{
		{Type: bytes32Type},
		{Type: uint8Type},
		{Type: addressType},
		{Type: uint256Type},
		{Type: uint256Type},
		{Type: uint256Type},
	}

	encoded, err := arguments.Pack(
		OfferItemTypeHash,
		o.ItemType,
		o.Token,
		o.IdentifierOrCriteria,
		o.StartAmount,
		o.EndAmount,
	)
	if err != nil {
		panic("failed to encode offer item: " + err.Error())
	}

	return crypto.Keccak256Hash(encoded)
}

// ConsiderationItemData is the typed form of ConsiderationItem
type ConsiderationItemData struct {
	ItemType             uint8
	Token                common.Address
	IdentifierOrCriteria *big.Int
	StartAmount          *big.Int
	EndAmount            *big.Int
	Recipient            common.Address
}

// Hash computes the EIP712 struct hash of the consideration item
func (c *ConsiderationItemData) Hash() common.Hash {
	arguments := abi.Arguments{
		{Type: bytes32Type},
		{Type: uint8Type},
		{Type: addressType},
		{Type: uint256Type},
		{Type: uint256Type},
		{Type: uint256Type},
		{Type: addressType},
	}

	encoded, err := arguments.Pack(
		ConsiderationItemTypeHash,
		c.ItemType,
		c.Token,
		c.IdentifierOrCriteria,
		c.StartAmount,
		c.EndAmount,
		c.Recipient,
	)
	if err != nil {
		panic("failed to encode consideration item: " + err.Error())
	}

	return crypto.Keccak256Hash(encoded)
}

// OrderTypedData represents the order components for EIP712 hashing
type OrderTypedData struct {
	Offerer       common.Address
	Zone          common.Address
	Offer         []OfferItemData
	Consideration []ConsiderationItemData
	OrderType     uint8
	StartTime     *big.Int
	EndTime       *big.Int
	ZoneHash      [32]byte
	Salt          *big.Int
	ConduitKey    [32]byte
	Counter       *big.Int
}

// Hash computes the struct hash for the order components
func (o *OrderTypedData) Hash() common.Hash {
	offerHashes := make([]byte, 0, 32*len(o.Offer))
	for i := range o.Offer {
		offerHashes = append(offerHashes, o.Offer[i].Hash().Bytes()...)
	}
	considerationHashes := make([]byte, 0, 32*len(o.Consideration))
	for i := range o.Consideration {
		considerationHashes = append(considerationHashes, o.Consideration[i].Hash().Bytes()...)
	}

	arguments := abi.Arguments{
		{Type: bytes32Type}, // typeHash
		{Type: addressType}, // offerer
		{Type: addressType}, // zone
		{Type: bytes32Type}, // offer
		{Type: bytes32Type}, // consideration
		{Type: uint8Type},   // orderType
		{Type: uint256Type}, // startTime
		{Type: uint256Type}, // endTime
		{Type: bytes32Type}, // zoneHash
		{Type: uint256Type}, // salt
		{Type: bytes32Type}, // conduitKey
		{Type: uint256Type}, // counter
	}

	encoded, err := arguments.Pack(
		OrderComponentsTypeHash,
		o.Offerer,
		o.Zone,
		crypto.Keccak256Hash(offerHashes),
		crypto.Keccak256Hash(considerationHashes),
		o.OrderType,
		o.StartTime,
		o.EndTime,
		o.ZoneHash,
		o.Salt,
		o.ConduitKey,
		o.Counter,
	)
	if err != nil {
		panic("failed to encode order components: " + err.Error())
	}

	return crypto.Keccak256Hash(encoded)
}

// CreateOrderSignHash creates the final EIP712 hash to be signed:
// keccak256("\x19\x01" ++ domainSeparator ++ structHash)
func CreateOrderSignHash(domain *EIP712Domain, order *OrderTypedData) common.Hash {
	domainSeparator := domain.Hash()
	structHash := order.Hash()

	data := make([]byte, 0, 2+32+32)
	data = append(data, 0x19, 0x01)
	data = append(data, domainSeparator.Bytes()...)
	data = append(data, structHash.Bytes()...)

	return crypto.Keccak256Hash(data)
}

// OrderToTypedData converts serialized order parameters to their typed form
func OrderToTypedData(params *OrderParameters) (*OrderTypedData, error) {
	offerer, err := parseAddress(params.Offerer)
	if err != nil {
		return nil, fmt.Errorf("offerer: %w", err)
	}
	zone, err := parseAddress(params.Zone)
	if err != nil {
		return nil, fmt.Errorf("zone: %w", err)
	}

	offer := make([]OfferItemData, 0, len(params.Offer))
	for i, item := range params.Offer {
		typed, err := offerItemToTypedData(item)
		if err != nil {
			return nil, fmt.Errorf("offer item %d: %w", i, err)
		}
		offer = append(offer, *typed)
	}

	consideration := make([]ConsiderationItemData, 0, len(params.Consideration))
	for i, item := range params.Consideration {
		typed, err := considerationItemToTypedData(item)
		if err != nil {
			return nil, fmt.Errorf("consideration item %d: %w", i, err)
		}
		consideration = append(consideration, *typed)
	}

	startTime, err := parseUint(params.StartTime, ErrInvalidAmount)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}
	endTime, err := parseUint(params.EndTime, ErrInvalidAmount)
	if err != nil {
		return nil, fmt.Errorf("endTime: %w", err)
	}
	salt, err := parseUint(params.Salt, ErrInvalidAmount)
	if err != nil {
		return nil, fmt.Errorf("salt: %w", err)
	}
	counter, err := parseUint(params.Counter, ErrInvalidAmount)
	if err != nil {
		return nil, fmt.Errorf("counter: %w", err)
	}
	zoneHash, err := parseBytes32(params.ZoneHash)
	if err != nil {
		return nil, fmt.Errorf("zoneHash: %w", err)
	}
	conduitKey, err := parseBytes32(params.ConduitKey)
	if err != nil {
		return nil, fmt.Errorf("conduitKey: %w", err)
	}

	return &OrderTypedData{
		Offerer:       offerer,
		Zone:          zone,
		Offer:         offer,
		Consideration: consideration,
		OrderType:     uint8(params.OrderType),
		StartTime:     startTime,
		EndTime:       endTime,
		ZoneHash:      zoneHash,
		Salt:          salt,
		ConduitKey:    conduitKey,
		Counter:       counter,
	}, nil
}

func offerItemToTypedData(item OfferItem) (*OfferItemData, error) {
	token, err := parseAddress(item.Token)
	if err != nil {
		return nil, err
	}
	identifier, err := parseUint(item.IdentifierOrCriteria, ErrInvalidIdentifier)
	if err != nil {
		return nil, err
	}
	startAmount, err := parseUint(item.StartAmount, ErrInvalidAmount)
	if err != nil {
		return nil, err
	}
	endAmount, err := parseUint(item.EndAmount, ErrInvalidAmount)
	if err != nil {
		return nil, err
	}

	return &OfferItemData{
		ItemType:             uint8(item.ItemType),
		Token:                token,
		IdentifierOrCriteria: identifier,
		StartAmount:          startAmount,
		EndAmount:            endAmount,
	}, nil
}

func considerationItemToTypedData(item ConsiderationItem) (*ConsiderationItemData, error) {
	offerPart, err := offerItemToTypedData(OfferItem{
		ItemType:             item.ItemType,
		Token:                item.Token,
		IdentifierOrCriteria: item.IdentifierOrCriteria,
		StartAmount:          item.StartAmount,
		EndAmount:            item.EndAmount,
	})
	if err != nil {
		return nil, err
	}
	recipient, err := parseAddress(item.Recipient)
	if err != nil {
		return nil, err
	}

	return &ConsiderationItemData{
		ItemType:             offerPart.ItemType,
		Token:                offerPart.Token,
		IdentifierOrCriteria: offerPart.IdentifierOrCriteria,
		StartAmount:          offerPart.StartAmount,
		EndAmount:            offerPart.EndAmount,
		Recipient:            recipient,
	}, nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}

// parseUint parses a non-negative decimal string; empty means zero
func parseUint(s string, sentinel error) (*big.Int, error) {
	if s == "" {
		return big.NewInt(0), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q", sentinel, s)
	}
	return v, nil
}

func parseBytes32(s string) ([32]byte, error) {
	var out [32]byte
	if s == "" {
		return out, nil
	}
	raw, err := hexutil.Decode(s)
	if err != nil || len(raw) != 32 {
		return out, fmt.Errorf("%w: %q", ErrInvalidBytes32, s)
	}
	copy(out[:], raw)
	return out, nil
}
