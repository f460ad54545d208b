package chain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testFeeRecipient = "0x0c0d274060766d0F8DcDebc8c4B305a3e8a676C0"
	testNFT          = "0x5180db8F5c931aaE63c74266b211F580155ecac8"
	testToken        = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
)

func newTestBuilder(now time.Time) *OrderBuilder {
	ob := NewOrderBuilder(testSeaportAddr, 1, common.Hash{})
	ob.now = func() time.Time { return now }
	return ob
}

func TestBuildOrderAddsFeeInFirstCurrency(t *testing.T) {
	now := time.Unix(1700000000, 0)
	offerer := common.HexToAddress("0x1111111111111111111111111111111111111111")

	params, err := newTestBuilder(now).BuildOrder(&CreateOrderInput{
		Offer:         []InputItem{{ItemType: ItemTypeNative, Amount: "1000000000000000000"}},
		Consideration: []InputItem{{ItemType: ItemTypeERC721, Token: testNFT, Identifier: "42"}},
		EndTime:       "1700086400",
		Fees:          []Fee{{Recipient: testFeeRecipient, BasisPoints: 2}},
	}, offerer, nil)
	require.NoError(t, err)

	require.Len(t, params.Offer, 1)
	assert.Equal(t, common.Address{}.Hex(), params.Offer[0].Token)
	assert.Equal(t, "1000000000000000000", params.Offer[0].StartAmount)

	require.Len(t, params.Consideration, 2)
	nft := params.Consideration[0]
	assert.Equal(t, ItemTypeERC721, nft.ItemType)
	assert.Equal(t, "42", nft.IdentifierOrCriteria)
	assert.Equal(t, "1", nft.StartAmount)
	assert.Equal(t, offerer.Hex(), nft.Recipient)

	fee := params.Consideration[1]
	assert.Equal(t, ItemTypeNative, fee.ItemType)
	assert.Equal(t, "200000000000000", fee.StartAmount)
	assert.Equal(t, common.HexToAddress(testFeeRecipient).Hex(), fee.Recipient)

	assert.Equal(t, 2, params.TotalOriginalConsiderationItems)
	assert.Equal(t, "1700000000", params.StartTime)
	assert.Equal(t, "1700086400", params.EndTime)
	assert.Equal(t, "0", params.Counter)
	assert.Equal(t, OrderTypeFullOpen, params.OrderType)
	assert.NotEmpty(t, params.Salt)
}

func TestBuildOrderDeductsFeesFromConsiderationCurrency(t *testing.T) {
	offerer := common.HexToAddress("0x1111111111111111111111111111111111111111")

	params, err := newTestBuilder(time.Now()).BuildOrder(&CreateOrderInput{
		Offer:         []InputItem{{ItemType: ItemTypeERC1155, Token: testNFT, Identifier: "7", Amount: "3"}},
		Consideration: []InputItem{{ItemType: ItemTypeERC20, Token: testToken, Amount: "10000", EndAmount: "20000"}},
		Fees:          []Fee{{Recipient: testFeeRecipient, BasisPoints: 250}},
	}, offerer, nil)
	require.NoError(t, err)

	require.Len(t, params.Consideration, 2)
	assert.Equal(t, "9750", params.Consideration[0].StartAmount)
	assert.Equal(t, "19500", params.Consideration[0].EndAmount)
	assert.Equal(t, ItemTypeERC20, params.Consideration[1].ItemType)
	assert.Equal(t, common.HexToAddress(testToken).Hex(), params.Consideration[1].Token)
	assert.Equal(t, "250", params.Consideration[1].StartAmount)
	assert.Equal(t, "500", params.Consideration[1].EndAmount)
}

func TestBuildOrderWithoutExpiryOrCurrency(t *testing.T) {
	offerer := common.HexToAddress("0x1111111111111111111111111111111111111111")

	params, err := newTestBuilder(time.Now()).BuildOrder(&CreateOrderInput{
		Offer:             []InputItem{{ItemType: ItemTypeERC721, Token: testNFT, Identifier: "1"}},
		Consideration:     []InputItem{{ItemType: ItemTypeERC721, Token: testNFT, Identifier: "2"}},
		Fees:              []Fee{{Recipient: testFeeRecipient, BasisPoints: 2}},
		AllowPartialFills: true,
	}, offerer, nil)
	require.NoError(t, err)

	assert.Equal(t, math.MaxBig256.String(), params.EndTime)
	assert.Len(t, params.Consideration, 1)
	assert.Equal(t, OrderTypePartialOpen, params.OrderType)
}

func TestBuildOrderDropsZeroFee(t *testing.T) {
	offerer := common.HexToAddress("0x1111111111111111111111111111111111111111")

	params, err := newTestBuilder(time.Now()).BuildOrder(&CreateOrderInput{
		Offer:         []InputItem{{ItemType: ItemTypeNative, Amount: "100"}},
		Consideration: []InputItem{{ItemType: ItemTypeERC721, Token: testNFT, Identifier: "2"}},
		Fees:          []Fee{{Recipient: testFeeRecipient, BasisPoints: 2}},
	}, offerer, nil)
	require.NoError(t, err)
	assert.Len(t, params.Consideration, 1)
}

func TestBuildOrderRejectsInvalidItems(t *testing.T) {
	offerer := common.HexToAddress("0x1111111111111111111111111111111111111111")
	fees := []Fee{{Recipient: testFeeRecipient, BasisPoints: 2}}

	testCases := map[string]struct {
		item InputItem
		want error
	}{
		"zero amount":         {InputItem{ItemType: ItemTypeNative, Amount: "0"}, ErrInvalidAmount},
		"negative amount":     {InputItem{ItemType: ItemTypeERC20, Token: testToken, Amount: "-1"}, ErrInvalidAmount},
		"missing token":       {InputItem{ItemType: ItemTypeERC20, Amount: "1"}, ErrInvalidAddress},
		"bad identifier":      {InputItem{ItemType: ItemTypeERC721, Token: testNFT, Identifier: "x"}, ErrInvalidIdentifier},
		"erc721 amount two":   {InputItem{ItemType: ItemTypeERC721, Token: testNFT, Identifier: "1", Amount: "2"}, ErrInvalidAmount},
		"fractional quantity": {InputItem{ItemType: ItemTypeNative, Amount: "1.5"}, ErrInvalidAmount},
	}

	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			_, err := newTestBuilder(time.Now()).BuildOrder(&CreateOrderInput{
				Offer: []InputItem{tc.item},
				Fees:  fees,
			}, offerer, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), err.Error())
		})
	}
}

func TestBuildOrderRejectsBadFees(t *testing.T) {
	offerer := common.HexToAddress("0x1111111111111111111111111111111111111111")
	_, err := newTestBuilder(time.Now()).BuildOrder(&CreateOrderInput{
		Fees: []Fee{{Recipient: "nope", BasisPoints: 2}},
	}, offerer, nil)
	require.Error(t, err)

	_, err = newTestBuilder(time.Now()).BuildOrder(&CreateOrderInput{
		Fees: []Fee{{Recipient: testFeeRecipient, BasisPoints: 10001}},
	}, offerer, nil)
	require.Error(t, err)
}

func TestSignHashRecoversOfferer(t *testing.T) {
	wallet := NewKeyWalletFromKey(newTestKey(t))
	ob := newTestBuilder(time.Now())

	params, err := ob.BuildOrder(&CreateOrderInput{
		Offer:         []InputItem{{ItemType: ItemTypeNative, Amount: "1000000000000000000"}},
		Consideration: []InputItem{{ItemType: ItemTypeERC721, Token: testNFT, Identifier: "1"}},
		Fees:          []Fee{{Recipient: testFeeRecipient, BasisPoints: 2}},
	}, wallet.Address(), nil)
	require.NoError(t, err)

	digest, err := ob.SignHash(params)
	require.NoError(t, err)

	again, err := ob.SignHash(params)
	require.NoError(t, err)
	require.Equal(t, digest, again)

	signature, err := wallet.SignDigest(context.Background(), digest, Prompt{Action: ActionTypeCreate})
	require.NoError(t, err)
	require.Equal(t, wallet.Address(), recoverSigner(t, digest, signature))

	params.Salt = "1"
	changed, err := ob.SignHash(params)
	require.NoError(t, err)
	require.NotEqual(t, digest, changed)
}

func TestOrderToTypedDataRejectsGarbage(t *testing.T) {
	_, err := OrderToTypedData(&OrderParameters{Offerer: "0x1", Zone: common.Address{}.Hex()})
	require.ErrorIs(t, err, ErrInvalidAddress)

	_, err = OrderToTypedData(&OrderParameters{
		Offerer:    common.Address{}.Hex(),
		Zone:       common.Address{}.Hex(),
		ConduitKey: "0x1234",
	})
	require.ErrorIs(t, err, ErrInvalidBytes32)
}
