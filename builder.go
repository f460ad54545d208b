package seaswap

import (
	"math/big"
	"time"

	"github.com/kaifufi/seaport-swap-sdk-go/chain"
)

// PlatformFee returns the fee attached to every order
func PlatformFee() chain.Fee {
	return chain.Fee{
		Recipient:   PlatformFeeRecipient,
		BasisPoints: PlatformFeeBasisPoints,
	}
}

// BuildOrderParameters turns the picked items into exchange input. Each
// item's InputItem is passed through in order and the platform fee is always
// attached. A positive durationSeconds sets the end time to now (whole
// seconds) plus the duration; zero leaves it empty so the order never
// expires. Empty sets are not rejected here.
func BuildOrderParameters(offer, consideration []Item, durationSeconds uint64, now time.Time) OrderParameters {
	params := OrderParameters{
		Offer:         inputItems(offer),
		Consideration: inputItems(consideration),
		Fees:          []chain.Fee{PlatformFee()},
	}
	if durationSeconds > 0 {
		end := new(big.Int).SetUint64(durationSeconds)
		params.EndTime = end.Add(end, big.NewInt(now.Unix())).String()
	}
	return params
}

func inputItems(items []Item) []chain.InputItem {
	out := make([]chain.InputItem, 0, len(items))
	for _, item := range items {
		out = append(out, item.InputItem)
	}
	return out
}
