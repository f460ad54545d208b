package main

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	seaswap "github.com/kaifufi/seaport-swap-sdk-go"
)

// decimalsFunc looks up the decimals of an ERC20 token
type decimalsFunc func(ctx context.Context, token string) (int, error)

// itemParser turns command-line item specs into items:
//
//	native:<amount>
//	weth:<amount>
//	erc20:<token>:<amount>
//	erc721:<token>:<id>
//	erc1155:<token>:<id>:<count>
//
// Amounts of native, weth and erc20 items are human-readable and scaled by
// the token's decimals.
type itemParser struct {
	wrappedNative string
	decimals      decimalsFunc
}

func (p itemParser) parse(ctx context.Context, spec string) (seaswap.Item, error) {
	parts := strings.Split(strings.TrimSpace(spec), ":")
	kind := strings.ToLower(parts[0])
	args := parts[1:]

	want := map[string]int{"native": 1, "weth": 1, "erc20": 2, "erc721": 2, "erc1155": 3}
	n, ok := want[kind]
	if !ok {
		return seaswap.Item{}, fmt.Errorf("unknown item kind %q in %q", parts[0], spec)
	}
	if len(args) != n {
		return seaswap.Item{}, fmt.Errorf("item %q: %s takes %d fields, got %d", spec, kind, n, len(args))
	}

	switch kind {
	case "native":
		amount, err := seaswap.ParseAmount(args[0], seaswap.NativeDecimals)
		if err != nil {
			return seaswap.Item{}, err
		}
		return seaswap.NewNativeItem(amount), nil

	case "weth":
		amount, err := seaswap.ParseAmount(args[0], seaswap.NativeDecimals)
		if err != nil {
			return seaswap.Item{}, err
		}
		item := seaswap.NewERC20Item(p.wrappedNative, amount)
		item.Symbol = "WETH"
		return item, nil

	case "erc20":
		token, err := parseToken(args[0])
		if err != nil {
			return seaswap.Item{}, err
		}
		decimals, err := p.decimals(ctx, token)
		if err != nil {
			return seaswap.Item{}, fmt.Errorf("failed to read decimals of %s: %w", token, err)
		}
		amount, err := seaswap.ParseAmount(args[1], decimals)
		if err != nil {
			return seaswap.Item{}, err
		}
		return seaswap.NewERC20Item(token, amount), nil

	case "erc721":
		token, err := parseToken(args[0])
		if err != nil {
			return seaswap.Item{}, err
		}
		id, err := parseIdentifier(args[1])
		if err != nil {
			return seaswap.Item{}, err
		}
		return seaswap.NewERC721Item(token, id), nil

	default: // erc1155
		token, err := parseToken(args[0])
		if err != nil {
			return seaswap.Item{}, err
		}
		id, err := parseIdentifier(args[1])
		if err != nil {
			return seaswap.Item{}, err
		}
		count, err := seaswap.ParseAmount(args[2], 0)
		if err != nil {
			return seaswap.Item{}, err
		}
		return seaswap.NewERC1155Item(token, id, count), nil
	}
}

func parseToken(s string) (string, error) {
	if !common.IsHexAddress(s) {
		return "", fmt.Errorf("invalid token address: %s", s)
	}
	addr := common.HexToAddress(s).Hex()
	if addr == common.HexToAddress(seaswap.ZeroAddress).Hex() {
		return "", fmt.Errorf("token address must not be zero")
	}
	return addr, nil
}

func parseIdentifier(s string) (string, error) {
	id, ok := new(big.Int).SetString(s, 10)
	if !ok || id.Sign() < 0 {
		return "", fmt.Errorf("invalid token id: %s", s)
	}
	return id.String(), nil
}
