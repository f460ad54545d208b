package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrUserRejected is returned when the wallet holder declines a prompt
var ErrUserRejected = errors.New("user rejected the request")

// Prompt describes what the wallet is asked to approve
type Prompt struct {
	Action  ActionType
	Summary string
}

// Wallet signs on behalf of one account. Implementations may block waiting
// for the account holder and return ErrUserRejected.
type Wallet interface {
	Address() common.Address
	SignDigest(ctx context.Context, digest common.Hash, prompt Prompt) ([]byte, error)
	SignTx(ctx context.Context, tx *types.Transaction, chainID *big.Int, prompt Prompt) (*types.Transaction, error)
}

// KeyWallet signs with an in-memory private key and never prompts
type KeyWallet struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// NewKeyWallet creates a wallet from a hex encoded private key
func NewKeyWallet(privateKeyHex string) (*KeyWallet, error) {
	privateKey, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return NewKeyWalletFromKey(privateKey), nil
}

// NewKeyWalletFromKey wraps an existing key
func NewKeyWalletFromKey(privateKey *ecdsa.PrivateKey) *KeyWallet {
	return &KeyWallet{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
	}
}

func (w *KeyWallet) Address() common.Address {
	return w.address
}

// SignDigest signs a 32 byte digest and returns a 65 byte signature with a
// 27/28 recovery id, as ecrecover expects.
func (w *KeyWallet) SignDigest(_ context.Context, digest common.Hash, _ Prompt) ([]byte, error) {
	signature, err := crypto.Sign(digest.Bytes(), w.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign digest: %w", err)
	}
	signature[64] += 27
	return signature, nil
}

func (w *KeyWallet) SignTx(_ context.Context, tx *types.Transaction, chainID *big.Int, _ Prompt) (*types.Transaction, error) {
	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), w.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return signedTx, nil
}

// Confirmer asks the account holder to accept a prompt
type Confirmer interface {
	Confirm(ctx context.Context, prompt Prompt) (bool, error)
}

// ConfirmerFunc adapts a function to Confirmer
type ConfirmerFunc func(ctx context.Context, prompt Prompt) (bool, error)

func (f ConfirmerFunc) Confirm(ctx context.Context, prompt Prompt) (bool, error) {
	return f(ctx, prompt)
}

// ConfirmingWallet asks its Confirmer before every signature
type ConfirmingWallet struct {
	Wallet
	confirmer Confirmer
}

// NewConfirmingWallet wraps w so that every prompt needs confirmation
func NewConfirmingWallet(w Wallet, confirmer Confirmer) *ConfirmingWallet {
	return &ConfirmingWallet{Wallet: w, confirmer: confirmer}
}

func (w *ConfirmingWallet) SignDigest(ctx context.Context, digest common.Hash, prompt Prompt) ([]byte, error) {
	if err := w.confirm(ctx, prompt); err != nil {
		return nil, err
	}
	return w.Wallet.SignDigest(ctx, digest, prompt)
}

func (w *ConfirmingWallet) SignTx(ctx context.Context, tx *types.Transaction, chainID *big.Int, prompt Prompt) (*types.Transaction, error) {
	if err := w.confirm(ctx, prompt); err != nil {
		return nil, err
	}
	return w.Wallet.SignTx(ctx, tx, chainID, prompt)
}

func (w *ConfirmingWallet) confirm(ctx context.Context, prompt Prompt) error {
	ok, err := w.confirmer.Confirm(ctx, prompt)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %w", prompt.Action, ErrUserRejected)
	}
	return nil
}
