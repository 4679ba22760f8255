// Package wallet holds the signing key of the player and the readiness of
// its provider session.
package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrNotReady is returned while no provider chain has been attached.
var ErrNotReady = errors.New("wallet session not ready")

// Session is the readiness value handed to the game engine.
type Session struct {
	Address common.Address
	ChainID *big.Int
	Ready   bool
}

// Wallet signs transactions for a single account.
type Wallet struct {
	mu      sync.RWMutex
	key     *ecdsa.PrivateKey
	address common.Address
	chainID *big.Int
}

// FromHex loads a wallet from a hex-encoded secp256k1 private key.
func FromHex(hexKey string) (*Wallet, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return New(key), nil
}

// New wraps an existing key.
func New(key *ecdsa.PrivateKey) *Wallet {
	return &Wallet{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}
}

func (w *Wallet) Address() common.Address { return w.address }

// Attach records the chain id reported by the provider; the session is
// ready from then on.
func (w *Wallet) Attach(chainID *big.Int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if chainID == nil {
		w.chainID = nil
		return
	}
	w.chainID = new(big.Int).Set(chainID)
}

// Session returns the current readiness value.
func (w *Wallet) Session() Session {
	w.mu.RLock()
	defer w.mu.RUnlock()
	s := Session{Address: w.address, Ready: w.chainID != nil}
	if w.chainID != nil {
		s.ChainID = new(big.Int).Set(w.chainID)
	}
	return s
}

// Transactor builds bound-contract transact options for the session.
func (w *Wallet) Transactor(ctx context.Context) (*bind.TransactOpts, error) {
	chainID, err := w.attachedChain()
	if err != nil {
		return nil, err
	}
	opts, err := bind.NewKeyedTransactorWithChainID(w.key, chainID)
	if err != nil {
		return nil, fmt.Errorf("build transactor: %w", err)
	}
	opts.Context = ctx
	return opts, nil
}

// SignTx signs tx for the attached chain.
func (w *Wallet) SignTx(tx *types.Transaction) (*types.Transaction, error) {
	chainID, err := w.attachedChain()
	if err != nil {
		return nil, err
	}
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), w.key)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	return signed, nil
}

// ChainID returns the attached chain id.
func (w *Wallet) ChainID() (*big.Int, error) {
	return w.attachedChain()
}

func (w *Wallet) attachedChain() (*big.Int, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.chainID == nil {
		return nil, ErrNotReady
	}
	return new(big.Int).Set(w.chainID), nil
}

// Matches reports whether the session runs on the required chain.
func (s Session) Matches(required *big.Int) bool {
	if required == nil || required.Sign() == 0 {
		return true
	}
	return s.ChainID != nil && s.ChainID.Cmp(required) == 0
}
