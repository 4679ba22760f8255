package submitter

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"KickRelay/internal/model"
	"KickRelay/internal/wallet"
)

// DefaultGasCeiling is the fixed gas limit of the raw fallback.
const DefaultGasCeiling uint64 = 300000

// RawBackend is the low-level provider surface used by the fallback.
type RawBackend interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// Encoder produces requestKick call data.
type Encoder interface {
	PackRequestKick(move model.Move) ([]byte, error)
}

// RawStrategy signs and broadcasts the call itself with a fixed gas
// ceiling, skipping simulation and estimation.
type RawStrategy struct {
	to         common.Address
	encoder    Encoder
	backend    RawBackend
	wallet     *wallet.Wallet
	gasCeiling uint64
}

// NewRawStrategy creates the fallback path. A zero gasCeiling uses DefaultGasCeiling.
func NewRawStrategy(to common.Address, enc Encoder, backend RawBackend, w *wallet.Wallet, gasCeiling uint64) *RawStrategy {
	if gasCeiling == 0 {
		gasCeiling = DefaultGasCeiling
	}
	return &RawStrategy{to: to, encoder: enc, backend: backend, wallet: w, gasCeiling: gasCeiling}
}

func (s *RawStrategy) Name() string { return "raw-fallback" }

func (s *RawStrategy) Submit(ctx context.Context, req model.KickRequest) (common.Hash, error) {
	callData, err := s.encoder.PackRequestKick(req.Move)
	if err != nil {
		return common.Hash{}, err
	}

	from := s.wallet.Address()
	nonce, err := s.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("get nonce: %w", err)
	}
	gasPrice, err := s.backend.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("get gas price: %w", err)
	}

	to := s.to
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    new(big.Int).Set(req.Fee),
		Gas:      s.gasCeiling,
		GasPrice: gasPrice,
		Data:     callData,
	})
	signed, err := s.wallet.SignTx(tx)
	if err != nil {
		return common.Hash{}, err
	}
	if err := s.backend.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("send transaction: %w", err)
	}
	return signed.Hash(), nil
}
