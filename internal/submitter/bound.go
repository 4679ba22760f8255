package submitter

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"KickRelay/internal/model"
	"KickRelay/internal/wallet"
)

// BoundStrategy is the primary path: a structured contract write through
// the wallet session, letting the binding price and estimate the call.
type BoundStrategy struct {
	contract *bind.BoundContract
	wallet   *wallet.Wallet
}

// NewBoundStrategy binds the contract ABI at address to backend.
func NewBoundStrategy(address common.Address, parsed abi.ABI, backend bind.ContractBackend, w *wallet.Wallet) *BoundStrategy {
	return &BoundStrategy{
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
		wallet:   w,
	}
}

func (s *BoundStrategy) Name() string { return "primary" }

func (s *BoundStrategy) Submit(ctx context.Context, req model.KickRequest) (common.Hash, error) {
	opts, err := s.wallet.Transactor(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	opts.Value = new(big.Int).Set(req.Fee)

	tx, err := s.contract.Transact(opts, "requestKick", uint8(req.Move))
	if err != nil {
		return common.Hash{}, fmt.Errorf("transact requestKick: %w", err)
	}
	return tx.Hash(), nil
}
