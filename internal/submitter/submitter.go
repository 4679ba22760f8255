// Package submitter sends the fee-bearing requestKick transaction.
package submitter

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ethereum/go-ethereum/common"

	"KickRelay/internal/apperr"
	"KickRelay/internal/model"
)

// Strategy is one way of getting a kick transaction on-chain.
type Strategy interface {
	Name() string
	Submit(ctx context.Context, req model.KickRequest) (common.Hash, error)
}

// Submitter tries its strategies in order until one succeeds.
type Submitter struct {
	strategies []Strategy
}

// New creates a Submitter. The first strategy is the primary path, the rest
// are fallbacks.
func New(strategies ...Strategy) *Submitter {
	return &Submitter{strategies: strategies}
}

// Submit returns the transaction hash of the first successful strategy.
func (s *Submitter) Submit(ctx context.Context, req model.KickRequest) (common.Hash, error) {
	if req.Fee == nil {
		return common.Hash{}, apperr.New(apperr.CodePrecondition, "Game fee not loaded. Check your network connection.")
	}
	if !req.Move.Valid() {
		return common.Hash{}, apperr.New(apperr.CodePrecondition, fmt.Sprintf("invalid move %d", uint8(req.Move)))
	}
	if len(s.strategies) == 0 {
		return common.Hash{}, apperr.New(apperr.CodeSubmission, "no submission strategy configured")
	}

	var errs []error
	for _, st := range s.strategies {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		hash, err := st.Submit(ctx, req)
		if err == nil {
			log.Printf("[INFO] kick submitted via %s: %s", st.Name(), hash.Hex())
			return hash, nil
		}
		log.Printf("[WARN] %s submission failed: %v", st.Name(), err)
		errs = append(errs, fmt.Errorf("%s: %w", st.Name(), err))
	}
	return common.Hash{}, apperr.Wrap(apperr.CodeSubmission, "all submission paths failed", errors.Join(errs...))
}
