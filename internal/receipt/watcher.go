// Package receipt waits for a submitted transaction to be included in a block.
package receipt

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"KickRelay/internal/apperr"
)

const (
	DefaultInterval = time.Second
	DefaultTimeout  = 2 * time.Minute
)

// Fetcher returns the receipt of a mined transaction. *ethclient.Client
// satisfies it.
type Fetcher interface {
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// Watcher polls a Fetcher until the receipt shows up.
type Watcher struct {
	fetcher  Fetcher
	interval time.Duration
	timeout  time.Duration
}

// NewWatcher creates a Watcher. A zero interval uses DefaultInterval; a zero
// timeout waits until ctx is done.
func NewWatcher(fetcher Fetcher, interval, timeout time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{fetcher: fetcher, interval: interval, timeout: timeout}
}

// AwaitInclusion blocks until hash is mined and returns the receipt's logs.
func (w *Watcher) AwaitInclusion(ctx context.Context, hash common.Hash) ([]*types.Log, error) {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		rcpt, err := w.fetcher.TransactionReceipt(ctx, hash)
		switch {
		case err == nil && rcpt != nil:
			if rcpt.Status == types.ReceiptStatusFailed {
				return nil, apperr.New(apperr.CodeReceipt, fmt.Sprintf("transaction %s reverted in block %s", hash.Hex(), rcpt.BlockNumber))
			}
			log.Printf("[INFO] tx %s included in block %s (%d logs)", hash.Hex(), rcpt.BlockNumber, len(rcpt.Logs))
			return rcpt.Logs, nil
		case err == nil, errors.Is(err, ethereum.NotFound):
			// not mined yet
		case ctx.Err() != nil:
			// the request was cut short by our own deadline, handled below
		default:
			return nil, apperr.Wrap(apperr.CodeReceipt, "fetch receipt", err)
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) && w.timeout > 0 {
				return nil, apperr.Wrap(apperr.CodeReceiptTimeout,
					fmt.Sprintf("no receipt for %s after %s", hash.Hex(), w.timeout), ctx.Err())
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
