// Package poller watches a round until the entropy oracle fulfils it.
package poller

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"KickRelay/internal/apperr"
	"KickRelay/internal/model"
)

const (
	DefaultInterval = 2 * time.Second
	DefaultTimeout  = 5 * time.Minute
)

// RoundReader reads one round by sequence number.
type RoundReader interface {
	Round(ctx context.Context, seq uint64) (model.RoundRecord, error)
}

// Poller runs at most one polling loop at a time.
type Poller struct {
	reader   RoundReader
	interval time.Duration
	timeout  time.Duration

	mu     sync.Mutex
	active *loop
}

type loop struct {
	seq    uint64
	cancel context.CancelFunc
}

// New creates a Poller. A zero interval uses DefaultInterval; a zero timeout
// polls until stopped.
func New(reader RoundReader, interval, timeout time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{reader: reader, interval: interval, timeout: timeout}
}

// Start begins polling seq, replacing any running loop. onFulfilled runs
// exactly once with the first fulfilled record; onFailed runs when the
// timeout expires. Neither runs after Stop or ctx cancellation.
func (p *Poller) Start(ctx context.Context, seq uint64, onFulfilled func(model.RoundRecord), onFailed func(error)) {
	ctx, cancel := context.WithCancel(ctx)
	l := &loop{seq: seq, cancel: cancel}

	p.mu.Lock()
	if p.active != nil {
		p.active.cancel()
	}
	p.active = l
	p.mu.Unlock()

	log.Printf("[INFO] polling round %d every %s", seq, p.interval)
	go p.run(ctx, l, onFulfilled, onFailed)
}

// Stop cancels the running loop, if any.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active != nil {
		p.active.cancel()
		p.active = nil
	}
}

// Active returns the sequence number being polled.
func (p *Poller) Active() (uint64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active == nil {
		return 0, false
	}
	return p.active.seq, true
}

func (p *Poller) run(ctx context.Context, l *loop, onFulfilled func(model.RoundRecord), onFailed func(error)) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if p.timeout > 0 {
		timer := time.NewTimer(p.timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-deadline:
			if p.finish(l) && onFailed != nil {
				onFailed(apperr.New(apperr.CodeFulfillmentTimeout,
					fmt.Sprintf("round %d not fulfilled after %s", l.seq, p.timeout)))
			}
			return
		case <-ticker.C:
		}

		rec, err := p.reader.Round(ctx, l.seq)
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("[WARN] poll round %d: %v", l.seq, err)
			}
			continue
		}
		if !rec.Fulfilled {
			continue
		}
		if p.finish(l) && onFulfilled != nil {
			onFulfilled(rec)
		}
		return
	}
}

// finish clears l if it is still the active loop. Only the caller that gets
// true may invoke a callback.
func (p *Poller) finish(l *loop) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active != l {
		return false
	}
	l.cancel()
	p.active = nil
	return true
}
