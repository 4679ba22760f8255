package game

import (
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"KickRelay/internal/model"
	"KickRelay/internal/progression"
)

// Snapshot returns the current read-only view.
func (e *Engine) Snapshot() model.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Progression returns the derived level state.
func (e *Engine) Progression() progression.Progression {
	e.mu.Lock()
	defer e.mu.Unlock()
	return progression.Derive(e.stats, e.state, e.outcome)
}

func (e *Engine) snapshotLocked() model.Snapshot {
	p := progression.Derive(e.stats, e.state, e.outcome)
	snap := model.Snapshot{
		GameState:       e.state,
		TxStatus:        e.tx,
		FeeDisplay:      model.FormatFee(e.fee, e.cfg.FeeSymbol),
		Level:           p.Level,
		Multiplier:      p.Multiplier,
		Tier:            string(p.Tier),
		TxHash:          e.txHash,
		TxURL:           e.txURL(e.txHash),
		LifecycleID:     e.lifecycleID,
		LastError:       e.lastErr,
		Syncing:         !e.session.Ready,
		NetworkMismatch: e.session.Ready && !e.session.Matches(e.cfg.ChainID),
		DebugLog:        append([]string(nil), e.debug...),
		UpdatedAt:       e.updatedAt,
	}
	if e.outcome != nil {
		o := *e.outcome
		snap.LastOutcome = &o
	}
	if e.fee != nil {
		snap.Fee = new(big.Int).Set(e.fee)
	}
	snap.Stats = copyStats(e.stats)
	if e.seq != nil {
		s := *e.seq
		snap.SequenceNumber = &s
	}
	return snap
}

func (e *Engine) txURL(hash string) string {
	if hash == "" || e.cfg.ExplorerURL == "" {
		return ""
	}
	return strings.TrimRight(e.cfg.ExplorerURL, "/") + "/tx/" + hash
}

// publish delivers the current snapshot to every listener.
func (e *Engine) publish() {
	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.updatedAt = time.Now()
	snap := e.snapshotLocked()
	listeners := make([]func(model.Snapshot), 0, len(e.listeners))
	for _, fn := range e.listeners {
		listeners = append(listeners, fn)
	}
	e.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

// logLocked prepends a line to the bounded debug log, newest first.
func (e *Engine) logLocked(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("[INFO] %s", msg)
	line := time.Now().Format("15:04:05") + " " + msg
	e.debug = append([]string{line}, e.debug...)
	if len(e.debug) > e.cfg.DebugLogSize {
		e.debug = e.debug[:e.cfg.DebugLogSize]
	}
}
