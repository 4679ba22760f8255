// Package game runs the kick lifecycle state machine: submission, block
// inclusion, fulfilment polling and result display.
package game

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"KickRelay/internal/apperr"
	"KickRelay/internal/model"
	"KickRelay/internal/pending"
	"KickRelay/internal/reconcile"
	"KickRelay/internal/recorder"
	"KickRelay/internal/wallet"
)

const (
	DefaultResultDwell  = 4 * time.Second
	DefaultDebugLogSize = 10
)

// ChainReader is the read side the engine needs for display.
type ChainReader interface {
	Fee(ctx context.Context) (*big.Int, error)
	PlayerStats(ctx context.Context, player common.Address) (model.PlayerStats, error)
}

// Submitter broadcasts a kick transaction.
type Submitter interface {
	Submit(ctx context.Context, req model.KickRequest) (common.Hash, error)
}

// ReceiptWatcher waits for block inclusion.
type ReceiptWatcher interface {
	AwaitInclusion(ctx context.Context, hash common.Hash) ([]*types.Log, error)
}

// EventExtractor finds the sequence number in receipt logs.
type EventExtractor interface {
	ExtractSequenceNumber(logs []*types.Log) (uint64, error)
}

// RoundPoller watches one round at a time.
type RoundPoller interface {
	Start(ctx context.Context, seq uint64, onFulfilled func(model.RoundRecord), onFailed func(error))
	Stop()
}

// Config holds the engine settings.
type Config struct {
	ChainID      *big.Int // required chain; nil skips the mismatch check
	FeeSymbol    string
	ExplorerURL  string
	ResultDwell  time.Duration
	DebugLogSize int
}

// Deps are the collaborators of an Engine. Recorder and Pending are optional.
type Deps struct {
	Player    common.Address
	Reader    ChainReader
	Submitter Submitter
	Watcher   ReceiptWatcher
	Extractor EventExtractor
	Poller    RoundPoller
	Recorder  recorder.Recorder
	Pending   *pending.Store
}

// Engine is the game state machine of one player session.
type Engine struct {
	cfg        Config
	deps       Deps
	reconciler *reconcile.Reconciler
	tracer     trace.Tracer

	ctx    context.Context
	cancel context.CancelFunc

	// notifyMu serialises listener delivery; it is taken before mu.
	notifyMu sync.Mutex

	mu          sync.Mutex
	closed      bool
	gen         uint64
	lifeCancel  context.CancelFunc
	lifecycleID string
	state       model.GameState
	tx          model.TxStatus
	outcome     *model.Outcome
	fee         *big.Int
	stats       *model.PlayerStats
	preKick     *model.PlayerStats
	seq         *uint64
	txHash      string
	lastErr     string
	session     wallet.Session
	dwell       *time.Timer
	debug       []string
	listeners   map[int]func(model.Snapshot)
	nextID      int
	updatedAt   time.Time
}

// New creates an idle Engine.
func New(cfg Config, deps Deps) *Engine {
	if cfg.ResultDwell <= 0 {
		cfg.ResultDwell = DefaultResultDwell
	}
	if cfg.DebugLogSize <= 0 {
		cfg.DebugLogSize = DefaultDebugLogSize
	}
	if deps.Recorder == nil {
		deps.Recorder = recorder.NewNoopRecorder()
	}
	if deps.Pending == nil {
		deps.Pending = &pending.Store{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		cfg:       cfg,
		deps:      deps,
		tracer:    otel.Tracer("KickRelay/internal/game"),
		ctx:       ctx,
		cancel:    cancel,
		state:     model.StateIdle,
		tx:        model.TxIdle,
		listeners: make(map[int]func(model.Snapshot)),
		updatedAt: time.Now(),
	}
	e.reconciler = &reconcile.Reconciler{Stats: e}
	return e
}

// Kick starts a new kick lifecycle. It returns once the engine has entered
// kicking; the rest of the lifecycle runs in the background and is observed
// through snapshots.
func (e *Engine) Kick(move model.Move) error {
	e.mu.Lock()
	if err := e.canKickLocked(move); err != nil {
		e.mu.Unlock()
		return err
	}

	e.stopDwellLocked()
	e.deps.Poller.Stop()
	if e.lifeCancel != nil {
		e.lifeCancel()
	}
	e.gen++
	gen := e.gen
	ctx, cancel := context.WithCancel(e.ctx)
	e.lifeCancel = cancel
	e.lifecycleID = uuid.NewString()
	id := e.lifecycleID

	e.outcome = nil
	e.seq = nil
	e.txHash = ""
	e.lastErr = ""
	e.preKick = copyStats(e.stats)
	e.state = model.StateKicking
	e.tx = model.TxAwaitingSignature
	req := model.KickRequest{Move: move, Fee: new(big.Int).Set(e.fee)}
	e.logLocked("kick %s requested (fee %s)", move, model.FormatFee(e.fee, e.cfg.FeeSymbol))
	e.mu.Unlock()

	e.publish()
	go e.run(ctx, gen, id, req)
	return nil
}

func (e *Engine) canKickLocked(move model.Move) error {
	switch {
	case e.closed:
		return apperr.New(apperr.CodePrecondition, "Engine is shut down.")
	case !e.state.CanKick():
		return apperr.New(apperr.CodeKickInProgress, fmt.Sprintf("cannot kick while %s", e.state))
	case !e.session.Ready:
		return apperr.New(apperr.CodePrecondition, "Wallet is still syncing. Try again in a moment.")
	case !e.session.Matches(e.cfg.ChainID):
		return apperr.New(apperr.CodeNetworkMismatch, fmt.Sprintf("wallet on chain %s, want %s", e.session.ChainID, e.cfg.ChainID))
	case e.fee == nil:
		return apperr.New(apperr.CodePrecondition, "Game fee not loaded. Check your network connection.")
	case !move.Valid():
		return apperr.New(apperr.CodePrecondition, fmt.Sprintf("Invalid move %d.", uint8(move)))
	}
	return nil
}

// Resume re-enters processing for a kick persisted by a previous run.
func (e *Engine) Resume() error {
	kick, ok := e.deps.Pending.Get()
	if !ok {
		return nil
	}

	e.mu.Lock()
	if e.closed || e.state != model.StateIdle {
		e.mu.Unlock()
		return apperr.New(apperr.CodeKickInProgress, "engine busy, cannot resume pending kick")
	}
	e.gen++
	gen := e.gen
	lctx, cancel := context.WithCancel(e.ctx)
	e.lifeCancel = cancel
	e.lifecycleID = kick.LifecycleID
	if e.lifecycleID == "" {
		e.lifecycleID = uuid.NewString()
	}
	id := e.lifecycleID
	seq := kick.SequenceNumber
	e.seq = &seq
	e.txHash = kick.TxHash
	// Stats read at startup may already include this round, so compare
	// against what was saved with the kick. Without them any refresh settles.
	e.preKick = copyStats(kick.PreKickStats)
	e.state = model.StateProcessing
	e.tx = model.TxIdle
	e.logLocked("resuming round %d", seq)
	e.mu.Unlock()

	e.publish()
	e.startPolling(lctx, gen, id, seq)
	return nil
}

// RefreshFee re-reads the kick fee.
func (e *Engine) RefreshFee(ctx context.Context) error {
	fee, err := e.deps.Reader.Fee(ctx)
	if err != nil {
		e.mu.Lock()
		e.logLocked("fee refresh failed: %v", err)
		e.mu.Unlock()
		return err
	}
	e.mu.Lock()
	e.fee = fee
	e.mu.Unlock()
	e.publish()
	return nil
}

// RefreshStats re-reads the player's stats. When a goal is on display and
// the stats moved since the kick, the outcome is marked settled.
func (e *Engine) RefreshStats(ctx context.Context) error {
	stats, err := e.deps.Reader.PlayerStats(ctx, e.deps.Player)
	if err != nil {
		e.mu.Lock()
		e.logLocked("stats refresh failed: %v", err)
		e.mu.Unlock()
		return err
	}

	e.mu.Lock()
	e.stats = &stats
	if e.outcome != nil && !e.outcome.StatsSettled && statsChanged(e.preKick, &stats) {
		e.outcome.StatsSettled = true
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()

	if err := e.deps.Recorder.RecordStats(&recorder.StatsEvent{
		CurrentStreak: stats.CurrentStreak,
		HighestStreak: stats.HighestStreak,
		TotalPoints:   stats.TotalPoints,
		IsOnFire:      stats.IsOnFire,
		Level:         snap.Level,
		Multiplier:    snap.Multiplier,
	}); err != nil {
		logWarn("record stats: %v", err)
	}
	e.publish()
	return nil
}

// UpdateSession replaces the wallet readiness value.
func (e *Engine) UpdateSession(s wallet.Session) {
	e.mu.Lock()
	e.session = s
	if s.Ready && !s.Matches(e.cfg.ChainID) {
		e.logLocked("wrong network: wallet on chain %s", s.ChainID)
	}
	e.mu.Unlock()
	e.publish()
}

// Subscribe registers fn for every published snapshot and returns a function
// that removes it. fn must not call back into the engine synchronously.
func (e *Engine) Subscribe(fn func(model.Snapshot)) func() {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.listeners, id)
		e.mu.Unlock()
	}
}

// Close cancels the running lifecycle, the poller and the dwell timer. No
// listener runs after Close returns.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.gen++
	if e.lifeCancel != nil {
		e.lifeCancel()
	}
	e.stopDwellLocked()
	e.deps.Poller.Stop()
	e.cancel()
	e.mu.Unlock()

	// wait for an in-flight delivery
	e.notifyMu.Lock()
	e.notifyMu.Unlock()
}

func (e *Engine) stopDwellLocked() {
	if e.dwell != nil {
		e.dwell.Stop()
		e.dwell = nil
	}
}

func copyStats(s *model.PlayerStats) *model.PlayerStats {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func statsChanged(before, after *model.PlayerStats) bool {
	if after == nil {
		return false
	}
	if before == nil {
		return true
	}
	return *before != *after
}
