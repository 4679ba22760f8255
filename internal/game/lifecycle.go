package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"KickRelay/internal/apperr"
	"KickRelay/internal/model"
	"KickRelay/internal/recorder"
)

// run drives one lifecycle from submission to polling. Every state change
// goes through transition, so a superseded lifecycle changes nothing.
func (e *Engine) run(ctx context.Context, gen uint64, id string, req model.KickRequest) {
	ctx, span := e.tracer.Start(ctx, "kick.submit", trace.WithAttributes(
		attribute.String("kick.lifecycle_id", id),
		attribute.String("kick.move", req.Move.String()),
		attribute.String("kick.fee_wei", req.Fee.String()),
	))
	defer span.End()

	hash, err := e.deps.Submitter.Submit(ctx, req)
	if err != nil {
		e.fail(gen, id, "submit", err, span)
		return
	}
	span.SetAttributes(attribute.String("kick.tx_hash", hash.Hex()))
	if !e.transition(gen, func() {
		e.tx = model.TxConfirming
		e.txHash = hash.Hex()
		e.logLocked("tx sent %s, waiting for confirmation", shortHash(e.txHash))
	}) {
		return
	}
	e.recordKick(id, req, hash.Hex(), 0, "SUBMITTED", nil)

	logs, err := e.deps.Watcher.AwaitInclusion(ctx, hash)
	if err != nil {
		e.fail(gen, id, "receipt", err, span)
		return
	}
	seq, err := e.deps.Extractor.ExtractSequenceNumber(logs)
	if err != nil {
		e.fail(gen, id, "extract", err, span)
		return
	}
	span.SetAttributes(attribute.Int64("kick.sequence_number", int64(seq)))

	var preKick *model.PlayerStats
	if !e.transition(gen, func() {
		e.state = model.StateProcessing
		e.tx = model.TxIdle
		e.seq = &seq
		preKick = copyStats(e.preKick)
		e.logLocked("confirmed, round %d waiting for the oracle", seq)
	}) {
		return
	}
	if err := e.deps.Pending.Put(model.PendingKick{
		LifecycleID:    id,
		SequenceNumber: seq,
		Move:           req.Move,
		TxHash:         hash.Hex(),
		PreKickStats:   preKick,
		SubmittedAt:    time.Now(),
	}); err != nil {
		logWarn("save pending kick: %v", err)
	}
	e.recordKick(id, req, hash.Hex(), seq, "INCLUDED", nil)
	e.startPolling(ctx, gen, id, seq)
}

func (e *Engine) startPolling(ctx context.Context, gen uint64, id string, seq uint64) {
	e.deps.Poller.Start(ctx, seq,
		func(rec model.RoundRecord) { e.onFulfilled(gen, id, rec) },
		func(err error) { e.fail(gen, id, "poll", err, nil) },
	)
}

func (e *Engine) onFulfilled(gen uint64, id string, rec model.RoundRecord) {
	_, span := e.tracer.Start(e.ctx, "kick.reconcile", trace.WithAttributes(
		attribute.String("kick.lifecycle_id", id),
		attribute.Int64("kick.sequence_number", int64(rec.SequenceNumber)),
	))
	defer span.End()

	out, err := e.reconciler.Apply(e.ctx, rec)
	if err != nil {
		e.fail(gen, id, "reconcile", err, span)
		return
	}
	span.SetAttributes(attribute.String("kick.result", string(out.Result())))

	if !e.transition(gen, func() {
		// the refresh may have landed before we got here
		out.StatsSettled = statsChanged(e.preKick, e.stats)
		shown := out
		e.outcome = &shown
		e.state = model.StateResult
		e.logLocked("round %d: %s", out.SequenceNumber, resultLine(out))
		e.stopDwellLocked()
		e.dwell = time.AfterFunc(e.cfg.ResultDwell, func() { e.endResult(gen) })
	}) {
		return
	}
	e.deps.Pending.Clear(rec.SequenceNumber)

	if err := e.deps.Recorder.RecordRound(&recorder.RoundEvent{
		LifecycleID:    id,
		SequenceNumber: out.SequenceNumber,
		PlayerMove:     out.PlayerMove.String(),
		ResolvedMove:   out.ResolvedMove.String(),
		OracleMove:     out.OracleMove.String(),
		WindStrength:   out.WindStrength,
		Result:         string(out.Result()),
	}); err != nil {
		logWarn("record round: %v", err)
	}
}

func (e *Engine) endResult(gen uint64) {
	e.transition(gen, func() {
		e.dwell = nil
		e.state = model.StateIdle
	})
}

// fail collapses the lifecycle to idle with the tx track in error.
func (e *Engine) fail(gen uint64, id, stage string, err error, span trace.Span) {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, stage)
	}
	var seq uint64
	ok := e.transition(gen, func() {
		if e.seq != nil {
			seq = *e.seq
		}
		e.deps.Poller.Stop()
		e.state = model.StateIdle
		e.tx = model.TxError
		e.seq = nil
		e.lastErr = apperr.UserMessage(err)
		e.logLocked("%s failed: %v", stage, err)
	})
	if !ok {
		return
	}
	log.Printf("[ERROR] kick %s %s failed: %v", id, stage, err)
	if seq != 0 {
		e.deps.Pending.Clear(seq)
	}
	e.recordKick(id, model.KickRequest{}, "", seq, "FAILED", err)
}

// transition applies fn under the lock if gen is still current and
// publishes the result.
func (e *Engine) transition(gen uint64, fn func()) bool {
	e.mu.Lock()
	if e.closed || gen != e.gen {
		e.mu.Unlock()
		return false
	}
	fn()
	e.mu.Unlock()
	e.publish()
	return true
}

func (e *Engine) recordKick(id string, req model.KickRequest, txHash string, seq uint64, status string, cause error) {
	evt := &recorder.KickEvent{
		LifecycleID:    id,
		Player:         e.deps.Player.Hex(),
		TxHash:         txHash,
		SequenceNumber: seq,
		Status:         status,
	}
	if req.Fee != nil {
		evt.Move = req.Move.String()
		evt.FeeWei = req.Fee.String()
	}
	if cause != nil {
		evt.Error = cause.Error()
	}
	if err := e.deps.Recorder.RecordKick(evt); err != nil {
		logWarn("record kick: %v", err)
	}
}

func resultLine(o model.Outcome) string {
	switch o.Result() {
	case model.ResultGoal:
		return fmt.Sprintf("GOAL! %s past the keeper (%s)", o.ResolvedMove, o.OracleMove)
	case model.ResultSave:
		return fmt.Sprintf("saved, keeper dived %s", o.OracleMove)
	}
	return fmt.Sprintf("missed, wind %d pushed %s to %s", o.WindStrength, o.PlayerMove, o.ResolvedMove)
}

func shortHash(h string) string {
	if len(h) <= 12 {
		return h
	}
	return h[:10] + "…"
}

func logWarn(format string, args ...any) {
	log.Printf("[WARN] "+format, args...)
}

// IsBusy reports whether err was a rejected kick because one is in flight.
func IsBusy(err error) bool {
	return errors.Is(err, apperr.ErrKickInProgress)
}
