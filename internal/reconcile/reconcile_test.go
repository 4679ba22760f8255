package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"KickRelay/internal/apperr"
	"KickRelay/internal/model"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name string
		rec  model.RoundRecord
		want model.ResultKind
	}{
		{"goal", model.RoundRecord{Fulfilled: true, IsGoal: true, RequestedMove: model.MoveLeft, ResolvedMove: model.MoveLeft, OracleMove: model.MoveRight}, model.ResultGoal},
		{"save", model.RoundRecord{Fulfilled: true, RequestedMove: model.MoveCenter, ResolvedMove: model.MoveCenter, OracleMove: model.MoveCenter}, model.ResultSave},
		{"wind miss", model.RoundRecord{Fulfilled: true, RequestedMove: model.MoveLeft, ResolvedMove: model.MoveRight, OracleMove: model.MoveCenter, WindStrength: 80}, model.ResultMiss},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.rec.SequenceNumber = 42
			out, err := Reconcile(tt.rec)
			if err != nil {
				t.Fatalf("reconcile: %v", err)
			}
			if out.Result() != tt.want {
				t.Errorf("result = %s, want %s", out.Result(), tt.want)
			}
			if out.SequenceNumber != 42 || out.PlayerMove != tt.rec.RequestedMove || out.WindStrength != tt.rec.WindStrength {
				t.Errorf("fields not carried over: %+v", out)
			}
			if out.StatsSettled {
				t.Error("fresh outcome must not be settled")
			}
		})
	}
}

func TestReconcileRejectsUnfulfilled(t *testing.T) {
	if _, err := Reconcile(model.RoundRecord{SequenceNumber: 1}); !errors.Is(err, apperr.ErrPrecondition) {
		t.Fatalf("expected precondition error, got %v", err)
	}
}

type refresher chan struct{}

func (r refresher) RefreshStats(context.Context) error {
	r <- struct{}{}
	return nil
}

func TestApplyRefreshesStats(t *testing.T) {
	ch := make(refresher, 1)
	r := &Reconciler{Stats: ch}

	out, err := r.Apply(context.Background(), model.RoundRecord{SequenceNumber: 3, Fulfilled: true, IsGoal: true})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !out.IsGoal {
		t.Error("expected goal")
	}
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("stats refresh not triggered")
	}
}
