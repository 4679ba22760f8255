// Package reconcile maps a fulfilled round into a game outcome.
package reconcile

import (
	"context"
	"fmt"
	"log"

	"KickRelay/internal/apperr"
	"KickRelay/internal/model"
)

// Reconcile converts a fulfilled record into an Outcome.
func Reconcile(rec model.RoundRecord) (model.Outcome, error) {
	if !rec.Fulfilled {
		return model.Outcome{}, apperr.New(apperr.CodePrecondition, fmt.Sprintf("round %d is not fulfilled", rec.SequenceNumber))
	}
	return model.Outcome{
		SequenceNumber: rec.SequenceNumber,
		IsGoal:         rec.IsGoal,
		PlayerMove:     rec.RequestedMove,
		ResolvedMove:   rec.ResolvedMove,
		OracleMove:     rec.OracleMove,
		WindStrength:   rec.WindStrength,
	}, nil
}

// StatsRefresher re-reads the player's stats after a round.
type StatsRefresher interface {
	RefreshStats(ctx context.Context) error
}

// Reconciler maps records and triggers a stats refresh.
type Reconciler struct {
	Stats StatsRefresher
}

// Apply reconciles rec and starts a background stats refresh. It returns as
// soon as the outcome is known.
func (r *Reconciler) Apply(ctx context.Context, rec model.RoundRecord) (model.Outcome, error) {
	out, err := Reconcile(rec)
	if err != nil {
		return model.Outcome{}, err
	}
	log.Printf("[INFO] round %d reconciled: %s (player %s, resolved %s, keeper %s, wind %d)",
		out.SequenceNumber, out.Result(), out.PlayerMove, out.ResolvedMove, out.OracleMove, out.WindStrength)

	if r.Stats != nil {
		go func() {
			if err := r.Stats.RefreshStats(ctx); err != nil {
				log.Printf("[WARN] stats refresh after round %d: %v", out.SequenceNumber, err)
			}
		}()
	}
	return out, nil
}
