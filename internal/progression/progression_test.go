package progression

import (
	"testing"

	"KickRelay/internal/model"
)

func TestLevelAndMultiplier(t *testing.T) {
	tests := []struct {
		streak     uint64
		level      int
		multiplier float64
		tier       Tier
	}{
		{0, 1, 1.0, TierRookie},
		{1, 1, 1.0, TierRookie},
		{3, 3, 1.0, TierRookie},
		{4, 4, 1.5, TierPro},
		{6, 6, 1.5, TierPro},
		{7, 7, 2.5, TierLegend},
		{10, 10, 2.5, TierLegend},
		{15, 10, 2.5, TierLegend},
	}
	for _, tt := range tests {
		got := Derive(&model.PlayerStats{CurrentStreak: tt.streak}, model.StateIdle, nil)
		if got.Level != tt.level || got.Multiplier != tt.multiplier || got.Tier != tt.tier {
			t.Errorf("streak %d: got %+v, want level %d x%.1f %s", tt.streak, got, tt.level, tt.multiplier, tt.tier)
		}
	}
}

func TestDeriveWithoutStats(t *testing.T) {
	got := Derive(nil, model.StateResult, &model.Outcome{IsGoal: true})
	if got.Level != 1 || got.Multiplier != 1.0 || got.Tier != TierRookie {
		t.Errorf("got %+v", got)
	}
}

func TestEffectiveStreak(t *testing.T) {
	stats := &model.PlayerStats{CurrentStreak: 3}
	goal := &model.Outcome{IsGoal: true}
	settled := &model.Outcome{IsGoal: true, StatsSettled: true}
	save := &model.Outcome{ResolvedMove: model.MoveLeft, OracleMove: model.MoveLeft}

	tests := []struct {
		name  string
		state model.GameState
		last  *model.Outcome
		want  uint64
	}{
		{"goal pending refresh", model.StateResult, goal, 4},
		{"goal settled", model.StateResult, settled, 3},
		{"save", model.StateResult, save, 3},
		{"goal but back to idle", model.StateIdle, goal, 3},
		{"processing", model.StateProcessing, nil, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(stats, tt.state, tt.last)
			if got.EffectiveStreak != tt.want {
				t.Errorf("effective streak = %d, want %d", got.EffectiveStreak, tt.want)
			}
		})
	}

	// streak 3 plus a pending goal lands in the 1.5x band
	got := Derive(stats, model.StateResult, goal)
	if got.Level != 4 || got.Multiplier != 1.5 {
		t.Errorf("got %+v, want level 4 x1.5", got)
	}
}
