// Package progression derives the displayed level and multiplier from
// on-chain stats.
package progression

import "KickRelay/internal/model"

// Tier names a level band.
type Tier string

const (
	TierRookie Tier = "Rookie"
	TierPro    Tier = "Pro"
	TierLegend Tier = "Legend"
)

const (
	MinLevel = 1
	MaxLevel = 10
)

// Progression is the derived display state.
type Progression struct {
	EffectiveStreak uint64  `json:"effective_streak"`
	Level           int     `json:"level"`
	Multiplier      float64 `json:"multiplier"`
	Tier            Tier    `json:"tier"`
}

// Derive computes the progression. While a goal is shown and the post-round
// stats have not landed yet, the streak is displayed one ahead.
func Derive(stats *model.PlayerStats, state model.GameState, last *model.Outcome) Progression {
	if stats == nil {
		return Progression{Level: MinLevel, Multiplier: 1.0, Tier: TierRookie}
	}
	streak := stats.CurrentStreak
	if state == model.StateResult && last != nil && last.IsGoal && !last.StatsSettled {
		streak++
	}
	level := Level(streak)
	return Progression{
		EffectiveStreak: streak,
		Level:           level,
		Multiplier:      Multiplier(streak),
		Tier:            TierOf(level),
	}
}

// Level clamps a streak to [MinLevel, MaxLevel].
func Level(streak uint64) int {
	switch {
	case streak < MinLevel:
		return MinLevel
	case streak > MaxLevel:
		return MaxLevel
	}
	return int(streak)
}

// Multiplier returns the reward multiplier of a streak.
func Multiplier(streak uint64) float64 {
	switch {
	case streak >= 7:
		return 2.5
	case streak >= 4:
		return 1.5
	}
	return 1.0
}

func TierOf(level int) Tier {
	switch {
	case level >= 7:
		return TierLegend
	case level >= 4:
		return TierPro
	}
	return TierRookie
}
