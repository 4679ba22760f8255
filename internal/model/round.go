package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// KickRequest is the ephemeral input of one kick lifecycle.
type KickRequest struct {
	Move Move
	Fee  *big.Int
}

// RoundRecord mirrors the contract's rounds(seq) entry. Only the oracle
// flips Fulfilled; this service never writes it.
type RoundRecord struct {
	Player         common.Address `json:"player"`
	RequestedMove  Move           `json:"requested_move"`
	SequenceNumber uint64         `json:"sequence_number"`
	Fulfilled      bool           `json:"fulfilled"`
	IsGoal         bool           `json:"is_goal"`
	ResolvedMove   Move           `json:"resolved_move"`
	OracleMove     Move           `json:"oracle_move"`
	WindStrength   uint8          `json:"wind_strength"`
}

// PlayerStats mirrors the contract's playerStats(address) entry.
type PlayerStats struct {
	CurrentStreak uint64 `json:"current_streak"`
	HighestStreak uint64 `json:"highest_streak"`
	TotalPoints   uint64 `json:"total_points"`
	IsOnFire      bool   `json:"is_on_fire"`
}

// ResultKind classifies a reconciled round.
type ResultKind string

const (
	ResultGoal ResultKind = "goal"
	ResultSave ResultKind = "save"
	ResultMiss ResultKind = "miss"
)

// Outcome is the typed result of a fulfilled round.
type Outcome struct {
	SequenceNumber uint64 `json:"sequence_number"`
	IsGoal         bool   `json:"is_goal"`
	PlayerMove     Move   `json:"player_move"`
	ResolvedMove   Move   `json:"resolved_move"`
	OracleMove     Move   `json:"oracle_move"`
	WindStrength   uint8  `json:"wind_strength"`
	// StatsSettled is set once refreshed stats reflecting this round arrive.
	StatsSettled bool `json:"stats_settled"`
}

// Result reports goal, save (keeper dived to where the ball went) or miss
// (no goal although the keeper was beaten).
func (o Outcome) Result() ResultKind {
	switch {
	case o.IsGoal:
		return ResultGoal
	case o.ResolvedMove == o.OracleMove:
		return ResultSave
	default:
		return ResultMiss
	}
}
