package recorder

import "time"

// KickEvent records one step of a kick lifecycle.
type KickEvent struct {
	LifecycleID    string
	Player         string
	Move           string
	FeeWei         string
	TxHash         string
	SequenceNumber uint64
	Status         string // "SUBMITTED", "INCLUDED", "FAILED"
	Error          string
}

// RoundEvent records a reconciled round.
type RoundEvent struct {
	Timestamp      time.Time `json:"timestamp"`
	LifecycleID    string    `json:"lifecycle_id"`
	SequenceNumber uint64    `json:"sequence_number"`
	PlayerMove     string    `json:"player_move"`
	ResolvedMove   string    `json:"resolved_move"`
	OracleMove     string    `json:"oracle_move"`
	WindStrength   uint8     `json:"wind_strength"`
	Result         string    `json:"result"` // "goal", "save", "miss"
}

// StatsEvent records a stats refresh.
type StatsEvent struct {
	CurrentStreak uint64
	HighestStreak uint64
	TotalPoints   uint64
	IsOnFire      bool
	Level         int
	Multiplier    float64
}

// Recorder persists kick history for analysis.
type Recorder interface {
	RecordKick(evt *KickEvent) error
	RecordRound(evt *RoundEvent) error
	RecordStats(evt *StatsEvent) error
	RecentRounds(limit int) ([]RoundEvent, error)
	Close() error
}
