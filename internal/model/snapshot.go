package model

import (
	"math/big"
	"time"
)

// Snapshot is the read-only view handed to UI collaborators.
type Snapshot struct {
	GameState       GameState    `json:"game_state"`
	TxStatus        TxStatus     `json:"tx_status"`
	LastOutcome     *Outcome     `json:"last_outcome,omitempty"`
	Fee             *big.Int     `json:"fee,omitempty"`
	FeeDisplay      string       `json:"fee_display"`
	Stats           *PlayerStats `json:"stats,omitempty"`
	Level           int          `json:"level"`
	Multiplier      float64      `json:"multiplier"`
	Tier            string       `json:"tier"`
	SequenceNumber  *uint64      `json:"sequence_number,omitempty"`
	TxHash          string       `json:"tx_hash,omitempty"`
	TxURL           string       `json:"tx_url,omitempty"`
	LifecycleID     string       `json:"lifecycle_id,omitempty"`
	LastError       string       `json:"last_error,omitempty"`
	Syncing         bool         `json:"syncing"`
	NetworkMismatch bool         `json:"network_mismatch"`
	DebugLog        []string     `json:"debug_log"`
	UpdatedAt       time.Time    `json:"updated_at"`
}
