package model

import "time"

// PendingKick is a kick whose sequence number is known but whose round has
// not been reconciled yet.
type PendingKick struct {
	LifecycleID    string    `json:"lifecycle_id"`
	SequenceNumber uint64    `json:"sequence_number"`
	Move           Move      `json:"move"`
	TxHash         string    `json:"tx_hash"`
	// PreKickStats are the player's stats as read before the kick was sent.
	PreKickStats *PlayerStats `json:"pre_kick_stats,omitempty"`
	SubmittedAt  time.Time    `json:"submitted_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
