package model

// GameState is the engine's main finite state.
type GameState string

const (
	StateIdle       GameState = "idle"
	StateKicking    GameState = "kicking"
	StateProcessing GameState = "processing"
	StateResult     GameState = "result"
)

// CanKick reports whether a new lifecycle may start from s.
func (s GameState) CanKick() bool {
	return s == StateIdle || s == StateResult
}

// TxStatus tracks the transaction-specific part of a lifecycle.
type TxStatus string

const (
	TxIdle              TxStatus = "idle"
	TxAwaitingSignature TxStatus = "awaiting-signature"
	TxConfirming        TxStatus = "confirming"
	TxError             TxStatus = "error"
)
