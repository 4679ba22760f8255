package notifier

import (
	"fmt"
	"html"
	"strings"

	"KickRelay/internal/model"
)

// FormatOutcome formats a reconciled round.
func FormatOutcome(snap model.Snapshot) string {
	o := snap.LastOutcome
	if o == nil {
		return ""
	}
	var b strings.Builder
	switch o.Result() {
	case model.ResultGoal:
		b.WriteString("⚽ <b>GOAL!</b>")
	case model.ResultSave:
		b.WriteString("🧤 <b>Saved!</b>")
	default:
		b.WriteString("💨 <b>Missed!</b>")
	}
	fmt.Fprintf(&b, " | round #%d\n\n", o.SequenceNumber)
	fmt.Fprintf(&b, "Aimed: %s\n", o.PlayerMove)
	fmt.Fprintf(&b, "Ball went: %s (wind %d)\n", o.ResolvedMove, o.WindStrength)
	fmt.Fprintf(&b, "Keeper dived: %s\n\n", o.OracleMove)
	fmt.Fprintf(&b, "Level %d · %s · x%.1f\n", snap.Level, snap.Tier, snap.Multiplier)
	if snap.TxURL != "" {
		fmt.Fprintf(&b, `<a href="%s">view transaction</a>`, html.EscapeString(snap.TxURL))
	}
	return b.String()
}

// FormatStats formats the player's on-chain stats.
func FormatStats(snap model.Snapshot) string {
	var b strings.Builder
	b.WriteString("📊 <b>Player stats</b>\n\n")
	if snap.Stats == nil {
		b.WriteString("Stats not loaded yet.\n")
		return b.String()
	}
	s := snap.Stats
	fmt.Fprintf(&b, "Current streak: %d\n", s.CurrentStreak)
	fmt.Fprintf(&b, "Best streak: %d\n", s.HighestStreak)
	fmt.Fprintf(&b, "Total points: %d\n", s.TotalPoints)
	fmt.Fprintf(&b, "Level %d (%s), multiplier x%.1f\n", snap.Level, snap.Tier, snap.Multiplier)
	if s.IsOnFire {
		b.WriteString("🔥 On fire!\n")
	}
	return b.String()
}

// FormatStatus formats the engine state.
func FormatStatus(snap model.Snapshot) string {
	var b strings.Builder
	b.WriteString("🎯 <b>KickRelay status</b>\n\n")
	fmt.Fprintf(&b, "State: %s\n", snap.GameState)
	fmt.Fprintf(&b, "Transaction: %s\n", snap.TxStatus)
	fmt.Fprintf(&b, "Fee: %s\n", snap.FeeDisplay)
	if snap.SequenceNumber != nil {
		fmt.Fprintf(&b, "Round: #%d\n", *snap.SequenceNumber)
	}
	if snap.Syncing {
		b.WriteString("⏳ Wallet syncing\n")
	}
	if snap.NetworkMismatch {
		b.WriteString("⚠️ Wrong network!\n")
	}
	if snap.LastError != "" {
		fmt.Fprintf(&b, "Last error: %s\n", html.EscapeString(snap.LastError))
	}
	return b.String()
}

// FormatTxUpdate formats a transaction track change, or "" when there is
// nothing worth sending.
func FormatTxUpdate(snap model.Snapshot) string {
	switch snap.TxStatus {
	case model.TxConfirming:
		msg := "⏳ Kick sent, waiting for confirmation"
		if snap.TxURL != "" {
			msg += fmt.Sprintf(` (<a href="%s">tx</a>)`, html.EscapeString(snap.TxURL))
		}
		return msg
	case model.TxError:
		return "❌ Kick failed: " + html.EscapeString(snap.LastError)
	}
	if snap.GameState == model.StateProcessing && snap.SequenceNumber != nil {
		return fmt.Sprintf("🎲 Round #%d confirmed, waiting for the oracle", *snap.SequenceNumber)
	}
	return ""
}

// FormatHelp lists the supported commands.
func FormatHelp() string {
	return "Commands:\n" +
		"/kick left|center|right - take a penalty\n" +
		"/stats - streak, points and level\n" +
		"/status - current kick state\n" +
		"/help - this message"
}
