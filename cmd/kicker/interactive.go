package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"KickRelay/internal/apperr"
	"KickRelay/internal/game"
	"KickRelay/internal/model"
)

const (
	optStats = "Show stats"
	optQuit  = "Quit"
)

func runInteractive(ctx context.Context, engine *game.Engine) {
	title, err := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Kick", pterm.FgGreen.ToStyle()),
		putils.LettersFromStringWithStyle("Relay", pterm.FgDarkGray.ToStyle()),
	).Srender()
	if err == nil {
		pterm.Print(title)
	}

	options := []string{model.MoveLeft.String(), model.MoveCenter.String(), model.MoveRight.String(), optStats, optQuit}
	for ctx.Err() == nil {
		printBoard(engine.Snapshot())

		choice, err := pterm.DefaultInteractiveSelect.WithDefaultText("Pick your shot").WithOptions(options).Show()
		if err != nil || choice == optQuit {
			return
		}
		if choice == optStats {
			printStats(engine.Snapshot())
			continue
		}

		move, err := model.ParseMove(choice)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		if err := engine.Kick(move); err != nil {
			pterm.Error.Println(apperr.UserMessage(err))
			continue
		}
		waitForResult(ctx, engine)
	}
}

func waitForResult(ctx context.Context, engine *game.Engine) {
	spinner, _ := pterm.DefaultSpinner.Start("Waiting for wallet signature...")
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			spinner.Stop()
			return
		case <-ticker.C:
		}

		snap := engine.Snapshot()
		switch {
		case snap.TxStatus == model.TxError:
			spinner.Fail(snap.LastError)
			return
		case snap.GameState == model.StateResult && snap.LastOutcome != nil:
			spinner.Success(outcomeLine(*snap.LastOutcome))
			return
		case snap.GameState == model.StateProcessing && snap.SequenceNumber != nil:
			spinner.UpdateText(fmt.Sprintf("Round #%d confirmed, waiting for the oracle...", *snap.SequenceNumber))
		case snap.TxStatus == model.TxConfirming:
			spinner.UpdateText("Transaction sent, waiting for confirmation...")
		}
	}
}

func outcomeLine(o model.Outcome) string {
	switch o.Result() {
	case model.ResultGoal:
		return pterm.LightGreen(fmt.Sprintf("GOAL! Shot %s, keeper went %s", o.ResolvedMove, o.OracleMove))
	case model.ResultSave:
		return pterm.LightRed(fmt.Sprintf("Saved! Keeper read %s", o.OracleMove))
	}
	return pterm.LightRed(fmt.Sprintf("Missed! Wind %d carried the ball %s", o.WindStrength, o.ResolvedMove))
}

func printBoard(snap model.Snapshot) {
	info := pterm.Sprintfln("Fee: %s", snap.FeeDisplay) +
		pterm.Sprintfln("Level: %d (%s)", snap.Level, snap.Tier) +
		pterm.Sprintf("Multiplier: x%.1f", snap.Multiplier)
	status := pterm.Sprintfln("State: %s", snap.GameState) +
		pterm.Sprintf("Tx: %s", snap.TxStatus)
	if snap.Syncing {
		status += "\n" + pterm.LightRed("Wallet syncing")
	}
	if snap.NetworkMismatch {
		status += "\n" + pterm.LightRed("Wrong network!")
	}

	panels := pterm.Panels{{
		{Data: pterm.DefaultBox.WithTitle("Player").WithHorizontalPadding(2).Sprint(info)},
		{Data: pterm.DefaultBox.WithTitle("Status").WithHorizontalPadding(2).Sprint(status)},
	}}
	_ = pterm.DefaultPanel.WithPanels(panels).Render()
}

func printStats(snap model.Snapshot) {
	if snap.Stats == nil {
		pterm.Warning.Println("Stats not loaded yet")
		return
	}
	s := snap.Stats
	pterm.Info.Printfln("Current streak %d, best %d, %d points", s.CurrentStreak, s.HighestStreak, s.TotalPoints)
	if s.IsOnFire {
		pterm.Success.Println("On fire!")
	}
	for _, line := range snap.DebugLog {
		pterm.Println(pterm.Gray(line))
	}
}
