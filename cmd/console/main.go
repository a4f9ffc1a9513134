package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"twentyone-lite/internal/config"
	"twentyone-lite/twentyone"
)

const (
	consolePlayer = 1
	hotSeatSecond = 2
)

func main() {
	logger := slog.New(pterm.NewSlogHandler(&pterm.DefaultLogger))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "err", err.Error())
		os.Exit(1)
	}
	engine, err := twentyone.New(cfg.Engine)
	if err != nil {
		logger.Error("failed to init engine", "err", err.Error())
		os.Exit(1)
	}
	engine.OnTournamentEnd(func(rec twentyone.TournamentRecord) {
		logger.Info("tournament finished", "id", rec.ID, "winner", rec.Winner, "rounds", rec.Rounds)
	})

	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("2", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("1", pterm.FgDarkGray.ToStyle()),
	).Render()
	pterm.Info.Printfln("First to %d points wins the tournament.", cfg.Engine.TargetScore)

	for {
		engine.Touch(consolePlayer)
		choice, _ := pterm.DefaultInteractiveSelect.
			WithDefaultText("Main menu").
			WithOptions([]string{"Play against the dealer", "Hot-seat match", "Status", "Quit"}).
			Show()
		switch choice {
		case "Play against the dealer":
			playDealer(engine)
		case "Hot-seat match":
			playHotSeat(engine)
		case "Status":
			printStatus(engine.Status())
		default:
			return
		}
	}
}

func askStake() string {
	stake, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("What are we playing for?").Show()
	pterm.Println()
	return stake
}

func playDealer(engine *twentyone.Engine) {
	view := engine.StartTournament(consolePlayer, askStake())
	pterm.Success.Printfln("Tournament started, stake: %s", view.Stake)

	for {
		res, err := engine.StartRound(consolePlayer)
		if err != nil {
			pterm.Error.Println(err.Error())
			return
		}
		for res.Outcome == twentyone.OutcomeNone {
			printRound(res)
			action, _ := pterm.DefaultInteractiveSelect.
				WithDefaultText("Your move").
				WithOptions([]string{"Hit", "Stand", "Surrender", "Leave"}).
				Show()
			switch action {
			case "Hit":
				res, err = engine.Hit(consolePlayer)
			case "Stand":
				res, err = engine.Stand(consolePlayer)
			case "Surrender":
				res, err = engine.Surrender(consolePlayer)
			default:
				items := engine.ResetIdentity(consolePlayer)
				pterm.Info.Printfln("Left the table, cleared: %v", items)
				return
			}
			if err != nil {
				pterm.Error.Println(err.Error())
				return
			}
		}
		printRound(res)
		if res.TournamentOver {
			if res.Winner == twentyone.WinnerPlayer {
				pterm.Success.Printfln("You won the tournament! Collect your %s.", res.Stake)
			} else {
				pterm.Warning.Printfln("The dealer won the tournament. You owe %s.", res.Stake)
			}
			return
		}
		next, _ := pterm.DefaultInteractiveConfirm.WithDefaultText("Next round?").WithDefaultValue(true).Show()
		if !next {
			return
		}
	}
}

// playHotSeat runs a two-player match on one terminal. Players take turns at
// the keyboard, so both hands are shown to whoever is acting.
func playHotSeat(engine *twentyone.Engine) {
	inv := engine.CreateInvitation(consolePlayer, askStake())
	upd, err := engine.AcceptInvitation(inv.ID, hotSeatSecond)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	pterm.Success.Printfln("Match %s started, stake: %s", upd.MatchID, upd.Stake)

	for !upd.Finished {
		var actor twentyone.MatchView
		for _, v := range upd.Views {
			if v.YourTurn {
				actor = v
			}
		}
		printMatchView(actor)
		action, _ := pterm.DefaultInteractiveSelect.
			WithDefaultText(pterm.Sprintf("Player %d, your move", actor.Viewer)).
			WithOptions([]string{"Hit", "Stand"}).
			Show()
		var next twentyone.MatchUpdate
		if action == "Hit" {
			next, err = engine.MatchHit(upd.MatchID, actor.Viewer)
		} else {
			next, err = engine.MatchStand(upd.MatchID, actor.Viewer)
		}
		if errors.Is(err, twentyone.ErrMatchNotFound) {
			return
		}
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		upd = next
		if upd.Busted {
			pterm.Warning.Printfln("Player %d busts.", actor.Viewer)
		}
		if upd.Settlement != nil {
			printSettlement(upd)
		}
	}
	pterm.Success.Printfln("Player %d wins the match and the %s!", upd.Winner, upd.Stake)
}
