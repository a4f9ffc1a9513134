package main

import (
	"strings"

	"github.com/pterm/pterm"

	"twentyone-lite/card"
	"twentyone-lite/twentyone"
)

func handString(h twentyone.HandView) string {
	cards := card.Strings(h.Cards)
	if h.Hidden {
		for i := len(cards); i < h.Count; i++ {
			cards = append([]string{"??"}, cards...)
		}
		return strings.Join(cards, " ")
	}
	return pterm.Sprintf("%s  (%d)", strings.Join(cards, " "), h.Value)
}

func printRound(res twentyone.RoundResult) {
	pbox := pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1).WithBottomPadding(1)
	body := pterm.Sprintfln("Dealer: %s", handString(res.Dealer)) +
		pterm.Sprintfln("You:    %s", handString(res.Player)) +
		pterm.Sprintf("Score %d : %d (you : dealer)", res.PlayerScore, res.DealerScore)
	title := pterm.LightYellow("|ROUND|")
	if res.Outcome != twentyone.OutcomeNone {
		title = pterm.LightGreen("|" + strings.ToUpper(res.Outcome.String()) + "|")
	}
	pbox.WithTitle(title).WithTitleTopCenter().Println(body)
}

func printMatchView(v twentyone.MatchView) {
	pbox := pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1).WithBottomPadding(1)
	body := pterm.Sprintfln("Player %d: %s", v.Viewer, handString(v.Hand)) +
		pterm.Sprintfln("Player %d: %d cards", v.Opponent, v.OpponentHand.Count) +
		pterm.Sprintf("Score %d : %d", v.Score, v.OpponentScore)
	pbox.WithTitle(pterm.LightCyan(pterm.Sprintf("|ROUND %d|", v.Round))).WithTitleTopCenter().Println(body)
}

func printSettlement(upd twentyone.MatchUpdate) {
	st := upd.Settlement
	pbox := pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1).WithBottomPadding(1)
	body := pterm.Sprintfln("Player %d: %s", upd.Players[twentyone.SeatA], handString(st.Hands[twentyone.SeatA])) +
		pterm.Sprintfln("Player %d: %s", upd.Players[twentyone.SeatB], handString(st.Hands[twentyone.SeatB])) +
		pterm.Sprintf("%s, +%d. Score %d : %d", st.Outcome, st.Points, st.Scores[twentyone.SeatA], st.Scores[twentyone.SeatB])
	pbox.WithTitle(pterm.LightGreen("|SETTLED|")).WithTitleTopCenter().Println(body)
}

func printStatus(st twentyone.Status) {
	_ = pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Metric", "Value"},
		{"Active users (" + st.Window.String() + ")", pterm.Sprint(st.ActiveUsers)},
		{"Known users", pterm.Sprint(st.KnownUsers)},
		{"Running tournaments", pterm.Sprint(st.ActiveSessions)},
		{"Concluded tournaments", pterm.Sprint(st.ConcludedTournaments)},
		{"Active matches", pterm.Sprint(st.ActiveMatches)},
		{"Pending invitations", pterm.Sprint(st.PendingInvitations)},
	}).Render()
}
