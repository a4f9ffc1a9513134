package twentyone

import "testing"

func startMatch(t *testing.T, e *Engine, inviter, accepter uint64) MatchUpdate {
	t.Helper()
	inv := e.CreateInvitation(inviter, "на пиво")
	upd, err := e.AcceptInvitation(inv.ID, accepter)
	if err != nil {
		t.Fatalf("AcceptInvitation err: %v", err)
	}
	return upd
}

func TestAcceptInvitation_DealsAndGivesTurnToInviter(t *testing.T) {
	e := newTestEngine(t, DefaultConfig(), script("Kh", "9h", "Kc", "7c"), nil)
	inv := e.CreateInvitation(1, "на пиво")
	if inv.Stake != "пиво" || inv.Status != InvitationPending {
		t.Fatalf("unexpected invitation: %+v", inv)
	}

	_, err := e.AcceptInvitation(inv.ID, 1)
	expectCode(t, err, "SelfAccept")

	upd, err := e.AcceptInvitation(inv.ID, 2)
	if err != nil {
		t.Fatalf("AcceptInvitation err: %v", err)
	}
	if upd.MatchID != "game_1" || upd.Players != [2]uint64{1, 2} {
		t.Fatalf("unexpected match: %+v", upd)
	}

	a, ok := upd.ViewFor(1)
	if !ok || !a.YourTurn || a.Hand.Value != 19 || a.Round != 1 {
		t.Fatalf("unexpected view for A: %+v", a)
	}
	if !a.OpponentHand.Hidden || a.OpponentHand.Count != 2 || len(a.OpponentHand.Cards) != 0 {
		t.Fatalf("opponent hand should be concealed: %+v", a.OpponentHand)
	}
	b, ok := upd.ViewFor(2)
	if !ok || b.YourTurn || b.Hand.Value != 17 || b.Opponent != 1 {
		t.Fatalf("unexpected view for B: %+v", b)
	}

	_, err = e.AcceptInvitation(inv.ID, 3)
	expectCode(t, err, "InvitationNotFound")
	if got := e.Status().ActiveMatches; got != 1 {
		t.Fatalf("expected 1 active match, got %d", got)
	}
}

func TestMatch_TurnOrderEnforced(t *testing.T) {
	e := newTestEngine(t, DefaultConfig(), script("Kh", "9h", "Kc", "7c"), nil)
	upd := startMatch(t, e, 1, 2)

	_, err := e.MatchHit(upd.MatchID, 2)
	expectCode(t, err, "NotYourTurn")
	_, err = e.MatchStand(upd.MatchID, 3)
	expectCode(t, err, "NotYourTurn")
	_, err = e.MatchStand("game_404", 1)
	expectCode(t, err, "MatchNotFound")
	_, err = e.Match(upd.MatchID, 3)
	expectCode(t, err, "MatchNotFound")
}

func TestMatch_BothStandSettlesAndRedeals(t *testing.T) {
	d := script("Kh", "9h", "Kc", "7c", "2h", "3h", "4c", "5c")
	e := newTestEngine(t, DefaultConfig(), d, nil)
	upd := startMatch(t, e, 1, 2)

	upd, err := e.MatchStand(upd.MatchID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if upd.Settlement != nil {
		t.Fatalf("round should not settle after one stand")
	}
	if b, _ := upd.ViewFor(2); !b.YourTurn {
		t.Fatalf("turn should pass to B")
	}

	upd, err = e.MatchStand(upd.MatchID, 2)
	if err != nil {
		t.Fatal(err)
	}
	st := upd.Settlement
	if st == nil {
		t.Fatalf("expected settlement")
	}
	if st.Outcome != MatchOutcomeSeatA || st.Points != 19 || st.Scores != [2]int{19, 0} {
		t.Fatalf("unexpected settlement: %+v", st)
	}
	if st.Hands[SeatB].Hidden || st.Hands[SeatB].Value != 17 {
		t.Fatalf("settlement should reveal both hands: %+v", st.Hands)
	}

	a, ok := upd.ViewFor(1)
	if !ok || a.Round != 2 || !a.YourTurn || a.Stood || a.Hand.Value != 5 || a.Score != 19 {
		t.Fatalf("unexpected view after redeal: %+v", a)
	}
	if v, err := e.Match(upd.MatchID, 2); err != nil || v.Hand.Value != 9 || v.OpponentScore != 19 {
		t.Fatalf("unexpected lookup: %+v %v", v, err)
	}
}

func TestMatchHit_BustPassesTurnWithoutSettling(t *testing.T) {
	d := script("Kh", "6h", "9c", "8c", "Qd")
	e := newTestEngine(t, DefaultConfig(), d, nil)
	upd := startMatch(t, e, 1, 2)

	upd, err := e.MatchHit(upd.MatchID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !upd.Busted || upd.Settlement != nil {
		t.Fatalf("bust should only pass the turn: %+v", upd)
	}
	a, _ := upd.ViewFor(1)
	if !a.Stood || a.YourTurn || a.Hand.Value != 26 {
		t.Fatalf("unexpected view for busted A: %+v", a)
	}

	_, err = e.MatchHit(upd.MatchID, 1)
	expectCode(t, err, "NotYourTurn")

	upd, err = e.MatchStand(upd.MatchID, 2)
	if err != nil {
		t.Fatal(err)
	}
	if upd.Settlement == nil || upd.Settlement.Outcome != MatchOutcomeSeatB || upd.Settlement.Points != 17 {
		t.Fatalf("B should take the round: %+v", upd.Settlement)
	}
}

func TestMatchHit_BothBust(t *testing.T) {
	d := script("Kh", "6h", "Kc", "6c", "Qd", "Qs")
	e := newTestEngine(t, DefaultConfig(), d, nil)
	upd := startMatch(t, e, 1, 2)

	if _, err := e.MatchHit(upd.MatchID, 1); err != nil {
		t.Fatal(err)
	}
	upd, err := e.MatchHit(upd.MatchID, 2)
	if err != nil {
		t.Fatal(err)
	}
	st := upd.Settlement
	if st == nil || st.Outcome != MatchOutcomeBothBust || st.Points != 0 || st.Scores != [2]int{0, 0} {
		t.Fatalf("unexpected settlement: %+v", st)
	}
}

func TestMatchHit_OpponentStoodRoundEndsOnBust(t *testing.T) {
	d := script("2h", "3h", "Kc", "9c", "Kd", "Qs")
	e := newTestEngine(t, DefaultConfig(), d, nil)
	upd := startMatch(t, e, 1, 2)

	// A stands on 5, B hits into a bust: the round ends right there.
	if _, err := e.MatchStand(upd.MatchID, 1); err != nil {
		t.Fatal(err)
	}
	upd, err := e.MatchHit(upd.MatchID, 2)
	if err != nil {
		t.Fatal(err)
	}
	if upd.Settlement == nil || upd.Settlement.Outcome != MatchOutcomeSeatA || upd.Settlement.Points != 5 {
		t.Fatalf("unexpected settlement: %+v", upd.Settlement)
	}
}

func TestMatch_PushScoresNothing(t *testing.T) {
	d := script("Kh", "9h", "Kc", "9c")
	e := newTestEngine(t, DefaultConfig(), d, nil)
	upd := startMatch(t, e, 1, 2)

	e.MatchStand(upd.MatchID, 1)
	upd, err := e.MatchStand(upd.MatchID, 2)
	if err != nil {
		t.Fatal(err)
	}
	if upd.Settlement.Outcome != MatchOutcomePush || upd.Settlement.Scores != [2]int{0, 0} {
		t.Fatalf("unexpected settlement: %+v", upd.Settlement)
	}
}

func TestMatch_TournamentWinTearsDown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TargetScore = 20
	d := script("Kh", "Qh", "9c", "8c")
	e := newTestEngine(t, cfg, d, nil)
	recs := collectRecords(e)
	upd := startMatch(t, e, 1, 2)
	matchID := upd.MatchID

	e.MatchStand(matchID, 1)
	upd, err := e.MatchStand(matchID, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !upd.Finished || upd.Winner != 1 || len(upd.Views) != 0 {
		t.Fatalf("expected A to win the tournament: %+v", upd)
	}

	_, err = e.MatchStand(matchID, 1)
	expectCode(t, err, "MatchNotFound")
	if got := e.Status().ActiveMatches; got != 0 {
		t.Fatalf("expected no active matches, got %d", got)
	}

	if len(*recs) != 1 {
		t.Fatalf("expected one record, got %d", len(*recs))
	}
	rec := (*recs)[0]
	if rec.Mode != ModeMatch || rec.MatchID != matchID || rec.Winner != "player_a" || rec.WinnerID != 1 || rec.OpponentID != 2 || rec.PlayerScore != 20 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestMatch_RoundOverPredicate(t *testing.T) {
	cases := []struct {
		name   string
		hands  [2]Hand
		stand  [2]bool
		expect bool
	}{
		{"A stood, B busts", [2]Hand{hand("Kh", "7h"), hand("Kc", "Qc", "5d")}, [2]bool{true, false}, true},
		{"A stood, B live", [2]Hand{hand("Kh", "7h"), hand("Kc", "5d")}, [2]bool{true, false}, false},
		{"both stood", [2]Hand{hand("Kh", "7h"), hand("Kc", "5d")}, [2]bool{true, true}, true},
		{"both bust", [2]Hand{hand("Kh", "Qh", "5h"), hand("Kc", "Qc", "5d")}, [2]bool{true, true}, true},
		{"A bust, B still to act", [2]Hand{hand("Kh", "Qh", "5h"), hand("Kc", "5d")}, [2]bool{true, false}, false},
		{"fresh deal", [2]Hand{hand("Kh", "7h"), hand("Kc", "5d")}, [2]bool{}, false},
	}
	for _, tc := range cases {
		m := &Match{Hands: tc.hands, Stand: tc.stand}
		if got := m.roundOver(); got != tc.expect {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.expect, got)
		}
	}
}
