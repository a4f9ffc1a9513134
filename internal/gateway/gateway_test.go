package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"twentyone-lite/internal/lobby"
	"twentyone-lite/twentyone"
)

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()
	cfg := twentyone.DefaultConfig()
	cfg.Seed = 7
	eng, err := twentyone.New(cfg)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return New(lobby.New(eng, nil, nil))
}

func TestDispatch_SinglePlayerFlow(t *testing.T) {
	g := newTestGateway(t)

	reply, _ := g.dispatch(1, ClientMessage{Op: "hit"})
	if reply.Type != "error" || reply.Error.Code != "NoActiveRound" {
		t.Fatalf("expected NoActiveRound, got %+v", reply)
	}

	reply, _ = g.dispatch(1, ClientMessage{Op: "start_tournament", Stake: "на пиво"})
	if reply.Type != "tournament" || reply.Tournament.Stake != "пиво" || reply.Tournament.TargetScore != 101 {
		t.Fatalf("unexpected tournament reply: %+v", reply.Tournament)
	}

	reply, _ = g.dispatch(1, ClientMessage{Op: "start_round"})
	if reply.Type != "round" || reply.Round.Phase != "player_turn" {
		t.Fatalf("unexpected round reply: %+v", reply)
	}
	if !reply.Round.Dealer.Hidden || len(reply.Round.Dealer.Cards) != 1 || len(reply.Round.Player.Cards) != 2 {
		t.Fatalf("unexpected hands: %+v %+v", reply.Round.Player, reply.Round.Dealer)
	}

	reply, _ = g.dispatch(1, ClientMessage{Op: "stand"})
	if reply.Type != "round" || reply.Round.Outcome == "" || reply.Round.Dealer.Hidden {
		t.Fatalf("stand should resolve the round: %+v", reply.Round)
	}

	reply, _ = g.dispatch(1, ClientMessage{Op: "reset"})
	if reply.Type != "reset" || len(reply.Reset) == 0 {
		t.Fatalf("unexpected reset reply: %+v", reply)
	}

	reply, _ = g.dispatch(1, ClientMessage{Op: "session"})
	if reply.Session == nil || reply.Session.Found {
		t.Fatalf("session should be gone: %+v", reply.Session)
	}

	reply, _ = g.dispatch(1, ClientMessage{Op: "status"})
	if reply.Status == nil || reply.Status.ActiveUsers != 1 || reply.Status.WindowHours != 24 {
		t.Fatalf("unexpected status: %+v", reply.Status)
	}
}

func TestDispatch_MatchPushesToOpponent(t *testing.T) {
	g := newTestGateway(t)

	reply, _ := g.dispatch(1, ClientMessage{Op: "invite", Stake: "кофе"})
	if reply.Invitation == nil || reply.Invitation.Status != "pending" {
		t.Fatalf("unexpected invitation: %+v", reply)
	}
	invID := reply.Invitation.ID

	reply, _ = g.dispatch(1, ClientMessage{Op: "accept", InvitationID: invID})
	if reply.Error == nil || reply.Error.Code != "SelfAccept" {
		t.Fatalf("expected SelfAccept, got %+v", reply)
	}

	reply, pushes := g.dispatch(2, ClientMessage{Op: "accept", InvitationID: invID})
	if reply.Type != "match" || reply.Match.YourTurn || reply.Match.Opponent != 1 {
		t.Fatalf("unexpected accept reply: %+v", reply.Match)
	}
	if len(pushes) != 1 || pushes[0].userID != 1 || !pushes[0].msg.Match.YourTurn {
		t.Fatalf("inviter should be told it is their turn: %+v", pushes)
	}
	if !reply.Match.OpponentHand.Hidden || len(reply.Match.OpponentHand.Cards) != 0 {
		t.Fatalf("opponent hand leaked: %+v", reply.Match.OpponentHand)
	}
	matchID := reply.Match.MatchID

	reply, _ = g.dispatch(2, ClientMessage{Op: "match_stand", MatchID: matchID})
	if reply.Error == nil || reply.Error.Code != "NotYourTurn" {
		t.Fatalf("expected NotYourTurn, got %+v", reply)
	}

	reply, pushes = g.dispatch(1, ClientMessage{Op: "match_stand", MatchID: matchID})
	if reply.Error != nil || len(pushes) != 1 || !pushes[0].msg.Match.YourTurn {
		t.Fatalf("turn should pass to player 2: %+v %+v", reply, pushes)
	}

	reply, pushes = g.dispatch(2, ClientMessage{Op: "match_stand", MatchID: matchID})
	if reply.Match.Settlement == nil || len(pushes) != 1 || pushes[0].msg.Match.Settlement == nil {
		t.Fatalf("both participants should see the settlement: %+v", reply.Match)
	}

	reply, _ = g.dispatch(1, ClientMessage{Op: "match", MatchID: matchID})
	if reply.Type != "match" || reply.Match.Round != 2 || !reply.Match.YourTurn {
		t.Fatalf("unexpected lookup after round 1: %+v", reply.Match)
	}
}

func TestDispatch_UnknownOp(t *testing.T) {
	g := newTestGateway(t)
	reply, _ := g.dispatch(1, ClientMessage{Op: "double_down"})
	if reply.Error == nil || reply.Error.Code != "UnknownOp" {
		t.Fatalf("expected UnknownOp, got %+v", reply)
	}
}

func dialUser(t *testing.T, srv *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?user_id=" + userID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	// a pong means the connection is registered
	roundTrip(t, conn, ClientMessage{Seq: 1, Op: "ping"})
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, msg ClientMessage) ServerMessage {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
	return readMessage(t, conn)
}

func readMessage(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var out ServerMessage
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestWebSocket_InviteAcceptPush(t *testing.T) {
	g := newTestGateway(t)
	srv := httptest.NewServer(http.HandlerFunc(g.HandleWebSocket))
	defer srv.Close()

	alice := dialUser(t, srv, "10")
	defer alice.Close()
	bob := dialUser(t, srv, "20")
	defer bob.Close()

	inv := roundTrip(t, alice, ClientMessage{Seq: 2, Op: "invite", Stake: "на пиво"})
	if inv.Seq != 2 || inv.Invitation == nil {
		t.Fatalf("unexpected invite reply: %+v", inv)
	}

	acc := roundTrip(t, bob, ClientMessage{Seq: 3, Op: "accept", InvitationID: inv.Invitation.ID})
	if acc.Type != "match" || acc.Match.Opponent != 10 {
		t.Fatalf("unexpected accept reply: %+v", acc)
	}

	pushed := readMessage(t, alice)
	if pushed.Type != "match" || pushed.Seq != 0 || !pushed.Match.YourTurn || pushed.Match.Stake != "пиво" {
		t.Fatalf("unexpected push to inviter: %+v", pushed.Match)
	}
}

func TestWebSocket_RejectsBadUserID(t *testing.T) {
	g := newTestGateway(t)
	srv := httptest.NewServer(http.HandlerFunc(g.HandleWebSocket))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?user_id=abc"
	if _, _, err := websocket.DefaultDialer.Dial(url, nil); err == nil {
		t.Fatalf("expected handshake failure")
	}
}
