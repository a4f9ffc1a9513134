package gateway

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"twentyone-lite/internal/lobby"
	"twentyone-lite/twentyone"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Connection represents a WebSocket client connection
type Connection struct {
	ID      string
	UserID  uint64
	Conn    *websocket.Conn
	Send    chan []byte
	Gateway *Gateway

	mu       sync.Mutex
	lastPing time.Time
}

// Gateway manages WebSocket connections. Each message is one engine call;
// match updates are also pushed to the other participant.
type Gateway struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	userConns   map[uint64]*Connection
	nextConnID  uint64
	lobby       *lobby.Lobby
}

func New(lby *lobby.Lobby) *Gateway {
	return &Gateway{
		connections: make(map[string]*Connection),
		userConns:   make(map[uint64]*Connection),
		lobby:       lby,
	}
}

// HandleWebSocket upgrades the request. The caller names itself with the
// user_id query parameter; identities are trusted as given.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	var userID uint64
	if raw := strings.TrimSpace(r.URL.Query().Get("user_id")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			http.Error(w, "invalid user_id", http.StatusBadRequest)
			return
		}
		userID = id
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Gateway] Upgrade error: %v", err)
		return
	}

	g.mu.Lock()
	g.nextConnID++
	connID := fmt.Sprintf("conn_%d", g.nextConnID)
	if userID == 0 {
		// anonymous demo client
		userID = 1_000_000_000 + g.nextConnID
	}
	c := &Connection{
		ID:       connID,
		UserID:   userID,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Gateway:  g,
		lastPing: time.Now(),
	}
	if old := g.userConns[userID]; old != nil {
		log.Printf("[Gateway] User %d reconnected, replacing %s", userID, old.ID)
	}
	g.connections[connID] = c
	g.userConns[userID] = c
	total := len(g.connections)
	g.mu.Unlock()

	log.Printf("[Gateway] Client connected: %s (userID=%d), total: %d", connID, userID, total)

	go c.readPump()
	go c.writePump()
}

func (c *Connection) readPump() {
	defer func() {
		c.Gateway.removeConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(65536)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		c.mu.Lock()
		c.lastPing = time.Now()
		c.mu.Unlock()
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Gateway] Read error: %v", err)
			}
			break
		}
		c.handleMessage(message)
	}
}

func (c *Connection) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.send(ServerMessage{Type: "error", Error: &ErrorDTO{Code: "BadRequest", Message: "invalid message format"}})
		return
	}

	reply, pushes := c.Gateway.dispatch(c.UserID, msg)
	reply.Seq = msg.Seq
	c.send(reply)
	for _, p := range pushes {
		c.Gateway.sendToUser(p.userID, p.msg)
	}
}

type push struct {
	userID uint64
	msg    ServerMessage
}

// dispatch runs one client operation against the engine.
func (g *Gateway) dispatch(userID uint64, msg ClientMessage) (ServerMessage, []push) {
	eng := g.lobby.Engine()
	eng.Touch(userID)

	fail := func(err error) (ServerMessage, []push) {
		return ServerMessage{Type: "error", Error: errorToDTO(err)}, nil
	}
	roundReply := func(res twentyone.RoundResult, err error) (ServerMessage, []push) {
		if err != nil {
			return fail(err)
		}
		return ServerMessage{Type: "round", Round: roundToDTO(res)}, nil
	}
	matchReply := func(upd twentyone.MatchUpdate, err error) (ServerMessage, []push) {
		if err != nil {
			return fail(err)
		}
		var pushes []push
		for _, pid := range upd.Players {
			if pid == userID {
				continue
			}
			pushes = append(pushes, push{userID: pid, msg: ServerMessage{Type: "match", Match: matchUpdateFor(upd, pid)}})
		}
		return ServerMessage{Type: "match", Match: matchUpdateFor(upd, userID)}, pushes
	}

	switch msg.Op {
	case "start_tournament":
		return ServerMessage{Type: "tournament", Tournament: tournamentToDTO(eng.StartTournament(userID, msg.Stake))}, nil
	case "start_round":
		return roundReply(eng.StartRound(userID))
	case "hit":
		return roundReply(eng.Hit(userID))
	case "stand":
		return roundReply(eng.Stand(userID))
	case "surrender":
		return roundReply(eng.Surrender(userID))
	case "reset":
		items := eng.ResetIdentity(userID)
		reset := make([]string, 0, len(items))
		for _, it := range items {
			reset = append(reset, string(it))
		}
		return ServerMessage{Type: "reset", Reset: reset}, nil
	case "session":
		view, found := eng.Session(userID)
		return ServerMessage{Type: "session", Session: sessionToDTO(view, found)}, nil
	case "invite":
		inv := eng.CreateInvitation(userID, msg.Stake)
		log.Printf("[Gateway] User %d created invitation %s", userID, inv.ID)
		return ServerMessage{Type: "invitation", Invitation: invitationToDTO(inv)}, nil
	case "accept":
		upd, err := eng.AcceptInvitation(msg.InvitationID, userID)
		if err == nil {
			log.Printf("[Gateway] User %d accepted %s, match %s", userID, msg.InvitationID, upd.MatchID)
		}
		return matchReply(upd, err)
	case "match_hit":
		return matchReply(eng.MatchHit(msg.MatchID, userID))
	case "match_stand":
		return matchReply(eng.MatchStand(msg.MatchID, userID))
	case "match":
		view, err := eng.Match(msg.MatchID, userID)
		if err != nil {
			return fail(err)
		}
		return ServerMessage{Type: "match", Match: matchViewToDTO(view)}, nil
	case "status":
		return ServerMessage{Type: "status", Status: statusToDTO(g.lobby.Status())}, nil
	case "ping":
		return ServerMessage{Type: "pong"}, nil
	}
	return ServerMessage{Type: "error", Error: &ErrorDTO{Code: "UnknownOp", Message: "unknown op: " + msg.Op}}, nil
}

func (c *Connection) send(msg ServerMessage) {
	msg.TsMs = time.Now().UnixMilli()
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[Gateway] marshal %s failed: %v", msg.Type, err)
		return
	}
	select {
	case c.Send <- data:
	default:
		log.Printf("[Gateway] Send buffer full for %s, dropping %s", c.ID, msg.Type)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (g *Gateway) removeConnection(c *Connection) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.connections, c.ID)
	if g.userConns[c.UserID] == c {
		delete(g.userConns, c.UserID)
	}
	log.Printf("[Gateway] Client disconnected: %s, total: %d", c.ID, len(g.connections))
}

// sendToUser pushes a message to a connected user; offline users miss it and
// can poll with the "match" op.
func (g *Gateway) sendToUser(userID uint64, msg ServerMessage) {
	g.mu.RLock()
	c := g.userConns[userID]
	g.mu.RUnlock()
	if c != nil {
		c.send(msg)
	}
}

func (g *Gateway) ConnectionCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.connections)
}
