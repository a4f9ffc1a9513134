package notify

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"twentyone-lite/twentyone"
)

const (
	SubjectTournamentEnded = "twentyone.tournament.ended"
	SubjectDailyStats      = "twentyone.stats.daily"
)

// Publisher delivers admin notifications. Payloads are JSON encoded.
type Publisher interface {
	Publish(subject string, payload any) error
	Close()
}

// NewPublisher connects to NATS when url is set; otherwise notifications are
// only logged.
func NewPublisher(url string) (Publisher, string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return logPublisher{}, "log", nil
	}
	nc, err := nats.Connect(url,
		nats.Name("twentyone-server"),
		nats.Timeout(10*time.Second),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(5),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Printf("[Notify] NATS disconnected: %v", err)
			}
		}),
	)
	if err != nil {
		return nil, "", err
	}
	return &NATSPublisher{nc: nc}, "nats", nil
}

type NATSPublisher struct {
	nc *nats.Conn
}

func (p *NATSPublisher) Publish(subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.nc.Publish(subject, data)
}

func (p *NATSPublisher) Close() {
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
	}
}

type logPublisher struct{}

func (logPublisher) Publish(subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	log.Printf("[Notify] %s %s", subject, data)
	return nil
}

func (logPublisher) Close() {}

// TournamentEnded is the admin message for a concluded tournament.
type TournamentEnded struct {
	ID            string    `json:"id"`
	Mode          string    `json:"mode"`
	MatchID       string    `json:"match_id,omitempty"`
	PlayerID      uint64    `json:"player_id"`
	OpponentID    uint64    `json:"opponent_id,omitempty"`
	Stake         string    `json:"stake"`
	Winner        string    `json:"winner"`
	WinnerID      uint64    `json:"winner_id,omitempty"`
	PlayerScore   int       `json:"player_score"`
	OpponentScore int       `json:"opponent_score"`
	Rounds        int       `json:"rounds"`
	EndedAt       time.Time `json:"ended_at"`
}

func TournamentEndedFrom(rec twentyone.TournamentRecord) TournamentEnded {
	return TournamentEnded{
		ID:            rec.ID,
		Mode:          string(rec.Mode),
		MatchID:       rec.MatchID,
		PlayerID:      rec.PlayerID,
		OpponentID:    rec.OpponentID,
		Stake:         rec.Stake,
		Winner:        rec.Winner,
		WinnerID:      rec.WinnerID,
		PlayerScore:   rec.PlayerScore,
		OpponentScore: rec.OpponentScore,
		Rounds:        rec.Rounds,
		EndedAt:       rec.EndedAt,
	}
}
