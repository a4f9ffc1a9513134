package ledger

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	_ "github.com/lib/pq"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"twentyone-lite/twentyone"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	memoryKeep       = 1000
)

var ErrUnknownMode = errors.New("unknown ledger mode")

// Service keeps the history of concluded tournaments. Writes happen from
// engine hooks and never fail the game: errors are logged.
type Service interface {
	Close() error
	RecordTournament(rec twentyone.TournamentRecord)
	ListRecent(ctx context.Context, playerID uint64, limit int) ([]HistoryItem, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}

type HistoryItem struct {
	ID         string         `json:"id"`
	Mode       string         `json:"mode"`
	PlayerID   uint64         `json:"player_id"`
	OpponentID uint64         `json:"opponent_id,omitempty"`
	WinnerID   uint64         `json:"winner_id,omitempty"`
	EndedAt    time.Time      `json:"ended_at"`
	Summary    map[string]any `json:"summary"`
}

// NewService opens the back end named by mode and returns the normalized
// mode name for logging.
func NewService(mode, dsn, sqlitePath string) (Service, string, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "memory":
		return NewMemoryService(), "memory", nil
	case "sqlite":
		s, err := NewSQLiteService(sqlitePath)
		if err != nil {
			return nil, "", err
		}
		return s, "sqlite", nil
	case "postgres":
		s, err := NewPostgresService(dsn)
		if err != nil {
			return nil, "", err
		}
		return s, "postgres", nil
	}
	return nil, "", fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

// MemoryService keeps the newest records in process memory.
type MemoryService struct {
	mu    sync.RWMutex
	items []HistoryItem
	ids   map[string]struct{}
}

func NewMemoryService() *MemoryService {
	return &MemoryService{ids: make(map[string]struct{})}
}

func (m *MemoryService) Close() error { return nil }

func (m *MemoryService) RecordTournament(rec twentyone.TournamentRecord) {
	item, err := historyItemFromRecord(rec)
	if err != nil {
		log.Printf("[Ledger] encode tournament failed: id=%s err=%v", rec.ID, err)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.ids[item.ID]; dup {
		return
	}
	m.ids[item.ID] = struct{}{}
	m.items = append(m.items, item)
	if len(m.items) > memoryKeep {
		for _, old := range m.items[:len(m.items)-memoryKeep] {
			delete(m.ids, old.ID)
		}
		m.items = append([]HistoryItem{}, m.items[len(m.items)-memoryKeep:]...)
	}
}

func (m *MemoryService) ListRecent(_ context.Context, playerID uint64, limit int) ([]HistoryItem, error) {
	limit = clampLimit(limit)
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]HistoryItem, 0, limit)
	for i := len(m.items) - 1; i >= 0; i-- {
		it := m.items[i]
		if it.PlayerID != playerID && it.OpponentID != playerID {
			continue
		}
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].EndedAt.After(out[j].EndedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryService) CountSince(_ context.Context, since time.Time) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, it := range m.items {
		if !it.EndedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type PostgresService struct {
	db *sql.DB
}

func NewPostgresService(dsn string) (*PostgresService, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	for _, stmt := range []string{
		`
CREATE TABLE IF NOT EXISTS tournament_history (
    id TEXT PRIMARY KEY,
    mode TEXT NOT NULL,
    player_id BIGINT NOT NULL,
    opponent_id BIGINT NOT NULL DEFAULT 0,
    winner_id BIGINT NOT NULL DEFAULT 0,
    ended_at_ms BIGINT NOT NULL,
    summary_b64 TEXT NOT NULL DEFAULT ''
)`,
		`CREATE INDEX IF NOT EXISTS idx_tournament_history_player ON tournament_history(player_id, ended_at_ms DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_tournament_history_opponent ON tournament_history(opponent_id, ended_at_ms DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_tournament_history_ended ON tournament_history(ended_at_ms)`,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ensure ledger schema: %w", err)
		}
	}
	return &PostgresService{db: db}, nil
}

func (s *PostgresService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *PostgresService) RecordTournament(rec twentyone.TournamentRecord) {
	summaryB64, err := encodeSummary(rec)
	if err != nil {
		log.Printf("[Ledger] encode tournament failed: id=%s err=%v", rec.ID, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err = s.db.ExecContext(ctx, `
INSERT INTO tournament_history (id, mode, player_id, opponent_id, winner_id, ended_at_ms, summary_b64)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO NOTHING
`, rec.ID, string(rec.Mode), int64(rec.PlayerID), int64(rec.OpponentID), int64(rec.WinnerID), endedAtMs(rec), summaryB64)
	if err != nil {
		log.Printf("[Ledger] insert tournament failed: id=%s err=%v", rec.ID, err)
	}
}

func (s *PostgresService) ListRecent(ctx context.Context, playerID uint64, limit int) ([]HistoryItem, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, mode, player_id, opponent_id, winner_id, ended_at_ms, summary_b64
FROM tournament_history
WHERE player_id = $1 OR opponent_id = $1
ORDER BY ended_at_ms DESC, id DESC
LIMIT $2
`, int64(playerID), clampLimit(limit))
	if err != nil {
		return nil, err
	}
	return scanHistory(rows)
}

func (s *PostgresService) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tournament_history WHERE ended_at_ms >= $1`, since.UnixMilli()).Scan(&n)
	return n, err
}

func scanHistory(rows *sql.Rows) ([]HistoryItem, error) {
	defer rows.Close()
	items := []HistoryItem{}
	for rows.Next() {
		var item HistoryItem
		var playerID, opponentID, winnerID, endedMs int64
		var summaryB64 string
		if err := rows.Scan(&item.ID, &item.Mode, &playerID, &opponentID, &winnerID, &endedMs, &summaryB64); err != nil {
			return nil, err
		}
		item.PlayerID = uint64(playerID)
		item.OpponentID = uint64(opponentID)
		item.WinnerID = uint64(winnerID)
		item.EndedAt = time.UnixMilli(endedMs).UTC()
		item.Summary = decodeSummary(summaryB64)
		items = append(items, item)
	}
	return items, rows.Err()
}

func historyItemFromRecord(rec twentyone.TournamentRecord) (HistoryItem, error) {
	summaryB64, err := encodeSummary(rec)
	if err != nil {
		return HistoryItem{}, err
	}
	return HistoryItem{
		ID:         rec.ID,
		Mode:       string(rec.Mode),
		PlayerID:   rec.PlayerID,
		OpponentID: rec.OpponentID,
		WinnerID:   rec.WinnerID,
		EndedAt:    time.UnixMilli(endedAtMs(rec)).UTC(),
		Summary:    decodeSummary(summaryB64),
	}, nil
}

// encodeSummary packs the descriptive part of a record as a protobuf Struct,
// base64-encoded for a TEXT column.
func encodeSummary(rec twentyone.TournamentRecord) (string, error) {
	fields := map[string]any{
		"stake":          rec.Stake,
		"winner":         rec.Winner,
		"player_score":   rec.PlayerScore,
		"opponent_score": rec.OpponentScore,
		"rounds":         rec.Rounds,
	}
	if rec.MatchID != "" {
		fields["match_id"] = rec.MatchID
	}
	if !rec.StartedAt.IsZero() {
		fields["started_at"] = rec.StartedAt.UTC().Format(time.RFC3339)
		if !rec.EndedAt.IsZero() {
			fields["duration_sec"] = int64(rec.EndedAt.Sub(rec.StartedAt) / time.Second)
		}
	}
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return "", err
	}
	raw, err := proto.Marshal(st)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func decodeSummary(b64 string) map[string]any {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil || len(raw) == 0 {
		return map[string]any{}
	}
	var st structpb.Struct
	if err := proto.Unmarshal(raw, &st); err != nil {
		return map[string]any{}
	}
	return st.AsMap()
}

func endedAtMs(rec twentyone.TournamentRecord) int64 {
	if rec.EndedAt.IsZero() {
		return time.Now().UTC().UnixMilli()
	}
	return rec.EndedAt.UnixMilli()
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > maxListLimit {
		return defaultListLimit
	}
	return limit
}
