package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"twentyone-lite/twentyone"
)

type SQLiteService struct {
	db *sql.DB
}

func NewSQLiteService(dbPath string) (*SQLiteService, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// 单连接: :memory: 库只存在于一个连接里
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := ensureSQLiteLedgerSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteService{db: db}, nil
}

func (s *SQLiteService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteService) RecordTournament(rec twentyone.TournamentRecord) {
	summaryB64, err := encodeSummary(rec)
	if err != nil {
		log.Printf("[Ledger] encode tournament failed: id=%s err=%v", rec.ID, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err = s.db.ExecContext(ctx, `
INSERT INTO tournament_history (id, mode, player_id, opponent_id, winner_id, ended_at_ms, summary_b64)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO NOTHING
`, rec.ID, string(rec.Mode), int64(rec.PlayerID), int64(rec.OpponentID), int64(rec.WinnerID), endedAtMs(rec), summaryB64)
	if err != nil {
		log.Printf("[Ledger] insert tournament failed: id=%s err=%v", rec.ID, err)
	}
}

func (s *SQLiteService) ListRecent(ctx context.Context, playerID uint64, limit int) ([]HistoryItem, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, mode, player_id, opponent_id, winner_id, ended_at_ms, summary_b64
FROM tournament_history
WHERE player_id = ? OR opponent_id = ?
ORDER BY ended_at_ms DESC, id DESC
LIMIT ?
`, int64(playerID), int64(playerID), clampLimit(limit))
	if err != nil {
		return nil, err
	}
	return scanHistory(rows)
}

func (s *SQLiteService) CountSince(ctx context.Context, since time.Time) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tournament_history WHERE ended_at_ms >= ?`, since.UnixMilli()).Scan(&n)
	return n, err
}

func ensureSQLiteLedgerSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS tournament_history (
    id TEXT PRIMARY KEY,
    mode TEXT NOT NULL,
    player_id INTEGER NOT NULL,
    opponent_id INTEGER NOT NULL DEFAULT 0,
    winner_id INTEGER NOT NULL DEFAULT 0,
    ended_at_ms INTEGER NOT NULL,
    summary_b64 TEXT NOT NULL DEFAULT ''
)`,
		`CREATE INDEX IF NOT EXISTS idx_tournament_history_player ON tournament_history(player_id, ended_at_ms DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_tournament_history_opponent ON tournament_history(opponent_id, ended_at_ms DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_tournament_history_ended ON tournament_history(ended_at_ms)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
