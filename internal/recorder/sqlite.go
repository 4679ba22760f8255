package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists kick history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kicks (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			lifecycle_id    TEXT NOT NULL,
			player          TEXT,
			move            TEXT,
			fee_wei         TEXT,
			tx_hash         TEXT,
			sequence_number INTEGER,
			status          TEXT,
			error           TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_kicks_lifecycle ON kicks(lifecycle_id)`,

		`CREATE TABLE IF NOT EXISTS rounds (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			lifecycle_id    TEXT,
			sequence_number INTEGER NOT NULL,
			player_move     TEXT,
			resolved_move   TEXT,
			oracle_move     TEXT,
			wind_strength   INTEGER,
			result          TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_ts ON rounds(timestamp)`,

		`CREATE TABLE IF NOT EXISTS stats_history (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			current_streak INTEGER,
			highest_streak INTEGER,
			total_points   INTEGER,
			is_on_fire     INTEGER,
			level          INTEGER,
			multiplier     REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stats_ts ON stats_history(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordKick(evt *KickEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO kicks
		(timestamp, lifecycle_id, player, move, fee_wei, tx_hash, sequence_number, status, error)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.LifecycleID, evt.Player, evt.Move, evt.FeeWei,
		evt.TxHash, int64(evt.SequenceNumber), evt.Status, evt.Error,
	)
	return err
}

func (r *SQLiteRecorder) RecordRound(evt *RoundEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := evt.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO rounds
		(timestamp, lifecycle_id, sequence_number, player_move, resolved_move, oracle_move, wind_strength, result)
		VALUES (?,?,?,?,?,?,?,?)`,
		ts.Unix(), evt.LifecycleID, int64(evt.SequenceNumber),
		evt.PlayerMove, evt.ResolvedMove, evt.OracleMove, int(evt.WindStrength), evt.Result,
	)
	return err
}

func (r *SQLiteRecorder) RecordStats(evt *StatsEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	onFire := 0
	if evt.IsOnFire {
		onFire = 1
	}
	_, err := r.db.Exec(`INSERT INTO stats_history
		(timestamp, current_streak, highest_streak, total_points, is_on_fire, level, multiplier)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), int64(evt.CurrentStreak), int64(evt.HighestStreak), int64(evt.TotalPoints),
		onFire, evt.Level, evt.Multiplier,
	)
	return err
}

// RecentRounds returns up to limit rounds, newest first.
func (r *SQLiteRecorder) RecentRounds(limit int) ([]RoundEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`SELECT timestamp, lifecycle_id, sequence_number, player_move, resolved_move,
		oracle_move, wind_strength, result
		FROM rounds ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RoundEvent
	for rows.Next() {
		var (
			ts, seq int64
			wind    int
			evt     RoundEvent
		)
		if err := rows.Scan(&ts, &evt.LifecycleID, &seq, &evt.PlayerMove, &evt.ResolvedMove,
			&evt.OracleMove, &wind, &evt.Result); err != nil {
			return nil, err
		}
		evt.Timestamp = time.Unix(ts, 0)
		evt.SequenceNumber = uint64(seq)
		evt.WindStrength = uint8(wind)
		out = append(out, evt)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
