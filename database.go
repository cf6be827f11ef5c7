package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

const leaderboardSize = 10

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// RunRow is one finished run
type RunRow struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session"`
	Name      string    `json:"name"`
	Score     int64     `json:"score"`
	Ticks     int64     `json:"ticks"`
	Duration  float64   `json:"duration"`
	Fallback  bool      `json:"fallback"`
	HitKind   string    `json:"hit"`
	CreatedAt time.Time `json:"created_at"`
}

// LeaderboardEntry represents one row in the leaderboard
type LeaderboardEntry struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Score int64  `json:"score"`
}

// ProfileRow is a player's best score and run count
type ProfileRow struct {
	Name      string `json:"name"`
	Highscore int64  `json:"highscore"`
	Runs      int    `json:"runs"`
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		score INTEGER NOT NULL DEFAULT 0,
		ticks INTEGER NOT NULL DEFAULT 0,
		duration REAL NOT NULL DEFAULT 0,
		fallback INTEGER NOT NULL DEFAULT 0,
		hit_kind TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS analytics_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		session_id TEXT,
		data TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_name ON runs(name);
	CREATE INDEX IF NOT EXISTS idx_runs_score ON runs(score DESC);
	CREATE INDEX IF NOT EXISTS idx_analytics_type ON analytics_events(event_type);
	`
	_, err := db.conn.Exec(schema)
	if err != nil {
		log.Printf("DB migration error: %v", err)
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// RecordRun stores a finished run and returns its ID
func (db *DB) RecordRun(r RunRecord) (int64, error) {
	res, err := db.conn.Exec(
		`INSERT INTO runs (session_id, name, score, ticks, duration, fallback, hit_kind, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.Name, int64(r.Score), int64(r.Ticks), r.Duration, r.Fallback,
		r.HitKind.String(), r.EndedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	return res.LastInsertId()
}

// Leaderboard returns the best score per name, highest first
func (db *DB) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = leaderboardSize
	}
	rows, err := db.conn.Query(`
		SELECT name, MAX(score) AS best FROM runs
		GROUP BY name
		ORDER BY best DESC, name ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	result := make([]LeaderboardEntry, 0, limit)
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Name, &e.Score); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		result = append(result, e)
	}
	return result, rows.Err()
}

// Profile returns a player's highscore and run count. Unknown names get a
// zero profile.
func (db *DB) Profile(name string) (ProfileRow, error) {
	p := ProfileRow{Name: name}
	var best sql.NullInt64
	err := db.conn.QueryRow(
		"SELECT MAX(score), COUNT(*) FROM runs WHERE name = ?", name,
	).Scan(&best, &p.Runs)
	if err == sql.ErrNoRows {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("query profile: %w", err)
	}
	p.Highscore = best.Int64
	return p, nil
}

// AllRuns returns every run, oldest first
func (db *DB) AllRuns() ([]RunRow, error) {
	rows, err := db.conn.Query(`
		SELECT id, session_id, name, score, ticks, duration, fallback, hit_kind, created_at
		FROM runs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var result []RunRow
	for rows.Next() {
		var r RunRow
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Name, &r.Score, &r.Ticks,
			&r.Duration, &r.Fallback, &r.HitKind, &r.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// Scores returns every recorded score
func (db *DB) Scores() ([]float64, error) {
	rows, err := db.conn.Query("SELECT score FROM runs")
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	var result []float64
	for rows.Next() {
		var s int64
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		result = append(result, float64(s))
	}
	return result, rows.Err()
}

// GetSetting returns a stored setting, or "" if absent
func (db *DB) GetSetting(key string) string {
	var v string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&v)
	if err != nil {
		return ""
	}
	return v
}

// SetSetting stores a setting, replacing any previous value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}
