package data

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/slackmail/slack-gmail-bridge/internal/biz/repo"

	_ "modernc.org/sqlite"
)

// seenRepo persists the seen set so restarts do not re-notify
type seenRepo struct {
	db *sql.DB
}

// NewSeenRepo opens (creating if needed) the seen-store database
func NewSeenRepo(dbPath string) (repo.SeenRepo, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS seen_messages (
			msg_id TEXT PRIMARY KEY,
			first_seen INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create seen_messages table: %w", err)
	}
	_, _ = db.Exec(`CREATE INDEX IF NOT EXISTS idx_seen_first_seen ON seen_messages(first_seen)`)

	return &seenRepo{db: db}, nil
}

// Contains reports whether the identifier was already processed
func (r *seenRepo) Contains(id string) bool {
	var one int
	err := r.db.QueryRow(`SELECT 1 FROM seen_messages WHERE msg_id = ?`, id).Scan(&one)
	if err != nil {
		if err != sql.ErrNoRows {
			fmt.Printf("[Seen] Query error for %s: %v\n", id, err)
		}
		return false
	}
	return true
}

// Add remembers an identifier
func (r *seenRepo) Add(id string) {
	_, err := r.db.Exec(`INSERT OR IGNORE INTO seen_messages (msg_id, first_seen) VALUES (?, ?)`,
		id, time.Now().Unix())
	if err != nil {
		fmt.Printf("[Seen] Insert error for %s: %v\n", id, err)
	}
}

// Prune removes identifiers first seen before the cutoff
func (r *seenRepo) Prune(before time.Time) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM seen_messages WHERE first_seen < ?`, before.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune seen messages: %w", err)
	}
	return res.RowsAffected()
}

func (r *seenRepo) Close() error {
	return r.db.Close()
}
