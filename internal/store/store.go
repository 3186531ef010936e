// Package store keeps a SQLite index of loaded channels and their streams.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/chatcloud/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for the channel index.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS channels (
			name TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			loaded_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS streams (
			channel TEXT NOT NULL,
			vod_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			created_at TEXT NOT NULL,
			duration REAL NOT NULL,
			users INTEGER NOT NULL,
			messages INTEGER NOT NULL,
			words INTEGER NOT NULL,
			PRIMARY KEY (channel, vod_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_streams_created_at ON streams(channel, created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordChannel replaces the indexed streams of a channel with the given records.
func (s *Store) RecordChannel(ctx context.Context, channel, source string, records []*model.ChatRecord, loadedAt time.Time) (err error) {
	channel = strings.ToLower(channel)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO channels (name, source, loaded_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET source = excluded.source, loaded_at = excluded.loaded_at`,
		channel, source, loadedAt.UTC().Format(timeLayout),
	); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM streams WHERE channel = ?`, channel); err != nil {
		return err
	}

	if len(records) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT OR REPLACE INTO streams (channel, vod_id, title, created_at, duration, users, messages, words)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, rec := range records {
			if rec == nil {
				continue
			}
			sum := model.Summarize(channel, rec)
			if _, err = stmt.ExecContext(ctx, channel, sum.VodID, sum.Title, sum.CreatedAt, sum.Duration,
				sum.Users, sum.Messages, sum.Words); err != nil {
				return err
			}
		}
	}

	err = tx.Commit()
	return err
}

// ListChannels returns indexed channels, most recently loaded first.
func (s *Store) ListChannels(ctx context.Context) ([]model.ChannelSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT c.name, c.source, c.loaded_at,
			COUNT(st.vod_id), COALESCE(SUM(st.messages), 0)
		FROM channels c
		LEFT JOIN streams st ON st.channel = c.name
		GROUP BY c.name
		ORDER BY c.loaded_at DESC, c.name ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.ChannelSummary
	for rows.Next() {
		var ch model.ChannelSummary
		var loadedAt string
		if err := rows.Scan(&ch.Name, &ch.Source, &loadedAt, &ch.Streams, &ch.Messages); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, loadedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse loaded_at for %s: %w", ch.Name, err)
		}
		ch.LoadedAt = parsed
		result = append(result, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListStreams returns the indexed streams of a channel in start order. A
// limit of zero or less returns all of them.
func (s *Store) ListStreams(ctx context.Context, channel string, limit int) ([]model.StreamSummary, error) {
	const columns = `channel, vod_id, title, created_at, duration, users, messages, words`
	query := `SELECT ` + columns + ` FROM streams WHERE channel = ? ORDER BY created_at ASC, vod_id ASC`
	args := []any{strings.ToLower(channel)}
	if limit > 0 {
		query = `SELECT ` + columns + ` FROM (
			SELECT ` + columns + ` FROM streams WHERE channel = ?
			ORDER BY created_at DESC, vod_id DESC LIMIT ?
		) ORDER BY created_at ASC, vod_id ASC`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.StreamSummary
	for rows.Next() {
		var st model.StreamSummary
		if err := rows.Scan(&st.Channel, &st.VodID, &st.Title, &st.CreatedAt, &st.Duration,
			&st.Users, &st.Messages, &st.Words); err != nil {
			return nil, err
		}
		result = append(result, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
