// Package store persists the tweet archive in a local sqlite database.
// Timestamps are stored as RFC3339Nano UTC text.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/asadikov/tweetsift/internal/tweet"
)

type Store struct {
	db *sql.DB
}

// Import records the provenance of one batch of inserted tweets.
type Import struct {
	ID         string // batch UUID
	Origin     string // e.g. "json:tweets.json" or "rss"
	TweetCount int
	ImportedAt time.Time
}

// AuthorStats holds archive aggregates for one author.
type AuthorStats struct {
	Author    string
	Total     int
	FirstSeen time.Time
	LastSeen  time.Time
}

func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("path is required")
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordImport inserts a provenance row for a batch. Call it before
// inserting the batch's tweets so the foreign key holds.
func (s *Store) RecordImport(ctx context.Context, in Import) error {
	if s == nil || s.db == nil {
		return errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(in.ID) == "" {
		return errors.New("import id is required")
	}
	if strings.TrimSpace(in.Origin) == "" {
		return errors.New("origin is required")
	}
	if in.ImportedAt.IsZero() {
		return errors.New("imported_at is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO imports (id, origin, tweet_count, imported_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			tweet_count = excluded.tweet_count
	`, in.ID, in.Origin, in.TweetCount, formatTime(in.ImportedAt))
	if err != nil {
		return fmt.Errorf("record import: %w", err)
	}
	return nil
}

// InsertTweet upserts one tweet keyed by its caller-supplied ID.
// Re-importing the same tweet updates it in place.
func (s *Store) InsertTweet(ctx context.Context, p tweet.Post, importID string) error {
	if s == nil || s.db == nil {
		return errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if p.ID == 0 {
		return errors.New("tweet id is required")
	}
	if strings.TrimSpace(p.Author) == "" {
		return errors.New("author is required")
	}
	if p.PostedAt.IsZero() {
		return errors.New("posted_at is required")
	}

	var importVal sql.NullString
	if strings.TrimSpace(importID) != "" {
		importVal = sql.NullString{String: importID, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tweets (id, author, text, posted_at, import_id, imported_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			author = excluded.author,
			text = excluded.text,
			posted_at = excluded.posted_at,
			import_id = excluded.import_id,
			imported_at = excluded.imported_at
	`,
		p.ID,
		p.Author,
		p.Text,
		formatTime(p.PostedAt),
		importVal,
		formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("insert tweet: %w", err)
	}
	return nil
}

// ListTweets returns the whole archive ordered by posted_at, then id.
// This is the archive order the filter functions preserve.
func (s *Store) ListTweets(ctx context.Context) ([]tweet.Post, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, author, text, posted_at
		FROM tweets
		ORDER BY posted_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list tweets: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var posts []tweet.Post
	for rows.Next() {
		var (
			p        tweet.Post
			postedAt string
		)
		if err := rows.Scan(&p.ID, &p.Author, &p.Text, &postedAt); err != nil {
			return nil, fmt.Errorf("scan tweet: %w", err)
		}
		p.PostedAt, err = parseTime(postedAt)
		if err != nil {
			return nil, fmt.Errorf("parse posted_at: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tweets: %w", err)
	}

	return posts, nil
}

func (s *Store) CountTweets(ctx context.Context) (int, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tweets").Scan(&count); err != nil {
		return 0, fmt.Errorf("count tweets: %w", err)
	}
	return count, nil
}

// GetAuthorStats returns per-author archive aggregates ordered by author.
func (s *Store) GetAuthorStats(ctx context.Context) ([]AuthorStats, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT author,
			COUNT(*) AS total,
			MIN(posted_at) AS first_seen,
			MAX(posted_at) AS last_seen
		FROM tweets
		GROUP BY author
		ORDER BY author
	`)
	if err != nil {
		return nil, fmt.Errorf("get author stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stats []AuthorStats
	for rows.Next() {
		var (
			as                  AuthorStats
			firstSeen, lastSeen string
		)
		if err := rows.Scan(&as.Author, &as.Total, &firstSeen, &lastSeen); err != nil {
			return nil, fmt.Errorf("scan author stats: %w", err)
		}
		as.FirstSeen, err = parseTime(firstSeen)
		if err != nil {
			return nil, fmt.Errorf("parse first_seen: %w", err)
		}
		as.LastSeen, err = parseTime(lastSeen)
		if err != nil {
			return nil, fmt.Errorf("parse last_seen: %w", err)
		}
		stats = append(stats, as)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate author stats: %w", err)
	}

	return stats, nil
}

// PruneOld deletes tweets posted more than retainDays ago. Returns the
// number of tweets removed. retainDays <= 0 disables pruning.
func (s *Store) PruneOld(ctx context.Context, retainDays int) (int64, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if retainDays <= 0 {
		return 0, nil
	}

	cutoff := formatTime(time.Now().AddDate(0, 0, -retainDays))

	res, err := s.db.ExecContext(ctx, "DELETE FROM tweets WHERE posted_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune old tweets: %w", err)
	}

	n, _ := res.RowsAffected()
	return n, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts, nil
	}
	return time.Parse(time.RFC3339, value)
}
