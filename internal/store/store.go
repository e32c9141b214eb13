// Package store persists visitor metrics and archived contact submissions in
// sqlite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/jagadeeshD3/portfolio/internal/mail"
)

// Privacy-conscious visitor record; IPs are stored hashed.
type VisitorMetric struct {
	ID        int       `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// ContactRecord is an archived contact form submission.
type ContactRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Delivered bool      `json:"delivered"`
	Failure   string    `json:"failure,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Stats struct {
	TotalVisitors    int64           `json:"total_visitors"`
	UniqueVisitors   int64           `json:"unique_visitors"`
	VisitorsToday    int64           `json:"visitors_today"`
	VisitorsThisWeek int64           `json:"visitors_this_week"`
	TotalMessages    int64           `json:"total_messages"`
	FailedMessages   int64           `json:"failed_messages"`
	TopPaths         []PathCount     `json:"top_paths"`
	RecentVisitors   []VisitorMetric `json:"recent_visitors"`
}

type PathCount struct {
	Path  string `json:"path"`
	Views int64  `json:"views"`
}

type DB struct {
	db  *sql.DB
	log zerolog.Logger
	now func() time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS visitors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT,
	path TEXT,
	timestamp DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS visitors_timestamp ON visitors (timestamp);
CREATE TABLE IF NOT EXISTS contact_messages (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	subject TEXT NOT NULL,
	message TEXT NOT NULL,
	delivered INTEGER NOT NULL,
	failure TEXT,
	created_at DATETIME NOT NULL
);`

// Open opens (creating if needed) the sqlite database at path and applies the
// schema.
func Open(path string, log zerolog.Logger) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return &DB{db: db, log: log.With().Str("component", "store").Logger(), now: time.Now}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) RecordVisit(ctx context.Context, hashedIP, userAgent, path string) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, hashedIP, userAgent, path, d.now().UTC())
	if err != nil {
		return fmt.Errorf("error recording visitor: %w", err)
	}
	return nil
}

// CleanupVisitors removes visitor records older than maxAge.
func (d *DB) CleanupVisitors(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := d.now().UTC().Add(-maxAge)
	result, err := d.db.ExecContext(ctx, `DELETE FROM visitors WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("error cleaning up old visitor data: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows > 0 {
		d.log.Info().Int64("rows", rows).Msg("Privacy cleanup removed old visitor records")
	}
	return rows, nil
}

func (d *DB) RecentVisitors(ctx context.Context, limit int) ([]VisitorMetric, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visitors []VisitorMetric
	for rows.Next() {
		var v VisitorMetric
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &v.Timestamp); err != nil {
			return nil, err
		}
		visitors = append(visitors, v)
	}
	return visitors, rows.Err()
}

// SaveContact archives one submission. It satisfies mail.Archive.
func (d *DB) SaveContact(ctx context.Context, c mail.Contact, delivered bool, failure string) (string, error) {
	id := uuid.NewString()
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO contact_messages (id, name, email, subject, message, delivered, failure, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, c.Name, c.Email, c.Subject, c.Message, delivered, failure, d.now().UTC())
	if err != nil {
		return "", fmt.Errorf("error archiving contact message: %w", err)
	}
	return id, nil
}

func (d *DB) RecentContacts(ctx context.Context, limit int) ([]ContactRecord, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, name, email, subject, message, delivered, COALESCE(failure, ''), created_at
		FROM contact_messages
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ContactRecord
	for rows.Next() {
		var r ContactRecord
		if err := rows.Scan(&r.ID, &r.Name, &r.Email, &r.Subject, &r.Message, &r.Delivered, &r.Failure, &r.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Stats gathers the admin dashboard figures.
func (d *DB) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	now := d.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{today}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{now.Add(-7 * 24 * time.Hour)}},
		{&stats.TotalMessages, `SELECT COUNT(*) FROM contact_messages`, nil},
		{&stats.FailedMessages, `SELECT COUNT(*) FROM contact_messages WHERE delivered = 0`, nil},
	}
	for _, c := range counts {
		if err := d.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, err
		}
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT COALESCE(path, ''), COUNT(*) AS views
		FROM visitors
		GROUP BY path
		ORDER BY views DESC, path
		LIMIT 10
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var pc PathCount
		if err := rows.Scan(&pc.Path, &pc.Views); err != nil {
			return nil, err
		}
		stats.TopPaths = append(stats.TopPaths, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats.RecentVisitors, err = d.RecentVisitors(ctx, 50)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
