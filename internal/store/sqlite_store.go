package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"webcensus/internal/models"
)

// SQLiteStore is an embedded ResultStore for deployments without a Redis.
// Records live in one table; provenance and index sets share a second table
// keyed by (set_key, member) so unions stay idempotent.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS records (
	url_key      TEXT PRIMARY KEY,
	url          TEXT NOT NULL,
	status       INTEGER NOT NULL DEFAULT 0,
	content_type TEXT NOT NULL DEFAULT '',
	final_url    TEXT NOT NULL DEFAULT '',
	is_redirect  INTEGER NOT NULL DEFAULT 0,
	depth        INTEGER NOT NULL DEFAULT 0,
	asset_type   TEXT NOT NULL DEFAULT 'other',
	is_inbound   INTEGER NOT NULL DEFAULT 0,
	checked_at   TEXT NOT NULL DEFAULT '',
	error        TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS set_members (
	set_key TEXT NOT NULL,
	member  TEXT NOT NULL,
	PRIMARY KEY (set_key, member)
);
`

// NewSQLiteStore opens (and if needed creates) the database at path.
// Use ":memory:" for an ephemeral store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) PutRecord(ctx context.Context, rec models.ResourceRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO records
		(url_key, url, status, content_type, final_url, is_redirect, depth, asset_type, is_inbound, checked_at, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		RecordKey(rec.URL), rec.URL, rec.Status, rec.ContentType, rec.FinalURL,
		boolInt(rec.IsRedirect), rec.Depth, string(rec.AssetType), boolInt(rec.IsInbound),
		checkedAtString(rec.CheckedAt), rec.Error)
	return err
}

func (s *SQLiteStore) PutStub(ctx context.Context, rec models.ResourceRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO records
		(url_key, url, status, content_type, final_url, is_redirect, depth, asset_type, is_inbound, checked_at, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		RecordKey(rec.URL), rec.URL, rec.Status, rec.ContentType, rec.FinalURL,
		boolInt(rec.IsRedirect), rec.Depth, string(rec.AssetType), boolInt(rec.IsInbound),
		checkedAtString(rec.CheckedAt), rec.Error)
	return err
}

func (s *SQLiteStore) GetRecord(ctx context.Context, url string) (models.ResourceRecord, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT url, status, content_type, final_url, is_redirect, depth, asset_type, is_inbound, checked_at, error
		FROM records WHERE url_key = ?`, RecordKey(url))

	var rec models.ResourceRecord
	var isRedirect, isInbound int
	var assetType, checkedAt string
	err := row.Scan(&rec.URL, &rec.Status, &rec.ContentType, &rec.FinalURL,
		&isRedirect, &rec.Depth, &assetType, &isInbound, &checkedAt, &rec.Error)
	if err == sql.ErrNoRows {
		return models.ResourceRecord{}, false, nil
	}
	if err != nil {
		return models.ResourceRecord{}, false, err
	}
	rec.IsRedirect = isRedirect == 1
	rec.IsInbound = isInbound == 1
	rec.AssetType = models.AssetType(assetType)
	if checkedAt != "" {
		rec.CheckedAt, _ = time.Parse(time.RFC3339Nano, checkedAt)
	}
	return rec, true, nil
}

func (s *SQLiteStore) AddProvenance(ctx context.Context, url string, referrers ...string) error {
	for _, r := range referrers {
		if err := s.AddToSet(ctx, ProvKey(url), r); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Provenance(ctx context.Context, url string) ([]string, error) {
	return s.SetMembers(ctx, ProvKey(url))
}

func (s *SQLiteStore) AddToSet(ctx context.Context, key, member string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO set_members (set_key, member) VALUES (?, ?)`, key, member)
	return err
}

func (s *SQLiteStore) SetMembers(ctx context.Context, key string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT member FROM set_members WHERE set_key = ? ORDER BY member`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *SQLiteStore) SetCard(ctx context.Context, key string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM set_members WHERE set_key = ?`, key).Scan(&n)
	return n, err
}

func (s *SQLiteStore) Cleanup(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM set_members`)
	return err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func checkedAtString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
