package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/fwojciec/cardcrawl"
)

// Compile-time interface verification.
var _ cardcrawl.CardStore = (*CardStore)(nil)

// CardStore implements cardcrawl.CardStore using SQLite.
type CardStore struct {
	db *DB
}

// NewCardStore creates a new CardStore.
func NewCardStore(db *DB) *CardStore {
	return &CardStore{db: db}
}

// SaveEntry inserts or replaces the entry for (Source, SourceID).
func (s *CardStore) SaveEntry(ctx context.Context, entry *cardcrawl.CacheEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	var data sql.NullString
	if entry.Data != nil {
		data = sql.NullString{String: string(entry.Data), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cards (source, source_id, data, content_hash, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (source, source_id) DO UPDATE SET
			data = excluded.data,
			content_hash = excluded.content_hash,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
	`, string(entry.Source), entry.SourceID, data, entry.ContentHash,
		formatTime(entry.CreatedAt), formatTime(entry.ExpiresAt))

	return err
}

// FindEntry retrieves the entry for a card.
func (s *CardStore) FindEntry(ctx context.Context, source cardcrawl.Source, id int) (*cardcrawl.CacheEntry, error) {
	var entry cardcrawl.CacheEntry
	var src, createdAt, expiresAt string
	var data sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT source, source_id, data, content_hash, created_at, expires_at
		FROM cards
		WHERE source = ? AND source_id = ?
	`, string(source), id).Scan(&src, &entry.SourceID, &data, &entry.ContentHash, &createdAt, &expiresAt)

	if err == sql.ErrNoRows {
		return nil, cardcrawl.Errorf(cardcrawl.ENOTFOUND, "card %s/%d not found", source, id)
	}
	if err != nil {
		return nil, err
	}

	entry.Source = cardcrawl.Source(src)
	if data.Valid {
		entry.Data = json.RawMessage(data.String)
	}
	if entry.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if entry.ExpiresAt, err = parseRFC3339(expiresAt, "expires_at"); err != nil {
		return nil, err
	}

	return &entry, nil
}

// FindUnexpiredIDs returns IDs in [start, end] whose entry expires after now.
func (s *CardStore) FindUnexpiredIDs(ctx context.Context, source cardcrawl.Source, start, end int, now time.Time) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source_id FROM cards
		WHERE source = ? AND source_id >= ? AND source_id <= ? AND expires_at > ?
		ORDER BY source_id
	`, string(source), start, end, formatTime(now))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
