// Package cache is the TTL-bound store of prior source responses,
// backed by SQLite. Entries are keyed by (service, cache key); expiry
// is lazy and corrupt entries are deleted and treated as misses.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// DefaultTTL is how long a cached response stays valid.
const DefaultTTL = 7 * 24 * time.Hour

// Entry is one cached response.
type Entry struct {
	Service   string          `json:"service"`
	Key       string          `json:"cache_key"`
	CreatedAt time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// DecodeInto unmarshals the payload into a typed value.
func (e *Entry) DecodeInto(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// Value returns the payload as a dynamic value with tagged binary
// fields restored to []byte.
func (e *Entry) Value() (any, error) {
	var v any
	if err := json.Unmarshal(e.Payload, &v); err != nil {
		return nil, err
	}
	return decodeBinary(v)
}

// ServiceStats are the per-service cache counters.
type ServiceStats struct {
	Entries int   `json:"entries"`
	Bytes   int64 `json:"bytes"`
}

// Store reads and writes cache entries. Safe for concurrent use; the
// underlying SQLite handle serializes writes on its single connection.
type Store struct {
	db     *sql.DB
	ttl    time.Duration
	logger *slog.Logger

	// now is swappable for expiry tests.
	now func() time.Time
}

// NewStore creates a cache store with the default TTL.
func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	return &Store{
		db:     db,
		ttl:    DefaultTTL,
		logger: logger.With(slog.String("component", "cache")),
		now:    time.Now,
	}
}

// Get returns the entry for (service, key), or nil when absent or
// expired. An expired or unreadable entry is deleted as a side effect.
func (s *Store) Get(ctx context.Context, service, key string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT created_at, payload FROM cache_entries WHERE service = ? AND cache_key = ?`,
		service, key)

	var createdAt string
	var payload []byte
	err := row.Scan(&createdAt, &payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache entry: %w", err)
	}

	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil || !json.Valid(payload) {
		// Unreadable entry: treat as a miss and drop it.
		s.logger.Warn("deleting corrupt cache entry",
			slog.String("service", service),
			slog.String("key", key))
		s.delete(ctx, service, key)
		return nil, nil
	}

	if s.now().Sub(created) > s.ttl {
		s.delete(ctx, service, key)
		return nil, nil
	}

	return &Entry{
		Service:   service,
		Key:       key,
		CreatedAt: created,
		Payload:   payload,
	}, nil
}

// Put serializes payload and upserts it under (service, key). Binary
// values inside dynamic payloads are tagged so they round-trip
// byte-for-byte. The write is all-or-nothing.
func (s *Store) Put(ctx context.Context, service, key string, payload any) error {
	data, err := marshalPayload(payload)
	if err != nil {
		return fmt.Errorf("encoding cache payload: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cache_entries (service, cache_key, created_at, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (service, cache_key) DO UPDATE SET
			created_at = excluded.created_at,
			payload = excluded.payload
	`, service, key, s.now().UTC().Format(time.RFC3339Nano), data)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Clear deletes all entries, optionally scoped to one service name.
func (s *Store) Clear(ctx context.Context, service string) error {
	var err error
	if service == "" {
		_, err = s.db.ExecContext(ctx, `DELETE FROM cache_entries`)
	} else {
		_, err = s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE service = ?`, service)
	}
	if err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

// Stats returns entry counts and total payload size per service.
func (s *Store) Stats(ctx context.Context) (map[string]ServiceStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT service, COUNT(*), COALESCE(SUM(LENGTH(payload)), 0)
		FROM cache_entries GROUP BY service
	`)
	if err != nil {
		return nil, fmt.Errorf("reading cache stats: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	stats := make(map[string]ServiceStats)
	for rows.Next() {
		var service string
		var st ServiceStats
		if err := rows.Scan(&service, &st.Entries, &st.Bytes); err != nil {
			return nil, fmt.Errorf("scanning cache stats: %w", err)
		}
		stats[service] = st
	}
	return stats, rows.Err()
}

func (s *Store) delete(ctx context.Context, service, key string) {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE service = ? AND cache_key = ?`,
		service, key); err != nil {
		s.logger.Warn("deleting cache entry", slog.String("error", err.Error()))
	}
}
