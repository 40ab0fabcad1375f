// Package store persists campaign records and counters: a sqlite primary
// store, a legacy YAML store kept for pre-migration campaigns, and the
// dual-write counter path bridging the two.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"leadrouter/internal/core/domain"
	"leadrouter/internal/platform/errors"
	"leadrouter/internal/platform/logx"
)

// SQLiteStore is the primary campaign store. Records keep their stored shape:
// one row per campaign holding the raw JSON document, interpreted only by the
// campaign resolver.
type SQLiteStore struct {
	db     *sql.DB
	logger logx.Logger
}

// OpenSQLite opens (and if needed creates) the campaign database.
func OpenSQLite(path string, logger logx.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = logx.New()
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open campaign database")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to reach campaign database")
	}

	const schema = `
CREATE TABLE IF NOT EXISTS campaigns (
	id     TEXT PRIMARY KEY,
	record TEXT NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create campaigns table")
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "sqlite_store"),
	}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ListCampaigns reads every stored campaign record as-is. Rows whose document
// no longer parses are logged and skipped, never fatal.
func (s *SQLiteStore) ListCampaigns(ctx context.Context) ([]domain.RawCampaign, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, record FROM campaigns ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list campaigns")
	}
	defer rows.Close()

	var out []domain.RawCampaign
	for rows.Next() {
		var id, record string
		if err := rows.Scan(&id, &record); err != nil {
			return nil, errors.Wrap(err, "failed to scan campaign row")
		}

		var raw domain.RawCampaign
		if err := json.Unmarshal([]byte(record), &raw); err != nil {
			s.logger.Warn("skipping unparseable campaign record",
				"campaign_id", id,
				"error", err.Error(),
			)
			continue
		}
		out = append(out, raw)
	}

	return out, rows.Err()
}

// PutCampaign stores or replaces one raw record.
func (s *SQLiteStore) PutCampaign(ctx context.Context, id string, raw domain.RawCampaign) error {
	if id == "" {
		return errors.Wrap(errors.ErrInvalidInput, "campaign id is empty")
	}

	record, err := json.Marshal(raw)
	if err != nil {
		return errors.Wrap(err, "failed to encode campaign record")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO campaigns (id, record) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET record = excluded.record`,
		id, string(record),
	)
	if err != nil {
		return errors.Wrapf(err, "failed to store campaign %s", id)
	}
	return nil
}

// DeleteCampaign removes one record.
func (s *SQLiteStore) DeleteCampaign(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM campaigns WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "failed to delete campaign %s", id)
	}
	return nil
}

// Increment bumps one counter inside the stored record, read-modify-write in
// a transaction. Returns ErrNotFound when the campaign has no primary record,
// so the caller can fall through to the legacy store.
func (s *SQLiteStore) Increment(ctx context.Context, campaignID string, counter domain.CounterName) error {
	if counter == "" {
		return domain.ErrUnknownCounter
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin counter transaction")
	}
	defer tx.Rollback()

	var record string
	err = tx.QueryRowContext(ctx, `SELECT record FROM campaigns WHERE id = ?`, campaignID).Scan(&record)
	if err == sql.ErrNoRows {
		return errors.ErrNotFound
	}
	if err != nil {
		return errors.Wrapf(err, "failed to read campaign %s", campaignID)
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(record), &raw); err != nil {
		return errors.Wrapf(err, "failed to decode campaign %s", campaignID)
	}

	bumpCounter(raw, counter)

	updated, err := json.Marshal(raw)
	if err != nil {
		return errors.Wrapf(err, "failed to encode campaign %s", campaignID)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE campaigns SET record = ? WHERE id = ?`, string(updated), campaignID); err != nil {
		return errors.Wrapf(err, "failed to update campaign %s", campaignID)
	}

	return tx.Commit()
}

// bumpCounter increments counters.<name> inside a raw record, creating the
// counters object when absent.
func bumpCounter(raw map[string]any, counter domain.CounterName) {
	counters, ok := raw["counters"].(map[string]any)
	if !ok {
		counters = make(map[string]any)
		raw["counters"] = counters
	}

	key := string(counter)
	current := int64(0)
	switch t := counters[key].(type) {
	case float64:
		current = int64(t)
	case int:
		current = int64(t)
	case int64:
		current = t
	}
	counters[key] = current + 1
}
