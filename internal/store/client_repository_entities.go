package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stfnfhrmnn/vocabsync/internal/logger"
	"github.com/stfnfhrmnn/vocabsync/models"
)

type localStore struct {
	*DB
	logger *logger.Logger
}

// NewLocalStore builds the sqlite-backed replicated entity store.
func NewLocalStore(db *DB, logger *logger.Logger) LocalStore {
	return &localStore{
		DB:     db,
		logger: logger,
	}
}

func (l *localStore) UpsertEntity(ctx context.Context, table models.SyncTable, localID string, data json.RawMessage, timestamp int64) error {
	log := logger.FromContext(ctx)

	query, err := buildLocalUpsertQuery(table)
	if err != nil {
		return err
	}

	if _, err = l.DB.ExecContext(ctx, query, localID, string(data), timestamp); err != nil {
		log.Err(err).
			Str("func", "localStore.UpsertEntity").
			Str("table", string(table)).
			Str("local_id", localID).
			Msg("failed to upsert local entity")
		return fmt.Errorf("failed to upsert local entity (local_id=%s): %w", localID, err)
	}

	return nil
}

func (l *localStore) DeleteEntity(ctx context.Context, table models.SyncTable, localID string, timestamp int64) error {
	log := logger.FromContext(ctx)

	query, err := buildLocalDeleteQuery(table)
	if err != nil {
		return err
	}

	if _, err = l.DB.ExecContext(ctx, query, localID, timestamp); err != nil {
		log.Err(err).
			Str("func", "localStore.DeleteEntity").
			Str("table", string(table)).
			Str("local_id", localID).
			Msg("failed to delete local entity")
		return fmt.Errorf("failed to delete local entity (local_id=%s): %w", localID, err)
	}

	return nil
}

func (l *localStore) GetEntity(ctx context.Context, table models.SyncTable, localID string) (json.RawMessage, error) {
	log := logger.FromContext(ctx)

	query, err := buildLocalGetQuery(table)
	if err != nil {
		return nil, err
	}

	var data string
	if err = l.DB.QueryRowContext(ctx, query, localID).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		log.Err(err).
			Str("func", "localStore.GetEntity").
			Str("table", string(table)).
			Str("local_id", localID).
			Msg("failed to read local entity")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return json.RawMessage(data), nil
}

func (l *localStore) ListEntities(ctx context.Context, table models.SyncTable) ([]json.RawMessage, error) {
	log := logger.FromContext(ctx)

	query, err := buildLocalListQuery(table)
	if err != nil {
		return nil, err
	}

	rows, err := l.DB.QueryContext(ctx, query)
	if err != nil {
		log.Err(err).
			Str("func", "localStore.ListEntities").
			Str("table", string(table)).
			Msg("failed to list local entities")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var items []json.RawMessage
	for rows.Next() {
		var data string
		if err = rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		items = append(items, json.RawMessage(data))
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entity rows: %w", err)
	}

	return items, nil
}

// ApplyChanges replays a server batch against the local tables in order.
// Payloads are stored as-is so the local row always mirrors the server's
// last-write-wins state.
func (l *localStore) ApplyChanges(ctx context.Context, changes []models.SyncChange) error {
	for _, change := range changes {
		var err error
		if change.IsDelete() {
			err = l.DeleteEntity(ctx, change.Table, change.LocalID, change.Timestamp)
		} else {
			err = l.UpsertEntity(ctx, change.Table, change.LocalID, change.Data, change.Timestamp)
		}
		if err != nil {
			return fmt.Errorf("failed to apply change (table=%s, local_id=%s): %w", change.Table, change.LocalID, err)
		}
	}

	return nil
}

func (l *localStore) ResetAll(ctx context.Context) error {
	log := logger.FromContext(ctx)

	tx, err := l.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin reset transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range models.SyncTables {
		query, err := buildLocalPurgeQuery(table)
		if err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, query); err != nil {
			log.Err(err).
				Str("func", "localStore.ResetAll").
				Str("table", string(table)).
				Msg("failed to purge local table")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reset transaction: %w", err)
	}

	return nil
}
