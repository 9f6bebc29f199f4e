package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stfnfhrmnn/vocabsync/internal/logger"
	"github.com/stfnfhrmnn/vocabsync/models"
)

type changeQueue struct {
	*DB
	logger *logger.Logger
}

// NewChangeQueue builds the sqlite-backed durable change queue.
func NewChangeQueue(db *DB, logger *logger.Logger) ChangeQueue {
	return &changeQueue{
		DB:     db,
		logger: logger,
	}
}

func (q *changeQueue) Enqueue(ctx context.Context, change models.SyncChange) (int64, error) {
	log := logger.FromContext(ctx)

	var data any
	if change.Data != nil {
		data = string(change.Data)
	}

	result, err := q.DB.ExecContext(ctx, enqueueChange,
		string(change.Table),
		string(change.Operation),
		change.LocalID,
		data,
		time.Now().UnixMilli(),
	)
	if err != nil {
		log.Err(err).
			Str("func", "changeQueue.Enqueue").
			Str("table", string(change.Table)).
			Str("local_id", change.LocalID).
			Msg("failed to enqueue change")
		return 0, fmt.Errorf("failed to enqueue change (local_id=%s): %w", change.LocalID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read queue id: %w", err)
	}

	return id, nil
}

func (q *changeQueue) PeekBatch(ctx context.Context, max int) ([]models.QueueEntry, error) {
	log := logger.FromContext(ctx)

	tx, err := q.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin claim transaction: %w", err)
	}
	defer tx.Rollback()

	entries, err := q.selectBatch(ctx, tx, max)
	if err != nil {
		log.Err(err).
			Str("func", "changeQueue.PeekBatch").
			Msg("failed to select claimable entries")
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(entries))
	for i := range entries {
		ids = append(ids, entries[i].ID)
	}

	query, args, err := buildClaimQuery(ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "changeQueue.PeekBatch").
			Msg("failed to claim entries")
		return nil, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit claim transaction: %w", err)
	}

	for i := range entries {
		entries[i].Status = models.QueueInFlight
		entries[i].Attempts++
	}

	return entries, nil
}

func (q *changeQueue) selectBatch(ctx context.Context, tx *sql.Tx, max int) ([]models.QueueEntry, error) {
	rows, err := tx.QueryContext(ctx, selectClaimableBatch, max)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var entries []models.QueueEntry
	for rows.Next() {
		var (
			entry models.QueueEntry
			data  sql.NullString
		)
		if err = rows.Scan(
			&entry.ID,
			&entry.Change.Table,
			&entry.Change.Operation,
			&entry.Change.LocalID,
			&data,
			&entry.Status,
			&entry.Attempts,
			&entry.LastError,
			&entry.EnqueuedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		if data.Valid {
			entry.Change.Data = json.RawMessage(data.String)
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating queue rows: %w", err)
	}

	return entries, nil
}

func (q *changeQueue) Acknowledge(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := buildAcknowledgeQuery(ids)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return q.exec(ctx, "changeQueue.Acknowledge", query, args)
}

func (q *changeQueue) Requeue(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := buildRequeueQuery(ids)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return q.exec(ctx, "changeQueue.Requeue", query, args)
}

func (q *changeQueue) MarkFailed(ctx context.Context, id int64, reason string) error {
	return q.exec(ctx, "changeQueue.MarkFailed", markEntryFailed, []any{reason, id})
}

func (q *changeQueue) RecoverInFlight(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := q.DB.ExecContext(ctx, recoverInFlightEntries)
	if err != nil {
		log.Err(err).
			Str("func", "changeQueue.RecoverInFlight").
			Msg("failed to recover in-flight entries")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	recovered, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return recovered, nil
}

func (q *changeQueue) PendingCount(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)

	var count int
	if err := q.DB.QueryRowContext(ctx, countPendingEntries).Scan(&count); err != nil {
		log.Err(err).
			Str("func", "changeQueue.PendingCount").
			Msg("failed to count pending entries")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return count, nil
}

func (q *changeQueue) exec(ctx context.Context, funcName, query string, args []any) error {
	log := logger.FromContext(ctx)

	if _, err := q.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", funcName).
			Msg("failed to execute queue statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
