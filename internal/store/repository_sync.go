package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/stfnfhrmnn/vocabsync/internal/logger"
	"github.com/stfnfhrmnn/vocabsync/models"
)

// syncRepository is the PostgreSQL-backed implementation of [SyncRepository].
// Each replicated table shares the same schema (user_id, local_id, data,
// created_at, updated_at, deleted_at), so one repository serves all of them
// through the whitelisted query builders in sql_queries.go.
type syncRepository struct {
	*DB
	logger *logger.Logger
}

// NewSyncRepository constructs a [SyncRepository] backed by the provided
// database connection and logger.
func NewSyncRepository(db *DB, logger *logger.Logger) SyncRepository {
	return &syncRepository{
		DB:     db,
		logger: logger,
	}
}

// Upsert implements [SyncRepository]. Concurrent writers for the same row
// are serialized by the database's row lock during ON CONFLICT; the most
// recent write wins whole-record.
func (s *syncRepository) Upsert(ctx context.Context, userID int64, change models.SyncChange, now time.Time) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpsertQuery(userID, change, now)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.DB.execRetryable(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "syncRepository.Upsert").
			Int64("user_id", userID).
			Str("table", change.Table.String()).
			Str("local_id", change.LocalID).
			Msg("failed to upsert sync record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// SoftDelete implements [SyncRepository].
func (s *syncRepository) SoftDelete(ctx context.Context, userID int64, table models.SyncTable, localID string, now time.Time) error {
	log := logger.FromContext(ctx)

	query, args, err := buildSoftDeleteQuery(userID, table, localID, now)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.DB.execRetryable(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "syncRepository.SoftDelete").
			Int64("user_id", userID).
			Str("table", table.String()).
			Str("local_id", localID).
			Msg("failed to tombstone sync record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// ChangesSince implements [SyncRepository]. Results from every replicated
// table are merged into one slice and sorted ascending by timestamp, so the
// client can apply them in the order they actually happened server-side,
// independent of which table they belong to.
func (s *syncRepository) ChangesSince(ctx context.Context, userID int64, since time.Time) ([]models.SyncChange, error) {
	changes := make([]models.SyncChange, 0, 64)

	for _, table := range models.SyncTables {
		query, args, err := buildChangesSinceQuery(table, userID, since)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		tableChanges, err := s.queryChanges(ctx, table, query, args, false)
		if err != nil {
			return nil, err
		}
		changes = append(changes, tableChanges...)
	}

	sortChangesByTimestamp(changes)

	return changes, nil
}

// Snapshot implements [SyncRepository]. Every live row is emitted as a
// create change for full-sync bootstrap.
func (s *syncRepository) Snapshot(ctx context.Context, userID int64) ([]models.SyncChange, error) {
	changes := make([]models.SyncChange, 0, 64)

	for _, table := range models.SyncTables {
		query, args, err := buildSnapshotQuery(table, userID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		tableChanges, err := s.queryChanges(ctx, table, query, args, true)
		if err != nil {
			return nil, err
		}
		changes = append(changes, tableChanges...)
	}

	sortChangesByTimestamp(changes)

	return changes, nil
}

// queryChanges runs one per-table select and converts the rows into wire
// changes. With snapshot set, every row becomes a create; otherwise the
// operation is derived from the row's lifecycle columns.
func (s *syncRepository) queryChanges(ctx context.Context, table models.SyncTable, query string, args []any, snapshot bool) ([]models.SyncChange, error) {
	log := logger.FromContext(ctx)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "syncRepository.queryChanges").
			Str("table", table.String()).
			Msg("failed to execute changes query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	changes := make([]models.SyncChange, 0, 16)

	for rows.Next() {
		var (
			localID   string
			data      []byte
			createdAt time.Time
			updatedAt time.Time
			deletedAt sql.NullTime
		)
		if scanErr := rows.Scan(&localID, &data, &createdAt, &updatedAt, &deletedAt); scanErr != nil {
			log.Err(scanErr).
				Str("func", "syncRepository.queryChanges").
				Str("table", table.String()).
				Msg("failed to scan sync record row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		changes = append(changes, rowToChange(table, localID, data, createdAt, updatedAt, deletedAt, snapshot))
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "syncRepository.queryChanges").
			Str("table", table.String()).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return changes, nil
}

// rowToChange maps one stored row onto the wire representation.
//
// A tombstoned row always surfaces as a delete with null data: once an
// entity is deleted its fields are not replicated. A live row surfaces as
// create when it has never been modified since insertion, update otherwise;
// the distinction is informational for clients, which upsert either way.
func rowToChange(table models.SyncTable, localID string, data []byte, createdAt, updatedAt time.Time, deletedAt sql.NullTime, snapshot bool) models.SyncChange {
	change := models.SyncChange{
		Table:   table,
		LocalID: localID,
	}

	switch {
	case !snapshot && deletedAt.Valid:
		change.Operation = models.OperationDelete
		change.Timestamp = deletedAt.Time.UnixMilli()

	default:
		if snapshot || createdAt.Equal(updatedAt) {
			change.Operation = models.OperationCreate
		} else {
			change.Operation = models.OperationUpdate
		}
		change.Data = json.RawMessage(data)
		change.Timestamp = updatedAt.UnixMilli()
	}

	return change
}

// sortChangesByTimestamp orders changes ascending by timestamp. The sort is
// stable so that same-millisecond changes keep their per-table emit order.
func sortChangesByTimestamp(changes []models.SyncChange) {
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Timestamp < changes[j].Timestamp
	})
}
