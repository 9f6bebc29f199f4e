package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stfnfhrmnn/vocabsync/internal/logger"
	"github.com/stfnfhrmnn/vocabsync/models"
)

type metaStore struct {
	*DB
	logger *logger.Logger
}

// NewMetaStore builds the single-row sync meta store.
func NewMetaStore(db *DB, logger *logger.Logger) MetaStore {
	return &metaStore{
		DB:     db,
		logger: logger,
	}
}

func (m *metaStore) Load(ctx context.Context) (models.SyncMeta, error) {
	log := logger.FromContext(ctx)

	var meta models.SyncMeta
	err := m.DB.QueryRowContext(ctx, loadSyncMeta).Scan(
		&meta.IsRegistered,
		&meta.UserID,
		&meta.AuthToken,
		&meta.LastPullTimestamp,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SyncMeta{}, nil
		}
		log.Err(err).
			Str("func", "metaStore.Load").
			Msg("failed to load sync meta")
		return models.SyncMeta{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return meta, nil
}

func (m *metaStore) Save(ctx context.Context, meta models.SyncMeta) error {
	log := logger.FromContext(ctx)

	_, err := m.DB.ExecContext(ctx, saveSyncMeta,
		meta.IsRegistered,
		meta.UserID,
		meta.AuthToken,
		meta.LastPullTimestamp,
	)
	if err != nil {
		log.Err(err).
			Str("func", "metaStore.Save").
			Msg("failed to save sync meta")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
