package service

import (
	"context"
	"fmt"
	"time"

	"github.com/stfnfhrmnn/vocabsync/internal/logger"
	"github.com/stfnfhrmnn/vocabsync/internal/store"
	"github.com/stfnfhrmnn/vocabsync/internal/validators"
	"github.com/stfnfhrmnn/vocabsync/models"
)

// syncService is the concrete implementation of SyncService.
//
// Every applied change is stamped with the server's clock, never the
// client's: client timestamps only break last-write-wins ties on the client
// side, while pull ordering must stay monotonic for every device regardless
// of their clock skew.
type syncService struct {
	syncRepository store.SyncRepository
	validator      validators.Validator
	logger         *logger.Logger

	// now is the server clock source, replaceable in tests.
	now func() time.Time
}

func NewSyncService(syncRepository store.SyncRepository, validator validators.Validator, logger *logger.Logger) SyncService {
	return &syncService{
		syncRepository: syncRepository,
		validator:      validator,
		logger:         logger,
		now:            time.Now,
	}
}

// ApplyPush applies a batch change by change and is idempotent: replaying a
// batch converges on the same rows because writes are keyed by
// (user, table, localId).
func (s *syncService) ApplyPush(ctx context.Context, userID int64, changes []models.SyncChange) (models.PushResponse, error) {
	log := logger.FromContext(ctx)

	if len(changes) == 0 {
		return models.PushResponse{}, validators.ErrEmptyChanges
	}

	var (
		processed int
		pushErrs  []models.PushError
	)

	for _, change := range changes {
		if err := s.applyChange(ctx, userID, change); err != nil {
			log.Warn().
				Str("func", "syncService.ApplyPush").
				Int64("user_id", userID).
				Str("table", string(change.Table)).
				Str("local_id", change.LocalID).
				Err(err).
				Msg("change rejected")
			pushErrs = append(pushErrs, models.PushError{
				Table:   change.Table,
				LocalID: change.LocalID,
				Error:   err.Error(),
			})
			continue
		}
		processed++
	}

	return models.PushResponse{
		Success:   len(pushErrs) == 0,
		Processed: processed,
		Errors:    pushErrs,
	}, nil
}

func (s *syncService) applyChange(ctx context.Context, userID int64, change models.SyncChange) error {
	if err := s.validator.Validate(ctx, change); err != nil {
		return err
	}

	now := s.now().UTC()
	if change.IsDelete() {
		return s.syncRepository.SoftDelete(ctx, userID, change.Table, change.LocalID, now)
	}
	return s.syncRepository.Upsert(ctx, userID, change, now)
}

// ChangesSince answers an incremental pull. The serverTime in the response
// is read before querying so a change committed while the response is built
// is never lost between two pulls.
func (s *syncService) ChangesSince(ctx context.Context, userID int64, since int64) (models.PullResponse, error) {
	log := logger.FromContext(ctx)

	serverTime := s.now().UTC()
	changes, err := s.syncRepository.ChangesSince(ctx, userID, time.UnixMilli(since).UTC())
	if err != nil {
		log.Err(err).
			Str("func", "syncService.ChangesSince").
			Int64("user_id", userID).
			Int64("since", since).
			Msg("failed to collect changes")
		return models.PullResponse{}, fmt.Errorf("failed to collect changes: %w", err)
	}

	return models.PullResponse{
		Success:    true,
		Changes:    changes,
		ServerTime: serverTime.UnixMilli(),
	}, nil
}

// Snapshot answers a full-sync request with every live row as a create.
func (s *syncService) Snapshot(ctx context.Context, userID int64) (models.PullResponse, error) {
	log := logger.FromContext(ctx)

	serverTime := s.now().UTC()
	changes, err := s.syncRepository.Snapshot(ctx, userID)
	if err != nil {
		log.Err(err).
			Str("func", "syncService.Snapshot").
			Int64("user_id", userID).
			Msg("failed to build snapshot")
		return models.PullResponse{}, fmt.Errorf("failed to build snapshot: %w", err)
	}

	return models.PullResponse{
		Success:    true,
		Changes:    changes,
		ServerTime: serverTime.UnixMilli(),
	}, nil
}
