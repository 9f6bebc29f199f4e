package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stfnfhrmnn/vocabsync/internal/logger"
	"github.com/stfnfhrmnn/vocabsync/internal/store"
	"github.com/stfnfhrmnn/vocabsync/internal/utils"
	"github.com/stfnfhrmnn/vocabsync/models"
)

// libraryService writes every mutation to the local store and the change
// queue in the same call, so work is never lost between a mutation and the
// next sync cycle.
type libraryService struct {
	entities store.LocalStore
	queue    store.ChangeQueue
	uuid     *utils.UUIDGenerator
	logger   *logger.Logger

	// now is the client clock in epoch milliseconds, replaceable in tests.
	now func() int64
}

func NewLibraryService(entities store.LocalStore, queue store.ChangeQueue, logger *logger.Logger) LibraryService {
	return &libraryService{
		entities: entities,
		queue:    queue,
		uuid:     utils.NewUUIDGenerator(),
		logger:   logger,
		now:      func() int64 { return time.Now().UnixMilli() },
	}
}

func (l *libraryService) Create(ctx context.Context, table models.SyncTable, payload any) (string, error) {
	localID := l.uuid.Generate()

	data, err := payloadWithLocalID(payload, localID)
	if err != nil {
		return "", err
	}

	if err = l.applyAndEnqueue(ctx, models.SyncChange{
		Table:     table,
		Operation: models.OperationCreate,
		LocalID:   localID,
		Data:      data,
		Timestamp: l.now(),
	}); err != nil {
		return "", err
	}

	return localID, nil
}

func (l *libraryService) Update(ctx context.Context, table models.SyncTable, localID string, payload any) error {
	// updating an unknown or tombstoned entity is a caller bug
	if _, err := l.entities.GetEntity(ctx, table, localID); err != nil {
		return err
	}

	data, err := payloadWithLocalID(payload, localID)
	if err != nil {
		return err
	}

	return l.applyAndEnqueue(ctx, models.SyncChange{
		Table:     table,
		Operation: models.OperationUpdate,
		LocalID:   localID,
		Data:      data,
		Timestamp: l.now(),
	})
}

func (l *libraryService) Delete(ctx context.Context, table models.SyncTable, localID string) error {
	return l.applyAndEnqueue(ctx, models.SyncChange{
		Table:     table,
		Operation: models.OperationDelete,
		LocalID:   localID,
		Timestamp: l.now(),
	})
}

// applyAndEnqueue is the local commit point of every mutation: first the
// entity row, then the queue entry. If the enqueue fails the mutation is
// surfaced as an error even though the row was written; the caller retries
// and the repeat write is idempotent.
func (l *libraryService) applyAndEnqueue(ctx context.Context, change models.SyncChange) error {
	log := logger.FromContext(ctx)

	var err error
	if change.IsDelete() {
		err = l.entities.DeleteEntity(ctx, change.Table, change.LocalID, change.Timestamp)
	} else {
		err = l.entities.UpsertEntity(ctx, change.Table, change.LocalID, change.Data, change.Timestamp)
	}
	if err != nil {
		return fmt.Errorf("failed to write local entity: %w", err)
	}

	if _, err = l.queue.Enqueue(ctx, change); err != nil {
		log.Err(err).
			Str("func", "libraryService.applyAndEnqueue").
			Str("table", string(change.Table)).
			Str("local_id", change.LocalID).
			Msg("failed to enqueue change")
		return fmt.Errorf("failed to enqueue change: %w", err)
	}

	return nil
}

func (l *libraryService) Get(ctx context.Context, table models.SyncTable, localID string) (json.RawMessage, error) {
	return l.entities.GetEntity(ctx, table, localID)
}

func (l *libraryService) List(ctx context.Context, table models.SyncTable) ([]json.RawMessage, error) {
	return l.entities.ListEntities(ctx, table)
}

func (l *libraryService) PendingCount(ctx context.Context) (int, error) {
	return l.queue.PendingCount(ctx)
}

// payloadWithLocalID encodes an entity payload and stamps the service-owned
// localId into it, keeping the payload and the change envelope consistent.
func payloadWithLocalID(payload any, localID string) (json.RawMessage, error) {
	raw, err := models.EncodePayload(payload)
	if err != nil {
		return nil, err
	}

	var obj map[string]any
	if err = json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("entity payload is not a JSON object: %w", err)
	}
	obj["localId"] = localID

	return models.EncodePayload(obj)
}
