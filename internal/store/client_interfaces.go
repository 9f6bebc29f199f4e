package store

import (
	"context"
	"encoding/json"

	"github.com/stfnfhrmnn/vocabsync/models"
)

// ChangeQueue is the client's durable outbox of local mutations. Every
// enqueue is a pure local write and never touches the network; the sync
// cycle drains the queue in global insertion order.
type ChangeQueue interface {
	// Enqueue persists a change as pending and returns its queue id.
	Enqueue(ctx context.Context, change models.SyncChange) (int64, error)

	// PeekBatch claims up to max of the oldest pending or failed entries,
	// marks them in-flight, and increments their attempt counters.
	PeekBatch(ctx context.Context, max int) ([]models.QueueEntry, error)

	// Acknowledge removes entries the server has accepted.
	Acknowledge(ctx context.Context, ids []int64) error

	// Requeue returns claimed entries to pending, keeping their original
	// ids so insertion order is preserved on the next claim.
	Requeue(ctx context.Context, ids []int64) error

	// MarkFailed records a per-change server rejection. The entry stays in
	// the queue with its reason and is retried on a later cycle.
	MarkFailed(ctx context.Context, id int64, reason string) error

	// RecoverInFlight resets entries left in-flight by an interrupted
	// process back to pending. Returns how many were reset.
	RecoverInFlight(ctx context.Context) (int64, error)

	// PendingCount reports how many entries are waiting to be pushed.
	PendingCount(ctx context.Context) (int, error)
}

// LocalStore holds the client's replicated entity rows, one sqlite table per
// replicated table, payloads stored as raw JSON.
type LocalStore interface {
	// UpsertEntity inserts or replaces the whole payload of one row and
	// clears any local tombstone.
	UpsertEntity(ctx context.Context, table models.SyncTable, localID string, data json.RawMessage, timestamp int64) error

	// DeleteEntity tombstones one row. Deleting a row that was never
	// stored still records the tombstone.
	DeleteEntity(ctx context.Context, table models.SyncTable, localID string, timestamp int64) error

	// GetEntity returns the payload of one live row, or ErrRecordNotFound.
	GetEntity(ctx context.Context, table models.SyncTable, localID string) (json.RawMessage, error)

	// ListEntities returns the payloads of every live row in a table.
	ListEntities(ctx context.Context, table models.SyncTable) ([]json.RawMessage, error)

	// ApplyChanges applies a server batch in the given order. Changes for
	// rows whose parents are missing locally are applied anyway; the
	// hierarchy is eventually consistent.
	ApplyChanges(ctx context.Context, changes []models.SyncChange) error

	// ResetAll clears every replicated table. Used before applying a full
	// snapshot on a fresh or recovering device.
	ResetAll(ctx context.Context) error
}

// MetaStore persists the single SyncMeta row across restarts.
type MetaStore interface {
	// Load returns the persisted meta, or a zero value when the device has
	// never synced.
	Load(ctx context.Context) (models.SyncMeta, error)

	// Save replaces the persisted meta.
	Save(ctx context.Context, meta models.SyncMeta) error
}
